package alpaca

import (
	"testing"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/ironcondor/internal/domain"
)

func TestTimeFrame(t *testing.T) {
	tf, err := timeFrame(domain.IntervalDaily)
	require.NoError(t, err)
	assert.Equal(t, marketdata.OneDay, tf)

	tf, err = timeFrame(domain.IntervalWeekly)
	require.NoError(t, err)
	assert.Equal(t, marketdata.Week, tf.Unit)

	tf, err = timeFrame(domain.IntervalMonthly)
	require.NoError(t, err)
	assert.Equal(t, marketdata.Month, tf.Unit)

	_, err = timeFrame(domain.Interval("HOURLY"))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
