package domain

// PredictRequest son los parámetros de una predicción.
type PredictRequest struct {
	Symbol     string
	Interval   Interval
	Confidence ConfidenceLevel
	Strategy   Strategy
}

// Prediction es el resultado de una predicción de strangle.
type Prediction struct {
	Symbol           string          `json:"symbol"`
	Interval         Interval        `json:"interval"`
	Strategy         Strategy        `json:"strategy"`
	LastUpdatedDate  string          `json:"last_updated_date"`
	LastUpdatedPrice float64         `json:"last_updated_price"`
	PredictedPut     float64         `json:"predicted_put"`
	PredictedCall    float64         `json:"predicted_call"`
	CallWidthPct     float64         `json:"call_width_pct"`
	PutWidthPct      float64         `json:"put_width_pct"`
	ConfidenceLevel  ConfidenceLevel `json:"confidence_level"`
	BuildID          string          `json:"build_id"` // documento usado para la proyección
}

// BatchResult es un ítem de PredictMany: la predicción o el error de ese ítem.
type BatchResult struct {
	Request    PredictRequest
	Prediction Prediction
	Err        error
}
