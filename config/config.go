package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath es la variable de entorno que apunta al archivo de configuración.
const EnvConfigPath = "IRONCONDOR_CONFIG"

// DefaultWatchlist es la lista de símbolos por defecto del modo watch.
var DefaultWatchlist = []string{"AAPL", "NFLX", "MSFT", "MRK", "DIS", "PEP", "V", "UNH", "LLY", "WMT", "CAT", "JNJ", "CSCO"}

// Config es la configuración completa de ironcondor.
type Config struct {
	History HistoryConfig `yaml:"history"`
	Price   PriceConfig   `yaml:"price"`
	Alpaca  AlpacaConfig  `yaml:"alpaca"`
	Storage StorageConfig `yaml:"storage"`
	Archive ArchiveConfig `yaml:"archive"`
	Engine  EngineConfig  `yaml:"engine"`
	Watch   WatchConfig   `yaml:"watch"`
	Log     LogConfig     `yaml:"log"`
}

// HistoryConfig elige el proveedor de series históricas.
type HistoryConfig struct {
	Source            string `yaml:"source"` // alphavantage | alpaca | archive
	BaseURL           string `yaml:"base_url"`
	APIKey            string `yaml:"api_key"`
	RequestsPerMinute int    `yaml:"requests_per_minute"` // free tier: 5
}

// PriceConfig elige el proveedor del último precio.
type PriceConfig struct {
	Source  string `yaml:"source"` // yahoo | alpaca
	BaseURL string `yaml:"base_url"`
}

// AlpacaConfig contiene las credenciales de Alpaca market data.
type AlpacaConfig struct {
	APIKey       string `yaml:"api_key"`
	APISecret    string `yaml:"api_secret"`
	DataURL      string `yaml:"data_url"`
	HistoryStart string `yaml:"history_start"` // YYYY-MM-DD
}

// StorageConfig controla dónde se persisten los documentos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// ArchiveConfig controla el archivo Parquet de series crudas.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// EngineConfig controla el orquestador.
type EngineConfig struct {
	Timezone   string `yaml:"timezone"` // zona horaria que define "hoy"
	Workers    int    `yaml:"workers"`
	Confidence string `yaml:"confidence"` // default para -confidence, p.ej. "70%"
	Strategy   string `yaml:"strategy"`   // equal | independent
	Interval   string `yaml:"interval"`   // monthly | weekly | daily
}

// WatchConfig controla el modo watch.
type WatchConfig struct {
	Cron    string   `yaml:"cron"` // con segundos: "0 30 17 * * 1-5"
	Symbols []string `yaml:"symbols"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default devuelve la configuración sin archivo: solo .env, variables de entorno y defaults.
func Default() *Config {
	_ = godotenv.Load()

	var cfg Config
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg
}

// Locate busca el archivo de configuración en este orden:
// path explícito, $IRONCONDOR_CONFIG, ./config/config.yaml, ./config.yaml,
// ~/.config/ironcondor/config.yaml. Devuelve os.ErrNotExist si no hay ninguno.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v, nil
	}

	candidates := []string{
		filepath.Join("config", "config.yaml"),
		"config.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "ironcondor", "config.yaml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("config.Locate: %w: tried %s", os.ErrNotExist, strings.Join(candidates, ", "))
}

// LoadOrDefault localiza y carga la configuración; si no existe ningún archivo
// usa Default().
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Locate(explicit)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Location devuelve la zona horaria del engine (UTC si no se puede cargar).
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AlpacaHistoryStart devuelve la fecha desde la que se piden barras a Alpaca.
func (c *Config) AlpacaHistoryStart() time.Time {
	t, err := time.Parse("2006-01-02", c.Alpaca.HistoryStart)
	if err != nil {
		return time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.History.APIKey = v
	}
	if v := os.Getenv("HISTORY_SOURCE"); v != "" {
		cfg.History.Source = v
	}
	if v := os.Getenv("PRICE_SOURCE"); v != "" {
		cfg.Price.Source = v
	}
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("APCA_API_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.History.Source == "" {
		cfg.History.Source = "alphavantage"
	}
	if cfg.History.BaseURL == "" {
		cfg.History.BaseURL = "https://www.alphavantage.co"
	}
	if cfg.History.RequestsPerMinute <= 0 {
		cfg.History.RequestsPerMinute = 5
	}
	if cfg.Price.Source == "" {
		cfg.Price.Source = "yahoo"
	}
	if cfg.Alpaca.HistoryStart == "" {
		cfg.Alpaca.HistoryStart = "2016-01-01"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "ironcondor.db"
	}
	if cfg.Archive.Dir == "" {
		cfg.Archive.Dir = "data/archive"
	}
	if cfg.Engine.Timezone == "" {
		cfg.Engine.Timezone = "America/New_York"
	}
	if cfg.Engine.Workers <= 0 {
		cfg.Engine.Workers = 4
	}
	if cfg.Engine.Confidence == "" {
		cfg.Engine.Confidence = "70%"
	}
	if cfg.Engine.Strategy == "" {
		cfg.Engine.Strategy = "independent"
	}
	if cfg.Engine.Interval == "" {
		cfg.Engine.Interval = "monthly"
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 30 17 * * 1-5" // 17:30 después del cierre, lunes a viernes
	}
	if len(cfg.Watch.Symbols) == 0 {
		cfg.Watch.Symbols = append([]string(nil), DefaultWatchlist...)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
