package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del bot.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	API       APIConfig       `yaml:"api"`
	Oracle    OracleConfig    `yaml:"oracle"`
	Execution ExecutionConfig `yaml:"execution"`
	Storage   StorageConfig   `yaml:"storage"`
	UI        UIConfig        `yaml:"ui"`
	Log       LogConfig       `yaml:"log"`
}

// EngineConfig controla el pipeline de decisión.
type EngineConfig struct {
	IntervalSeconds int     `yaml:"interval_seconds"` // cadencia de polling
	MaxPositionUSD  float64 `yaml:"max_position_usd"`
	EdgeThreshold   float64 `yaml:"edge_threshold"`
	MarketSlug      string  `yaml:"market_slug"` // override explícito, "" = autodescubrir
	MarketID        string  `yaml:"market_id"`
	SlugPrefix      string  `yaml:"slug_prefix"`     // convención de naming de la ventana
	BucketSeconds   int64   `yaml:"bucket_seconds"`  // duración de la ventana (5m)
	RefreshSeconds  int     `yaml:"refresh_seconds"` // TTL de la cache del resolver
	TradeTapeLimit  int     `yaml:"trade_tape_limit"`
}

// APIConfig contiene los base URLs de las APIs de Polymarket.
type APIConfig struct {
	GammaBase string `yaml:"gamma_base"`
	DataBase  string `yaml:"data_base"`
	CLOBBase  string `yaml:"clob_base"`
}

// OracleConfig configura el scorer externo de bias. Sin APIKey el oracle
// queda deshabilitado y el bias es siempre 0.
type OracleConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"-"` // solo por env, nunca en YAML
}

// ExecutionConfig controla la ejecución real de órdenes.
type ExecutionConfig struct {
	Enabled    bool   `yaml:"enabled"`
	PrivateKey string `yaml:"-"` // solo por env (PRIVATE_KEY)
}

// StorageConfig controla dónde se persiste el journal de ciclos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// UIConfig controla el endpoint read-only de estado.
type UIConfig struct {
	Addr string `yaml:"addr"` // "" = deshabilitado
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del entorno sobreescriben los del YAML para las keys que correspondan.
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

// PollInterval devuelve la cadencia del pipeline como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Engine.IntervalSeconds) * time.Second
}

// RefreshInterval devuelve el TTL de la cache del resolver.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Engine.RefreshSeconds) * time.Second
}

// LiveExecution devuelve true si la ejecución real está habilitada Y las
// credenciales están completas. Credenciales incompletas solo deshabilitan
// el gateway; el resto del pipeline sigue en paper mode.
func (c *Config) LiveExecution() bool {
	return c.Execution.Enabled && c.Execution.PrivateKey != ""
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POLYMARKET_MARKET_SLUG"); v != "" {
		cfg.Engine.MarketSlug = v
	}
	if v := os.Getenv("POLYMARKET_MARKET_ID"); v != "" {
		cfg.Engine.MarketID = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Oracle.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Oracle.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Oracle.Model = v
	}
	if v := os.Getenv("PRIVATE_KEY"); v != "" {
		cfg.Execution.PrivateKey = v
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
	if cfg.Engine.IntervalSeconds <= 0 {
		cfg.Engine.IntervalSeconds = 15
	}
	if cfg.Engine.MaxPositionUSD <= 0 {
		cfg.Engine.MaxPositionUSD = 100
	}
	if cfg.Engine.EdgeThreshold <= 0 {
		cfg.Engine.EdgeThreshold = 0.03
	}
	if cfg.Engine.SlugPrefix == "" {
		cfg.Engine.SlugPrefix = "btc-updown-5m"
	}
	if cfg.Engine.BucketSeconds <= 0 {
		cfg.Engine.BucketSeconds = 300
	}
	if cfg.Engine.RefreshSeconds <= 0 {
		cfg.Engine.RefreshSeconds = 30
	}
	if cfg.Engine.TradeTapeLimit <= 0 {
		cfg.Engine.TradeTapeLimit = 400
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.Oracle.BaseURL == "" {
		cfg.Oracle.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Oracle.Model == "" {
		cfg.Oracle.Model = "gpt-4o-mini"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "polyedge.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
