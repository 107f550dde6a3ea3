package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Training TrainingConfig `yaml:"training"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	RetryAttempts   int           `yaml:"retry_attempts"     env:"DATABASE_RETRY_ATTEMPTS"     env-default:"3"`
	RetryBaseWait   time.Duration `yaml:"retry_base_wait"    env:"DATABASE_RETRY_BASE_WAIT"    env-default:"200ms"`
}

// OracleConfig holds settings for the text-generation oracle.
// GenerationModel handles sentence generation and translation; the
// AnalysisModel handles proofreading and answer analysis.
type OracleConfig struct {
	APIKey          string        `yaml:"api_key"          env:"ORACLE_API_KEY"          env-required:"true"`
	BaseURL         string        `yaml:"base_url"         env:"ORACLE_BASE_URL"`
	GenerationModel string        `yaml:"generation_model" env:"ORACLE_GENERATION_MODEL" env-default:"gpt-4o-mini"`
	AnalysisModel   string        `yaml:"analysis_model"   env:"ORACLE_ANALYSIS_MODEL"   env-default:"gpt-4o"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"ORACLE_REQUEST_TIMEOUT"  env-default:"15s"`
	MaxAttempts     int           `yaml:"max_attempts"     env:"ORACLE_MAX_ATTEMPTS"     env-default:"2"`
	InitialWait     time.Duration `yaml:"initial_wait"     env:"ORACLE_INITIAL_WAIT"     env-default:"500ms"`
}

// TrainingConfig holds training session policy settings.
type TrainingConfig struct {
	SessionLimitsRaw string `yaml:"session_limits"   env:"TRAINING_SESSION_LIMITS" env-default:"1,3,5,10,20"`
	MaxImportWords   int    `yaml:"max_import_words" env:"TRAINING_MAX_IMPORT"     env-default:"3000"`

	// SessionLimits is parsed from SessionLimitsRaw during validation.
	SessionLimits []int `yaml:"-" env:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-User-ID"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
