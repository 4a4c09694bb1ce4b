package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	AuthIssuer     string        `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string        `mapstructure:"AUTH_AUDIENCE"`
	AuthJWTSecret  string        `mapstructure:"AUTH_JWT_SECRET"`
	PythonBin      string        `mapstructure:"PYTHON_BIN"`
	ScriptsDir     string        `mapstructure:"SCRIPTS_DIR"`
	PyexecTimeout  time.Duration `mapstructure:"PYEXEC_TIMEOUT"`
	ChunkSize      int           `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap   int           `mapstructure:"CHUNK_OVERLAP"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit      string        `mapstructure:"BODY_LIMIT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("PYTHON_BIN", "python3")
	v.SetDefault("SCRIPTS_DIR", "./backend/scripts")
	v.SetDefault("PYEXEC_TIMEOUT", "120s")
	v.SetDefault("CHUNK_SIZE", 1000)
	v.SetDefault("CHUNK_OVERLAP", 200)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("BODY_LIMIT", "25M")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_JWT_SECRET")
	v.BindEnv("PYTHON_BIN")
	v.BindEnv("SCRIPTS_DIR")
	v.BindEnv("PYEXEC_TIMEOUT")
	v.BindEnv("CHUNK_SIZE")
	v.BindEnv("CHUNK_OVERLAP")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("BODY_LIMIT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active - all requests get full access.")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. In non-development
// modes either AUTH_ISSUER (JWKS validation) or AUTH_JWT_SECRET (HMAC) must
// be set so that real JWT authentication is enforced. The chunking knobs are
// validated here rather than at upload time because they are fixed per
// deployment.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" && c.AuthJWTSecret == "" {
		return fmt.Errorf(
			"AUTH_ISSUER or AUTH_JWT_SECRET must be set when ENV=%q. "+
				"Refusing to start without authentication configuration", c.Env)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	if c.PyexecTimeout <= 0 {
		return fmt.Errorf("PYEXEC_TIMEOUT must be positive, got %s", c.PyexecTimeout)
	}
	if c.PythonBin == "" {
		return fmt.Errorf("PYTHON_BIN is required")
	}
	if c.ScriptsDir == "" {
		return fmt.Errorf("SCRIPTS_DIR is required")
	}

	return nil
}
