package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	DBMaxConns        int
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
	StorageDir        string
	MediaMaxBytes     int64
	MetricsEnabled    bool
}

// fileConfig is the shape of the optional TOML file pointed to by CONFIG_FILE.
// Secrets are deliberately absent: DB_DSN and JWT_SECRET only come from the environment.
type fileConfig struct {
	AppEnv      string `toml:"app_env"`
	ProdOrigins string `toml:"prod_origins"`
	HTTP        struct {
		Addr string `toml:"addr"`
	} `toml:"http"`
	Database struct {
		MaxConns int `toml:"max_conns"`
	} `toml:"database"`
	Auth struct {
		AccessTokenTTL string `toml:"access_token_ttl"`
		BcryptCost     int    `toml:"bcrypt_cost"`
	} `toml:"auth"`
	Media struct {
		StorageDir string `toml:"storage_dir"`
		MaxBytes   int64  `toml:"max_bytes"`
	} `toml:"media"`
	Metrics struct {
		Enabled *bool `toml:"enabled"`
	} `toml:"metrics"`
}

// Load loads configuration from .env (optional), the TOML file named by
// CONFIG_FILE (optional) and environment variables, in increasing priority.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("invalid CONFIG_FILE %s: %w", path, err)
		}
	}

	return fromSources(fc)
}

func fromSources(fc fileConfig) (*Config, error) {
	cfg := &Config{}
	var err error

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", fc.ProdOrigins)

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", orDefault(fc.AppEnv, "dev"))
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", orDefault(fc.HTTP.Addr, ":8080"))

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// Pool size, 0 keeps the pgxpool default
	cfg.DBMaxConns, err = getEnvAsInt("DB_MAX_CONNS", fc.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", orDefault(fc.Auth.AccessTokenTTL, "15m"))
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for password hashing (default: 12)
	defaultCost := 12
	if fc.Auth.BcryptCost > 0 {
		defaultCost = fc.Auth.BcryptCost
	}
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", defaultCost)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Boat media
	cfg.StorageDir = getEnv("STORAGE_DIR", orDefault(fc.Media.StorageDir, "./data"))
	defaultMax := int64(10 << 20)
	if fc.Media.MaxBytes > 0 {
		defaultMax = fc.Media.MaxBytes
	}
	maxBytes, err := getEnvAsInt("MEDIA_MAX_BYTES", int(defaultMax))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_MAX_BYTES: %w", err)
	}
	cfg.MediaMaxBytes = int64(maxBytes)

	// Prometheus endpoint (default: enabled)
	metricsDefault := true
	if fc.Metrics.Enabled != nil {
		metricsDefault = *fc.Metrics.Enabled
	}
	cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", metricsDefault)
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}
	return val, nil
}
