package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	minSecretLength = 32
)

type Config struct {
	ServerPort              string        `env:"SERVER_PORT" env-default:"8080"`
	ServerReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" env-default:"10s"`
	ServerWriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ServerIdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
	RequestTimeout          time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"pretty"`

	CORSOrigins []string `env:"CORS_ORIGINS" env-default:"*" env-separator:","`

	StoreDriver string `env:"STORE_DRIVER" env-default:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" env-default:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" env-default:"2"`

	JWT JWTSetting

	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH" env-default:"5"`
	BcryptCost        int `env:"BCRYPT_COST" env-default:"12"`

	SeedRoles     []string `env:"SEED_ROLES" env-default:"Admin,User" env-separator:","`
	AdminEmail    string   `env:"ADMIN_EMAIL"`
	AdminPassword string   `env:"ADMIN_PASSWORD"`
	AdminFullName string   `env:"ADMIN_FULL_NAME" env-default:"Administrator"`
}

// JWTSetting holds everything the token issuer and the auth middleware share.
type JWTSetting struct {
	SecretKey     string        `env:"JWT_SECRET_KEY"`
	ValidIssuer   string        `env:"JWT_VALID_ISSUER"`
	ValidAudience string        `env:"JWT_VALID_AUDIENCE"`
	ClockSkew     time.Duration `env:"JWT_CLOCK_SKEW" env-default:"5m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.JWT.SecretKey = strings.TrimSpace(c.JWT.SecretKey)
	c.JWT.ValidIssuer = strings.TrimSpace(c.JWT.ValidIssuer)
	c.JWT.ValidAudience = strings.TrimSpace(c.JWT.ValidAudience)
	c.CORSOrigins = trimAll(c.CORSOrigins)
	c.SeedRoles = trimAll(c.SeedRoles)
	c.AdminEmail = strings.TrimSpace(c.AdminEmail)
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	if len(c.JWT.SecretKey) < minSecretLength {
		return fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", minSecretLength)
	}

	if c.JWT.ValidIssuer == "" {
		return fmt.Errorf("JWT_VALID_ISSUER is required")
	}

	if c.JWT.ValidAudience == "" {
		return fmt.Errorf("JWT_VALID_AUDIENCE is required")
	}

	if c.JWT.ClockSkew < 0 {
		return fmt.Errorf("JWT_CLOCK_SKEW cannot be negative")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are out of range")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}

	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	if c.PasswordMinLength <= 0 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be positive")
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
