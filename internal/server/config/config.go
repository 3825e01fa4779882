// Package config handles configuration for the ledger service,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings for the ledger service.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses for the REST and gRPC endpoints.
//     An empty address disables that transport.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps all state in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - OperationTokenTTL / SessionTokenTTL: token lifetimes.
//   - TOTPIssuer: issuer shown by authenticator apps.
//   - SignupAward: balance credited to every new account.
//   - RedisAddr / RedisPassword / RedisDB: single-use token ledger and attempt
//     limiter. Empty address keeps both in memory.
//   - MaxCodeAttempts / AttemptWindow: second-factor checks allowed per alias per window.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint:
//     receipt archive. Empty bucket disables archiving.
type Config struct {
	HTTPAddr          string        `env:"HTTP_ADDR"`
	GRPCAddr          string        `env:"GRPC_ADDR"`
	DatabaseDSN       string        `env:"DATABASE_DSN"`
	SecretKey         string        `env:"SECRET_KEY"`
	OperationTokenTTL time.Duration `env:"OPERATION_TOKEN_TTL"`
	SessionTokenTTL   time.Duration `env:"SESSION_TOKEN_TTL"`
	TOTPIssuer        string        `env:"TOTP_ISSUER"`
	SignupAward       int64         `env:"SIGNUP_AWARD"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB"`
	MaxCodeAttempts   int           `env:"MAX_CODE_ATTEMPTS"`
	AttemptWindow     time.Duration `env:"ATTEMPT_WINDOW"`
	S3RootUser        string        `env:"S3_ROOT_USER"`
	S3RootPassword    string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket          string        `env:"S3_BUCKET"`
	S3Region          string        `env:"S3_REGION"`
	S3BaseEndpoint    string        `env:"S3_BASE_ENDPOINT"`
	LogLevel          string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.SecretKey = "secretKey"
	c.OperationTokenTTL = 5 * time.Minute
	c.SessionTokenTTL = 30 * time.Minute
	c.TOTPIssuer = "GophWallet"
	c.SignupAward = 1000
	c.MaxCodeAttempts = 5
	c.AttemptWindow = 5 * time.Minute
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		return errors.New("at least one of http or grpc address is required")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is required")
	}
	if c.OperationTokenTTL <= 0 || c.SessionTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.SignupAward < 0 {
		return errors.New("signup award must not be negative")
	}
	if c.MaxCodeAttempts > 0 && c.AttemptWindow <= 0 {
		return errors.New("attempt window must be positive when attempts are limited")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
// It panics on malformed input.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, args)
	parseFlags(cfg, args)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
