package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophwallet/internal/flagx"
	"github.com/dmitrijs2005/gophwallet/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Durations accept both "1s" strings and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr          string         `json:"http_addr"`
	GRPCAddr          string         `json:"grpc_addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	SecretKey         string         `json:"secret_key"`
	OperationTokenTTL timex.Duration `json:"operation_token_ttl"`
	SessionTokenTTL   timex.Duration `json:"session_token_ttl"`
	TOTPIssuer        string         `json:"totp_issuer"`
	SignupAward       *int64         `json:"signup_award"`
	RedisAddr         string         `json:"redis_addr"`
	RedisPassword     string         `json:"redis_password"`
	RedisDB           int            `json:"redis_db"`
	MaxCodeAttempts   *int           `json:"max_code_attempts"`
	AttemptWindow     timex.Duration `json:"attempt_window"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	LogLevel          string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config into cfg. Absent fields keep
// their current value. If the file cannot be read or contains invalid JSON,
// the function panics.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var c JsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		panic(err)
	}

	setString(&cfg.HTTPAddr, c.HTTPAddr)
	setString(&cfg.GRPCAddr, c.GRPCAddr)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SecretKey, c.SecretKey)
	setString(&cfg.TOTPIssuer, c.TOTPIssuer)
	setString(&cfg.RedisAddr, c.RedisAddr)
	setString(&cfg.RedisPassword, c.RedisPassword)
	setString(&cfg.S3RootUser, c.S3RootUser)
	setString(&cfg.S3RootPassword, c.S3RootPassword)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&cfg.LogLevel, c.LogLevel)

	if c.OperationTokenTTL.Duration > 0 {
		cfg.OperationTokenTTL = c.OperationTokenTTL.Duration
	}
	if c.SessionTokenTTL.Duration > 0 {
		cfg.SessionTokenTTL = c.SessionTokenTTL.Duration
	}
	if c.AttemptWindow.Duration > 0 {
		cfg.AttemptWindow = c.AttemptWindow.Duration
	}
	if c.RedisDB != 0 {
		cfg.RedisDB = c.RedisDB
	}
	// zero is meaningful for both
	if c.SignupAward != nil {
		cfg.SignupAward = *c.SignupAward
	}
	if c.MaxCodeAttempts != nil {
		cfg.MaxCodeAttempts = *c.MaxCodeAttempts
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
