package config

import (
	"flag"

	"github.com/dmitrijs2005/gophwallet/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     REST bind address (e.g., ":8080")
//	-g string     gRPC bind address (e.g., ":50051")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-o duration   operation token validity
//	-x duration   session token validity
//	-w int        signup award
//	-m int        second-factor attempts per window (0 disables the limit)
//	-R string     Redis address
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-n string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string     log level
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{
		"-a", "-g", "-d", "-s", "-o", "-x", "-w", "-m", "-R", "-u", "-p", "-b", "-n", "-e", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "REST bind address")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.DurationVar(&cfg.OperationTokenTTL, "o", cfg.OperationTokenTTL, "operation token validity")
	fs.DurationVar(&cfg.SessionTokenTTL, "x", cfg.SessionTokenTTL, "session token validity")
	fs.Int64Var(&cfg.SignupAward, "w", cfg.SignupAward, "signup award")
	fs.IntVar(&cfg.MaxCodeAttempts, "m", cfg.MaxCodeAttempts, "second-factor attempts per window")
	fs.StringVar(&cfg.RedisAddr, "R", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "n", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
