package config

import (
	"flag"

	"github.com/dmitrijs2005/gophwallet/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string     ledger REST base URL
//	-t string     transport: http or grpc
//	-g string     ledger gRPC address
//	-d string     session database file
//	-k string     session key file ("" stores the session unsealed)
//	-r duration   per-request timeout
//	-i duration   online check interval (0 disables)
//	-l string     log level
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-g", "-d", "-k", "-r", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "ledger REST base URL")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport (http|grpc)")
	fs.StringVar(&cfg.GRPCEndpointAddr, "g", cfg.GRPCEndpointAddr, "ledger gRPC address")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database file")
	fs.StringVar(&cfg.SessionKeyFile, "k", cfg.SessionKeyFile, "session key file")
	fs.DurationVar(&cfg.RequestTimeout, "r", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online check interval")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
