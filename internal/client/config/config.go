package config

import (
	"fmt"
	"os"
	"time"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the wallet CLI.
//
// Fields:
//   - ServerURL: base URL of the ledger REST API.
//   - Transport: "http" or "grpc".
//   - GRPCEndpointAddr: host:port of the ledger gRPC endpoint.
//   - SessionDBPath: SQLite file holding the session record.
//   - SessionKeyFile: device key sealing the session record; empty stores it unsealed.
//   - RequestTimeout: upper bound for a single ledger call.
//   - OnlineCheckInterval: how often the CLI checks ledger reachability.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL        string        `env:"SERVER_URL"`
	Transport        string        `env:"TRANSPORT"`
	GRPCEndpointAddr string        `env:"GRPC_ADDR"`
	SessionDBPath    string        `env:"SESSION_DB"`
	SessionKeyFile   string        `env:"SESSION_KEY_FILE"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"`
	// zero disables the watcher
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Transport = TransportHTTP
	c.GRPCEndpointAddr = "127.0.0.1:50051"
	c.SessionDBPath = "gophwallet.db"
	c.SessionKeyFile = "gophwallet.key"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 15 * time.Second
	c.LogLevel = "warn"
}

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportHTTP:
		if c.ServerURL == "" {
			return fmt.Errorf("server url is required for %s transport", c.Transport)
		}
	case TransportGRPC:
		if c.GRPCEndpointAddr == "" {
			return fmt.Errorf("grpc address is required for %s transport", c.Transport)
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.SessionDBPath == "" {
		return fmt.Errorf("session db path is required")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones. It panics on malformed input.
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
