package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophwallet/internal/flagx"
	"github.com/dmitrijs2005/gophwallet/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be strings like "10s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL        string         `json:"server_url"`
	Transport        string         `json:"transport"`
	GRPCEndpointAddr string         `json:"grpc_endpoint_addr"`
	SessionDBPath    string         `json:"session_db_path"`
	SessionKeyFile   *string        `json:"session_key_file"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	OnlineCheck      timex.Duration `json:"online_check_interval"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. Fields absent
// from the file keep their current value. Read or decode errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.Transport, jc.Transport)
	setString(&cfg.GRPCEndpointAddr, jc.GRPCEndpointAddr)
	setString(&cfg.SessionDBPath, jc.SessionDBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	// an explicit "" disables sealing
	if jc.SessionKeyFile != nil {
		cfg.SessionKeyFile = *jc.SessionKeyFile
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheck.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheck.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
