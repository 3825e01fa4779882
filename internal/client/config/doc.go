// Package config loads runtime configuration for the wallet CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with GOPHWALLET_, optionally seeded
//     from a dotenv file (-env-file, or ./.env).
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "transport": "grpc",
//	  "grpc_endpoint_addr": "127.0.0.1:50051",
//	  "session_db_path": "gophwallet.db",
//	  "session_key_file": "gophwallet.key",
//	  "request_timeout": "10s",
//	  "online_check_interval": "15s",
//	  "log_level": "info"
//	}
package config
