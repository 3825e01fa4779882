package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/dmitrijs2005/gophwallet/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "LEDGER_"

// parseEnv overlays cfg with LEDGER_* variables, loading -env-file or ./.env first.
func parseEnv(cfg *Config, args []string) {
	if path := flagx.EnvFile(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
