package app

import (
	"github.com/hoclieu/edugraph-api/internal/platform/envutil"
)

type Config struct {
	Port        string
	LogMode     string
	Environment string
	Version     string
}

func LoadConfig() Config {
	return Config{
		Port:        envutil.Str("PORT", "8080"),
		LogMode:     envutil.Str("LOG_MODE", "development"),
		Environment: envutil.Str("APP_ENV", "development"),
		Version:     envutil.Str("APP_VERSION", "dev"),
	}
}
