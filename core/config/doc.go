// Package config provides type-safe environment variable loading with
// per-type caching using Go generics.
//
// A .env file in the working directory is loaded automatically on first
// use; parsing is handled by the caarlos0/env library.
//
// Basic usage:
//
//	type AppConfig struct {
//	    Name         string `env:"APP_NAME" envDefault:"relay-app"`
//	    WebhookURL   string `env:"WEBHOOK_URL"`
//	    MaxListeners int    `env:"MAX_LISTENERS" envDefault:"10"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or panic on failure during startup wiring:
//	config.MustLoad(&cfg)
//
// Each configuration type is loaded from the environment once per process;
// subsequent Load calls for the same type return the cached value.
package config
