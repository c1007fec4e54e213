// Package config provides type-safe environment variable loading with
// per-type caching using Go generics.
//
// The package loads .env files on first use and parses environment
// variables into struct fields via the caarlos0/env library:
//
//	type RedisConfig struct {
//		URL     string        `env:"REDIS_URL,required"`
//		Timeout time.Duration `env:"REDIS_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure during startup
//	config.MustLoad(&cfg)
//
// Each configuration type is loaded once per application lifetime; later
// Load calls for the same type return the cached value. Different types are
// cached independently.
package config
