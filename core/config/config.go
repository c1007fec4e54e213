package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilConfig is returned when Load receives a nil destination.
var ErrNilConfig = errors.New("config: nil destination")

var (
	cache          sync.Map // reflect.Type -> parsed value
	loadDotenvOnce sync.Once
)

// Load parses environment variables into cfg. Each concrete type is parsed
// once per process; later calls for the same type receive the cached value,
// so components can load their own config independently without re-reading
// the environment. A .env file, when present, is loaded before the first
// parse.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	loadDotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	actual, _ := cache.LoadOrStore(key, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is Load for application startup: it panics on failure so
// misconfiguration stops the process before it serves traffic.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
