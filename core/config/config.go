package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	mu    sync.Mutex
	cache = map[reflect.Type]any{}
)

// Load fills cfg from the environment. The first call for a type parses the environment
// and caches the result; later calls for the same type copy the cached value.
// A .env file in the working directory is loaded once, without overriding variables that
// are already set.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	loaded := *cfg
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParse, key, err)
	}
	cache[key] = loaded
	*cfg = loaded
	return nil
}

// MustLoad is like Load but panics on failure. Intended for application startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops every cached configuration so the next Load parses the environment again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	clear(cache)
}
