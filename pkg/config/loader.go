package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	cache     sync.Map // reflect.Type -> *entry
	dotenvRun sync.Once
)

// Load populates v from environment variables using `env` struct tags.
// A .env file in the working directory is read once before the first parse.
// Each config type is parsed once per process; later calls get a copy of the
// cached value, including a cached failure.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvRun.Do(func() {
		// A missing .env file is normal outside local development.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	raw, _ := cache.LoadOrStore(key, &entry{})
	e := raw.(*entry)
	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		e.value = parsed
	})
	if e.err != nil {
		return e.err
	}

	cached, ok := e.value.(T)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
