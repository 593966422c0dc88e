// Package env loads configuration structs from environment variables.
//
// Fields are bound with caarlos0/env tags:
//
//	type Config struct {
//		Host     string        `env:"HOST" envDefault:"0.0.0.0"`
//		Port     string        `env:"PORT" envDefault:"8000"`
//		Token    string        `env:"TOKEN,required"`
//		Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
//		Notation msgfmt.Notation `env:"NOTATION"` // encoding.TextUnmarshaler
//	}
package env

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ReadEnv fills target from the process environment.
func ReadEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ReadEnvWithPrefix fills target from variables named prefix + tag, such as
// MSGCHECK_PORT for `env:"PORT"` and prefix "MSGCHECK_".
func ReadEnvWithPrefix(prefix string, target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ReadEnvFrom fills target from environment instead of the process
// environment.
func ReadEnvFrom(environment map[string]string, prefix string, target any) error {
	opts := env.Options{Prefix: prefix, Environment: environment}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
