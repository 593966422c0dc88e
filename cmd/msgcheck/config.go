package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/c3p0-box/msgcheck/env"
	"github.com/c3p0-box/msgcheck/msgfmt"
	"golang.org/x/text/language"
)

const envPrefix = "MSGCHECK_"

// Config is read from MSGCHECK_* variables; command-line flags override it.
type Config struct {
	Notation     msgfmt.Notation `env:"NOTATION" envDefault:"printf"`
	BaseLanguage string          `env:"BASE_LANGUAGE" envDefault:"en"`
	Language     string          `env:"LANGUAGE" envDefault:"en"`
	Host         string          `env:"HOST" envDefault:"0.0.0.0"`
	Port         string          `env:"PORT" envDefault:"8000"`
	LogLevel     string          `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string          `env:"LOG_FORMAT" envDefault:"text"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.ReadEnvWithPrefix(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) baseTag() (language.Tag, error) {
	tag, err := language.Parse(c.BaseLanguage)
	if err != nil {
		return language.Und, fmt.Errorf("base language %q: %w", c.BaseLanguage, err)
	}
	return tag, nil
}

func (c Config) languageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Und, fmt.Errorf("language %q: %w", c.Language, err)
	}
	return tag, nil
}

// newLogger builds the slog logger described by level and format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("log format %q: want text or json", format)
}
