package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/joho/godotenv"
)

type envProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// GodotenvProvider is an implementation wrapping the Godotenv framework.
type GodotenvProvider struct{}

// Read reads generic Unix-type configuration files into a map (map[key]value).
func (*GodotenvProvider) Read(filenames ...string) (map[string]string, error) {
	data, err := godotenv.Read(filenames...)
	if err != nil {
		return data, fmt.Errorf("(config-godotenv) %w", err)
	}

	return data, nil
}

// Config holds the effective CLI configuration; env-file values are applied
// first, command-line flags override them.
type Config struct {
	Root     string
	Codec    string
	Preload  int
	Readonly bool
}

func establishConfig(provider envProvider, filename string) Config {
	var config Config

	filenames := []string{}
	if filename != "" {
		filenames = append(filenames, filename)
	}

	envMap, err := provider.Read(filenames...)
	if err != nil {
		slog.Debug("No usable env configuration, relying on flags.", "err", err)

		return config
	}

	config.Root = envMap["TREEFILE_ROOT"]
	config.Codec = envMap["TREEFILE_CODEC"]

	if value, exists := envMap["TREEFILE_PRELOAD"]; exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			config.Preload = intValue
		}
	}

	if value, exists := envMap["TREEFILE_READONLY"]; exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			config.Readonly = boolValue
		}
	}

	return config
}
