// Package config provides environment helpers for go-posefuse commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable read through this package.
const EnvPrefix = "POSEFUSE_"

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set in the environment are left untouched.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// String returns POSEFUSE_<key> or def when unset.
func String(key, def string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return def
}

// Int returns POSEFUSE_<key> parsed as an int, or def when unset or invalid.
func Int(key string, def int) int {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Float returns POSEFUSE_<key> parsed as a float64, or def when unset or invalid.
func Float(key string, def float64) float64 {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns POSEFUSE_<key> parsed as a bool, or def when unset or invalid.
func Bool(key string, def bool) bool {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
