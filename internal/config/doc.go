// Package config loads, normalizes, and validates sculptor's TOML
// configuration.
package config
