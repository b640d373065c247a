// Package config loads and validates scancore configuration.
//
// Configuration comes from a YAML file with environment variable overrides
// (SCANCORE_* pattern). A missing file falls back to defaults, with the
// database placed in the per-user application data directory.
package config
