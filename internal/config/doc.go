// Package config provides configuration structures and utilities for wikihop.
// It defines the fetch, concurrency and report settings of a run and loads
// overrides from a YAML file.
package config
