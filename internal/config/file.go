package config

import (
	"maps"
	"time"
)

// File represents the structure of the .wikihop configuration file.
// Unset fields leave the corresponding Config value untouched.
type File struct {
	BaseURL          string            `yaml:"baseURL,omitempty"`
	UserAgent        string            `yaml:"userAgent,omitempty"`
	Proxy            string            `yaml:"proxy,omitempty"`
	Headers          map[string]string `yaml:"headers,omitempty"`
	MaxAttempts      int               `yaml:"maxAttempts,omitempty"`
	BackoffInterval  *time.Duration    `yaml:"backoffInterval,omitempty"`
	MaxInFlight      int               `yaml:"maxInFlight,omitempty"`
	RoundConcurrency int               `yaml:"roundConcurrency,omitempty"`
	Timeout          time.Duration     `yaml:"timeout,omitempty"`
	MaxBodySize      int64             `yaml:"maxBodySize,omitempty"`
	Format           string            `yaml:"format,omitempty"`
	OutputDir        string            `yaml:"outputDir,omitempty"`
	DebugLog         string            `yaml:"debugLog,omitempty"`
}

// Apply copies every set field of f onto c. Headers are merged, with the
// file's values winning.
func (f *File) Apply(c *Config) {
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		maps.Copy(c.Headers, f.Headers)
	}
	if f.MaxAttempts != 0 {
		c.MaxAttempts = f.MaxAttempts
	}
	// Zero is a meaningful interval, so presence is tracked with a pointer.
	if f.BackoffInterval != nil {
		c.BackoffInterval = *f.BackoffInterval
	}
	if f.MaxInFlight != 0 {
		c.MaxInFlight = f.MaxInFlight
	}
	if f.RoundConcurrency != 0 {
		c.RoundConcurrency = f.RoundConcurrency
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.DebugLog != "" {
		c.DebugLog = f.DebugLog
	}
}
