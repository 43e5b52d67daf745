package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/wikihop/internal/fetch"
	"github.com/nao1215/wikihop/internal/links"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wikihop"

	// DefaultBaseURL is the English Wikipedia article namespace.
	DefaultBaseURL = fetch.DefaultBaseURL

	// DefaultMaxAttempts is how many times one article is requested before
	// the run gives up on it.
	DefaultMaxAttempts = fetch.DefaultMaxAttempts

	// DefaultBackoffInterval is the pause after a retryable failure. Every
	// worker pauses while any worker is backing off.
	DefaultBackoffInterval = fetch.DefaultBackoffInterval

	// DefaultMaxInFlight caps concurrent HTTP requests.
	DefaultMaxInFlight = fetch.DefaultMaxInFlight

	// DefaultRoundConcurrency caps concurrent work units within one round.
	DefaultRoundConcurrency = links.DefaultRoundConcurrency

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = fetch.DefaultTimeout

	// DefaultMaxBodySize limits the article body read per response.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize

	// DefaultUserAgent identifies wikihop in HTTP requests. Wikimedia asks
	// clients to send a descriptive User-Agent.
	DefaultUserAgent = fetch.DefaultUserAgent

	// DefaultFormat is the report format written when none is chosen.
	DefaultFormat = "text"
)

// Config holds all configuration options for a run.
// It is populated from defaults, then the config file, then CLI flags.
type Config struct {
	// Article is the starting article as given by the user: a title, an
	// endpoint or a full article URL.
	Article string

	// Random starts from a random article instead of Article.
	Random bool

	// Hops is the number of neighbor layers to compute.
	Hops int

	// BaseURL is the article namespace URL. Endpoints are appended to it.
	BaseURL string

	MaxAttempts     int
	BackoffInterval time.Duration

	// MaxInFlight caps concurrent HTTP requests across the run.
	MaxInFlight int

	// RoundConcurrency caps concurrent work units within a round. The
	// effective concurrency is the smaller of this and MaxInFlight.
	RoundConcurrency int

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// Format is the report format name.
	Format string

	// OutputDir is where the report file is written. Empty means the
	// current directory.
	OutputDir string

	// DebugLog is a file receiving debug-level logs. Empty disables it.
	DebugLog string

	// Verbose enables debug output on stderr.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the file is searched for; see FindConfigFile.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		MaxAttempts:      DefaultMaxAttempts,
		BackoffInterval:  DefaultBackoffInterval,
		MaxInFlight:      DefaultMaxInFlight,
		RoundConcurrency: DefaultRoundConcurrency,
		Timeout:          DefaultTimeout,
		MaxBodySize:      DefaultMaxBodySize,
		UserAgent:        DefaultUserAgent,
		Format:           DefaultFormat,
	}
}

// XDGConfigDir returns the XDG config directory for wikihop.
// On Linux: ~/.config/wikihop
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGStateDir returns the XDG state directory for wikihop, where debug logs
// are kept by default.
// On Linux: ~/.local/state/wikihop
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// DefaultDebugLogPath returns the debug log location used when --debug-log
// is given without a path.
func DefaultDebugLogPath() string {
	return filepath.Join(XDGStateDir(), "debug.log")
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if !c.Random && strings.TrimSpace(c.Article) == "" {
		return ErrNoArticle
	}
	if c.Hops <= 0 {
		return ErrInvalidHops
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || !strings.HasSuffix(c.BaseURL, "/") {
		return ErrInvalidBaseURL
	}

	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if c.BackoffInterval < 0 {
		return ErrInvalidBackoffInterval
	}
	if c.MaxInFlight <= 0 {
		return ErrInvalidMaxInFlight
	}
	if c.RoundConcurrency <= 0 {
		return ErrInvalidRoundConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}

// EffectiveConcurrency returns the number of fetches that can actually run
// at once.
func (c *Config) EffectiveConcurrency() int {
	return min(c.MaxInFlight, c.RoundConcurrency)
}
