package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dualsolve/dualsolve/internal/llm"
	"github.com/dualsolve/dualsolve/internal/together"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/samber/lo"
)

const (
	ProviderTogether  = "together"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// Config is built once at startup and handed to constructors.
type Config struct {
	Port            int64
	Provider        string
	Model           string
	TogetherAPIKey  string
	TogetherAPIURL  string
	AnthropicAPIKey string
	GoogleAPIKey    string
	Timeout         time.Duration
	LogFormat       string
	LogLevel        string
	AllowedOrigins  []string
	Setup           bool
}

// APIKey returns the credential of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGoogle:
		return c.GoogleAPIKey
	default:
		return c.TogetherAPIKey
	}
}

// ErrUsage wraps flag parsing failures, including a help request. The usage
// text is part of the error message.
var ErrUsage = errors.New("invalid usage")

// Load parses args and environment variables (FLAG_NAME in upper snake case).
// A missing API key is not an error here.
func Load(args []string) (Config, error) {
	fs := ff.NewFlagSet("dualsolve-web")

	var (
		port            = fs.Int64Long("port", 5001, "HTTP server port")
		provider        = fs.StringEnumLong("llm-provider", "LLM provider", ProviderTogether, ProviderAnthropic, ProviderGoogle)
		model           = fs.StringLong("llm-model", "", "LLM model name (defaults per provider)")
		togetherAPIKey  = fs.StringLong("together-api-key", "", "Together AI API key")
		togetherAPIURL  = fs.StringLong("together-api-url", together.DefaultURL, "Chat completions endpoint")
		anthropicAPIKey = fs.StringLong("anthropic-api-key", "", "Anthropic API key")
		googleAPIKey    = fs.StringLong("google-api-key", "", "Google API key")
		timeout         = fs.DurationLong("llm-timeout", llm.DefaultTimeout, "Timeout for a single LLM call")
		logFormat       = fs.StringEnumLong("log-format", "Log output format", "pretty", "json")
		logLevel        = fs.StringEnumLong("log-level", "Log level", "info", "debug", "warn", "error")
		allowedOrigins  = fs.StringLong("allowed-origins", "", "Comma-separated list of allowed CORS origins")
		setup           = fs.BoolLong("setup", "Run the .env setup wizard before starting")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVars()); err != nil {
		return Config{}, fmt.Errorf("%w: %w\n%s", ErrUsage, err, ffhelp.Flags(fs))
	}

	if *port <= 0 || *port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", *port)
	}
	if *timeout <= 0 {
		return Config{}, fmt.Errorf("llm-timeout must be positive, got %s", *timeout)
	}

	return Config{
		Port:            *port,
		Provider:        *provider,
		Model:           *model,
		TogetherAPIKey:  *togetherAPIKey,
		TogetherAPIURL:  *togetherAPIURL,
		AnthropicAPIKey: *anthropicAPIKey,
		GoogleAPIKey:    *googleAPIKey,
		Timeout:         *timeout,
		LogFormat:       *logFormat,
		LogLevel:        *logLevel,
		AllowedOrigins:  splitOrigins(*allowedOrigins),
		Setup:           *setup,
	}, nil
}

func splitOrigins(s string) []string {
	return lo.FilterMap(strings.Split(s, ","), func(o string, _ int) (string, bool) {
		o = strings.TrimSpace(o)
		return o, o != ""
	})
}
