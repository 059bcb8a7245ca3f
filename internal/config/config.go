package config

import (
	"errors"
	"fmt"
	"os"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

const defaultPort = "3000"

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type Config struct {
	supabaseURL        string
	supabaseServiceKey string
	apiKey             string
	port               string
	sentryDSN          string
	env                environment
}

func (c *Config) SupabaseURL() string {
	return c.supabaseURL
}

func (c *Config) SupabaseServiceKey() string {
	return c.supabaseServiceKey
}

func (c *Config) APIKey() string {
	return c.apiKey
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf("Config{env: %s, port: %s, ...}", string(c.env), c.port)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("GSC_ENVIRONMENT")
	if !ok {
		return missingKey("GSC_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: GSC_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseServiceKey := os.Getenv("SUPABASE_SERVICE_KEY")
	apiKey := os.Getenv("API_KEY")
	sentryDSN := os.Getenv("SENTRY_DSN")

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	if env == production || env == staging {
		if supabaseURL == "" {
			return missingKey("SUPABASE_URL")
		}
		if supabaseServiceKey == "" {
			return missingKey("SUPABASE_SERVICE_KEY")
		}
		if apiKey == "" {
			return missingKey("API_KEY")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		supabaseURL:        supabaseURL,
		supabaseServiceKey: supabaseServiceKey,
		apiKey:             apiKey,
		port:               port,
		sentryDSN:          sentryDSN,
		env:                env,
	}, nil
}
