// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the environment doesn't override them.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
)

// Config holds the scalar settings consumed by the validation engine and
// the CLI. Values come from the environment; CLI flags override them.
type Config struct {
	// Timeout bounds a single checker call.
	Timeout time.Duration

	// Concurrency is the dispatcher worker count.
	Concurrency int

	// Notify enables owner notification for valid secrets.
	Notify bool

	// RatePerSecond caps outbound validation calls. Zero is unlimited.
	RatePerSecond float64

	// GitHub settings for the alert source.
	GitHubToken  string
	GitHubOrg    string
	GitHubRepo   string
	GitHubAPIURL string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Timeout:      DefaultTimeout,
		Concurrency:  DefaultConcurrency,
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GitHubOrg:    os.Getenv("GITHUB_ORG"),
		GitHubRepo:   os.Getenv("GITHUB_REPO"),
		GitHubAPIURL: os.Getenv("GITHUB_API_URL"),
	}

	if v := os.Getenv("VOUCH_TIMEOUT"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid VOUCH_TIMEOUT: %q", v)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("VOUCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid VOUCH_CONCURRENCY: %q", v)
		}
		cfg.Concurrency = n
	}

	if v := os.Getenv("VOUCH_NOTIFY"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VOUCH_NOTIFY: %q", v)
		}
		cfg.Notify = enabled
	}

	if v := os.Getenv("VOUCH_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("invalid VOUCH_RATE: %q", v)
		}
		cfg.RatePerSecond = rate
	}

	return cfg, nil
}
