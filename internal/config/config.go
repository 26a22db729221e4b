package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TokenEnv is the environment variable holding the Linear API key.
const TokenEnv = "LINEAR_API_KEY"

// Config represents the full issuecast configuration
type Config struct {
	Linear  LinearConfig  `mapstructure:"linear"`
	Browser BrowserConfig `mapstructure:"browser"`
	Target  TargetConfig  `mapstructure:"target"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LinearConfig contains Linear API access settings
type LinearConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	APIKeySecret string        `mapstructure:"api_key_secret"` // GCP Secret Manager path, used when api_key is empty
	Endpoint     string        `mapstructure:"endpoint"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// BrowserConfig contains settings for the remotely debuggable Chrome instance
type BrowserConfig struct {
	Bin            string         `mapstructure:"bin"`
	DebugAddress   string         `mapstructure:"debug_address"`
	UserDataDir    string         `mapstructure:"user_data_dir"`
	LaunchAttempts int            `mapstructure:"launch_attempts"`
	LaunchInterval time.Duration  `mapstructure:"launch_interval"`
	SettleTimeout  time.Duration  `mapstructure:"settle_timeout"`
	Timezone       string         `mapstructure:"timezone"`
	Viewport       ViewportConfig `mapstructure:"viewport"`
}

// ViewportConfig bounds the randomised window size
type ViewportConfig struct {
	MinWidth  int `mapstructure:"min_width"`
	MaxWidth  int `mapstructure:"max_width"`
	MinHeight int `mapstructure:"min_height"`
	MaxHeight int `mapstructure:"max_height"`
}

// TargetConfig describes the chat page the prompt is pasted into
type TargetConfig struct {
	URL            string `mapstructure:"url"`
	InputSelector  string `mapstructure:"input_selector"`
	ButtonSelector string `mapstructure:"button_selector"`
	Action         string `mapstructure:"action"` // code, ask, none; empty means ask the operator
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	GCP bool `mapstructure:"gcp"` // mirror events as Cloud Logging structured JSON on stderr
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Linear.Endpoint == "" {
		cfg.Linear.Endpoint = "https://api.linear.app/graphql"
	}
	if cfg.Linear.Timeout == 0 {
		cfg.Linear.Timeout = 30 * time.Second
	}

	if cfg.Browser.Bin == "" {
		cfg.Browser.Bin = DefaultBrowserBin(runtime.GOOS)
	}
	if cfg.Browser.DebugAddress == "" {
		cfg.Browser.DebugAddress = "127.0.0.1:9222"
	}
	if cfg.Browser.UserDataDir == "" {
		cfg.Browser.UserDataDir = defaultUserDataDir()
	}
	if cfg.Browser.LaunchAttempts == 0 {
		cfg.Browser.LaunchAttempts = 10
	}
	if cfg.Browser.LaunchInterval == 0 {
		cfg.Browser.LaunchInterval = time.Second
	}
	if cfg.Browser.SettleTimeout == 0 {
		cfg.Browser.SettleTimeout = 5 * time.Second
	}
	if cfg.Browser.Timezone == "" {
		cfg.Browser.Timezone = "America/New_York"
	}

	vp := &cfg.Browser.Viewport
	if vp.MinWidth == 0 {
		vp.MinWidth = 1280
	}
	if vp.MaxWidth == 0 {
		vp.MaxWidth = 1600
	}
	if vp.MinHeight == 0 {
		vp.MinHeight = 760
	}
	if vp.MaxHeight == 0 {
		vp.MaxHeight = 1000
	}

	if cfg.Target.URL == "" {
		cfg.Target.URL = "https://chatgpt.com/codex"
	}
	if cfg.Target.InputSelector == "" {
		cfg.Target.InputSelector = "#prompt-textarea"
	}
	if cfg.Target.ButtonSelector == "" {
		cfg.Target.ButtonSelector = "button"
	}
}

// DefaultBrowserBin returns the conventional Chrome install path for goos.
func DefaultBrowserBin(goos string) string {
	switch goos {
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	case "windows":
		return `C:\Program Files\Google\Chrome\Application\chrome.exe`
	default:
		return "/usr/bin/google-chrome"
	}
}

func defaultUserDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "issuecast-chrome-profile")
	}
	return filepath.Join(home, ".issuecast", "chrome-profile")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Linear.Endpoint); err != nil {
		return fmt.Errorf("invalid linear endpoint: %w", err)
	}

	if c.Linear.Timeout < 0 {
		return fmt.Errorf("linear timeout must be positive, got %s", c.Linear.Timeout)
	}

	if c.Browser.LaunchAttempts < 1 {
		return fmt.Errorf("browser launch_attempts must be at least 1, got %d", c.Browser.LaunchAttempts)
	}

	if c.Browser.LaunchInterval <= 0 {
		return fmt.Errorf("browser launch_interval must be positive, got %s", c.Browser.LaunchInterval)
	}

	vp := c.Browser.Viewport
	if vp.MinWidth > vp.MaxWidth || vp.MinHeight > vp.MaxHeight {
		return fmt.Errorf("invalid viewport bounds: width %d-%d, height %d-%d",
			vp.MinWidth, vp.MaxWidth, vp.MinHeight, vp.MaxHeight)
	}

	if _, err := url.ParseRequestURI(c.Target.URL); err != nil {
		return fmt.Errorf("invalid target url: %w", err)
	}

	if strings.TrimSpace(c.Target.InputSelector) == "" {
		return fmt.Errorf("target input_selector is required")
	}

	switch strings.ToLower(c.Target.Action) {
	case "", "code", "ask", "none":
	default:
		return fmt.Errorf("invalid action: %s (must be code, ask, or none)", c.Target.Action)
	}

	return nil
}

// SecretFetcher is the subset of a secret store used to resolve the API key.
type SecretFetcher interface {
	FetchSecret(ctx context.Context, secretPath string) (string, error)
}

// ResolveCredential fills Linear.APIKey from the secret store when only a
// secret path is configured. newFetcher is not called when a key is present.
func (c *Config) ResolveCredential(ctx context.Context, newFetcher func(context.Context) (SecretFetcher, error)) error {
	if c.Linear.APIKey != "" || c.Linear.APIKeySecret == "" {
		return nil
	}

	fetcher, err := newFetcher(ctx)
	if err != nil {
		return &ConfigError{Key: "linear.api_key_secret", Hint: "cannot reach secret manager", Err: err}
	}

	key, err := fetcher.FetchSecret(ctx, c.Linear.APIKeySecret)
	if err != nil {
		return &ConfigError{Key: "linear.api_key_secret", Hint: "cannot read " + c.Linear.APIKeySecret, Err: err}
	}

	c.Linear.APIKey = strings.TrimSpace(key)
	return nil
}

// RequireCredential returns a *ConfigError when no Linear API key is available.
func (c *Config) RequireCredential() error {
	if strings.TrimSpace(c.Linear.APIKey) == "" {
		return &ConfigError{
			Key:  TokenEnv,
			Hint: "create a personal API key at https://linear.app/settings/api and run: export " + TokenEnv + "=<key>",
		}
	}
	return nil
}
