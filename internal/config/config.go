// Package config loads the CLI settings file. Library packages take their
// configuration explicitly; only the command-line front end reads a file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk CLI configuration.
type Config struct {
	Subdomain  string `toml:"subdomain"`
	Token      string `toml:"token"`
	Language   string `toml:"language"`
	SuccessURL string `toml:"success_url"`

	// Listen is the address the serve command binds to.
	Listen string `toml:"listen"`

	path string
}

const (
	configDirName  = ".workable-form"
	configFileName = "config.toml"

	defaultLanguage = "en"
	defaultListen   = ":8080"
)

// DefaultPath returns the config location under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads the file at path, creating it with defaults when absent.
// Credentials can also come from WORKABLE_SUBDOMAIN and WORKABLE_TOKEN,
// which take precedence over the file.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Language: defaultLanguage,
		Listen:   defaultListen,
		path:     path,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if sub := os.Getenv("WORKABLE_SUBDOMAIN"); sub != "" {
		cfg.Subdomain = sub
	}
	if token := os.Getenv("WORKABLE_TOKEN"); token != "" {
		cfg.Token = token
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	cfg.path = path
	return cfg, nil
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config: no path to save to")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", c.path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("config: encode %s: %w", c.path, err)
	}
	return nil
}

// Path reports where the configuration was loaded from.
func (c *Config) Path() string { return c.path }
