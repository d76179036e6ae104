// Package config reads the claimer settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Claim stores
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// EnvFileVar names the variable pointing at an explicit .env file
const EnvFileVar = "FGC_ENV_FILE"

// defaultEnvFiles are tried in order when EnvFileVar is unset
var defaultEnvFiles = []string{filepath.Join("data", "config.env"), ".env"}

type Config struct {
	Show   bool `env:"SHOW"`
	Width  int  `env:"WIDTH" envDefault:"1280"`
	Height int  `env:"HEIGHT" envDefault:"1280"`

	BrowserDir     string `env:"BROWSER_DIR" envDefault:"data/browser"`
	ScreenshotsDir string `env:"SCREENSHOTS_DIR" envDefault:"data/screenshots"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	Store          string `env:"STORE" envDefault:"json"`

	Timeout      time.Duration `env:"TIMEOUT" envDefault:"60s"`
	LoginTimeout time.Duration `env:"LOGIN_TIMEOUT" envDefault:"180s"`

	Debug  bool `env:"DEBUG"`
	DryRun bool `env:"DRYRUN"`

	Email    string `env:"PG_EMAIL"`
	Password string `env:"PG_PASSWORD"`
	OTPKey   string `env:"PG_OTPKEY"`
	Redeem   bool   `env:"PG_REDEEM"`

	NotifyURLs    []string `env:"NOTIFY" envSeparator:" "`
	NotifyTitle   string   `env:"NOTIFY_TITLE"`
	NotifyDesktop bool     `env:"NOTIFY_DESKTOP"`

	Loop           time.Duration `env:"LOOP" envDefault:"0s"`
	CookiesBrowser string        `env:"COOKIES_BROWSER"`

	S3 S3
}

// S3 configures the optional screenshot mirror
type S3 struct {
	Bucket          string `env:"S3_BUCKET"`
	Endpoint        string `env:"S3_ENDPOINT"`
	Region          string `env:"S3_REGION"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	Prefix          string `env:"S3_PREFIX"`
}

// Enabled reports whether screenshots should be mirrored
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// Headless is the inverse of Show
func (c *Config) Headless() bool {
	return !c.Show
}

// Load reads the optional .env file and parses the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}
	return Parse()
}

// Parse reads the configuration from the environment only
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the claimer cannot work with
func (c *Config) Validate() error {
	if c.Store != StoreJSON && c.Store != StoreSQLite {
		return fmt.Errorf("invalid STORE %q: must be %s or %s", c.Store, StoreJSON, StoreSQLite)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Width, c.Height)
	}
	if c.Timeout < 0 || c.LoginTimeout < 0 || c.Loop < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

func loadEnvFile() error {
	if p := os.Getenv(EnvFileVar); p != "" {
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
		return nil
	}

	for _, p := range defaultEnvFiles {
		err := godotenv.Load(p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}
