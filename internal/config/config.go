package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigDir overrides the default ~/.config/carousel directory
const EnvConfigDir = "CAROUSEL_CONFIG_DIR"

type Config struct {
	MaxChars       int    `yaml:"max_chars"`
	AutoStructure  bool   `yaml:"auto_structure"`
	Scheme         string `yaml:"scheme"`
	Ratio          string `yaml:"ratio"`
	FontScale      int    `yaml:"font_scale"`
	OverlayOpacity int    `yaml:"overlay_opacity"`

	Brand  BrandConfig  `yaml:"brand"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type BrandConfig struct {
	Name        string `yaml:"name"`
	Primary     string `yaml:"primary"`
	Accent      string `yaml:"accent"`
	TextOnImage string `yaml:"text_on_image"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	Metrics        bool     `yaml:"metrics"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// Slider bounds from the editor's settings panel
const (
	MinFontScale      = 60
	MaxFontScale      = 140
	MinOverlayOpacity = 0
	MaxOverlayOpacity = 90
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func DefaultConfig() *Config {
	return &Config{
		MaxChars:       220,
		AutoStructure:  true,
		Scheme:         "arc",
		Ratio:          "4:5",
		FontScale:      100,
		OverlayOpacity: 70,
		Brand: BrandConfig{
			Name:        "TACTUS",
			Primary:     "#111827",
			Accent:      "#0ea5e9",
			TextOnImage: "#ffffff",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			Metrics:        true,
		},
		Log: LogConfig{
			Mode:  "production",
			Level: "info",
		},
	}
}

func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "carousel"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// SchemesDir is where user label schemes live
func SchemesDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "schemes"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file. A missing file yields (nil, nil). Fields the
// file leaves out keep their defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault returns the saved config or the defaults, with environment
// overrides applied, validated
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config file. Configs that fail Validate are refused.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("refusing to save config: %w", err)
	}

	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overrides fields from CAROUSEL_* environment variables
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("CAROUSEL_MAX_CHARS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("CAROUSEL_MAX_CHARS: %w", err)
		}
		c.MaxChars = n
	}
	if v, ok := os.LookupEnv("CAROUSEL_AUTO_STRUCTURE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("CAROUSEL_AUTO_STRUCTURE: %w", err)
		}
		c.AutoStructure = b
	}
	if v := os.Getenv("CAROUSEL_SCHEME"); v != "" {
		c.Scheme = v
	}
	if v := os.Getenv("CAROUSEL_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CAROUSEL_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := os.Getenv("CAROUSEL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.MaxChars <= 0 {
		return fmt.Errorf("max_chars must be positive, got %d", c.MaxChars)
	}
	if GetRatio(c.Ratio) == nil {
		return fmt.Errorf("unknown ratio %q", c.Ratio)
	}
	if c.FontScale < MinFontScale || c.FontScale > MaxFontScale {
		return fmt.Errorf("font_scale must be within %d-%d, got %d", MinFontScale, MaxFontScale, c.FontScale)
	}
	if c.OverlayOpacity < MinOverlayOpacity || c.OverlayOpacity > MaxOverlayOpacity {
		return fmt.Errorf("overlay_opacity must be within %d-%d, got %d", MinOverlayOpacity, MaxOverlayOpacity, c.OverlayOpacity)
	}

	colors := map[string]string{
		"brand.primary":       c.Brand.Primary,
		"brand.accent":        c.Brand.Accent,
		"brand.text_on_image": c.Brand.TextOnImage,
	}
	for field, value := range colors {
		if !hexColor.MatchString(value) {
			return fmt.Errorf("%s: %q is not a hex colour", field, value)
		}
	}
	return nil
}
