package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = "pumpkin.yaml"

// Config represents the top-level pumpkin.yaml configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Import     ImportConfig     `yaml:"import"`
	Categorize CategorizeConfig `yaml:"categorize"`
	Accounts   []AccountConfig  `yaml:"accounts,omitempty"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DatabaseConfig locates the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the project root
}

// ImportConfig controls directory imports.
type ImportConfig struct {
	MoveProcessed bool   `yaml:"move_processed"`
	LogPath       string `yaml:"log_path"`
}

// CategorizeConfig tunes the auto-categorizer.
type CategorizeConfig struct {
	CardCashbackThreshold float64       `yaml:"card_cashback_threshold"`
	DefaultCategory       string        `yaml:"default_category"`
	Keywords              []KeywordRule `yaml:"keywords,omitempty"`
}

// KeywordRule assigns Category to outflows whose description contains any of
// Keywords. Source limits the rule to "bank" or "card"; empty means both.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Source   string   `yaml:"source,omitempty"`
}

// AccountConfig describes a known account so exports can be attributed to it.
type AccountConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"` // checking, savings or credit
	LastFour   string `yaml:"last_four,omitempty"`
	Match      string `yaml:"match,omitempty"` // case-insensitive filename substring
	InvertSign bool   `yaml:"invert_sign,omitempty"`
	Format     string `yaml:"format,omitempty"` // forces a parser
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a pumpkin.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join("data", "pumpkin.db"),
		},
		Import: ImportConfig{
			MoveProcessed: true,
			LogPath:       filepath.Join("logs", "import-log.csv"),
		},
		Categorize: CategorizeConfig{
			CardCashbackThreshold: 100,
			DefaultCategory:       "Uncategorized",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadProject loads <root>/pumpkin.yaml, falling back to defaults when the file
// does not exist, then applies .env and environment overrides.
func LoadProject(root string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PUMPKIN_* environment variables.
func (c *Config) ApplyEnv() error {
	c.Database.Path = getEnv("PUMPKIN_DB_PATH", c.Database.Path)
	c.Logging.Level = getEnv("PUMPKIN_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("PUMPKIN_LOG_FORMAT", c.Logging.Format)

	if v := os.Getenv("PUMPKIN_CASHBACK_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing PUMPKIN_CASHBACK_THRESHOLD %q: %w", v, err)
		}
		c.Categorize.CardCashbackThreshold = f
	}
	return nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Categorize.CardCashbackThreshold < 0 {
		errs = append(errs, fmt.Errorf("categorize.card_cashback_threshold must not be negative, got %v", c.Categorize.CardCashbackThreshold))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	seen := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("accounts[%d]: name is required", i))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, fmt.Errorf("accounts[%d]: duplicate name %q", i, a.Name))
		}
		seen[a.Name] = true
		switch a.Type {
		case "", "checking", "savings", "credit":
		default:
			errs = append(errs, fmt.Errorf("accounts[%d]: unknown type %q", i, a.Type))
		}
	}
	for i, k := range c.Categorize.Keywords {
		if k.Category == "" || len(k.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("categorize.keywords[%d]: category and keywords are required", i))
		}
		switch k.Source {
		case "", "bank", "card":
		default:
			errs = append(errs, fmt.Errorf("categorize.keywords[%d]: unknown source %q", i, k.Source))
		}
	}
	return errors.Join(errs...)
}

// Resolve returns path unchanged when absolute, otherwise joined onto root.
func Resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
