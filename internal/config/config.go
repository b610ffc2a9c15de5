package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the matcher
type Config struct {
	InputPath string        `yaml:"input_path"`
	Corpus    CorpusConfig  `yaml:"corpus"`
	Match     MatchConfig   `yaml:"match"`
	Extract   ExtractConfig `yaml:"extract"`
	Storage   StorageConfig `yaml:"storage"`
	API       APIConfig     `yaml:"api"`
	Log       LogConfig     `yaml:"log"`
}

// CorpusConfig controls where known documents are loaded from
type CorpusConfig struct {
	Dir            string   `yaml:"dir"`
	Extensions     []string `yaml:"extensions"`
	SkipUnreadable bool     `yaml:"skip_unreadable"`
}

// MatchConfig holds matching engine settings
type MatchConfig struct {
	IDFScope string `yaml:"idf_scope"` // pair, corpus
	Workers  int    `yaml:"workers"`
}

// ExtractConfig holds text extraction settings
type ExtractConfig struct {
	PDFToTextPath string        `yaml:"pdftotext_path"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MinHostDelay  time.Duration `yaml:"min_host_delay"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// StorageConfig holds report storage settings. An empty ReportDir disables it.
type StorageConfig struct {
	ReportDir string `yaml:"report_dir"`
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		InputPath: GetStringEnv("INPUT_PATH", "input_invoice.pdf"),
		Corpus: CorpusConfig{
			Dir:            GetStringEnv("CORPUS_DIR", "invoices"),
			Extensions:     GetListEnv("CORPUS_EXTENSIONS", []string{".pdf"}),
			SkipUnreadable: GetBoolEnv("CORPUS_SKIP_UNREADABLE", true),
		},
		Match: MatchConfig{
			IDFScope: GetStringEnv("MATCH_IDF_SCOPE", "pair"),
			Workers:  GetIntEnv("MATCH_WORKERS", 1),
		},
		Extract: ExtractConfig{
			PDFToTextPath: GetStringEnv("EXTRACT_PDFTOTEXT_PATH", "pdftotext"),
			HTTPTimeout:   GetDurationEnv("EXTRACT_HTTP_TIMEOUT", 30*time.Second),
			UserAgent:     GetStringEnv("EXTRACT_USER_AGENT", "docmatch/1.0"),
			MinHostDelay:  GetDurationEnv("EXTRACT_MIN_HOST_DELAY", 0),
			RespectRobots: GetBoolEnv("EXTRACT_RESPECT_ROBOTS", false),
		},
		Storage: StorageConfig{
			ReportDir: GetStringEnv("STORAGE_REPORT_DIR", ""),
		},
		API: APIConfig{
			Addr:         GetStringEnv("API_ADDR", ":8080"),
			ReadTimeout:  GetDurationEnv("API_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: GetDurationEnv("API_WRITE_TIMEOUT", 60*time.Second),
		},
		Log: LogConfig{
			Level:  GetStringEnv("LOG_LEVEL", "info"),
			Format: GetStringEnv("LOG_FORMAT", "text"),
		},
	}
}

// LoadFile loads the environment configuration and then applies the YAML
// file at path on top of it. Values set in the file take precedence.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that settings are usable
func (c *Config) Validate() error {
	switch c.Match.IDFScope {
	case "pair", "corpus":
	default:
		return fmt.Errorf("match.idf_scope: unknown scope %q", c.Match.IDFScope)
	}
	if c.Match.Workers < 1 {
		return fmt.Errorf("match.workers: must be at least 1, got %d", c.Match.Workers)
	}
	for _, ext := range c.Corpus.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("corpus.extensions: %q must start with a dot", ext)
		}
	}
	if c.Extract.MinHostDelay < 0 {
		return fmt.Errorf("extract.min_host_delay: must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetListEnv splits a comma separated variable, dropping empty items
func GetListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
