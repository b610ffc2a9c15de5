package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/docmatch/internal/config"
)

var envKeys = []string{
	"INPUT_PATH",
	"CORPUS_DIR",
	"CORPUS_EXTENSIONS",
	"CORPUS_SKIP_UNREADABLE",
	"MATCH_IDF_SCOPE",
	"MATCH_WORKERS",
	"EXTRACT_PDFTOTEXT_PATH",
	"EXTRACT_HTTP_TIMEOUT",
	"EXTRACT_USER_AGENT",
	"EXTRACT_MIN_HOST_DELAY",
	"EXTRACT_RESPECT_ROBOTS",
	"STORAGE_REPORT_DIR",
	"API_ADDR",
	"API_READ_TIMEOUT",
	"API_WRITE_TIMEOUT",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// clearEnv unsets every variable Load reads and restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			t.Setenv(key, value)
			os.Unsetenv(key)
		}
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	assert.Equal(t, "input_invoice.pdf", cfg.InputPath)
	assert.Equal(t, "invoices", cfg.Corpus.Dir)
	assert.Equal(t, []string{".pdf"}, cfg.Corpus.Extensions)
	assert.True(t, cfg.Corpus.SkipUnreadable)
	assert.Equal(t, "pair", cfg.Match.IDFScope)
	assert.Equal(t, 1, cfg.Match.Workers)
	assert.Equal(t, "pdftotext", cfg.Extract.PDFToTextPath)
	assert.Equal(t, 30*time.Second, cfg.Extract.HTTPTimeout)
	assert.Zero(t, cfg.Extract.MinHostDelay)
	assert.False(t, cfg.Extract.RespectRobots)
	assert.Empty(t, cfg.Storage.ReportDir)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	envVars := map[string]string{
		"INPUT_PATH":             "query.txt",
		"CORPUS_DIR":             "/data/known",
		"CORPUS_EXTENSIONS":      ".pdf, .txt,,",
		"CORPUS_SKIP_UNREADABLE": "false",
		"MATCH_IDF_SCOPE":        "corpus",
		"MATCH_WORKERS":          "8",
		"EXTRACT_HTTP_TIMEOUT":   "5s",
		"EXTRACT_MIN_HOST_DELAY": "250ms",
		"EXTRACT_RESPECT_ROBOTS": "true",
		"STORAGE_REPORT_DIR":     "/data/reports",
		"API_ADDR":               ":9090",
		"LOG_LEVEL":              "debug",
		"LOG_FORMAT":             "json",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg := config.Load()

	assert.Equal(t, "query.txt", cfg.InputPath)
	assert.Equal(t, "/data/known", cfg.Corpus.Dir)
	assert.Equal(t, []string{".pdf", ".txt"}, cfg.Corpus.Extensions)
	assert.False(t, cfg.Corpus.SkipUnreadable)
	assert.Equal(t, "corpus", cfg.Match.IDFScope)
	assert.Equal(t, 8, cfg.Match.Workers)
	assert.Equal(t, 5*time.Second, cfg.Extract.HTTPTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Extract.MinHostDelay)
	assert.True(t, cfg.Extract.RespectRobots)
	assert.Equal(t, "/data/reports", cfg.Storage.ReportDir)
	assert.Equal(t, ":9090", cfg.API.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORPUS_DIR", "from-env")
	t.Setenv("API_ADDR", ":7070")

	path := filepath.Join(t.TempDir(), "docmatch.yaml")
	content := `
corpus:
  dir: from-file
  extensions: [".txt", ".html"]
match:
  idf_scope: corpus
  workers: 4
extract:
  http_timeout: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Corpus.Dir)
	assert.Equal(t, []string{".txt", ".html"}, cfg.Corpus.Extensions)
	assert.Equal(t, "corpus", cfg.Match.IDFScope)
	assert.Equal(t, 4, cfg.Match.Workers)
	assert.Equal(t, 10*time.Second, cfg.Extract.HTTPTimeout)
	// untouched by the file
	assert.Equal(t, ":7070", cfg.API.Addr)
	assert.True(t, cfg.Corpus.SkipUnreadable)
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := config.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("match: [unclosed"), 0644))
	_, err = config.LoadFile(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("match:\n  workers: 0\n"), 0644))
	_, err = config.LoadFile(invalid)
	assert.ErrorContains(t, err, "match.workers")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"unknown scope", func(c *config.Config) { c.Match.IDFScope = "global" }, "match.idf_scope"},
		{"zero workers", func(c *config.Config) { c.Match.Workers = 0 }, "match.workers"},
		{"extension without dot", func(c *config.Config) { c.Corpus.Extensions = []string{"pdf"} }, "corpus.extensions"},
		{"negative host delay", func(c *config.Config) { c.Extract.MinHostDelay = -time.Second }, "extract.min_host_delay"},
		{"unknown log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := config.Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{"Valid int", "42", 10, 42},
		{"Invalid int", "not_a_number", 10, 10},
		{"Negative int", "-5", 10, -5},
		{"Zero", "0", 10, 0},
		{"Unset", "", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.envValue)
			assert.Equal(t, tt.expected, config.GetIntEnv("TEST_INT", tt.defaultValue))
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{"True string", "true", false, true},
		{"False string", "false", true, false},
		{"1 (true)", "1", false, true},
		{"Invalid bool", "invalid", true, true},
		{"Unset", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			assert.Equal(t, tt.expected, config.GetBoolEnv("TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{"Seconds", "5s", time.Second, 5 * time.Second},
		{"Combined", "1h30m", time.Second, 90 * time.Minute},
		{"Invalid duration", "invalid", 5 * time.Second, 5 * time.Second},
		{"Unset", "", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.envValue)
			assert.Equal(t, tt.expected, config.GetDurationEnv("TEST_DURATION", tt.defaultValue))
		})
	}
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("TEST_LIST", " a ,b,, c")
	assert.Equal(t, []string{"a", "b", "c"}, config.GetListEnv("TEST_LIST", nil))

	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, config.GetListEnv("TEST_LIST", []string{"x"}))
}
