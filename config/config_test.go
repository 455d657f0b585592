package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, "https://quotes.toscrape.com", cfg.BaseURL)
	assert.Equal(t, FetcherHTTP, cfg.Fetcher)
	assert.Zero(t, cfg.MaxPages)
	assert.Empty(t, cfg.Filters.Authors)
	assert.Empty(t, cfg.Database.URL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:8080/
fetcher: browser
max_pages: 3
timeout: 5s
filters:
  authors: ["Albert Einstein"]
  tags: [love, life]
sheets:
  spreadsheet_url: https://docs.google.com/spreadsheets/d/abc123/edit
database:
  url: postgres://localhost/quotes
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", cfg.BaseURL)
	assert.Equal(t, FetcherBrowser, cfg.Fetcher)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"Albert Einstein"}, cfg.Filters.Authors)
	assert.Equal(t, []string{"love", "life"}, cfg.Filters.Tags)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/edit", cfg.Sheets.SpreadsheetURL)
	assert.Equal(t, "postgres://localhost/quotes", cfg.Database.URL)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "max_pages: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://quotes.toscrape.com", cfg.BaseURL)
	assert.Equal(t, FetcherHTTP, cfg.Fetcher)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	_, err = LoadConfig(writeConfig(t, "fetcher: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	_, err = LoadConfig(writeConfig(t, "fetcher: telnet\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fetcher")

	_, err = LoadConfig(writeConfig(t, "max_pages: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_pages")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("QUOTES_BASE_URL", "http://mirror.test")
	t.Setenv("DATABASE_URL", "postgres://env/quotes")

	cfg := GetDefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "http://mirror.test", cfg.BaseURL)
	assert.Equal(t, "postgres://env/quotes", cfg.Database.URL)
}
