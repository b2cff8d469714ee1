package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# NewsSense Configuration

[data]
# Directory for the query log database and archived news
# dir = "~/.config/newssense/data"
# Cached query responses expire after this many seconds
query_cache_ttl = 300
# Persist query logs to the local database
persist_queries = true
# Archive fetched news records to the local database
persist_news = true
# Optional path to a JSON file with the instrument universe
instruments_file = ""

[news]
# News provider: "mock" (canned demo articles) or "scrape" (live sources)
provider = "mock"
# Maximum articles to take from each source
max_per_source = 10
# HTTP request timeout in seconds (scrape provider only)
request_timeout = 10
# Minimum spacing between requests to the same source, in milliseconds
rate_limit_ms = 1000

[server]
# Listen address for 'newssense serve'
addr = ":8080"
# CORS allowed origins
allowed_origins = ["http://localhost:3000"]

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"
`

const credentialsTemplate = `# NewsSense Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
model = "gpt-4o-mini"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
