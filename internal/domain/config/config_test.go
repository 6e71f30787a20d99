package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domainerr "pedia/internal/domain/errors"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty title", func(c *Config) { c.Site.Title = " " }, "site.title"},
		{"empty base url", func(c *Config) { c.Site.BaseURL = "" }, "site.base_url"},
		{"relative base url", func(c *Config) { c.Site.BaseURL = "/pedia" }, "site.base_url"},
		{"bad scheme", func(c *Config) { c.Site.BaseURL = "ftp://host" }, "site.base_url"},
		{"trailing slash", func(c *Config) { c.Site.BaseURL = "https://host/" }, "site.base_url"},
		{"empty theme", func(c *Config) { c.Site.Theme = "" }, "site.theme"},
		{"empty data dir", func(c *Config) { c.Build.DataDir = "" }, "build.data_dir"},
		{"empty addr", func(c *Config) { c.Serve.Addr = "" }, "serve.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, domainerr.ErrInvalid) {
				t.Fatalf("error is not ErrInvalid: %v", err)
			}
			var ve domainerr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error is not a ValidationError: %v", err)
			}
			found := false
			for _, item := range ve.Items {
				if item.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("error does not name %s: %v", tt.field, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PEDIA_ADDR", ":9999")
	t.Setenv("PEDIA_BASE_URL", "https://pedia.example.org/")
	t.Setenv("PEDIA_DATA_DIR", "/srv/articles")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Serve.Addr != ":9999" {
		t.Fatalf("Addr = %q", cfg.Serve.Addr)
	}
	// trailing slash from the env var is stripped
	if cfg.Site.BaseURL != "https://pedia.example.org" {
		t.Fatalf("BaseURL = %q", cfg.Site.BaseURL)
	}
	if cfg.Build.DataDir != "/srv/articles" {
		t.Fatalf("DataDir = %q", cfg.Build.DataDir)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	body := `
site:
  title: "Testpedia"
  base_url: "https://testpedia.example.org"
serve:
  addr: ":3000"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Title != "Testpedia" {
		t.Fatalf("Title = %q", cfg.Site.Title)
	}
	if cfg.Serve.Addr != ":3000" {
		t.Fatalf("Addr = %q", cfg.Serve.Addr)
	}
	// unset keys keep their defaults
	if cfg.Site.Theme != "default" {
		t.Fatalf("Theme = %q", cfg.Site.Theme)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(path, []byte("site:\n  base_url: \"not a url\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load with invalid base_url expected error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault with missing file: %v", err)
	}
	if cfg.Site.Title != Default().Site.Title {
		t.Fatalf("Title = %q, want default", cfg.Site.Title)
	}
}
