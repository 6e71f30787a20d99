package config

import (
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domainerr "pedia/internal/domain/errors"
)

type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
	Serve ServeConfig `yaml:"serve"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	BaseURL     string `yaml:"base_url"`
	Theme       string `yaml:"theme"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type BuildConfig struct {
	DataDir   string `yaml:"data_dir"`
	PublicDir string `yaml:"public_dir"`
	ThemeDir  string `yaml:"theme_dir"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:       "Pedia",
			Subtitle:    "The Free Encyclopedia",
			BaseURL:     "http://localhost:8080",
			Theme:       "default",
			Language:    "en",
			Description: "A free, read-only encyclopedia.",
		},
		Build: BuildConfig{
			DataDir:   "data/articles",
			PublicDir: "public",
			ThemeDir:  "themes",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	if strings.TrimSpace(c.Site.BaseURL) == "" {
		ve.Add("site.base_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.BaseURL) {
		ve.Add("site.base_url", "must be a valid absolute URL")
	} else if strings.HasSuffix(c.Site.BaseURL, "/") {
		ve.Add("site.base_url", "must not end with '/'")
	}

	if strings.TrimSpace(c.Site.Theme) == "" {
		ve.Add("site.theme", "must not be empty")
	}

	if strings.TrimSpace(c.Build.DataDir) == "" {
		ve.Add("build.data_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ApplyEnv overlays environment overrides on top of the file config. The
// variables are loaded from a .env file by the caller (godotenv) or the
// process environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("PEDIA_ADDR")); v != "" {
		c.Serve.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("PEDIA_BASE_URL")); v != "" {
		c.Site.BaseURL = strings.TrimSuffix(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("PEDIA_DATA_DIR")); v != "" {
		c.Build.DataDir = v
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but treats a missing file as "use defaults".
func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.Validate(); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
