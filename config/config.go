// Package config loads the application settings from a YAML file and the
// environment. Secrets and the webhook endpoint have no built-in default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Form     FormConfig     `yaml:"form" json:"form"`
	Vision   VisionConfig   `yaml:"vision" json:"vision"`
	Webhook  WebhookConfig  `yaml:"webhook" json:"webhook"`
	Export   ExportConfig   `yaml:"export" json:"export"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
	// OpenBrowser opens the form in the default browser after start.
	OpenBrowser bool `yaml:"open_browser" json:"openBrowser"`
	// MaxUploadBytes caps request bodies, label photos included.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" json:"maxUploadBytes"`
	// ScanRate is the sustained number of scans allowed per minute.
	ScanRate  float64 `yaml:"scan_rate" json:"scanRate"`
	ScanBurst int     `yaml:"scan_burst" json:"scanBurst"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" json:"path"`
}

// FormConfig carries the defaults and branding of a fresh record.
type FormConfig struct {
	Auditor      string   `yaml:"auditor" json:"auditor"`
	CompanyTitle string   `yaml:"company_title" json:"companyTitle"`
	AddressLines []string `yaml:"address_lines" json:"addressLines"`
	// CatalogCompletion fills blank fields of scanned items from the device
	// catalog. Off by default: scanned values are stored as read and catalog
	// matches are only returned as suggestions.
	CatalogCompletion bool `yaml:"catalog_completion" json:"catalogCompletion"`
}

type VisionConfig struct {
	BaseURL     string        `yaml:"base_url" json:"baseURL"`
	Model       string        `yaml:"model" json:"model"`
	APIKey      string        `yaml:"api_key" json:"apiKey"`
	Temperature float64       `yaml:"temperature" json:"temperature"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

type WebhookConfig struct {
	URL     string        `yaml:"url" json:"url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

type ExportConfig struct {
	// BrowserPath points at a Chromium binary; empty lets go-rod find or fetch one.
	BrowserPath string        `yaml:"browser_path" json:"browserPath"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			OpenBrowser:    true,
			MaxUploadBytes: 10 << 20,
			ScanRate:       6,
			ScanBurst:      2,
		},
		Database: DatabaseConfig{
			Path: "./auditform.db",
		},
		Form: FormConfig{
			Auditor:      "Hussein Badawi",
			CompanyTitle: "Secured Logistics Solution FZCO",
			AddressLines: []string{"Dubai Airport Free Zone | UAE"},
		},
		Vision: VisionConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			Model:       "gemini-1.5-flash",
			Temperature: 0.1,
			Timeout:     60 * time.Second,
		},
		Webhook: WebhookConfig{
			Timeout: 30 * time.Second,
		},
		Export: ExportConfig{
			Timeout: 45 * time.Second,
		},
	}
}

// Validate checks the values that would break the server. Missing
// credentials are not an error; the matching feature reports itself as
// unconfigured at use.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	if c.Server.ScanRate <= 0 || c.Server.ScanBurst <= 0 {
		return errors.New("server.scan_rate and server.scan_burst must be positive")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Vision.Temperature < 0 || c.Vision.Temperature > 2 {
		return errors.New("vision.temperature must be between 0 and 2")
	}
	return nil
}

// Redacted returns a copy safe to show in the UI.
func (c Config) Redacted() Config {
	out := c
	out.Form.AddressLines = append([]string(nil), c.Form.AddressLines...)
	if out.Vision.APIKey != "" {
		out.Vision.APIKey = "********"
	}
	if out.Webhook.URL != "" {
		out.Webhook.URL = "********"
	}
	return out
}

// LoadConfig reads path (if it exists), applies environment overrides,
// validates, and installs the result as the process-wide config.
func LoadConfig(path string) (Config, error) {
	loaded := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &loaded); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// defaults + env only
		default:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := applyEnv(&loaded); err != nil {
		return Config{}, err
	}
	if err := loaded.Validate(); err != nil {
		return Config{}, err
	}

	mu.Lock()
	cfg = loaded
	mu.Unlock()
	return loaded, nil
}

// SaveConfig writes c to path as YAML. Secrets are written as held in memory;
// keep them in the environment if the file is shared.
func SaveConfig(path string, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

func applyEnv(c *Config) error {
	str := map[string]*string{
		"AUDITFORM_ADDR":            &c.Server.Addr,
		"AUDITFORM_DB_PATH":         &c.Database.Path,
		"AUDITFORM_AUDITOR":         &c.Form.Auditor,
		"AUDITFORM_VISION_BASE_URL": &c.Vision.BaseURL,
		"AUDITFORM_VISION_MODEL":    &c.Vision.Model,
		"AUDITFORM_VISION_API_KEY":  &c.Vision.APIKey,
		"AUDITFORM_WEBHOOK_URL":     &c.Webhook.URL,
		"AUDITFORM_BROWSER_PATH":    &c.Export.BrowserPath,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("AUDITFORM_OPEN_BROWSER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUDITFORM_OPEN_BROWSER: %w", err)
		}
		c.Server.OpenBrowser = b
	}
	if v, ok := os.LookupEnv("AUDITFORM_CATALOG_COMPLETION"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUDITFORM_CATALOG_COMPLETION: %w", err)
		}
		c.Form.CatalogCompletion = b
	}
	if v, ok := os.LookupEnv("AUDITFORM_VISION_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AUDITFORM_VISION_TEMPERATURE: %w", err)
		}
		c.Vision.Temperature = f
	}
	return nil
}
