// Package config loads and normalises portfolio server configuration files.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Its-donkey/portfolio/internal/contact"
	"github.com/Its-donkey/portfolio/logging"
)

const (
	defaultAddr       = "127.0.0.1"
	defaultPort       = ":8080"
	defaultAssetsDir  = "web"
	defaultSiteName   = "Portfolio"
	defaultLogLevel   = "info"
	defaultRelayLimit = 10 * time.Second

	accessKeyPlaceholder = "YOUR_WEB3FORMS_ACCESS_KEY_HERE"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Port string `yaml:"port"`
}

// AppConfig configures the served assets and page metadata.
type AppConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Assets      string `yaml:"assets"`
	Content     string `yaml:"content"`
}

// ContactConfig configures the form relay.
type ContactConfig struct {
	AccessKey      string `yaml:"access_key"`
	Endpoint       string `yaml:"endpoint"`
	Subject        string `yaml:"subject"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the relay timeout as a duration.
func (c ContactConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRelayLimit
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoggingConfig configures the structured logger and optional rotating files.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Dir       string `yaml:"dir"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// Config represents the combined runtime settings parsed from portfolio.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	App     AppConfig     `yaml:"app"`
	Contact ContactConfig `yaml:"contact"`
	Logging LoggingConfig `yaml:"logging"`
}

// Load reads the YAML config at path and applies defaults and environment
// fallbacks. An empty path yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// DefaultConfig returns the defaults with environment fallbacks applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = defaultAddr
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		c.Server.Port = defaultPort
	}
	if !strings.HasPrefix(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}
	if c.App.Name == "" {
		c.App.Name = defaultSiteName
	}
	if c.App.Assets == "" {
		c.App.Assets = defaultAssetsDir
	}
	if c.Contact.Endpoint == "" {
		c.Contact.Endpoint = contact.DefaultEndpoint
	}
	if c.Contact.Subject == "" {
		c.Contact.Subject = contact.DefaultSubject
	}
	if isPlaceholder(c.Contact.AccessKey) {
		c.Contact.AccessKey = accessKeyFromEnv()
	}
	c.Contact.AccessKey = strings.TrimSpace(c.Contact.AccessKey)
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// ListenAddr joins the configured address and port.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Addr, strings.TrimPrefix(c.Server.Port, ":"))
}

// SetListen overrides the listener from a host:port or :port string.
func (c *Config) SetListen(listen string) error {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", listen, err)
	}
	if host != "" {
		c.Server.Addr = host
	}
	c.Server.Port = ":" + port
	return nil
}

// LogLevel returns the parsed logging level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Validate reports configuration the server cannot start with.
func (c Config) Validate() error {
	if c.Contact.AccessKey == "" {
		return fmt.Errorf("contact.access_key (or WEB3FORMS_ACCESS_KEY): %w", contact.ErrMissingAccessKey)
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr()); err != nil {
		return fmt.Errorf("server listen address: %w", err)
	}
	return nil
}

func isPlaceholder(key string) bool {
	key = strings.TrimSpace(key)
	return key == "" || key == accessKeyPlaceholder
}

func accessKeyFromEnv() string {
	keys := []string{
		strings.TrimSpace(os.Getenv("WEB3FORMS_ACCESS_KEY")),
		strings.TrimSpace(os.Getenv("VITE_WEB3FORMS_KEY")),
	}
	for _, key := range keys {
		if key != "" && key != accessKeyPlaceholder {
			return key
		}
	}
	return ""
}
