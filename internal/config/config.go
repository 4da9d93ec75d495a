// Package config handles loading and validating the client configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
)

// Transport drivers.
const (
	DriverHTTP     = "http"
	DriverFastHTTP = "fasthttp"
)

var countryPattern = regexp.MustCompile(`^[a-z]{2}$`)

// Config is the top-level configuration.
type Config struct {
	IKEA      IKEAConfig      `yaml:"ikea"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Watch     WatchConfig     `yaml:"watch"`
}

// IKEAConfig selects the market and upstream locations.
type IKEAConfig struct {
	Country   string            `yaml:"country"`
	Language  string            `yaml:"language"`
	BaseURL   string            `yaml:"base_url"`
	ClientIDs map[string]string `yaml:"client_ids"`
	URLs      URLsConfig        `yaml:"urls"`
}

// URLsConfig overrides upstream service locations. Empty fields use the
// production hosts.
type URLsConfig struct {
	GuestToken   string `yaml:"guest_token"`
	Ingka        string `yaml:"ingka"`
	Cart         string `yaml:"cart"`
	Purchases    string `yaml:"purchases"`
	IOWS         string `yaml:"iows"`
	Search       string `yaml:"search"`
	Auth         string `yaml:"auth"`
	OrderCapture string `yaml:"order_capture"`
}

// AuthConfig holds account credentials. Token, when set, is used as is and
// skips the login flow.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`
}

// TransportConfig defines how requests are executed.
type TransportConfig struct {
	Driver      string          `yaml:"driver"` // http, fasthttp
	Timeout     time.Duration   `yaml:"timeout"`
	Concurrency int             `yaml:"concurrency"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines per-host request rate limiting.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// TelemetryConfig defines trace export. An empty endpoint disables export.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
	Insecure     bool   `yaml:"insecure"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, pretty
}

// WatchConfig defines the order status watcher.
type WatchConfig struct {
	Schedule       string   `yaml:"schedule"` // cron spec or @every
	Orders         []string `yaml:"orders"`
	Email          string   `yaml:"email"`
	DiscordWebhook string   `yaml:"discord_webhook"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	return finish(cfg)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Finish applies defaults to and validates a config assembled elsewhere,
// such as from flags.
func Finish(cfg *Config) (*Config, error) {
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Constants converts the market settings for the ikea package.
func (c *IKEAConfig) Constants() ikea.Constants {
	ids := make(map[string]string, len(c.ClientIDs))
	for k, v := range c.ClientIDs {
		ids[k] = v
	}
	return ikea.Constants{
		Country:   c.Country,
		Language:  c.Language,
		BaseURL:   c.BaseURL,
		ClientIDs: ids,
		URLs: ikea.URLs{
			GuestToken:   c.URLs.GuestToken,
			Ingka:        c.URLs.Ingka,
			Cart:         c.URLs.Cart,
			Purchases:    c.URLs.Purchases,
			IOWS:         c.URLs.IOWS,
			Search:       c.URLs.Search,
			Auth:         c.URLs.Auth,
			OrderCapture: c.URLs.OrderCapture,
		},
	}
}

func applyDefaults(cfg *Config) {
	applyIKEADefaults(&cfg.IKEA)
	applyTransportDefaults(&cfg.Transport)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
	applyWatchDefaults(&cfg.Watch)
}

func applyIKEADefaults(i *IKEAConfig) {
	def := ikea.DefaultConstants()
	if i.Country == "" {
		i.Country = def.Country
	}
	if i.Language == "" {
		i.Language = def.Language
	}
	if i.BaseURL == "" {
		i.BaseURL = def.BaseURL
	}
}

func applyTransportDefaults(t *TransportConfig) {
	if t.Driver == "" {
		t.Driver = DriverHTTP
	}
	if t.Timeout == 0 {
		t.Timeout = ikea.DefaultTimeout
	}
	if t.Concurrency == 0 {
		t.Concurrency = 4
	}
	if t.RateLimit.PerSecond == 0 {
		t.RateLimit.PerSecond = 5.0
	}
	if t.RateLimit.Burst == 0 {
		t.RateLimit.Burst = 10
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "ikea-api-client"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyWatchDefaults(w *WatchConfig) {
	if w.Schedule == "" {
		w.Schedule = "@every 30m"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if !countryPattern.MatchString(cfg.IKEA.Country) {
		errs = append(errs, fmt.Errorf("ikea.country must be a two-letter lower-case code (got %q)", cfg.IKEA.Country))
	}

	switch cfg.Transport.Driver {
	case DriverHTTP, DriverFastHTTP:
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"transport.driver must be one of: http, fasthttp (got %q)",
				cfg.Transport.Driver,
			),
		)
	}
	if cfg.Transport.Timeout < 0 {
		errs = append(errs, errors.New("transport.timeout must not be negative"))
	}
	if cfg.Transport.Concurrency < 0 {
		errs = append(errs, errors.New("transport.concurrency must not be negative"))
	}
	if cfg.Transport.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("transport.rate_limit.per_second must not be negative"))
	}

	if cfg.Auth.Password != "" && cfg.Auth.Username == "" {
		errs = append(errs, errors.New("auth.username is required when auth.password is set"))
	}

	switch cfg.Logging.Format {
	case "text", "json", "pretty":
	default:
		errs = append(
			errs,
			fmt.Errorf("logging.format must be one of: text, json, pretty (got %q)", cfg.Logging.Format),
		)
	}

	if _, err := cron.ParseStandard(cfg.Watch.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("watch.schedule: %w", err))
	}

	return errors.Join(errs...)
}
