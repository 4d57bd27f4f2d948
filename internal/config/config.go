package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAnchorDate = "2026-01-12"

	configPathEnv   = "EVALSDASH_CONFIG"
	serverPortEnv   = "EVALSDASH_PORT"
	passwordEnv     = "DASHBOARD_PASSWORD"
	jwtSecretEnv    = "JWT_SECRET"
	originTokenEnv  = "ORIGIN_API_TOKEN"
	mirrorCSVURLEnv = "MIRROR_CSV_URL"
	statusURLEnv    = "SYNC_STATUS_URL"
	ordersFileEnv   = "ORDERS_FILE"
	logLevelEnv     = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Auth    AuthConfig    `yaml:"auth"`
	Sources SourcesConfig `yaml:"sources"`
	Polling PollingConfig `yaml:"polling"`
	Revenue RevenueConfig `yaml:"revenue"`
	Orders  OrdersConfig  `yaml:"orders"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AuthConfig gates the dashboard API. The password check is a UX gate, not a
// security boundary; tokens exist so the presentation layer has a session
// flag to hold on to.
type AuthConfig struct {
	Password       string `yaml:"password"`
	JWTSecret      string `yaml:"jwtSecret"`
	SessionTTLDays int    `yaml:"sessionTtlDays"`
}

// SourcesConfig selects where the CSV and the sync-status descriptor come
// from. When an origin token is present the authenticated origin API is used
// for the CSV; otherwise the public mirror serves it.
type SourcesConfig struct {
	MirrorCSVURL string `yaml:"mirrorCsvUrl"`
	StatusURL    string `yaml:"statusUrl"`
	OriginCSVURL string `yaml:"originCsvUrl"`
	OriginToken  string `yaml:"originToken"`
	TriggerURL   string `yaml:"triggerUrl"`
	TriggerRef   string `yaml:"triggerRef"`
	ConsoleURL   string `yaml:"consoleUrl"`
}

// PollingConfig carries the scheduler cadences as duration strings.
type PollingConfig struct {
	NormalInterval string `yaml:"normalInterval"`
	FastInterval   string `yaml:"fastInterval"`
	FastWindow     string `yaml:"fastWindow"`
	DataRefresh    string `yaml:"dataRefresh"`
}

// Duration parses one cadence field, falling back when empty or malformed.
func (p PollingConfig) Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("config: bad duration %q, using %s", value, fallback)
		return fallback
	}
	return d
}

// RevenueConfig anchors the weekly attribution window.
type RevenueConfig struct {
	AnchorDate      string `yaml:"anchorDate"`
	PricePerProblem int    `yaml:"pricePerProblem"`
}

// Anchor resolves the configured anchor date, reverting to the default when
// unparseable.
func (r RevenueConfig) Anchor() time.Time {
	for _, candidate := range []string{r.AnchorDate, defaultAnchorDate} {
		if candidate == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02", candidate); err == nil {
			return t
		}
		log.Printf("config: bad anchor date %q", candidate)
	}
	return time.Time{}
}

// OrdersConfig points at the curated orders file.
type OrdersConfig struct {
	Path string `yaml:"path"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverPortEnv); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(passwordEnv); v != "" {
		c.Auth.Password = v
	}
	if v := os.Getenv(jwtSecretEnv); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(originTokenEnv); v != "" {
		c.Sources.OriginToken = v
	}
	if v := os.Getenv(mirrorCSVURLEnv); v != "" {
		c.Sources.MirrorCSVURL = v
	}
	if v := os.Getenv(statusURLEnv); v != "" {
		c.Sources.StatusURL = v
	}
	if v := os.Getenv(ordersFileEnv); v != "" {
		c.Orders.Path = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Port != "" {
		base.Server = override.Server
	}
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Auth.Password != "" {
		base.Auth.Password = override.Auth.Password
	}
	if override.Auth.JWTSecret != "" {
		base.Auth.JWTSecret = override.Auth.JWTSecret
	}
	if override.Auth.SessionTTLDays > 0 {
		base.Auth.SessionTTLDays = override.Auth.SessionTTLDays
	}

	if override.Sources.MirrorCSVURL != "" {
		base.Sources.MirrorCSVURL = override.Sources.MirrorCSVURL
	}
	if override.Sources.StatusURL != "" {
		base.Sources.StatusURL = override.Sources.StatusURL
	}
	if override.Sources.OriginCSVURL != "" {
		base.Sources.OriginCSVURL = override.Sources.OriginCSVURL
	}
	if override.Sources.OriginToken != "" {
		base.Sources.OriginToken = override.Sources.OriginToken
	}
	if override.Sources.TriggerURL != "" {
		base.Sources.TriggerURL = override.Sources.TriggerURL
	}
	if override.Sources.TriggerRef != "" {
		base.Sources.TriggerRef = override.Sources.TriggerRef
	}
	if override.Sources.ConsoleURL != "" {
		base.Sources.ConsoleURL = override.Sources.ConsoleURL
	}

	if override.Polling.NormalInterval != "" {
		base.Polling.NormalInterval = override.Polling.NormalInterval
	}
	if override.Polling.FastInterval != "" {
		base.Polling.FastInterval = override.Polling.FastInterval
	}
	if override.Polling.FastWindow != "" {
		base.Polling.FastWindow = override.Polling.FastWindow
	}
	if override.Polling.DataRefresh != "" {
		base.Polling.DataRefresh = override.Polling.DataRefresh
	}

	if override.Revenue.AnchorDate != "" {
		base.Revenue.AnchorDate = override.Revenue.AnchorDate
	}
	if override.Revenue.PricePerProblem > 0 {
		base.Revenue.PricePerProblem = override.Revenue.PricePerProblem
	}

	if override.Orders.Path != "" {
		base.Orders.Path = override.Orders.Path
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:  ServerConfig{Port: "8080"},
		Logging: LoggingConfig{Level: "info"},
		Auth: AuthConfig{
			Password:       "evaluations",
			JWTSecret:      "",
			SessionTTLDays: 7,
		},
		Sources: SourcesConfig{
			MirrorCSVURL: "https://mirror.example.org/submissions.csv",
			StatusURL:    "https://mirror.example.org/sync-status.json",
			OriginCSVURL: "https://api.example.org/repos/evals/contents/submissions.csv?ref=main",
			TriggerURL:   "https://api.example.org/repos/evals/actions/workflows/sync-submissions.yml/dispatches",
			TriggerRef:   "main",
			ConsoleURL:   "https://console.example.org/workflows/sync-submissions",
		},
		Polling: PollingConfig{
			NormalInterval: "10s",
			FastInterval:   "3s",
			FastWindow:     "90s",
			DataRefresh:    "30s",
		},
		Revenue: RevenueConfig{
			AnchorDate:      defaultAnchorDate,
			PricePerProblem: 500,
		},
		Orders: OrdersConfig{Path: ""},
	}
}
