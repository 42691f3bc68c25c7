// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type UpstreamConfig struct {
	GamesURL   string `yaml:"games_url"`
	PlayersURL string `yaml:"players_url"`
	// Timeout bounds each upstream call; zero means no limit beyond the
	// request itself.
	Timeout time.Duration `yaml:"timeout"`
}

type ScheduleConfig struct {
	Timezone          string  `yaml:"timezone"`
	GameDurationHours float64 `yaml:"game_duration_hours"`
}

// GameDuration converts the configured hours, defaulting to two.
func (s ScheduleConfig) GameDuration() time.Duration {
	if s.GameDurationHours <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(s.GameDurationHours * float64(time.Hour))
}

type SessionsConfig struct {
	IdleTTL   time.Duration `yaml:"idle_ttl"`
	SweepCron string        `yaml:"sweep_cron"`
	Secure    bool          `yaml:"secure_cookie"`
}

type RateLimitConfig struct {
	Cooldown     time.Duration `yaml:"cooldown"`
	MaxPerHour   int           `yaml:"max_per_hour"`
	MaxIPPerHour int           `yaml:"max_ip_per_hour"`
	TrustProxy   bool          `yaml:"trust_proxy"`
}

type EmailConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

type ThemeConfig struct {
	PrimaryColor string `yaml:"primary_color"`
	AccentColor  string `yaml:"accent_color"`
	SurfaceColor string `yaml:"surface_color"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		BaseURL         string        `yaml:"base_url"`
		StaticDir       string        `yaml:"static_dir"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"app"`

	Upstream  UpstreamConfig  `yaml:"upstream"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Email     EmailConfig     `yaml:"email"`
	Theme     ThemeConfig     `yaml:"theme"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.Email.AccessKeyID = os.Getenv("AWS_SES_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SES_SECRET_ACCESS_KEY")
	if gamesURL := os.Getenv("GAMES_API_URL"); gamesURL != "" {
		cfg.Upstream.GamesURL = gamesURL
	}
	if playersURL := os.Getenv("GAME_PLAYERS_API_URL"); playersURL != "" {
		cfg.Upstream.PlayersURL = playersURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "Pickup Games"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.StaticDir == "" {
		c.App.StaticDir = "build/bin/static"
	}
	if c.App.ShutdownTimeout <= 0 {
		c.App.ShutdownTimeout = 30 * time.Second
	}
	if c.Upstream.GamesURL == "" {
		c.Upstream.GamesURL = "https://testliga.up.railway.app/futbol/api/games"
	}
	if c.Upstream.PlayersURL == "" {
		c.Upstream.PlayersURL = "https://testliga.up.railway.app/futbol/api/game-players"
	}
	if c.Sessions.IdleTTL <= 0 {
		c.Sessions.IdleTTL = 2 * time.Hour
	}
	if c.Sessions.SweepCron == "" {
		c.Sessions.SweepCron = "*/5 * * * *"
	}
	if c.RateLimit.Cooldown <= 0 {
		c.RateLimit.Cooldown = 10 * time.Second
	}
	if c.RateLimit.MaxPerHour <= 0 {
		c.RateLimit.MaxPerHour = 10
	}
	if c.RateLimit.MaxIPPerHour <= 0 {
		c.RateLimit.MaxIPPerHour = 30
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream timeout must not be negative")
	}
	if err := validateURL("upstream games_url", c.Upstream.GamesURL); err != nil {
		return err
	}
	if err := validateURL("upstream players_url", c.Upstream.PlayersURL); err != nil {
		return err
	}
	if tz := strings.TrimSpace(c.Schedule.Timezone); tz != "" && !strings.EqualFold(tz, "local") {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("invalid schedule timezone %q: %w", tz, err)
		}
	}
	if _, err := cron.ParseStandard(c.Sessions.SweepCron); err != nil {
		return fmt.Errorf("invalid sessions sweep_cron %q: %w", c.Sessions.SweepCron, err)
	}
	if c.Email.Enabled {
		if c.Email.Region == "" {
			return fmt.Errorf("email region is required when email is enabled")
		}
		if c.Email.Sender == "" {
			return fmt.Errorf("email sender is required when email is enabled")
		}
	}
	return nil
}

func validateURL(name, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL", name)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
