package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/nfrund/codebattle/internal/battle"
)

// Provider is the read-only view of the configuration that modules depend on.
type Provider interface {
	GetAddr() string
	GetSessionSecret() string
	GetLogFormat() string
	GetLogLevel() string
	GetStaticSource() string
	GetAutoAdvance() bool
	GetDelays() battle.Delays
	GetMatchIdleTTL() time.Duration
}

// Config holds all configuration for the application.
type Config struct {
	Addr          string        `env:"ADDR"            envDefault:":8080"`
	SessionSecret string        `env:"SESSION_SECRET"  envDefault:"codebattle-dev-secret-change-me"`
	LogFormat     string        `env:"LOG_FORMAT"      envDefault:"text"`
	LogLevel      string        `env:"LOG_LEVEL"       envDefault:"info"`
	StaticSource  string        `env:"APP_STATIC"      envDefault:"embed"`
	AutoAdvance   bool          `env:"AUTO_ADVANCE"    envDefault:"true"`
	AttackDelay   time.Duration `env:"ATTACK_DELAY"    envDefault:"1s"`
	OpponentDelay time.Duration `env:"OPPONENT_DELAY"  envDefault:"2s"`
	DefeatDelay   time.Duration `env:"DEFEAT_DELAY"    envDefault:"1s"`
	AdvanceDelay  time.Duration `env:"ADVANCE_DELAY"   envDefault:"1s"`
	GameOverDelay time.Duration `env:"GAME_OVER_DELAY" envDefault:"2s"`
	MatchIdleTTL  time.Duration `env:"MATCH_IDLE_TTL"  envDefault:"30m"`
}

var _ Provider = (*Config)(nil)

// New loads a .env file if present and parses configuration from the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return Parse()
}

// Parse reads configuration from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StaticSource {
	case "embed", "disk":
	default:
		return fmt.Errorf("APP_STATIC must be embed or disk, got %q", c.StaticSource)
	}
	for name, d := range map[string]time.Duration{
		"ATTACK_DELAY":    c.AttackDelay,
		"OPPONENT_DELAY":  c.OpponentDelay,
		"DEFEAT_DELAY":    c.DefeatDelay,
		"ADVANCE_DELAY":   c.AdvanceDelay,
		"GAME_OVER_DELAY": c.GameOverDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 bytes")
	}
	return nil
}

func (c *Config) GetAddr() string          { return c.Addr }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetLogFormat() string     { return c.LogFormat }
func (c *Config) GetLogLevel() string      { return c.LogLevel }
func (c *Config) GetStaticSource() string  { return c.StaticSource }
func (c *Config) GetAutoAdvance() bool     { return c.AutoAdvance }

// GetDelays maps the configured pauses onto the engine's phase delays.
func (c *Config) GetDelays() battle.Delays {
	return battle.Delays{
		Attack:   c.AttackDelay,
		Opponent: c.OpponentDelay,
		Defeat:   c.DefeatDelay,
		Advance:  c.AdvanceDelay,
		GameOver: c.GameOverDelay,
	}
}

func (c *Config) GetMatchIdleTTL() time.Duration { return c.MatchIdleTTL }
