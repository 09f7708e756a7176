package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// GameConfig tunes the hosted euchre table.
type GameConfig struct {
	// BotLevel names the brain used for the AI seat ("basic", "counting" or "random").
	BotLevel           string `json:"bot_level"`
	BotMinDelaySeconds int    `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int    `json:"bot_max_delay_seconds"`
	// DealerSeat is the first dealer: 0, 1, or -1 to pick at random.
	DealerSeat int `json:"dealer_seat"`

	SaveCollection  string `json:"save_collection"`
	StatsCollection string `json:"stats_collection"`

	ResumeIssuer          string `json:"resume_issuer"`
	ResumeTokenTTLSeconds int    `json:"resume_token_ttl_seconds"`
	// ResumeSecret is normally supplied through the runtime environment rather than the file.
	ResumeSecret string `json:"resume_secret,omitempty"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() GameConfig {
	return GameConfig{
		BotLevel:              "basic",
		BotMinDelaySeconds:    1,
		BotMaxDelaySeconds:    2,
		DealerSeat:            -1,
		SaveCollection:        "euchre_saves",
		StatsCollection:       "euchre_stats",
		ResumeIssuer:          "euchre",
		ResumeTokenTTLSeconds: 7 * 24 * 60 * 60,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Missing fields keep their defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Defaults()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		if err := c.Validate(); err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns a copy of the loaded configuration, or the defaults.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Defaults()
	}
	return *cfg
}

// Validate rejects settings the match handler cannot honour.
func (c GameConfig) Validate() error {
	if c.BotMinDelaySeconds < 0 || c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		return fmt.Errorf("invalid bot delay window %d..%d", c.BotMinDelaySeconds, c.BotMaxDelaySeconds)
	}
	if c.DealerSeat < -1 || c.DealerSeat > 1 {
		return fmt.Errorf("invalid dealer seat %d", c.DealerSeat)
	}
	if c.SaveCollection == "" || c.StatsCollection == "" {
		return fmt.Errorf("storage collections must be named")
	}
	return nil
}

// ResumeTokenTTL returns the resume token lifetime.
func (c GameConfig) ResumeTokenTTL() time.Duration {
	return time.Duration(c.ResumeTokenTTLSeconds) * time.Second
}

// Runtime environment keys read from the Nakama env map.
const (
	EnvBotLevel     = "euchre_bot_level"
	EnvBotMinDelay  = "euchre_bot_min_delay_sec"
	EnvBotMaxDelay  = "euchre_bot_max_delay_sec"
	EnvResumeSecret = "euchre_resume_secret"
)

// WithEnv returns c with overrides from the runtime environment applied.
// Unparseable numbers are ignored and the window is widened if min exceeds max.
func (c GameConfig) WithEnv(env map[string]string) GameConfig {
	if v, ok := env[EnvBotLevel]; ok && v != "" {
		c.BotLevel = v
	}
	if v, ok := env[EnvBotMinDelay]; ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			c.BotMinDelaySeconds = i
		}
	}
	if v, ok := env[EnvBotMaxDelay]; ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			c.BotMaxDelaySeconds = i
		}
	}
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		c.BotMaxDelaySeconds = c.BotMinDelaySeconds
	}
	if v, ok := env[EnvResumeSecret]; ok && v != "" {
		c.ResumeSecret = v
	}
	return c
}
