package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// SimConfig configures the headless AI-vs-AI simulator.
type SimConfig struct {
	DatabaseURL string
	LogLevel    slog.Level
	Hands       int
	Seed        int64
	Brains      [2]string
}

// LoadSim reads simulator settings from the process environment.
func LoadSim() (SimConfig, error) {
	c := SimConfig{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Brains:      [2]string{envOr("EUCHRE_SIM_BRAIN_A", "basic"), envOr("EUCHRE_SIM_BRAIN_B", "random")},
	}

	hands, err := strconv.Atoi(envOr("EUCHRE_SIM_HANDS", "100"))
	if err != nil || hands <= 0 {
		return SimConfig{}, fmt.Errorf("invalid EUCHRE_SIM_HANDS %q", os.Getenv("EUCHRE_SIM_HANDS"))
	}
	c.Hands = hands

	if v := os.Getenv("EUCHRE_SIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return SimConfig{}, fmt.Errorf("invalid EUCHRE_SIM_SEED %q: %w", v, err)
		}
		c.Seed = seed
	}

	level, err := ParseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return SimConfig{}, err
	}
	c.LogLevel = level
	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
