package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// BotLevel selects a brain implementation.
type BotLevel string

const (
	BotLevelBasic    BotLevel = "basic"
	BotLevelRandom   BotLevel = "random"
	BotLevelCounting BotLevel = "counting"
)

// ParseLevel maps a config or difficulty string to a level. Empty means basic.
func ParseLevel(s string) (BotLevel, error) {
	switch s {
	case "", "basic", "easy", "medium":
		return BotLevelBasic, nil
	case "random":
		return BotLevelRandom, nil
	case "counting", "hard":
		return BotLevelCounting, nil
	}
	return "", fmt.Errorf("unknown bot level: %q", s)
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelBasic, "":
		return BasicBrain{}, nil
	case BotLevelRandom:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		return NewRandomBrain(rng), nil
	case BotLevelCounting:
		return NewCountingBrain(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %s", level)
	}
}
