package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// fallbackPrefix marks generated bot ids used when no identity file is loaded.
const fallbackPrefix = "euchre-bot-"

// Identity describes one AI opponent the server can seat.
type Identity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"`
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identities    []Identity
	byUserID      map[string]Identity
	mu            sync.RWMutex
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		var list []Identity
		if err := json.Unmarshal(data, &list); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		setIdentities(list)
	})
	return loadErr
}

func setIdentities(list []Identity) {
	mu.Lock()
	defer mu.Unlock()
	identities = list
	byUserID = make(map[string]Identity, len(list))
	for _, id := range list {
		if id.UserID != "" {
			byUserID[id.UserID] = id
		}
	}
}

// ProvisionBots ensures that bot accounts exist in the Nakama database and carry is_bot metadata.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	provisionOnce.Do(func() {
		mu.RLock()
		list := append([]Identity(nil), identities...)
		mu.RUnlock()

		for i := range list {
			id := &list[i]
			if id.DeviceID == "" {
				continue
			}
			userID, username, _, err := nk.AuthenticateDevice(ctx, id.DeviceID, id.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", id.Username, err)
				continue
			}
			id.UserID = userID
			id.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"level":        id.Level,
				"avatar_index": id.AvatarIndex,
			}
			if err := nk.AccountUpdateId(ctx, userID, id.Username, metadata, id.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
			}
			logger.Info("ProvisionBots: Bot %s (%s) is ready at level %q", id.DisplayName, userID, id.Level)
		}
		setIdentities(list)
	})
}

// PickIdentity returns an identity by index (mod pool size), or a generated one when the pool is empty.
func PickIdentity(index int) Identity {
	mu.RLock()
	defer mu.RUnlock()
	if len(identities) == 0 {
		return Identity{
			UserID:      fmt.Sprintf("%s%d", fallbackPrefix, index),
			DisplayName: fmt.Sprintf("AI Player %d", index+1),
		}
	}
	return identities[index%len(identities)]
}

// IsBot reports whether the given user ID belongs to a bot seat.
func IsBot(userID string) bool {
	if strings.HasPrefix(userID, fallbackPrefix) {
		return true
	}
	mu.RLock()
	defer mu.RUnlock()
	_, ok := byUserID[userID]
	return ok
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	mu.RLock()
	defer mu.RUnlock()
	id, ok := byUserID[userID]
	if !ok {
		return ""
	}
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Username
}

// LevelFor resolves the brain a bot plays with. A configured level always wins;
// the identity's own level only applies when nothing is configured.
func LevelFor(userID, configured string) (BotLevel, error) {
	if configured != "" {
		return ParseLevel(configured)
	}
	mu.RLock()
	id, ok := byUserID[userID]
	mu.RUnlock()
	if ok && id.Level != "" {
		if level, err := ParseLevel(id.Level); err == nil {
			return level, nil
		}
	}
	return BotLevelBasic, nil
}
