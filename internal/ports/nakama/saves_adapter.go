package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"euchre/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaSaveStore implements ports.SaveStore with one storage object per saved game,
// keyed by game id and owned by the saving user.
type NakamaSaveStore struct {
	nk         runtime.NakamaModule
	collection string
}

// NewNakamaSaveStore creates a save store writing to collection.
func NewNakamaSaveStore(nk runtime.NakamaModule, collection string) *NakamaSaveStore {
	return &NakamaSaveStore{nk: nk, collection: collection}
}

// SaveGame writes save, replacing any earlier save of the same game.
func (s *NakamaSaveStore) SaveGame(ctx context.Context, userID string, save ports.SavedGame) error {
	if userID == "" || save.GameID == "" {
		return fmt.Errorf("user and game id are required")
	}
	value, err := json.Marshal(save)
	if err != nil {
		return fmt.Errorf("failed to marshal saved game: %w", err)
	}
	_, err = s.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      s.collection,
		Key:             save.GameID,
		UserID:          userID,
		Value:           string(value),
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write saved game %s: %w", save.GameID, err)
	}
	return nil
}

// LoadGame reads a saved game. ports.ErrSaveNotFound is returned when none exists.
func (s *NakamaSaveStore) LoadGame(ctx context.Context, userID, gameID string) (ports.SavedGame, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: s.collection,
		Key:        gameID,
		UserID:     userID,
	}})
	if err != nil {
		return ports.SavedGame{}, fmt.Errorf("failed to read saved game %s: %w", gameID, err)
	}
	if len(objects) == 0 {
		return ports.SavedGame{}, ports.ErrSaveNotFound
	}
	var save ports.SavedGame
	if err := json.Unmarshal([]byte(objects[0].Value), &save); err != nil {
		return ports.SavedGame{}, fmt.Errorf("failed to unmarshal saved game %s: %w", gameID, err)
	}
	return save, nil
}

// DeleteGame removes a saved game. Deleting a missing save is not an error.
func (s *NakamaSaveStore) DeleteGame(ctx context.Context, userID, gameID string) error {
	err := s.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: s.collection,
		Key:        gameID,
		UserID:     userID,
	}})
	if err != nil {
		return fmt.Errorf("failed to delete saved game %s: %w", gameID, err)
	}
	return nil
}

var _ ports.SaveStore = (*NakamaSaveStore)(nil)
