package ports

import (
	"context"
	"errors"

	"euchre/internal/domain"
)

// ErrSaveNotFound is returned when no saved game exists under the requested id.
var ErrSaveNotFound = errors.New("saved game not found")

// SavedGame is a snapshot plus the seating needed to reopen it against the same AI.
type SavedGame struct {
	GameID    string          `json:"game_id"`
	HumanSeat int             `json:"human_seat"`
	BotUserID string          `json:"bot_user_id"`
	BotLevel  string          `json:"bot_level"`
	SavedAt   int64           `json:"saved_at"`
	Snapshot  domain.Snapshot `json:"snapshot"`
}

// SaveStore persists games a user can resume later.
type SaveStore interface {
	SaveGame(ctx context.Context, userID string, save SavedGame) error
	LoadGame(ctx context.Context, userID, gameID string) (SavedGame, error)
	DeleteGame(ctx context.Context, userID, gameID string) error
}
