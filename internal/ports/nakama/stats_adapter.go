package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"euchre/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	statsKey = "lifetime"
	// pointsCurrency is the wallet entry credited with every point a user scores.
	pointsCurrency = "euchre_points"
	// maxStatsRetries bounds optimistic-concurrency retries on the stats object.
	maxStatsRetries = 3
)

// NakamaStatsAdapter implements ports.StatsPort using Nakama storage plus the wallet.
type NakamaStatsAdapter struct {
	nk         runtime.NakamaModule
	collection string
	now        func() time.Time
}

// NewNakamaStatsAdapter creates a stats adapter writing to collection.
func NewNakamaStatsAdapter(nk runtime.NakamaModule, collection string) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{nk: nk, collection: collection, now: time.Now}
}

// InitStatsOnce writes an empty record only if none exists.
func (a *NakamaStatsAdapter) InitStatsOnce(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	value, err := json.Marshal(ports.PlayerStats{UpdatedAt: a.now().UTC().Format(time.RFC3339)})
	if err != nil {
		return false, fmt.Errorf("failed to marshal stats: %w", err)
	}

	storageWrites := []*runtime.StorageWrite{a.write(userID, string(value), "*")}
	_, _, err = a.nk.MultiUpdate(ctx, nil, storageWrites, nil, nil, false)
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create stats: %w", err)
	}
	return true, nil
}

// RecordHand folds rec into the stored record and credits earned points to the wallet
// in one MultiUpdate. A concurrent writer causes a re-read and retry.
func (a *NakamaStatsAdapter) RecordHand(ctx context.Context, rec ports.HandRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("userID is required")
	}
	for attempt := 0; attempt < maxStatsRetries; attempt++ {
		stats, version, err := a.read(ctx, rec.UserID)
		if err != nil {
			return err
		}
		stats.Apply(rec)
		stats.UpdatedAt = a.now().UTC().Format(time.RFC3339)
		value, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		if version == "" {
			// No record yet: only create one.
			version = "*"
		}

		var walletUpdates []*runtime.WalletUpdate
		if rec.Points > 0 {
			walletUpdates = []*runtime.WalletUpdate{{
				UserID:    rec.UserID,
				Changeset: map[string]int64{pointsCurrency: int64(rec.Points)},
				Metadata:  map[string]interface{}{"game_id": rec.GameID, "reason": "hand_points"},
			}}
		}

		_, _, err = a.nk.MultiUpdate(ctx, nil, []*runtime.StorageWrite{a.write(rec.UserID, string(value), version)}, nil, walletUpdates, true)
		if err == nil {
			return nil
		}
		if !errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return fmt.Errorf("failed to record hand for user %s: %w", rec.UserID, err)
		}
	}
	return fmt.Errorf("failed to record hand for user %s: %w", rec.UserID, runtime.ErrStorageRejectedVersion)
}

// GetStats returns the stored record, or a zero record when the user has none.
func (a *NakamaStatsAdapter) GetStats(ctx context.Context, userID string) (ports.PlayerStats, error) {
	stats, _, err := a.read(ctx, userID)
	return stats, err
}

func (a *NakamaStatsAdapter) read(ctx context.Context, userID string) (ports.PlayerStats, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: a.collection,
		Key:        statsKey,
		UserID:     userID,
	}})
	if err != nil {
		return ports.PlayerStats{}, "", fmt.Errorf("failed to read stats: %w", err)
	}
	if len(objects) == 0 {
		return ports.PlayerStats{}, "", nil
	}
	var stats ports.PlayerStats
	if err := json.Unmarshal([]byte(objects[0].Value), &stats); err != nil {
		return ports.PlayerStats{}, "", fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return stats, objects[0].Version, nil
}

func (a *NakamaStatsAdapter) write(userID, value, version string) *runtime.StorageWrite {
	return &runtime.StorageWrite{
		Collection:      a.collection,
		Key:             statsKey,
		UserID:          userID,
		Value:           value,
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}
}

var _ ports.StatsPort = (*NakamaStatsAdapter)(nil)
