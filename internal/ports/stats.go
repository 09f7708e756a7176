package ports

import "context"

// PlayerStats is the lifetime record of one user across every game played.
type PlayerStats struct {
	HandsPlayed int    `json:"hands_played"`
	HandsWon    int    `json:"hands_won"`
	TricksWon   int    `json:"tricks_won"`
	Points      int    `json:"points"`
	Marches     int    `json:"marches"`
	Euchres     int    `json:"euchres"`
	UpdatedAt   string `json:"updated_at"`
}

// HandRecord is one user's outcome for a finished hand.
type HandRecord struct {
	UserID  string
	GameID  string
	Points  int
	Tricks  int
	Won     bool
	March   bool
	Euchred bool
}

// Apply folds a hand outcome into the lifetime record.
func (s *PlayerStats) Apply(rec HandRecord) {
	s.HandsPlayed++
	s.TricksWon += rec.Tricks
	s.Points += rec.Points
	if rec.Won {
		s.HandsWon++
	}
	if rec.March {
		s.Marches++
	}
	if rec.Euchred {
		s.Euchres++
	}
}

// StatsPort persists lifetime statistics.
type StatsPort interface {
	// InitStatsOnce creates an empty record. Returns created=false when one already exists.
	InitStatsOnce(ctx context.Context, userID string) (bool, error)
	// RecordHand adds a hand outcome to the user's record and credits the points earned.
	RecordHand(ctx context.Context, rec HandRecord) error
	// GetStats reads the user's record. A missing record reads as zero.
	GetStats(ctx context.Context, userID string) (PlayerStats, error)
}
