// Package store persists simulator runs to Postgres.
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"euchre/internal/sim"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

var ErrRunNotFound = errors.New("simulation run not found")

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// StartRun inserts a run row and returns its id.
func (db *DB) StartRun(ctx context.Context, info sim.RunInfo) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO sim_runs(brain_a, brain_b, seed)
		VALUES ($1,$2,$3)
		RETURNING id
	`, info.Brains[0], info.Brains[1], info.Seed).Scan(&id)
	return id, err
}

// RecordHand stores one hand. Re-recording a hand number overwrites it.
func (db *DB) RecordHand(ctx context.Context, runID int64, res sim.HandResult) error {
	_, err := db.Exec(ctx, `
		INSERT INTO sim_hands(run_id, hand_number, dealer_seat, maker_seat, trump, bid_round,
		                      maker_tricks, points_a, points_b, reshuffles)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (run_id, hand_number) DO UPDATE
		  SET dealer_seat  = EXCLUDED.dealer_seat,
		      maker_seat   = EXCLUDED.maker_seat,
		      trump        = EXCLUDED.trump,
		      bid_round    = EXCLUDED.bid_round,
		      maker_tricks = EXCLUDED.maker_tricks,
		      points_a     = EXCLUDED.points_a,
		      points_b     = EXCLUDED.points_b,
		      reshuffles   = EXCLUDED.reshuffles
	`, handArgs(runID, res)...)
	return err
}

func handArgs(runID int64, res sim.HandResult) []any {
	return []any{
		runID, res.HandNumber, res.DealerSeat, res.MakerSeat, res.Trump.String(), res.BidRound,
		res.MakerTricks, res.Points[0], res.Points[1], res.Reshuffles,
	}
}

// FinishRun stamps the run's finish time.
func (db *DB) FinishRun(ctx context.Context, runID int64) error {
	tag, err := db.Exec(ctx, `UPDATE sim_runs SET finished_at = now() WHERE id = $1`, runID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return nil
}

// RunTotals sums the points recorded for a run.
func (db *DB) RunTotals(ctx context.Context, runID int64) (hands int, points [2]int, err error) {
	err = db.QueryRow(ctx, `
		SELECT r.id, COUNT(h.id), COALESCE(SUM(h.points_a),0), COALESCE(SUM(h.points_b),0)
		  FROM sim_runs r
		  LEFT JOIN sim_hands h ON h.run_id = r.id
		 WHERE r.id = $1
		 GROUP BY r.id
	`, runID).Scan(new(int64), &hands, &points[0], &points[1])
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, points, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return hands, points, err
}

var _ sim.Recorder = (*DB)(nil)
