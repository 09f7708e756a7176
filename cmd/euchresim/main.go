// Command euchresim pits two bot brains against each other and optionally records
// every hand to Postgres.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"euchre/internal/config"
	"euchre/internal/sim"
	"euchre/internal/store"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:]))
}

// run executes the simulator and returns the process exit code.
func run(args []string) int {
	cfg, err := config.LoadSim()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	var migrate bool
	for _, a := range args {
		if a == "--migrate" {
			migrate = true
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		recorder sim.Recorder
		db       *store.DB
	)
	if cfg.DatabaseURL != "" {
		db, err = store.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return 1
		}
		defer db.Close(ctx)
		if err := db.Ping(ctx); err != nil {
			logger.Error("database unreachable", "error", err)
			return 1
		}
		if err := store.Migrate(ctx, db); err != nil {
			logger.Error("migration failed", "error", err)
			return 1
		}
		if migrate {
			logger.Info("migration complete")
			return 0
		}
		recorder = db
	} else if migrate {
		logger.Error("--migrate requires DATABASE_URL")
		return 1
	}

	runner, err := sim.NewRunner(sim.RunInfo{Brains: cfg.Brains, Seed: cfg.Seed}, recorder, logger)
	if err != nil {
		logger.Error("failed to build runner", "error", err)
		return 1
	}

	logger.Info("simulation starting", "brains", cfg.Brains, "hands", cfg.Hands, "seed", cfg.Seed, "recording", recorder != nil)
	sum, err := runner.Run(ctx, cfg.Hands)
	if err != nil {
		logger.Error("simulation stopped", "error", err, "hands", sum.Hands)
		return 1
	}
	logger.Info("simulation finished",
		"hands", sum.Hands,
		"score_a", sum.Scores[0],
		"score_b", sum.Scores[1],
		"hands_won_a", sum.HandsWon[0],
		"hands_won_b", sum.HandsWon[1],
		"marches", sum.Marches,
		"euchres", sum.Euchres,
	)

	if db != nil {
		if err := checkTotals(ctx, db, sum, logger); err != nil {
			logger.Error("recorded totals mismatch", "error", err, "run_id", sum.RunID)
			return 1
		}
	}
	return 0
}

type totalsReader interface {
	RunTotals(ctx context.Context, runID int64) (hands int, points [2]int, err error)
}

// checkTotals reads the stored run back and compares it with the in-memory summary.
func checkTotals(ctx context.Context, db totalsReader, sum sim.Summary, logger *slog.Logger) error {
	hands, points, err := db.RunTotals(ctx, sum.RunID)
	if err != nil {
		return err
	}
	logger.Info("recorded run",
		"run_id", sum.RunID,
		"hands", hands,
		"points_a", points[0],
		"points_b", points[1],
	)
	if hands != sum.Hands || points != sum.Scores {
		return fmt.Errorf("stored %d hands %v, played %d hands %v", hands, points, sum.Hands, sum.Scores)
	}
	return nil
}
