// Package sim plays AI-vs-AI euchre hands to compare bot brains.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"euchre/internal/app"
	"euchre/internal/bot"
	"euchre/internal/domain"
)

// maxStepsPerHand bounds a hand so a broken brain cannot spin forever. Each hand needs
// at most 10 plays plus bidding, and an all-pass redeal costs four more steps.
const maxStepsPerHand = 2000

// RunInfo describes one simulator run.
type RunInfo struct {
	Brains [2]string
	Seed   int64
}

// HandResult is the outcome of one simulated hand.
type HandResult struct {
	HandNumber  int
	DealerSeat  int
	MakerSeat   int
	Trump       domain.Suit
	BidRound    int
	MakerTricks int
	Points      [2]int
	Reshuffles  int
}

// Recorder persists simulation results.
type Recorder interface {
	StartRun(ctx context.Context, info RunInfo) (int64, error)
	RecordHand(ctx context.Context, runID int64, res HandResult) error
	FinishRun(ctx context.Context, runID int64) error
}

// Summary aggregates a run. RunID is zero when nothing was recorded.
type Summary struct {
	RunID    int64
	Hands    int
	Scores   [2]int
	HandsWon [2]int
	Marches  int
	Euchres  int
}

// Runner drives complete hands between two brains.
type Runner struct {
	svc      *app.Service
	agents   [2]*bot.Agent
	recorder Recorder
	logger   *slog.Logger
	info     RunInfo
}

// NewRunner builds a runner for the named brains. recorder may be nil.
func NewRunner(info RunInfo, recorder Recorder, logger *slog.Logger) (*Runner, error) {
	rng := rand.New(rand.NewSource(info.Seed))
	r := &Runner{
		svc:      app.NewService(rng),
		recorder: recorder,
		logger:   logger,
		info:     info,
	}
	for i, name := range info.Brains {
		level, err := bot.ParseLevel(name)
		if err != nil {
			return nil, err
		}
		brain, err := bot.NewBrain(level, rand.New(rand.NewSource(info.Seed+int64(i)+1)))
		if err != nil {
			return nil, err
		}
		r.agents[i] = &bot.Agent{ID: fmt.Sprintf("sim-%d", i), Name: name, Strategy: brain}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Run plays hands until n are complete or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, hands int) (Summary, error) {
	players := []*domain.Player{{Name: r.agents[0].Name}, {Name: r.agents[1].Name}}
	game, _, err := r.svc.NewGame(players, 0)
	if err != nil {
		return Summary{}, err
	}

	var runID int64
	if r.recorder != nil {
		if runID, err = r.recorder.StartRun(ctx, r.info); err != nil {
			return Summary{}, fmt.Errorf("start run: %w", err)
		}
	}

	sum := Summary{RunID: runID}
	for sum.Hands < hands {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := r.playHand(game)
		if err != nil {
			return sum, fmt.Errorf("hand %d: %w", game.HandNumber, err)
		}
		sum.Hands++
		sum.Scores[0] += res.Points[0]
		sum.Scores[1] += res.Points[1]
		if res.Points[0] >= res.Points[1] {
			sum.HandsWon[0]++
		} else {
			sum.HandsWon[1]++
		}
		switch {
		case res.MakerTricks >= domain.TricksPerHand:
			sum.Marches++
		case res.MakerTricks < 3:
			sum.Euchres++
		}
		r.logger.Debug("hand finished",
			"hand", res.HandNumber,
			"maker", res.MakerSeat,
			"trump", res.Trump.String(),
			"maker_tricks", res.MakerTricks,
			"points", res.Points,
		)
		if r.recorder != nil {
			if err := r.recorder.RecordHand(ctx, runID, res); err != nil {
				return sum, fmt.Errorf("record hand: %w", err)
			}
		}
	}

	if r.recorder != nil {
		if err := r.recorder.FinishRun(ctx, runID); err != nil {
			return sum, fmt.Errorf("finish run: %w", err)
		}
	}
	return sum, nil
}

func (r *Runner) playHand(game *domain.Game) (HandResult, error) {
	if game.Phase == domain.PhaseHandOver {
		if _, err := r.svc.StartNextHand(game); err != nil {
			return HandResult{}, err
		}
	}
	res := HandResult{DealerSeat: game.DealerSeat()}
	if _, err := r.svc.DealHand(game); err != nil {
		return HandResult{}, err
	}
	res.HandNumber = game.HandNumber

	for step := 0; step < maxStepsPerHand; step++ {
		seat := bot.PendingSeat(game)
		if seat < 0 {
			return HandResult{}, fmt.Errorf("no seat to act in phase %s", game.Phase)
		}
		move, err := r.agents[seat].PlayAtSeat(game, seat)
		if err != nil {
			return HandResult{}, err
		}
		events, err := r.svc.ApplyMove(game, seat, move)
		if err != nil && !errors.Is(err, domain.ErrIllegalMove) {
			return HandResult{}, fmt.Errorf("seat %d %s: %w", seat, move.Kind, err)
		}
		for _, ev := range events {
			switch ev.Kind {
			case app.EventDeckReshuffled:
				res.Reshuffles++
			case app.EventTrumpAccepted:
				res.BidRound = ev.Payload.(app.TrumpAcceptedPayload).Round
			case app.EventTrumpDecided:
				p := ev.Payload.(app.TrumpDecidedPayload)
				res.Trump = p.Suit
				res.MakerSeat = p.MakerSeat
			case app.EventHandEnded:
				p := ev.Payload.(app.HandEndedPayload)
				res.MakerTricks = p.MakerTricks
				copy(res.Points[:], p.Points)
				return res, nil
			}
		}
	}
	return HandResult{}, fmt.Errorf("hand did not finish within %d steps", maxStepsPerHand)
}
