package bot

import (
	"errors"
	"fmt"

	"euchre/internal/domain"
)

// ErrNothingToDo is returned when the game is not waiting on the agent's seat.
var ErrNothingToDo = errors.New("bot has no pending decision")

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for userID with the brain for level.
func NewAgent(userID string, level BotLevel) (*Agent, error) {
	brain, err := NewBrain(level, nil)
	if err != nil {
		return nil, err
	}
	name := GetBotDisplayName(userID)
	if name == "" {
		name = userID
	}
	return &Agent{ID: userID, Name: name, Strategy: brain}, nil
}

// PendingSeat returns the seat the game is waiting on, or -1.
func PendingSeat(game *domain.Game) int {
	switch game.Phase {
	case domain.PhaseRound1Offer, domain.PhaseRound2AnySuit:
		return game.Bid.Offeree
	case domain.PhaseDealerExchange:
		return game.DealerSeat()
	case domain.PhaseInProgress:
		return game.TurnSeat()
	}
	return -1
}

// PlayAtSeat asks the agent to decide the move for seat in the current phase.
func (a *Agent) PlayAtSeat(game *domain.Game, seat int) (Move, error) {
	if PendingSeat(game) != seat {
		return Move{}, ErrNothingToDo
	}
	player, err := game.Player(seat)
	if err != nil {
		return Move{}, err
	}
	hand := player.Hand.Cards
	if obs, ok := a.Strategy.(Observer); ok {
		obs.Observe(game, seat)
	}

	switch game.Phase {
	case domain.PhaseRound1Offer:
		if game.Bid.Candidate == nil {
			return Move{}, fmt.Errorf("round one offer without candidate")
		}
		if a.Strategy.ShouldPickTrump(hand, game.Bid.Candidate.Suit) {
			return Move{Kind: MoveAccept}, nil
		}
		return Move{Kind: MoveDecline}, nil

	case domain.PhaseRound2AnySuit:
		if suit, ok := a.Strategy.ChooseTrump(hand); ok {
			return Move{Kind: MoveAccept, Suit: &suit}, nil
		}
		return Move{Kind: MoveDecline}, nil

	case domain.PhaseDealerExchange:
		if len(hand) == 0 {
			return Move{}, fmt.Errorf("dealer %d has no card to discard", seat)
		}
		return Move{Kind: MoveDiscard, Card: a.Strategy.DiscardForTrump(hand)}, nil

	case domain.PhaseInProgress:
		if len(hand) == 0 || game.Trump == nil {
			return Move{}, ErrNothingToDo
		}
		lead := game.Trick.LeadCard()
		card := a.Strategy.ChooseCard(hand, lead, *game.Trump)
		if !domain.IsLegalPlay(hand, card, lead) {
			// Never stall the table on a heuristic that picked a renege.
			card = BasicBrain{}.ChooseCard(domain.LegalPlays(hand, lead), nil, *game.Trump)
		}
		return Move{Kind: MovePlay, Card: card}, nil
	}
	return Move{}, ErrNothingToDo
}
