package domain

import (
	"fmt"
	"math/rand"
)

const (
	// TricksPerHand is the number of tricks played before a hand is scored.
	TricksPerHand = 5
	// HandSize is the number of cards dealt to each player.
	HandSize = 5
	// DefaultPlayers is the seat count of the supported variant.
	DefaultPlayers = 2
)

// Phase represents the lifecycle stage of a hand.
type Phase string

const (
	// PhaseDealing is the state before cards are dealt for a hand.
	PhaseDealing Phase = "dealing"
	// PhaseRound1Offer offers the candidate's suit to each seat in turn.
	PhaseRound1Offer Phase = "round1_offer"
	// PhaseRound2AnySuit lets each seat name any suit after round one passed.
	PhaseRound2AnySuit Phase = "round2_any_suit"
	// PhaseDealerExchange waits for the dealer to discard in exchange for the candidate.
	PhaseDealerExchange Phase = "dealer_exchange"
	// PhaseInProgress is trick play.
	PhaseInProgress Phase = "in_progress"
	// PhaseHandOver follows the last trick until the next hand is started.
	PhaseHandOver Phase = "hand_over"
)

// Bidding tracks the trump-selection protocol of the current hand.
type Bidding struct {
	Round     int   `json:"round"`
	Offeree   int   `json:"offeree"`
	Declines  int   `json:"declines"`
	Candidate *Card `json:"candidate,omitempty"`
	// Accepted holds the suit chosen in round one until the dealer exchange completes.
	Accepted *Suit `json:"accepted,omitempty"`
	Maker    int   `json:"maker"`
}

// Game is the authoritative state of one euchre game.
type Game struct {
	ID         string
	Players    []*Player
	Deck       *Deck
	Trick      *Trick
	Discards   []Card
	Trump      *Suit
	TrumpPhase bool
	Round      int
	HandNumber int
	Phase      Phase
	Bid        Bidding
	// Deals counts every deal, including redeals after both bidding rounds pass.
	Deals int
}

// NewGame seats players in order and gives the dealer role to dealerSeat.
func NewGame(id string, players []*Player, dealerSeat int, rng *rand.Rand) (*Game, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(players))
	}
	if dealerSeat < 0 || dealerSeat >= len(players) {
		return nil, fmt.Errorf("%w: dealer %d", ErrUnknownSeat, dealerSeat)
	}
	for i, p := range players {
		p.Seat = i
		p.IsDealer = i == dealerSeat
		p.IsTurn = false
	}
	g := &Game{
		ID:         id,
		Players:    players,
		Deck:       NewDeck(rng),
		Trick:      NewTrick(0, len(players)),
		TrumpPhase: true,
		Phase:      PhaseDealing,
		Bid:        Bidding{Maker: -1, Offeree: -1},
	}
	g.Deck.Shuffle()
	return g, nil
}

// Player returns the player at seat.
func (g *Game) Player(seat int) (*Player, error) {
	if seat < 0 || seat >= len(g.Players) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSeat, seat)
	}
	return g.Players[seat], nil
}

// NextSeat returns the seat after seat in clockwise rotation.
func (g *Game) NextSeat(seat int) int {
	return (seat + 1) % len(g.Players)
}

// DealerSeat returns the seat holding the dealer role, defaulting to seat 0.
func (g *Game) DealerSeat() int {
	for _, p := range g.Players {
		if p.IsDealer {
			return p.Seat
		}
	}
	return 0
}

// TurnSeat returns the seat whose turn it is, or -1 when nobody may act.
func (g *Game) TurnSeat() int {
	for _, p := range g.Players {
		if p.IsTurn {
			return p.Seat
		}
	}
	return -1
}

// SetTurn gives the turn to seat exclusively. A negative seat clears every turn flag.
func (g *Game) SetTurn(seat int) {
	for _, p := range g.Players {
		p.IsTurn = p.Seat == seat
	}
}

// RotateDealer passes the dealer role to the next seat.
func (g *Game) RotateDealer() int {
	next := g.NextSeat(g.DealerSeat())
	for _, p := range g.Players {
		p.IsDealer = p.Seat == next
	}
	return next
}

// MakerSeat returns the seat that named trump this hand, or -1.
func (g *Game) MakerSeat() int {
	for _, p := range g.Players {
		if p.IsMaker {
			return p.Seat
		}
	}
	return -1
}

// HandsEmpty reports whether every player has played out.
func (g *Game) HandsEmpty() bool {
	for _, p := range g.Players {
		if p.Hand.Len() > 0 {
			return false
		}
	}
	return true
}

// CollectCards returns every card outside the deck to it, leaving hands, piles and the trick empty.
func (g *Game) CollectCards() {
	var out []Card
	for _, p := range g.Players {
		out = append(out, p.Hand.Clear()...)
		out = append(out, p.Won...)
		p.Won = nil
	}
	out = append(out, g.Trick.Cards()...)
	out = append(out, g.Discards...)
	g.Discards = nil
	g.Trick = NewTrick(g.Trick.Number+1, len(g.Players))
	g.Deck.Return(out...)
}

// CheckInvariants verifies that all 24 cards are accounted for exactly once and that
// trump is set exactly when the trump phase is over.
func (g *Game) CheckInvariants() error {
	if (g.Trump == nil) != g.TrumpPhase {
		return fmt.Errorf("trump %v inconsistent with trump phase %v", g.Trump, g.TrumpPhase)
	}
	seen := make(map[Card]string, DeckSize)
	place := func(where string, cards []Card) error {
		for _, c := range cards {
			if !c.Suit.Valid() || !c.Rank.Valid() {
				return fmt.Errorf("invalid card %v in %s", c, where)
			}
			if prev, dup := seen[c]; dup {
				return fmt.Errorf("card %v in both %s and %s", c, prev, where)
			}
			seen[c] = where
		}
		return nil
	}
	if err := place("deck", g.Deck.Cards); err != nil {
		return err
	}
	if err := place("discards", g.Discards); err != nil {
		return err
	}
	if err := place("trick", g.Trick.Cards()); err != nil {
		return err
	}
	for _, p := range g.Players {
		if err := place(fmt.Sprintf("hand %d", p.Seat), p.Hand.Cards); err != nil {
			return err
		}
		if err := place(fmt.Sprintf("won pile %d", p.Seat), p.Won); err != nil {
			return err
		}
	}
	if len(seen) != DeckSize {
		return fmt.Errorf("%d of %d cards accounted for", len(seen), DeckSize)
	}
	return nil
}
