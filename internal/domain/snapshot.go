package domain

import (
	"fmt"
	"math/rand"
)

// SnapshotVersion is the current persisted game format.
const SnapshotVersion = 1

// Snapshot is the persisted shape of a Game.
type Snapshot struct {
	Version    int      `json:"version"`
	ID         string   `json:"id"`
	Round      int      `json:"round"`
	HandNumber int      `json:"hand_number"`
	Deals      int      `json:"deals"`
	Phase      Phase    `json:"phase"`
	Trump      *Suit    `json:"trump,omitempty"`
	TrumpPhase bool     `json:"trump_phase"`
	Deck       []Card   `json:"deck"`
	Discards   []Card   `json:"discards"`
	Bid        Bidding  `json:"bid"`
	Players    []Player `json:"players"`
	Trick      Trick    `json:"trick"`
}

// Snapshot copies the game into its persisted shape.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Version:    SnapshotVersion,
		ID:         g.ID,
		Round:      g.Round,
		HandNumber: g.HandNumber,
		Deals:      g.Deals,
		Phase:      g.Phase,
		TrumpPhase: g.TrumpPhase,
		Deck:       append([]Card(nil), g.Deck.Cards...),
		Discards:   append([]Card(nil), g.Discards...),
		Bid:        g.Bid,
		Players:    make([]Player, len(g.Players)),
		Trick:      *g.Trick,
	}
	if g.Trump != nil {
		t := *g.Trump
		s.Trump = &t
	}
	if g.Bid.Candidate != nil {
		c := *g.Bid.Candidate
		s.Bid.Candidate = &c
	}
	if g.Bid.Accepted != nil {
		a := *g.Bid.Accepted
		s.Bid.Accepted = &a
	}
	s.Trick.Plays = append([]Play(nil), g.Trick.Plays...)
	for i, p := range g.Players {
		cp := *p
		cp.Hand = Hand{Cards: p.Hand.Snapshot()}
		cp.Won = append([]Card(nil), p.Won...)
		s.Players[i] = cp
	}
	return s
}

// Restore rebuilds a game from a snapshot and verifies it is internally consistent.
func Restore(s Snapshot, rng *rand.Rand) (*Game, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, s.Version)
	}
	if len(s.Players) < 2 {
		return nil, fmt.Errorf("%w: %d players", ErrCorruptSnapshot, len(s.Players))
	}
	switch s.Phase {
	case PhaseDealing, PhaseRound1Offer, PhaseRound2AnySuit, PhaseDealerExchange, PhaseInProgress, PhaseHandOver:
	default:
		return nil, fmt.Errorf("%w: unknown phase %q", ErrCorruptSnapshot, s.Phase)
	}

	deck := NewDeck(rng)
	deck.Cards = append([]Card(nil), s.Deck...)
	trick := s.Trick
	trick.Plays = append([]Play(nil), s.Trick.Plays...)
	trick.Size = len(s.Players)

	g := &Game{
		ID:         s.ID,
		Players:    make([]*Player, len(s.Players)),
		Deck:       deck,
		Trick:      &trick,
		Discards:   append([]Card(nil), s.Discards...),
		TrumpPhase: s.TrumpPhase,
		Round:      s.Round,
		HandNumber: s.HandNumber,
		Deals:      s.Deals,
		Phase:      s.Phase,
		Bid:        s.Bid,
	}
	if s.Trump != nil {
		t := *s.Trump
		g.Trump = &t
	}
	dealers, turns := 0, 0
	for i := range s.Players {
		p := s.Players[i]
		p.Seat = i
		p.Hand = Hand{Cards: append([]Card(nil), s.Players[i].Hand.Cards...)}
		p.Won = append([]Card(nil), s.Players[i].Won...)
		if p.IsDealer {
			dealers++
		}
		if p.IsTurn {
			turns++
		}
		g.Players[i] = &p
	}
	if dealers != 1 || turns > 1 {
		return nil, fmt.Errorf("%w: %d dealers, %d turn holders", ErrCorruptSnapshot, dealers, turns)
	}
	played := make(map[int]bool, len(trick.Plays))
	for _, p := range trick.Plays {
		if p.Seat < 0 || p.Seat >= len(g.Players) {
			return nil, fmt.Errorf("%w: trick play from seat %d", ErrCorruptSnapshot, p.Seat)
		}
		if played[p.Seat] {
			return nil, fmt.Errorf("%w: seat %d played twice to trick %d", ErrCorruptSnapshot, p.Seat, trick.Number)
		}
		played[p.Seat] = true
	}
	if err := g.checkPhaseState(turns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if err := g.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return g, nil
}

// checkPhaseState verifies the bidding and turn fields the current phase depends on.
func (g *Game) checkPhaseState(turns int) error {
	switch g.Phase {
	case PhaseRound1Offer, PhaseRound2AnySuit:
		if g.Bid.Candidate == nil {
			return fmt.Errorf("phase %s without a candidate card", g.Phase)
		}
		if g.Bid.Offeree < 0 || g.Bid.Offeree >= len(g.Players) {
			return fmt.Errorf("phase %s offered to seat %d", g.Phase, g.Bid.Offeree)
		}
		if len(g.Trick.Plays) > 0 {
			return fmt.Errorf("phase %s with %d cards in the trick", g.Phase, len(g.Trick.Plays))
		}
	case PhaseDealerExchange:
		if g.Bid.Candidate == nil || g.Bid.Accepted == nil {
			return fmt.Errorf("dealer exchange needs a candidate and an accepted suit")
		}
	case PhaseInProgress:
		if g.Trump == nil {
			return fmt.Errorf("play in progress without trump")
		}
		if turns != 1 {
			return fmt.Errorf("play in progress with %d turn holders", turns)
		}
	}
	return nil
}
