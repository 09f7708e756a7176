package domain

import (
	"encoding/json"
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func dealtGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame("g1", []*Player{{Name: "Ann"}, {Name: "Bot"}}, 1, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	for _, p := range g.Players {
		if err := p.Hand.FillFrom(g.Deck, HandSize); err != nil {
			t.Fatal(err)
		}
	}
	trump := Clubs
	g.Trump = &trump
	g.TrumpPhase = false
	g.Phase = PhaseInProgress
	g.Players[0].IsMaker = true
	g.Players[0].Score = 3
	g.SetTurn(0)
	lead := g.Players[0].Hand.Cards[0]
	g.Players[0].Hand.Remove(lead)
	if err := g.Trick.Add(0, lead); err != nil {
		t.Fatal(err)
	}
	g.SetTurn(1)
	return g
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := dealtGame(t)
	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}

	raw, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := Restore(snap, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.TurnSeat() != 1 || restored.DealerSeat() != 1 {
		t.Errorf("turn %d dealer %d", restored.TurnSeat(), restored.DealerSeat())
	}
	if restored.Trump == nil || *restored.Trump != Clubs {
		t.Errorf("unexpected trump %v", restored.Trump)
	}
	if !reflect.DeepEqual(restored.Deck.Cards, g.Deck.Cards) {
		t.Error("deck order not preserved")
	}
	if restored.Players[0].Score != 3 || !restored.Players[0].IsMaker {
		t.Errorf("player state lost: %+v", restored.Players[0])
	}
	if lead := restored.Trick.LeadCard(); lead == nil || *lead != g.Trick.Plays[0].Card {
		t.Errorf("lead card lost: %v", lead)
	}
	if !reflect.DeepEqual(restored.Snapshot(), g.Snapshot()) {
		t.Error("snapshot of restored game differs")
	}
}

func TestRestoreRejectsCorruptSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
		want   error
	}{
		{"future version", func(s *Snapshot) { s.Version = 2 }, ErrUnsupportedSnapshot},
		{"duplicate card", func(s *Snapshot) { s.Deck[0] = s.Players[0].Hand.Cards[0] }, ErrCorruptSnapshot},
		{"missing card", func(s *Snapshot) { s.Deck = s.Deck[1:] }, ErrCorruptSnapshot},
		{"trump during trump phase", func(s *Snapshot) { s.TrumpPhase = true }, ErrCorruptSnapshot},
		{"two dealers", func(s *Snapshot) { s.Players[0].IsDealer = true }, ErrCorruptSnapshot},
		{"unknown phase", func(s *Snapshot) { s.Phase = "bidding" }, ErrCorruptSnapshot},
		{"no turn holder in play", func(s *Snapshot) { s.Players[1].IsTurn = false }, ErrCorruptSnapshot},
		{"seat plays twice", func(s *Snapshot) {
			s.Trick.Plays = append(s.Trick.Plays, Play{Seat: 0, Card: s.Players[0].Hand.Cards[0]})
			s.Players[0].Hand.Cards = s.Players[0].Hand.Cards[1:]
		}, ErrCorruptSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := dealtGame(t).Snapshot()
			tt.mutate(&snap)
			if _, err := Restore(snap, nil); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// biddingGame deals two hands and turns up the candidate for round one.
func biddingGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame("g2", []*Player{{Name: "Ann"}, {Name: "Bot"}}, 1, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	for _, p := range g.Players {
		if err := p.Hand.FillFrom(g.Deck, HandSize); err != nil {
			t.Fatal(err)
		}
	}
	candidate, err := g.Deck.PeekTop()
	if err != nil {
		t.Fatal(err)
	}
	g.Phase = PhaseRound1Offer
	g.Bid = Bidding{Round: 1, Offeree: 0, Candidate: &candidate, Maker: -1}
	return g
}

func TestRestoreChecksBiddingState(t *testing.T) {
	if _, err := Restore(biddingGame(t).Snapshot(), nil); err != nil {
		t.Fatalf("clean bidding snapshot rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"offer without candidate", func(s *Snapshot) { s.Bid.Candidate = nil }},
		{"round two without candidate", func(s *Snapshot) {
			s.Phase = PhaseRound2AnySuit
			s.Bid.Round = 2
			s.Bid.Candidate = nil
		}},
		{"offeree out of range", func(s *Snapshot) { s.Bid.Offeree = 4 }},
		{"cards in trick while bidding", func(s *Snapshot) {
			s.Trick.Plays = []Play{{Seat: 0, Card: s.Players[0].Hand.Cards[0]}}
			s.Players[0].Hand.Cards = s.Players[0].Hand.Cards[1:]
		}},
		{"exchange without accepted suit", func(s *Snapshot) {
			s.Phase = PhaseDealerExchange
			s.Bid.Accepted = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := biddingGame(t).Snapshot()
			tt.mutate(&snap)
			if _, err := Restore(snap, nil); !errors.Is(err, ErrCorruptSnapshot) {
				t.Errorf("expected %v, got %v", ErrCorruptSnapshot, err)
			}
		})
	}
}

func TestCollectCardsRestoresDeck(t *testing.T) {
	g := dealtGame(t)
	g.Players[1].Won = append(g.Players[1].Won, g.Players[1].Hand.Cards[0])
	g.Players[1].Hand.Remove(g.Players[1].Hand.Cards[0])
	g.CollectCards()
	assertUnique24(t, g.Deck.Cards)
	if g.Trick.State() != TrickEmpty {
		t.Errorf("expected empty trick, got %s", g.Trick.State())
	}
}

func TestRotateDealer(t *testing.T) {
	g := dealtGame(t)
	if next := g.RotateDealer(); next != 0 || !g.Players[0].IsDealer || g.Players[1].IsDealer {
		t.Errorf("unexpected dealer after rotation: %d", next)
	}
	if next := g.RotateDealer(); next != 1 {
		t.Errorf("expected dealer 1, got %d", next)
	}
}
