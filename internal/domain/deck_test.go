package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func assertUnique24(t *testing.T, cards []Card) {
	t.Helper()
	if len(cards) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(cards))
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

func TestShuffleKeepsAllCards(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		d := NewDeck(rand.New(rand.NewSource(seed)))
		d.Shuffle()
		assertUnique24(t, d.Cards)
		d.Shuffle()
		assertUnique24(t, d.Cards)
	}
}

func TestPopulateIdempotent(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	d.Populate()
	d.Populate()
	assertUnique24(t, d.Cards)

	d.Cards = d.Cards[:10]
	d.Populate()
	assertUnique24(t, d.Cards)
}

// The candidate is only peeked during bidding, so 14 cards stay on the deck until
// the dealer exchange takes it.
func TestDealLeavesFourteenWithCandidateOnTop(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(7)))
	d.Shuffle()
	var a, b Hand
	if err := a.FillFrom(d, HandSize); err != nil {
		t.Fatal(err)
	}
	if err := b.FillFrom(d, HandSize); err != nil {
		t.Fatal(err)
	}
	candidate, err := d.PeekTop()
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 14 {
		t.Fatalf("expected 14 cards left, got %d", d.Len())
	}
	if a.Contains(candidate) || b.Contains(candidate) {
		t.Fatalf("candidate %v was dealt", candidate)
	}

	drawn, err := d.DrawTop()
	if err != nil || drawn != candidate {
		t.Fatalf("DrawTop() = %v, %v, want the candidate", drawn, err)
	}
	if d.Len() != 13 {
		t.Errorf("expected 13 cards left after the exchange, got %d", d.Len())
	}
}

func TestPeekTopEmpty(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	if _, err := d.PeekTop(); !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("expected ErrEmptyDeck, got %v", err)
	}
}

func TestDrawTopRepopulatesWhenEmpty(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(3)))
	c, err := d.DrawTop()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != DeckSize-1 {
		t.Errorf("expected %d cards, got %d", DeckSize-1, d.Len())
	}
	for _, left := range d.Cards {
		if left == c {
			t.Errorf("drawn card %v still in deck", c)
		}
	}
}

func TestPeekMatchesDraw(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(5)))
	d.Shuffle()
	top, _ := d.PeekTop()
	drawn, _ := d.DrawTop()
	if top != drawn {
		t.Errorf("peek %v, draw %v", top, drawn)
	}
}

func TestReshuffleRestoresFullDeck(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(9)))
	d.Shuffle()
	for i := 0; i < 11; i++ {
		d.DrawTop()
	}
	d.Reshuffle()
	assertUnique24(t, d.Cards)
}

func TestHandRemove(t *testing.T) {
	h := Hand{Cards: []Card{{Spades, Nine}, {Hearts, Ace}}}
	if h.Remove(Card{Clubs, Ace}) {
		t.Error("removing absent card reported success")
	}
	if h.Len() != 2 {
		t.Errorf("expected 2 cards, got %d", h.Len())
	}
	if !h.Remove(Card{Spades, Nine}) {
		t.Error("expected removal")
	}
	if h.Contains(Card{Spades, Nine}) || !h.Contains(Card{Hearts, Ace}) {
		t.Errorf("unexpected hand %v", h.Cards)
	}
	h.Add(Card{Diamonds, Jack})
	if !h.HasSuit(Diamonds) || h.HasSuit(Clubs) {
		t.Errorf("unexpected suits in %v", h.Cards)
	}
}
