package brain

import (
	"testing"

	"euchre/internal/domain"
)

func TestEstimator(t *testing.T) {
	m := NewMemory()
	e := NewEstimator(m)
	trump := domain.Hearts
	hand := []domain.Card{card(domain.Hearts, domain.Jack), card(domain.Diamonds, domain.Jack), card(domain.Spades, domain.Nine)}
	m.MarkMine(hand)

	// Hearts nine to ace plus the left bower is seven trump; two are in hand.
	if got := e.OutstandingTrump(trump); got != 5 {
		t.Errorf("outstanding trump = %d, want 5", got)
	}
	if got := e.CalculateDominance(hand, trump); got != 2.0/7.0 {
		t.Errorf("dominance = %v, want 2/7", got)
	}
	bosses := e.GetBossCards(hand, trump)
	if len(bosses) != 2 || bosses[0] != hand[0] || bosses[1] != hand[1] {
		t.Errorf("bosses = %v, want both bowers", bosses)
	}

	ace := card(domain.Clubs, domain.Ace)
	if e.CanBeRuffed(ace, trump, 1) {
		t.Error("no evidence of a void yet")
	}
	p := NewOpponentProfile(1)
	p.RecordPlay(card(domain.Clubs, domain.King), card(domain.Spades, domain.Ten))
	m.Opponents[1] = p
	if !e.CanBeRuffed(ace, trump, 1) {
		t.Error("opponent out of clubs with trump outstanding can ruff")
	}
	if e.CanBeRuffed(hand[0], trump, 1) {
		t.Error("trump cannot be ruffed")
	}

	m.MarkPlayed([]domain.Card{
		card(domain.Hearts, domain.Nine), card(domain.Hearts, domain.Ten), card(domain.Hearts, domain.Queen),
		card(domain.Hearts, domain.King), card(domain.Hearts, domain.Ace),
	})
	if e.CanBeRuffed(ace, trump, 1) {
		t.Error("with every trump accounted for there is nothing to ruff with")
	}
	if got := e.CalculateDominance(nil, trump); got != 0 {
		t.Errorf("dominance of empty hand = %v", got)
	}
}
