package brain

import (
	"euchre/internal/domain"
)

// Estimator provides insights based on memory.
type Estimator struct {
	Memory *GameMemory
}

// NewEstimator creates a new reasoning engine.
func NewEstimator(m *GameMemory) *Estimator {
	return &Estimator{Memory: m}
}

// GetBossCards returns the cards in hand that win any trick they lead.
func (e *Estimator) GetBossCards(hand []domain.Card, trump domain.Suit) []domain.Card {
	var bossCards []domain.Card
	for _, c := range hand {
		if e.Memory.IsBoss(c, trump) {
			bossCards = append(bossCards, c)
		}
	}
	return bossCards
}

// OutstandingTrump counts trump cards the bot has not seen.
func (e *Estimator) OutstandingTrump(trump domain.Suit) int {
	n := 0
	for _, c := range e.Memory.Unknown() {
		if c.IsTrump(trump) {
			n++
		}
	}
	return n
}

// CanBeRuffed reports whether seat might trump a lead of c: the seat is known
// to be out of c's suit and trump is still unaccounted for.
func (e *Estimator) CanBeRuffed(c domain.Card, trump domain.Suit, seat int) bool {
	if c.IsTrump(trump) {
		return false
	}
	p, ok := e.Memory.Opponents[seat]
	if !ok || !p.IsVoid(c.Suit) {
		return false
	}
	return e.OutstandingTrump(trump) > 0
}

// CalculateDominance returns a 0.0 to 1.0 score for the share of unseen trump
// the bot holds in hand.
func (e *Estimator) CalculateDominance(hand []domain.Card, trump domain.Suit) float64 {
	mine := 0
	for _, c := range hand {
		if c.IsTrump(trump) {
			mine++
		}
	}
	total := mine + e.OutstandingTrump(trump)
	if total == 0 {
		return 0.0
	}
	return float64(mine) / float64(total)
}
