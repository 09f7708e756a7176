package bot

import (
	"euchre/internal/bot/brain"
	"euchre/internal/domain"
)

// drawTrumpDominance is the share of unseen trump held before leading trump.
const drawTrumpDominance = 0.5

// Observer is implemented by brains that keep state across decisions.
// The agent feeds it the table before every move.
type Observer interface {
	Observe(game *domain.Game, seat int)
}

// CountingBrain bids like BasicBrain but remembers the cards played this hand.
// It leads cards nobody can beat and follows with the cheapest winner.
type CountingBrain struct {
	BasicBrain
	memory    *brain.GameMemory
	estimator *brain.Estimator
	opponents []int
	accepted  *domain.Suit
}

// NewCountingBrain returns a CountingBrain with an empty memory.
func NewCountingBrain() *CountingBrain {
	m := brain.NewMemory()
	return &CountingBrain{memory: m, estimator: brain.NewEstimator(m)}
}

func (b *CountingBrain) Observe(game *domain.Game, seat int) {
	b.memory.Observe(game, seat)
	b.accepted = nil
	if game.Bid.Accepted != nil {
		suit := *game.Bid.Accepted
		b.accepted = &suit
	}
	b.opponents = b.opponents[:0]
	for _, p := range game.Players {
		if p.Seat != seat {
			b.opponents = append(b.opponents, p.Seat)
		}
	}
}

func (b *CountingBrain) ChooseCard(hand []domain.Card, lead *domain.Card, trump domain.Suit) domain.Card {
	legal := domain.LegalPlays(hand, lead)
	if lead == nil {
		for _, c := range strongestFirst(b.estimator.GetBossCards(legal, trump), trump) {
			if !b.ruffable(c, trump) {
				return c
			}
		}
		// Pull trump while holding most of what is left.
		if b.estimator.CalculateDominance(legal, trump) >= drawTrumpDominance {
			if trumps := strongestFirst(trumpCards(legal, trump), trump); len(trumps) > 0 {
				return trumps[0]
			}
		}
		return weakestPreferOffSuit(legal, trump)
	}

	var winners []domain.Card
	for _, c := range legal {
		plays := []domain.Play{{Seat: 0, Card: *lead}, {Seat: 1, Card: c}}
		if domain.DetermineTrickWinner(plays, trump) == 1 {
			winners = append(winners, c)
		}
	}
	if len(winners) > 0 {
		return weakest(winners, trump)
	}
	return weakestPreferOffSuit(legal, trump)
}

// ShouldPickTrump also accepts a lone bower backed by an off-suit ace.
func (b *CountingBrain) ShouldPickTrump(hand []domain.Card, suit domain.Suit) bool {
	if b.BasicBrain.ShouldPickTrump(hand, suit) {
		return true
	}
	var bower, ace bool
	for _, c := range hand {
		switch {
		case c.IsRightBower(suit) || c.IsLeftBower(suit):
			bower = true
		case c.Rank == domain.Ace && !c.IsTrump(suit):
			ace = true
		}
	}
	return bower && ace
}

func (b *CountingBrain) ChooseTrump(hand []domain.Card) (domain.Suit, bool) {
	for _, s := range domain.Suits {
		if b.ShouldPickTrump(hand, s) {
			return s, true
		}
	}
	return 0, false
}

// DiscardForTrump gives up the weakest off-suit card instead of the first one held.
func (b *CountingBrain) DiscardForTrump(hand []domain.Card) domain.Card {
	if b.accepted == nil {
		return b.BasicBrain.DiscardForTrump(hand)
	}
	return weakestPreferOffSuit(hand, *b.accepted)
}

func (b *CountingBrain) ruffable(c domain.Card, trump domain.Suit) bool {
	for _, seat := range b.opponents {
		if b.estimator.CanBeRuffed(c, trump, seat) {
			return true
		}
	}
	return false
}

func trumpCards(cards []domain.Card, trump domain.Suit) []domain.Card {
	var out []domain.Card
	for _, c := range cards {
		if c.IsTrump(trump) {
			out = append(out, c)
		}
	}
	return out
}

// strongestFirst orders cards by descending euchre value.
func strongestFirst(cards []domain.Card, trump domain.Suit) []domain.Card {
	out := append([]domain.Card(nil), cards...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].EuchreValue(trump) > out[j-1].EuchreValue(trump); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
