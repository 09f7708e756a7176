package bot

import (
	"math/rand"

	"euchre/internal/domain"
)

// RandomBrain plays uniformly among legal cards and bids by coin flip.
// It is a baseline for measuring BasicBrain in simulations.
type RandomBrain struct {
	rng *rand.Rand
}

// NewRandomBrain returns a RandomBrain using rng.
func NewRandomBrain(rng *rand.Rand) *RandomBrain {
	return &RandomBrain{rng: rng}
}

func (b *RandomBrain) ChooseCard(hand []domain.Card, lead *domain.Card, trump domain.Suit) domain.Card {
	legal := domain.LegalPlays(hand, lead)
	return legal[b.rng.Intn(len(legal))]
}

func (b *RandomBrain) ShouldPickTrump(hand []domain.Card, suit domain.Suit) bool {
	return b.rng.Intn(2) == 0
}

func (b *RandomBrain) ChooseTrump(hand []domain.Card) (domain.Suit, bool) {
	if b.rng.Intn(2) == 0 {
		return 0, false
	}
	return domain.Suits[b.rng.Intn(len(domain.Suits))], true
}

func (b *RandomBrain) DiscardForTrump(hand []domain.Card) domain.Card {
	return hand[b.rng.Intn(len(hand))]
}
