package bot

import (
	"sort"

	"euchre/internal/domain"
)

// pickTrumpThreshold is the number of trump cards needed before accepting a suit.
const pickTrumpThreshold = 2

// BasicBrain plays the weakest card that follows and accepts trump with two or more trump cards.
type BasicBrain struct{}

func (BasicBrain) ChooseCard(hand []domain.Card, lead *domain.Card, trump domain.Suit) domain.Card {
	if lead != nil {
		leadIsTrump := lead.IsTrump(trump)
		var follow []domain.Card
		for _, c := range hand {
			if c.Suit == lead.Suit || (leadIsTrump && c.IsTrump(trump)) {
				follow = append(follow, c)
			}
		}
		if len(follow) > 0 {
			return weakest(follow, trump)
		}
	}
	return weakestPreferOffSuit(hand, trump)
}

func (BasicBrain) ShouldPickTrump(hand []domain.Card, suit domain.Suit) bool {
	return countTrump(hand, suit) >= pickTrumpThreshold
}

func (b BasicBrain) ChooseTrump(hand []domain.Card) (domain.Suit, bool) {
	for _, s := range domain.Suits {
		if b.ShouldPickTrump(hand, s) {
			return s, true
		}
	}
	return 0, false
}

// DiscardForTrump gives up the first card held.
func (BasicBrain) DiscardForTrump(hand []domain.Card) domain.Card {
	return hand[0]
}

func countTrump(hand []domain.Card, suit domain.Suit) int {
	n := 0
	for _, c := range hand {
		if c.IsTrump(suit) {
			n++
		}
	}
	return n
}

// weakest returns the lowest valued card, keeping hand order on ties.
func weakest(cards []domain.Card, trump domain.Suit) domain.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.EuchreValue(trump) < best.EuchreValue(trump) {
			best = c
		}
	}
	return best
}

// weakestPreferOffSuit orders by trump-ness then value and takes the first card.
func weakestPreferOffSuit(hand []domain.Card, trump domain.Suit) domain.Card {
	sorted := append([]domain.Card(nil), hand...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].IsTrump(trump), sorted[j].IsTrump(trump)
		if ti != tj {
			return !ti
		}
		return sorted[i].EuchreValue(trump) < sorted[j].EuchreValue(trump)
	})
	return sorted[0]
}
