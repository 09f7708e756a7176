package brain

import (
	"euchre/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // Still in the opponent's hand or the kitty
	StatusMine                      // In the bot's hand
	StatusPlayed                    // Already laid to a trick this hand
)

// deckIndexSize covers every suit and rank combination of the euchre deck.
const deckIndexSize = len(domain.Suits) * len(domain.Ranks)

// GameMemory stores the bot's private "view" of the current hand.
type GameMemory struct {
	// DeckStatus tracks all 24 cards. Index = Suit*6 + Rank.
	DeckStatus [deckIndexSize]CardStatus
	// Opponents tracks behavioral profiles by seat index.
	Opponents map[int]*OpponentProfile

	deal int
	// seen holds the plays already folded into the profiles, keyed by trick number.
	seen map[int]int
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{
		Opponents: make(map[int]*OpponentProfile),
		deal:      -1,
		seen:      make(map[int]int),
	}
}

// Reset clears the memory for a new hand.
func (m *GameMemory) Reset() {
	for i := range m.DeckStatus {
		m.DeckStatus[i] = StatusUnknown
	}
	for _, p := range m.Opponents {
		p.Reset()
	}
	m.seen = make(map[int]int)
}

// MarkMine records the cards currently in the bot's hand.
func (m *GameMemory) MarkMine(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusMine
	}
}

// MarkPlayed records cards that have left every hand.
func (m *GameMemory) MarkPlayed(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusPlayed
	}
}

// UpdateHand marks the current hand as Mine. Cards that were Mine and are no
// longer held were either played or discarded, so they become Played.
func (m *GameMemory) UpdateHand(hand []domain.Card) {
	for i, status := range m.DeckStatus {
		if status == StatusMine {
			m.DeckStatus[i] = StatusPlayed
		}
	}
	m.MarkMine(hand)
}

// Observe folds the visible state of game into the memory from seat's point of view.
// It resets itself whenever the cards are dealt again and is safe to call on every decision.
func (m *GameMemory) Observe(game *domain.Game, seat int) {
	if game.Deals != m.deal {
		m.Reset()
		m.deal = game.Deals
	}
	for _, p := range game.Players {
		m.MarkPlayed(p.Won)
	}

	trick := game.Trick
	if trick != nil {
		lead := trick.LeadCard()
		for i := m.seen[trick.Number]; i < len(trick.Plays); i++ {
			play := trick.Plays[i]
			m.MarkPlayed([]domain.Card{play.Card})
			if play.Seat != seat && lead != nil {
				m.profile(play.Seat).RecordPlay(*lead, play.Card)
			}
		}
		m.seen[trick.Number] = len(trick.Plays)
	}

	if p, err := game.Player(seat); err == nil {
		m.UpdateHand(p.Hand.Cards)
	}
}

func (m *GameMemory) profile(seat int) *OpponentProfile {
	p, ok := m.Opponents[seat]
	if !ok {
		p = NewOpponentProfile(seat)
		m.Opponents[seat] = p
	}
	return p
}

// IsBoss returns true if no unseen card of c's suit outranks it.
// Ruffs by a player out of the suit are judged by Estimator.CanBeRuffed.
func (m *GameMemory) IsBoss(c domain.Card, trump domain.Suit) bool {
	for _, u := range m.Unknown() {
		if u.IsTrump(trump) && !c.IsTrump(trump) {
			continue
		}
		plays := []domain.Play{{Seat: 0, Card: c}, {Seat: 1, Card: u}}
		if domain.DetermineTrickWinner(plays, trump) != 0 {
			return false
		}
	}
	return true
}

// IsPlayed returns true if the card is already out of the hand.
func (m *GameMemory) IsPlayed(c domain.Card) bool {
	return m.DeckStatus[cardToIndex(c)] == StatusPlayed
}

// Unknown lists the cards the bot cannot locate.
func (m *GameMemory) Unknown() []domain.Card {
	var out []domain.Card
	for i, status := range m.DeckStatus {
		if status == StatusUnknown {
			out = append(out, indexToCard(i))
		}
	}
	return out
}

// cardToIndex converts domain.Card to a 0-23 index.
func cardToIndex(c domain.Card) int {
	return int(c.Suit)*len(domain.Ranks) + int(c.Rank)
}

func indexToCard(i int) domain.Card {
	return domain.Card{Suit: domain.Suit(i / len(domain.Ranks)), Rank: domain.Rank(i % len(domain.Ranks))}
}
