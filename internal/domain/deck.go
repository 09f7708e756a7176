package domain

import (
	"math/rand"
	"time"
)

// DeckSize is the number of cards in a euchre deck.
const DeckSize = len(Suits) * len(Ranks)

// Deck is an ordered stack of cards. The last element is the top card.
type Deck struct {
	Cards []Card
	rng   *rand.Rand
}

// NewDeck returns an empty deck drawing randomness from rng, or a time-seeded source when nil.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Deck{rng: rng}
}

// FullDeck returns all 24 cards, ace-high first, suits in canonical order within each rank.
func FullDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for r := len(Ranks) - 1; r >= 0; r-- {
		for _, s := range Suits {
			cards = append(cards, Card{Suit: s, Rank: Ranks[r]})
		}
	}
	return cards
}

// Len returns the number of cards left in the deck.
func (d *Deck) Len() int { return len(d.Cards) }

// Populate adds every card not already present. Calling it on a full deck is a no-op.
func (d *Deck) Populate() {
	if len(d.Cards) >= DeckSize {
		return
	}
	seen := make(map[Card]struct{}, len(d.Cards))
	for _, c := range d.Cards {
		seen[c] = struct{}{}
	}
	for _, c := range FullDeck() {
		if _, ok := seen[c]; ok {
			continue
		}
		d.Cards = append(d.Cards, c)
	}
}

// Shuffle randomly permutes the deck, populating it first when empty.
func (d *Deck) Shuffle() {
	if len(d.Cards) == 0 {
		d.Populate()
	}
	d.rng.Shuffle(len(d.Cards), func(i, j int) { d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i] })
}

// Reshuffle discards the current contents and produces a fresh shuffled deck.
func (d *Deck) Reshuffle() {
	d.Cards = d.Cards[:0]
	d.Populate()
	d.Shuffle()
}

// DrawTop removes and returns the top card. An empty deck is repopulated and shuffled first.
func (d *Deck) DrawTop() (Card, error) {
	if len(d.Cards) == 0 {
		d.Populate()
		d.Shuffle()
	}
	if len(d.Cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	top := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return top, nil
}

// PeekTop returns the top card without removing it.
func (d *Deck) PeekTop() (Card, error) {
	if len(d.Cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	return d.Cards[len(d.Cards)-1], nil
}

// Return puts cards back at the bottom of the deck.
func (d *Deck) Return(cards ...Card) {
	d.Cards = append(append(make([]Card, 0, len(d.Cards)+len(cards)), cards...), d.Cards...)
}
