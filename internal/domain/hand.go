package domain

// Hand is the set of cards held by one player, in the order they were received.
type Hand struct {
	Cards []Card `json:"cards"`
}

// Len returns the number of cards held.
func (h *Hand) Len() int { return len(h.Cards) }

// FillFrom draws n cards from the top of the deck into the hand.
func (h *Hand) FillFrom(d *Deck, n int) error {
	for i := 0; i < n; i++ {
		c, err := d.DrawTop()
		if err != nil {
			return err
		}
		h.Cards = append(h.Cards, c)
	}
	return nil
}

// Add appends a card to the hand.
func (h *Hand) Add(c Card) {
	h.Cards = append(h.Cards, c)
}

// Remove drops the first occurrence of c and reports whether anything was removed.
func (h *Hand) Remove(c Card) bool {
	for i, held := range h.Cards {
		if held == c {
			h.Cards = append(h.Cards[:i], h.Cards[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether c is held.
func (h *Hand) Contains(c Card) bool {
	for _, held := range h.Cards {
		if held == c {
			return true
		}
	}
	return false
}

// HasSuit reports whether any held card has the printed suit s.
func (h *Hand) HasSuit(s Suit) bool {
	for _, held := range h.Cards {
		if held.Suit == s {
			return true
		}
	}
	return false
}

// Clear empties the hand and returns the cards it held.
func (h *Hand) Clear() []Card {
	out := h.Cards
	h.Cards = nil
	return out
}

// Snapshot returns a copy of the held cards.
func (h *Hand) Snapshot() []Card {
	return append([]Card(nil), h.Cards...)
}
