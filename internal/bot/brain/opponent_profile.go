package brain

import (
	"euchre/internal/domain"
)

// OpponentProfile tracks what a specific player has revealed this hand.
type OpponentProfile struct {
	Seat        int
	CardsPlayed int
	// Voids holds the printed suits the player failed to follow.
	Voids map[domain.Suit]bool
}

// NewOpponentProfile initializes a profile for a specific seat.
func NewOpponentProfile(seat int) *OpponentProfile {
	return &OpponentProfile{
		Seat:  seat,
		Voids: make(map[domain.Suit]bool),
	}
}

// Reset forgets everything learned during the previous hand.
func (p *OpponentProfile) Reset() {
	p.CardsPlayed = 0
	p.Voids = make(map[domain.Suit]bool)
}

// RecordPlay logs card played by this opponent onto a trick led by lead.
// Playing off the lead's printed suit proves the player holds none of it.
func (p *OpponentProfile) RecordPlay(lead, card domain.Card) {
	p.CardsPlayed++
	if card.Suit != lead.Suit {
		p.Voids[lead.Suit] = true
	}
}

// IsVoid returns true if the player is known to hold no card of suit.
func (p *OpponentProfile) IsVoid(suit domain.Suit) bool {
	return p.Voids[suit]
}
