package domain

import (
	"fmt"
	"strings"
)

// Suit is one of the four French suits.
type Suit int32

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in canonical order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

// Rank is a card rank. Only Nine through Ace exist in a euchre deck.
type Rank int32

const (
	Nine Rank = iota
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from lowest to highest face value.
var Ranks = [...]Rank{Nine, Ten, Jack, Queen, King, Ace}

var suitNames = [...]string{"spades", "hearts", "diamonds", "clubs"}
var rankNames = [...]string{"nine", "ten", "jack", "queen", "king", "ace"}

// Valid reports whether s names a real suit.
func (s Suit) Valid() bool { return s >= Spades && s <= Clubs }

// Valid reports whether r names a real euchre rank.
func (r Rank) Valid() bool { return r >= Nine && r <= Ace }

func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Suit(%d)", int32(s))
	}
	return suitNames[s]
}

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", int32(r))
	}
	return rankNames[r]
}

// Partner returns the other suit of the same colour.
func (s Suit) Partner() Suit {
	switch s {
	case Spades:
		return Clubs
	case Clubs:
		return Spades
	case Hearts:
		return Diamonds
	default:
		return Hearts
	}
}

// ParseSuit maps a suit name (case-insensitive) to a Suit.
func ParseSuit(name string) (Suit, error) {
	for i, n := range suitNames {
		if strings.EqualFold(n, name) {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSuit, name)
}

// ParseRank maps a rank name (case-insensitive) to a Rank.
func ParseRank(name string) (Rank, error) {
	for i, n := range rankNames {
		if strings.EqualFold(n, name) {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRank, name)
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSuit, int32(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	v, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRank, int32(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	v, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Card is a single playing card. Two cards are equal when suit and rank match.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return c.Rank.String() + " of " + c.Suit.String()
}

// IsRightBower reports whether c is the jack of the trump suit.
func (c Card) IsRightBower(trump Suit) bool {
	return c.Rank == Jack && c.Suit == trump
}

// IsLeftBower reports whether c is the jack of the suit sharing trump's colour.
func (c Card) IsLeftBower(trump Suit) bool {
	return c.Rank == Jack && c.Suit == trump.Partner()
}

// IsTrump reports whether c counts as trump, including the left bower.
func (c Card) IsTrump(trump Suit) bool {
	return c.Suit == trump || c.IsLeftBower(trump)
}

// EuchreValue returns the comparison weight of c when trump is named.
// Bowers rank 18 and 17, other trump 16 down to 12, and off-suit cards 10 down to 5.
func (c Card) EuchreValue(trump Suit) int {
	switch {
	case c.IsRightBower(trump):
		return 18
	case c.IsLeftBower(trump):
		return 17
	case c.IsTrump(trump):
		switch c.Rank {
		case Ace:
			return 16
		case King:
			return 15
		case Queen:
			return 14
		case Ten:
			return 13
		case Nine:
			return 12
		}
		// unreachable for a well-formed card
		return 11
	}
	switch c.Rank {
	case Ace:
		return 10
	case King:
		return 9
	case Queen:
		return 8
	case Jack:
		return 7
	case Ten:
		return 6
	case Nine:
		return 5
	}
	return 0
}
