package domain

// TrickState is the lifecycle stage of a trick.
type TrickState string

const (
	TrickEmpty           TrickState = "empty"
	TrickPartiallyFilled TrickState = "partially_filled"
	TrickComplete        TrickState = "complete"
	TrickResolved        TrickState = "resolved"
)

// Play is one card laid to a trick by a seat.
type Play struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// Trick holds the cards played to one trick in play order.
type Trick struct {
	Number   int    `json:"number"`
	Size     int    `json:"size"`
	Plays    []Play `json:"plays"`
	Resolved bool   `json:"resolved"`
	Winner   int    `json:"winner"`
}

// NewTrick returns an empty trick expecting one play from each of size seats.
func NewTrick(number, size int) *Trick {
	return &Trick{Number: number, Size: size, Winner: -1}
}

// Lead returns the first card played, if any.
func (t *Trick) Lead() (Card, bool) {
	if len(t.Plays) == 0 {
		return Card{}, false
	}
	return t.Plays[0].Card, true
}

// LeadCard returns a pointer to the lead card or nil while the trick is empty.
func (t *Trick) LeadCard() *Card {
	if c, ok := t.Lead(); ok {
		return &c
	}
	return nil
}

// State reports the current lifecycle stage.
func (t *Trick) State() TrickState {
	switch {
	case t.Resolved:
		return TrickResolved
	case len(t.Plays) == 0:
		return TrickEmpty
	case len(t.Plays) >= t.Size:
		return TrickComplete
	default:
		return TrickPartiallyFilled
	}
}

// HasPlayed reports whether seat already contributed a card.
func (t *Trick) HasPlayed(seat int) bool {
	for _, p := range t.Plays {
		if p.Seat == seat {
			return true
		}
	}
	return false
}

// Add records a play. The trick must not be complete and the seat must not have played.
func (t *Trick) Add(seat int, c Card) error {
	if t.Resolved || len(t.Plays) >= t.Size {
		return ErrTrickComplete
	}
	if t.HasPlayed(seat) {
		return ErrSeatAlreadyPlayed
	}
	t.Plays = append(t.Plays, Play{Seat: seat, Card: c})
	return nil
}

// Cards returns the played cards in play order.
func (t *Trick) Cards() []Card {
	out := make([]Card, len(t.Plays))
	for i, p := range t.Plays {
		out[i] = p.Card
	}
	return out
}

// Resolve determines the winner and marks the trick resolved.
func (t *Trick) Resolve(trump Suit) int {
	t.Winner = DetermineTrickWinner(t.Plays, trump)
	t.Resolved = true
	return t.Winner
}

// DetermineTrickWinner returns the seat that takes the trick. With no plays, seat 0 wins.
//
// Plays are compared pairwise in play order, the running leader against each challenger:
// a lone trump wins and two trumps are ranked by euchre value alone, otherwise a lone
// card in the lead card's printed suit wins, otherwise the strictly higher euchre value
// wins. Equal values never meet: trump values are distinct and two off-suit cards of the
// same rank differ in printed suit, so the lead-suit step decides. Ties would stay with
// the earlier card.
func DetermineTrickWinner(plays []Play, trump Suit) int {
	if len(plays) == 0 {
		return 0
	}
	lead := plays[0].Card
	best := plays[0]
	for _, p := range plays[1:] {
		if beats(p.Card, best.Card, lead, trump) {
			best = p
		}
	}
	return best.Seat
}

// beats reports whether challenger takes the trick from holder.
func beats(challenger, holder, lead Card, trump Suit) bool {
	ct, ht := challenger.IsTrump(trump), holder.IsTrump(trump)
	if ct != ht {
		return ct
	}
	if ct {
		return challenger.EuchreValue(trump) > holder.EuchreValue(trump)
	}
	cl, hl := challenger.Suit == lead.Suit, holder.Suit == lead.Suit
	if cl != hl {
		return cl
	}
	return challenger.EuchreValue(trump) > holder.EuchreValue(trump)
}
