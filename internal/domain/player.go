package domain

// Player holds the per-seat state of a euchre game.
type Player struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Hand   Hand   `json:"hand"`

	IsDealer bool `json:"is_dealer"`
	IsMaker  bool `json:"is_maker"`
	IsTurn   bool `json:"is_turn"`

	// Per-hand counters, cleared by ResetForHand.
	HandTricks int `json:"hand_tricks"`
	HandScore  int `json:"hand_score"`

	// Lifetime counters.
	Score       int `json:"score"`
	TotalTricks int `json:"total_tricks"`
	HandsWon    int `json:"hands_won"`

	// Cards from tricks taken this hand.
	Won []Card `json:"won"`
}

// ResetForHand clears per-hand state ahead of a new deal.
func (p *Player) ResetForHand() {
	p.IsMaker = false
	p.IsTurn = false
	p.HandTricks = 0
	p.HandScore = 0
}

// TakeTrick credits the player with a resolved trick and its cards.
func (p *Player) TakeTrick(cards []Card) {
	p.HandTricks++
	p.TotalTricks++
	p.Won = append(p.Won, cards...)
}
