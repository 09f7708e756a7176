package bot

import (
	"euchre/internal/domain"
)

// MoveKind names the action an AI seat wants to take.
type MoveKind string

const (
	MoveAccept  MoveKind = "accept"
	MoveDecline MoveKind = "decline"
	MoveDiscard MoveKind = "discard"
	MovePlay    MoveKind = "play"
)

// Move represents the decision made by the AI.
type Move struct {
	Kind MoveKind
	Card domain.Card
	// Suit is set when accepting in the any-suit round.
	Suit *domain.Suit
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// ChooseCard picks a card to play. lead is nil when the bot is leading.
	ChooseCard(hand []domain.Card, lead *domain.Card, trump domain.Suit) domain.Card
	// ShouldPickTrump decides whether to accept suit as trump.
	ShouldPickTrump(hand []domain.Card, suit domain.Suit) bool
	// ChooseTrump names a suit in the any-suit round, or reports false to pass.
	ChooseTrump(hand []domain.Card) (domain.Suit, bool)
	// DiscardForTrump picks the card the dealer gives up for the candidate.
	DiscardForTrump(hand []domain.Card) domain.Card
}
