package app

import "euchre/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted       EventKind = "game_started"
	EventHandStarted       EventKind = "hand_started"
	EventHandDealt         EventKind = "hand_dealt"
	EventBidOffered        EventKind = "bid_offered"
	EventBidPassed         EventKind = "bid_passed"
	EventTrumpAccepted     EventKind = "trump_accepted"
	EventDealerExchange    EventKind = "dealer_exchange"
	EventCardDiscarded     EventKind = "card_discarded"
	EventTrumpDecided      EventKind = "trump_decided"
	EventDeckReshuffled    EventKind = "deck_reshuffled"
	EventCardPlayed        EventKind = "card_played"
	EventInvalidMovePlayed EventKind = "invalid_move_played"
	EventTrickResolved     EventKind = "trick_resolved"
	EventTurnChanged       EventKind = "turn_changed"
	EventHandEnded         EventKind = "hand_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID     string
	DealerSeat int
	Names      []string
}

type HandStartedPayload struct {
	HandNumber int
	DealerSeat int
}

type HandDealtPayload struct {
	Seat int
	Hand []domain.Card
}

type BidOfferedPayload struct {
	Seat      int
	Round     int
	Candidate domain.Card
}

type BidPassedPayload struct {
	Seat  int
	Round int
}

type TrumpAcceptedPayload struct {
	Seat  int
	Round int
	Suit  domain.Suit
}

type DealerExchangePayload struct {
	DealerSeat int
	Candidate  domain.Card
}

type CardDiscardedPayload struct {
	Seat     int
	Card     domain.Card
	PickedUp domain.Card
}

type TrumpDecidedPayload struct {
	Suit      domain.Suit
	MakerSeat int
}

type DeckReshuffledPayload struct {
	Reason string
}

type CardPlayedPayload struct {
	Seat  int
	Card  domain.Card
	Trick int
}

type InvalidMovePayload struct {
	Seat int
	Card domain.Card
}

type TrickResolvedPayload struct {
	Trick      int
	WinnerSeat int
	Cards      []domain.Card
	Tricks     []int
}

type TurnChangedPayload struct {
	Seat int
}

type HandEndedPayload struct {
	WinnerSeat  int
	MakerSeat   int
	MakerTricks int
	Points      []int
	Scores      []int
	NextDealer  int
}
