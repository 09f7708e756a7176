package domain

import "errors"

var (
	ErrEmptyDeck         = errors.New("deck is empty")
	ErrIllegalMove       = errors.New("card does not follow the lead suit")
	ErrInvalidDiscard    = errors.New("dealer cannot discard the trump candidate")
	ErrStaleTrickAction  = errors.New("action targets a trick that is already resolved")
	ErrNotYourTurn       = errors.New("not this seat's turn")
	ErrWrongPhase        = errors.New("action not allowed in current phase")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrUnknownSeat       = errors.New("seat not found")
	ErrInvalidSuit       = errors.New("invalid suit")
	ErrInvalidRank       = errors.New("invalid rank")
	ErrTrickComplete     = errors.New("trick already complete")
	ErrSeatAlreadyPlayed = errors.New("seat already played to this trick")

	ErrCorruptSnapshot     = errors.New("snapshot does not describe a consistent game")
	ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")
)
