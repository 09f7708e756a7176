package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"euchre/internal/bot"
	"euchre/internal/domain"

	"github.com/google/uuid"
)

// Service contains euchre use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrTooFewPlayers = errors.New("not enough players to start")
	ErrSuitRequired  = errors.New("a suit must be named in the any-suit round")
	ErrUnknownMove   = errors.New("unknown move kind")
)

// Rand exposes the service's random source for collaborators that restore games.
func (s *Service) Rand() *rand.Rand { return s.rng }

// NewGame seats the named players and gives the dealer role to dealerSeat.
// The returned game is in the dealing phase; call DealHand to start play.
func (s *Service) NewGame(players []*domain.Player, dealerSeat int) (*domain.Game, []Event, error) {
	if len(players) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}
	game, err := domain.NewGame(uuid.NewString(), players, dealerSeat, s.rng)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return game, []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{GameID: game.ID, DealerSeat: dealerSeat, Names: names},
	}}, nil
}

// DealHand deals five cards to each seat starting left of the dealer, turns up the
// candidate and opens round one of bidding.
func (s *Service) DealHand(game *domain.Game) ([]Event, error) {
	if game.Phase != domain.PhaseDealing {
		return nil, domain.ErrWrongPhase
	}
	game.HandNumber++
	events := []Event{{
		Kind:    EventHandStarted,
		Payload: HandStartedPayload{HandNumber: game.HandNumber, DealerSeat: game.DealerSeat()},
	}}
	dealt, err := s.deal(game)
	if err != nil {
		return nil, err
	}
	events = append(events, dealt...)
	s.mustHold(game)
	return events, nil
}

func (s *Service) deal(game *domain.Game) ([]Event, error) {
	dealer := game.DealerSeat()
	game.Deals++
	game.Round = 0
	game.Trump = nil
	game.TrumpPhase = true
	game.SetTurn(-1)

	var events []Event
	seat := game.NextSeat(dealer)
	for range game.Players {
		p := game.Players[seat]
		if err := p.Hand.FillFrom(game.Deck, domain.HandSize); err != nil {
			return nil, fmt.Errorf("deal seat %d: %w", seat, err)
		}
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: seat, Hand: p.Hand.Snapshot()},
			Recipients: recipients(p),
		})
		seat = game.NextSeat(seat)
	}

	candidate, err := game.Deck.PeekTop()
	if err != nil {
		return nil, err
	}
	game.Bid = domain.Bidding{Round: 1, Offeree: game.NextSeat(dealer), Candidate: &candidate, Maker: -1}
	game.Phase = domain.PhaseRound1Offer
	return append(events, s.offer(game)), nil
}

func (s *Service) offer(game *domain.Game) Event {
	return Event{
		Kind:    EventBidOffered,
		Payload: BidOfferedPayload{Seat: game.Bid.Offeree, Round: game.Bid.Round, Candidate: *game.Bid.Candidate},
	}
}

func (s *Service) checkOfferee(game *domain.Game, seat int) error {
	if game.Phase != domain.PhaseRound1Offer && game.Phase != domain.PhaseRound2AnySuit {
		return domain.ErrWrongPhase
	}
	if _, err := game.Player(seat); err != nil {
		return err
	}
	if game.Bid.Offeree != seat {
		return domain.ErrNotYourTurn
	}
	return nil
}

// AcceptTrump accepts the offer made to seat. In round one suit may be nil or must
// match the candidate; in the any-suit round it names the new trump.
func (s *Service) AcceptTrump(game *domain.Game, seat int, suit *domain.Suit) ([]Event, error) {
	if err := s.checkOfferee(game, seat); err != nil {
		return nil, err
	}
	maker := game.Players[seat]
	dealer := game.DealerSeat()

	if game.Phase == domain.PhaseRound1Offer {
		chosen := game.Bid.Candidate.Suit
		if suit != nil && *suit != chosen {
			return nil, fmt.Errorf("%w: round one offers %s", domain.ErrInvalidSuit, chosen)
		}
		maker.IsMaker = true
		game.Bid.Maker = seat
		game.Bid.Accepted = &chosen
		game.Phase = domain.PhaseDealerExchange
		game.SetTurn(dealer)
		s.mustHold(game)
		return []Event{
			{Kind: EventTrumpAccepted, Payload: TrumpAcceptedPayload{Seat: seat, Round: 1, Suit: chosen}},
			{Kind: EventDealerExchange, Payload: DealerExchangePayload{DealerSeat: dealer, Candidate: *game.Bid.Candidate}},
		}, nil
	}

	if suit == nil {
		return nil, ErrSuitRequired
	}
	if !suit.Valid() {
		return nil, domain.ErrInvalidSuit
	}
	chosen := *suit
	maker.IsMaker = true
	game.Bid.Maker = seat
	events := []Event{{Kind: EventTrumpAccepted, Payload: TrumpAcceptedPayload{Seat: seat, Round: 2, Suit: chosen}}}
	events = append(events, s.startPlay(game, chosen)...)
	s.mustHold(game)
	return events, nil
}

// DeclineTrump passes the offer to the next seat. When every seat has passed both
// rounds the hands are thrown in, the deck is reshuffled and bidding restarts.
func (s *Service) DeclineTrump(game *domain.Game, seat int) ([]Event, error) {
	if err := s.checkOfferee(game, seat); err != nil {
		return nil, err
	}
	events := []Event{{Kind: EventBidPassed, Payload: BidPassedPayload{Seat: seat, Round: game.Bid.Round}}}
	game.Bid.Declines++

	switch {
	case game.Bid.Declines < len(game.Players):
		game.Bid.Offeree = game.NextSeat(seat)
		events = append(events, s.offer(game))
	case game.Bid.Round == 1:
		game.Bid.Round = 2
		game.Bid.Declines = 0
		game.Bid.Offeree = game.NextSeat(game.DealerSeat())
		game.Phase = domain.PhaseRound2AnySuit
		events = append(events, s.offer(game))
	default:
		game.CollectCards()
		game.Deck.Reshuffle()
		events = append(events, Event{Kind: EventDeckReshuffled, Payload: DeckReshuffledPayload{Reason: "all_passed"}})
		dealt, err := s.deal(game)
		if err != nil {
			return nil, err
		}
		events = append(events, dealt...)
	}
	s.mustHold(game)
	return events, nil
}

// DiscardCard completes the dealer exchange: card goes to the discard pile and the
// candidate joins the dealer's hand. Discarding the candidate itself is rejected.
func (s *Service) DiscardCard(game *domain.Game, seat int, card domain.Card) ([]Event, error) {
	if game.Phase != domain.PhaseDealerExchange {
		return nil, domain.ErrWrongPhase
	}
	dealer, err := game.Player(seat)
	if err != nil {
		return nil, err
	}
	if !dealer.IsDealer {
		return nil, domain.ErrNotYourTurn
	}
	if game.Bid.Candidate != nil && card == *game.Bid.Candidate {
		return nil, domain.ErrInvalidDiscard
	}
	if !dealer.Hand.Remove(card) {
		return nil, domain.ErrCardNotInHand
	}
	pickup, err := game.Deck.DrawTop()
	if err != nil {
		return nil, err
	}
	dealer.Hand.Add(pickup)
	game.Discards = append(game.Discards, card)

	trump := *game.Bid.Accepted
	game.Bid.Accepted = nil
	events := []Event{{
		Kind:       EventCardDiscarded,
		Payload:    CardDiscardedPayload{Seat: seat, Card: card, PickedUp: pickup},
		Recipients: recipients(dealer),
	}}
	events = append(events, s.startPlay(game, trump)...)
	s.mustHold(game)
	return events, nil
}

// startPlay ends the trump phase and gives the lead to the seat left of the dealer.
func (s *Service) startPlay(game *domain.Game, trump domain.Suit) []Event {
	game.Trump = &trump
	game.TrumpPhase = false
	game.Phase = domain.PhaseInProgress
	leader := game.NextSeat(game.DealerSeat())
	game.SetTurn(leader)
	return []Event{
		{Kind: EventTrumpDecided, Payload: TrumpDecidedPayload{Suit: trump, MakerSeat: game.MakerSeat()}},
		{Kind: EventTurnChanged, Payload: TurnChangedPayload{Seat: leader}},
	}
}

// PlayCard plays card from seat onto the current trick.
func (s *Service) PlayCard(game *domain.Game, seat int, card domain.Card) ([]Event, error) {
	return s.PlayCardInTrick(game, seat, card, game.Trick.Number)
}

// PlayCardInTrick plays card onto trick number trick. Targeting a trick other than the
// current one returns ErrStaleTrickAction without changing state.
// An illegal card returns an InvalidMovePlayed event alongside ErrIllegalMove.
func (s *Service) PlayCardInTrick(game *domain.Game, seat int, card domain.Card, trick int) ([]Event, error) {
	if trick != game.Trick.Number {
		return nil, domain.ErrStaleTrickAction
	}
	if game.Phase != domain.PhaseInProgress || game.TrumpPhase {
		return nil, domain.ErrWrongPhase
	}
	player, err := game.Player(seat)
	if err != nil {
		return nil, err
	}
	if !player.IsTurn {
		return nil, domain.ErrNotYourTurn
	}
	if !player.Hand.Contains(card) {
		return nil, domain.ErrCardNotInHand
	}
	if !domain.IsLegalPlay(player.Hand.Cards, card, game.Trick.LeadCard()) {
		return []Event{{
			Kind:    EventInvalidMovePlayed,
			Payload: InvalidMovePayload{Seat: seat, Card: card},
		}}, domain.ErrIllegalMove
	}

	player.Hand.Remove(card)
	if err := game.Trick.Add(seat, card); err != nil {
		panic(fmt.Sprintf("trick rejected a validated play: %v", err))
	}
	events := []Event{{Kind: EventCardPlayed, Payload: CardPlayedPayload{Seat: seat, Card: card, Trick: game.Trick.Number}}}

	if game.Trick.State() != domain.TrickComplete {
		next := game.NextSeat(seat)
		game.SetTurn(next)
		events = append(events, Event{Kind: EventTurnChanged, Payload: TurnChangedPayload{Seat: next}})
		s.mustHold(game)
		return events, nil
	}

	events = append(events, s.resolveTrick(game)...)
	s.mustHold(game)
	return events, nil
}

func (s *Service) resolveTrick(game *domain.Game) []Event {
	done := game.Trick
	winnerSeat := done.Resolve(*game.Trump)
	winner := game.Players[winnerSeat]
	cards := done.Cards()
	winner.TakeTrick(cards)
	game.Round++
	game.Trick = domain.NewTrick(done.Number+1, len(game.Players))

	tricks := make([]int, len(game.Players))
	for i, p := range game.Players {
		tricks[i] = p.HandTricks
	}
	events := []Event{{
		Kind:    EventTrickResolved,
		Payload: TrickResolvedPayload{Trick: done.Number, WinnerSeat: winnerSeat, Cards: cards, Tricks: tricks},
	}}

	if game.HandsEmpty() {
		return append(events, s.endHand(game))
	}
	game.SetTurn(winnerSeat)
	return append(events, Event{Kind: EventTurnChanged, Payload: TurnChangedPayload{Seat: winnerSeat}})
}

func (s *Service) endHand(game *domain.Game) Event {
	points := domain.ScoreHand(game.Players)
	scores := make([]int, len(game.Players))
	for i, p := range game.Players {
		p.HandScore += points[i]
		p.Score += points[i]
		scores[i] = p.Score
	}
	winnerSeat := domain.HandWinner(game.Players)
	game.Players[winnerSeat].HandsWon++

	makerSeat := game.MakerSeat()
	makerTricks := 0
	if makerSeat >= 0 {
		makerTricks = game.Players[makerSeat].HandTricks
	}
	game.SetTurn(-1)
	next := game.RotateDealer()
	game.Phase = domain.PhaseHandOver

	return Event{
		Kind: EventHandEnded,
		Payload: HandEndedPayload{
			WinnerSeat:  winnerSeat,
			MakerSeat:   makerSeat,
			MakerTricks: makerTricks,
			Points:      points,
			Scores:      scores,
			NextDealer:  next,
		},
	}
}

// StartNextHand clears per-hand state, gathers every card and reshuffles. The game
// returns to the dealing phase; lifetime counters are kept.
func (s *Service) StartNextHand(game *domain.Game) ([]Event, error) {
	if game.Phase != domain.PhaseHandOver {
		return nil, domain.ErrWrongPhase
	}
	for _, p := range game.Players {
		p.ResetForHand()
	}
	game.CollectCards()
	game.Deck.Reshuffle()
	game.Trump = nil
	game.TrumpPhase = true
	game.Round = 0
	game.Bid = domain.Bidding{Maker: -1, Offeree: -1}
	game.Phase = domain.PhaseDealing
	s.mustHold(game)
	return []Event{{Kind: EventDeckReshuffled, Payload: DeckReshuffledPayload{Reason: "next_hand"}}}, nil
}

// ApplyMove routes a bot decision to the matching use-case.
func (s *Service) ApplyMove(game *domain.Game, seat int, move bot.Move) ([]Event, error) {
	switch move.Kind {
	case bot.MoveAccept:
		return s.AcceptTrump(game, seat, move.Suit)
	case bot.MoveDecline:
		return s.DeclineTrump(game, seat)
	case bot.MoveDiscard:
		return s.DiscardCard(game, seat, move.Card)
	case bot.MovePlay:
		return s.PlayCard(game, seat, move.Card)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMove, move.Kind)
}

// mustHold panics when a transition left the game inconsistent.
func (s *Service) mustHold(game *domain.Game) {
	if err := game.CheckInvariants(); err != nil {
		panic(fmt.Sprintf("euchre invariant violated in game %s: %v", game.ID, err))
	}
}

// recipients targets a private event at one player. Players without a user id never receive it.
func recipients(p *domain.Player) []string {
	return []string{p.UserID}
}
