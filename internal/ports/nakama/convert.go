package nakama

import (
	"errors"
	"fmt"
	"math"

	"euchre/internal/app"
	"euchre/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var errMissingField = errors.New("missing field")

func cardToValue(c domain.Card) map[string]interface{} {
	return map[string]interface{}{
		"suit": c.Suit.String(),
		"rank": c.Rank.String(),
	}
}

func cardsToList(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToValue(c))
	}
	return out
}

func intsToList(ints []int) []interface{} {
	out := make([]interface{}, 0, len(ints))
	for _, v := range ints {
		out = append(out, v)
	}
	return out
}

// eventToStruct maps an app event to its op code and wire payload.
func eventToStruct(ev app.Event) (int64, *structpb.Struct, error) {
	var opCode int64
	var fields map[string]interface{}

	switch ev.Kind {
	case app.EventGameStarted:
		p := ev.Payload.(app.GameStartedPayload)
		names := make([]interface{}, len(p.Names))
		for i, n := range p.Names {
			names[i] = n
		}
		opCode = OpGameStarted
		fields = map[string]interface{}{"game_id": p.GameID, "dealer_seat": p.DealerSeat, "names": names}
	case app.EventHandStarted:
		p := ev.Payload.(app.HandStartedPayload)
		opCode = OpHandStarted
		fields = map[string]interface{}{"hand_number": p.HandNumber, "dealer_seat": p.DealerSeat}
	case app.EventHandDealt:
		p := ev.Payload.(app.HandDealtPayload)
		opCode = OpHandDealt
		fields = map[string]interface{}{"seat": p.Seat, "hand": cardsToList(p.Hand)}
	case app.EventBidOffered:
		p := ev.Payload.(app.BidOfferedPayload)
		opCode = OpBidOffered
		fields = map[string]interface{}{"seat": p.Seat, "round": p.Round, "candidate": cardToValue(p.Candidate)}
	case app.EventBidPassed:
		p := ev.Payload.(app.BidPassedPayload)
		opCode = OpBidPassed
		fields = map[string]interface{}{"seat": p.Seat, "round": p.Round}
	case app.EventTrumpAccepted:
		p := ev.Payload.(app.TrumpAcceptedPayload)
		opCode = OpTrumpAccepted
		fields = map[string]interface{}{"seat": p.Seat, "round": p.Round, "suit": p.Suit.String()}
	case app.EventDealerExchange:
		p := ev.Payload.(app.DealerExchangePayload)
		opCode = OpDealerExchange
		fields = map[string]interface{}{"dealer_seat": p.DealerSeat, "candidate": cardToValue(p.Candidate)}
	case app.EventCardDiscarded:
		p := ev.Payload.(app.CardDiscardedPayload)
		opCode = OpCardDiscarded
		fields = map[string]interface{}{"seat": p.Seat, "card": cardToValue(p.Card), "picked_up": cardToValue(p.PickedUp)}
	case app.EventTrumpDecided:
		p := ev.Payload.(app.TrumpDecidedPayload)
		opCode = OpTrumpDecided
		fields = map[string]interface{}{"suit": p.Suit.String(), "maker_seat": p.MakerSeat}
	case app.EventDeckReshuffled:
		p := ev.Payload.(app.DeckReshuffledPayload)
		opCode = OpDeckReshuffled
		fields = map[string]interface{}{"reason": p.Reason}
	case app.EventCardPlayed:
		p := ev.Payload.(app.CardPlayedPayload)
		opCode = OpCardPlayed
		fields = map[string]interface{}{"seat": p.Seat, "card": cardToValue(p.Card), "trick": p.Trick}
	case app.EventInvalidMovePlayed:
		p := ev.Payload.(app.InvalidMovePayload)
		opCode = OpInvalidMove
		fields = map[string]interface{}{"seat": p.Seat, "card": cardToValue(p.Card)}
	case app.EventTrickResolved:
		p := ev.Payload.(app.TrickResolvedPayload)
		opCode = OpTrickResolved
		fields = map[string]interface{}{
			"trick":       p.Trick,
			"winner_seat": p.WinnerSeat,
			"cards":       cardsToList(p.Cards),
			"tricks":      intsToList(p.Tricks),
		}
	case app.EventTurnChanged:
		p := ev.Payload.(app.TurnChangedPayload)
		opCode = OpTurnChanged
		fields = map[string]interface{}{"seat": p.Seat}
	case app.EventHandEnded:
		p := ev.Payload.(app.HandEndedPayload)
		opCode = OpHandEnded
		fields = map[string]interface{}{
			"winner_seat":  p.WinnerSeat,
			"maker_seat":   p.MakerSeat,
			"maker_tricks": p.MakerTricks,
			"points":       intsToList(p.Points),
			"scores":       intsToList(p.Scores),
			"next_dealer":  p.NextDealer,
		}
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	s, err := structpb.NewStruct(fields)
	return opCode, s, err
}

// decodeRequest parses a JSON client message. An empty body is an empty request.
func decodeRequest(data []byte) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if len(data) == 0 {
		return req, nil
	}
	if err := protojson.Unmarshal(data, req); err != nil {
		return nil, err
	}
	return req, nil
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

// intField reads a whole number, returning def when the key is absent.
func intField(req *structpb.Struct, key string, def int) (int, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fmt.Errorf("%s out of range", key)
	}
	return int(n.NumberValue), nil
}

// cardField reads {"suit": "hearts", "rank": "ace"} from key.
func cardField(req *structpb.Struct, key string) (domain.Card, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return domain.Card{}, fmt.Errorf("%w: %s", errMissingField, key)
	}
	obj := v.GetStructValue()
	if obj == nil {
		return domain.Card{}, fmt.Errorf("%s must be an object", key)
	}
	suit, err := domain.ParseSuit(stringField(obj, "suit"))
	if err != nil {
		return domain.Card{}, err
	}
	rank, err := domain.ParseRank(stringField(obj, "rank"))
	if err != nil {
		return domain.Card{}, err
	}
	return domain.Card{Suit: suit, Rank: rank}, nil
}

// suitField reads an optional suit name. An absent or empty key yields nil.
func suitField(req *structpb.Struct, key string) (*domain.Suit, error) {
	name := stringField(req, key)
	if name == "" {
		return nil, nil
	}
	s, err := domain.ParseSuit(name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
