package brain_test

import (
	"math/rand"
	"testing"

	"euchre/internal/app"
	"euchre/internal/bot/brain"
	"euchre/internal/domain"
)

func TestMemoryForgetsThrownInHand(t *testing.T) {
	svc := app.NewService(rand.New(rand.NewSource(11)))
	game, _, err := svc.NewGame([]*domain.Player{{Name: "bot"}, {Name: "human"}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.DealHand(game); err != nil {
		t.Fatal(err)
	}

	m := brain.NewMemory()
	m.Observe(game, 0)
	for i := 0; i < 2*len(game.Players); i++ {
		if _, err := svc.DeclineTrump(game, game.Bid.Offeree); err != nil {
			t.Fatalf("decline %d: %v", i, err)
		}
	}
	m.Observe(game, 0)

	for _, c := range domain.FullDeck() {
		if m.IsPlayed(c) {
			t.Errorf("%v marked played after the redeal", c)
		}
	}
	hand := game.Players[0].Hand.Cards
	if got := len(m.Unknown()); got != domain.DeckSize-len(hand) {
		t.Errorf("unknown = %d, want %d", got, domain.DeckSize-len(hand))
	}
}
