package bot

import (
	"math/rand"
	"testing"

	"euchre/internal/domain"
)

func countingTable(t *testing.T, hand []domain.Card) *domain.Game {
	t.Helper()
	g, err := domain.NewGame("g", []*domain.Player{{Name: "bot"}, {Name: "human"}}, 1, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	g.HandNumber = 1
	g.Deals = 1
	g.Players[0].Hand.Cards = hand
	g.Trick = domain.NewTrick(1, 2)
	return g
}

func TestCountingBrainChooseCard(t *testing.T) {
	trump := domain.Spades
	tests := []struct {
		name string
		hand []domain.Card
		lead *domain.Card
		want domain.Card
	}{
		{
			name: "leads the right bower",
			hand: []domain.Card{c(domain.Hearts, domain.Nine), c(domain.Spades, domain.Jack)},
			want: c(domain.Spades, domain.Jack),
		},
		{
			name: "leads a boss ace",
			hand: []domain.Card{c(domain.Hearts, domain.Ace), c(domain.Diamonds, domain.Ten)},
			want: c(domain.Hearts, domain.Ace),
		},
		{
			name: "follows with the cheapest winner",
			hand: []domain.Card{c(domain.Hearts, domain.Nine), c(domain.Hearts, domain.Queen), c(domain.Hearts, domain.Ace)},
			lead: &domain.Card{Suit: domain.Hearts, Rank: domain.Ten},
			want: c(domain.Hearts, domain.Queen),
		},
		{
			name: "ruffs with the lowest trump",
			hand: []domain.Card{c(domain.Spades, domain.King), c(domain.Clubs, domain.Ten), c(domain.Spades, domain.Nine)},
			lead: &domain.Card{Suit: domain.Hearts, Rank: domain.Ace},
			want: c(domain.Spades, domain.Nine),
		},
		{
			name: "dumps low when it cannot win",
			hand: []domain.Card{c(domain.Hearts, domain.King), c(domain.Hearts, domain.Nine)},
			lead: &domain.Card{Suit: domain.Hearts, Rank: domain.Ace},
			want: c(domain.Hearts, domain.Nine),
		},
		{
			name: "draws trump when holding most of it",
			hand: []domain.Card{
				c(domain.Spades, domain.Ace), c(domain.Spades, domain.King), c(domain.Spades, domain.Queen),
				c(domain.Spades, domain.Ten), c(domain.Diamonds, domain.Nine),
			},
			want: c(domain.Spades, domain.Ace),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCountingBrain()
			b.Observe(countingTable(t, tt.hand), 0)
			if got := b.ChooseCard(tt.hand, tt.lead, trump); got != tt.want {
				t.Errorf("ChooseCard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountingBrainAvoidsRuffableLead(t *testing.T) {
	hand := []domain.Card{c(domain.Hearts, domain.Ace), c(domain.Diamonds, domain.Ten)}
	g := countingTable(t, hand)
	g.Trick.Plays = []domain.Play{
		{Seat: 0, Card: c(domain.Hearts, domain.Queen)},
		{Seat: 1, Card: c(domain.Clubs, domain.Nine)},
	}
	b := NewCountingBrain()
	b.Observe(g, 0)

	g.Players[1].Won = append(g.Players[1].Won, g.Trick.Cards()...)
	g.Trick = domain.NewTrick(2, 2)
	b.Observe(g, 0)

	if got := b.ChooseCard(hand, nil, domain.Spades); got != c(domain.Diamonds, domain.Ten) {
		t.Errorf("ChooseCard() = %v, want the ten of diamonds", got)
	}
}

func TestCountingBrainBidding(t *testing.T) {
	b := NewCountingBrain()
	backed := []domain.Card{c(domain.Diamonds, domain.Jack), c(domain.Spades, domain.Ace), c(domain.Clubs, domain.Nine), c(domain.Clubs, domain.Ten), c(domain.Clubs, domain.Queen)}
	if !b.ShouldPickTrump(backed, domain.Hearts) {
		t.Error("left bower with an off-suit ace should accept")
	}
	bare := []domain.Card{c(domain.Diamonds, domain.Jack), c(domain.Spades, domain.King), c(domain.Clubs, domain.Nine), c(domain.Clubs, domain.Ten), c(domain.Clubs, domain.Queen)}
	if b.ShouldPickTrump(bare, domain.Hearts) {
		t.Error("lone bower without an ace should pass")
	}
	if suit, ok := b.ChooseTrump(bare); !ok || suit != domain.Clubs {
		t.Errorf("ChooseTrump() = %v, %v, want clubs", suit, ok)
	}
}

func TestCountingBrainDiscard(t *testing.T) {
	hand := []domain.Card{
		c(domain.Hearts, domain.Nine), c(domain.Spades, domain.Ace), c(domain.Clubs, domain.Ten),
		c(domain.Hearts, domain.King), c(domain.Hearts, domain.Queen), c(domain.Diamonds, domain.Jack),
	}
	b := NewCountingBrain()
	if got := b.DiscardForTrump(hand); got != hand[0] {
		t.Errorf("without an accepted suit the first card goes, got %v", got)
	}

	g := countingTable(t, hand)
	accepted := domain.Hearts
	g.Bid.Accepted = &accepted
	b.Observe(g, 0)
	if got := b.DiscardForTrump(hand); got != c(domain.Clubs, domain.Ten) {
		t.Errorf("DiscardForTrump() = %v, want the ten of clubs", got)
	}
}

func TestAgentFeedsObserver(t *testing.T) {
	hand := []domain.Card{c(domain.Hearts, domain.Nine), c(domain.Spades, domain.Jack)}
	g := countingTable(t, hand)
	trump := domain.Spades
	g.Trump = &trump
	g.TrumpPhase = false
	g.Phase = domain.PhaseInProgress
	g.Players[0].IsTurn = true

	a := &Agent{ID: "bot", Strategy: NewCountingBrain()}
	move, err := a.PlayAtSeat(g, 0)
	if err != nil {
		t.Fatal(err)
	}
	if move.Kind != MovePlay || move.Card != c(domain.Spades, domain.Jack) {
		t.Fatalf("move = %+v, want the right bower", move)
	}
}
