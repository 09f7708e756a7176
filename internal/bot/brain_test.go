package bot

import (
	"math/rand"
	"testing"

	"euchre/internal/domain"
)

func c(s domain.Suit, r domain.Rank) domain.Card { return domain.Card{Suit: s, Rank: r} }

func TestBasicBrainChooseCard(t *testing.T) {
	tests := []struct {
		name  string
		hand  []domain.Card
		lead  *domain.Card
		trump domain.Suit
		want  domain.Card
	}{
		{
			name:  "leading plays weakest off-suit",
			hand:  []domain.Card{c(domain.Spades, domain.Nine), c(domain.Hearts, domain.Ace), c(domain.Clubs, domain.Ten)},
			trump: domain.Spades,
			want:  c(domain.Clubs, domain.Ten),
		},
		{
			name:  "leading all trump plays weakest trump",
			hand:  []domain.Card{c(domain.Spades, domain.Jack), c(domain.Spades, domain.Ten), c(domain.Clubs, domain.Jack)},
			trump: domain.Spades,
			want:  c(domain.Spades, domain.Ten),
		},
		{
			name:  "following plays weakest of lead suit",
			hand:  []domain.Card{c(domain.Hearts, domain.King), c(domain.Hearts, domain.Nine), c(domain.Spades, domain.Nine)},
			lead:  &domain.Card{Suit: domain.Hearts, Rank: domain.Ace},
			trump: domain.Spades,
			want:  c(domain.Hearts, domain.Nine),
		},
		{
			name:  "trump lead counts left bower as follow",
			hand:  []domain.Card{c(domain.Clubs, domain.Jack), c(domain.Hearts, domain.Nine)},
			lead:  &domain.Card{Suit: domain.Spades, Rank: domain.Ace},
			trump: domain.Spades,
			want:  c(domain.Clubs, domain.Jack),
		},
		{
			name:  "void discards weakest off-suit",
			hand:  []domain.Card{c(domain.Spades, domain.Ace), c(domain.Diamonds, domain.King), c(domain.Clubs, domain.Nine)},
			lead:  &domain.Card{Suit: domain.Hearts, Rank: domain.Ace},
			trump: domain.Spades,
			want:  c(domain.Clubs, domain.Nine),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (BasicBrain{}).ChooseCard(tt.hand, tt.lead, tt.trump); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBasicBrainShouldPickTrump(t *testing.T) {
	tests := []struct {
		name string
		hand []domain.Card
		suit domain.Suit
		want bool
	}{
		{"one trump", []domain.Card{c(domain.Hearts, domain.Ace), c(domain.Spades, domain.Nine)}, domain.Hearts, false},
		{"two natural trump", []domain.Card{c(domain.Hearts, domain.Ace), c(domain.Hearts, domain.Nine)}, domain.Hearts, true},
		{"left bower counts", []domain.Card{c(domain.Hearts, domain.Ace), c(domain.Diamonds, domain.Jack)}, domain.Hearts, true},
		{"no trump", []domain.Card{c(domain.Clubs, domain.Ace), c(domain.Spades, domain.Nine)}, domain.Hearts, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (BasicBrain{}).ShouldPickTrump(tt.hand, tt.suit); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBasicBrainChooseTrumpAndDiscard(t *testing.T) {
	hand := []domain.Card{c(domain.Clubs, domain.Ace), c(domain.Clubs, domain.Nine), c(domain.Hearts, domain.Ten), c(domain.Hearts, domain.King)}
	suit, ok := BasicBrain{}.ChooseTrump(hand)
	if !ok || suit != domain.Hearts {
		t.Errorf("expected hearts, got %v (%v)", suit, ok)
	}
	if _, ok := (BasicBrain{}).ChooseTrump(hand[:1]); ok {
		t.Error("expected pass with a single card")
	}
	if got := (BasicBrain{}).DiscardForTrump(hand); got != hand[0] {
		t.Errorf("expected first card, got %v", got)
	}
}

func TestRandomBrainPlaysLegal(t *testing.T) {
	b := NewRandomBrain(rand.New(rand.NewSource(4)))
	hand := []domain.Card{c(domain.Hearts, domain.Nine), c(domain.Spades, domain.Ace), c(domain.Clubs, domain.King)}
	lead := c(domain.Hearts, domain.Ace)
	for i := 0; i < 50; i++ {
		if got := b.ChooseCard(hand, &lead, domain.Spades); got != hand[0] {
			t.Fatalf("random brain reneged with %v", got)
		}
	}
}

func TestNewBrain(t *testing.T) {
	if _, err := NewBrain("god", nil); err == nil {
		t.Error("expected error for unknown level")
	}
	b, err := NewBrain(BotLevelRandom, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*RandomBrain); !ok {
		t.Errorf("expected RandomBrain, got %T", b)
	}
	if lvl, _ := ParseLevel("medium"); lvl != BotLevelBasic {
		t.Errorf("expected basic, got %s", lvl)
	}
	if lvl, _ := ParseLevel("hard"); lvl != BotLevelCounting {
		t.Errorf("expected counting, got %s", lvl)
	}
	b, _ = NewBrain(BotLevelCounting, nil)
	if _, ok := b.(*CountingBrain); !ok {
		t.Errorf("expected CountingBrain, got %T", b)
	}
}
