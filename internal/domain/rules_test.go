package domain

import (
	"errors"
	"testing"
)

func TestDetermineTrickWinner(t *testing.T) {
	tests := []struct {
		name  string
		plays []Play
		trump Suit
		want  int
	}{
		{
			name:  "no plays defaults to seat 0",
			trump: Spades,
			want:  0,
		},
		{
			name:  "left bower beats ace of trump",
			plays: []Play{{0, Card{Diamonds, Jack}}, {1, Card{Hearts, Ace}}},
			trump: Hearts,
			want:  0,
		},
		{
			name:  "higher card of lead suit wins",
			plays: []Play{{0, Card{Clubs, Nine}}, {1, Card{Clubs, King}}},
			trump: Spades,
			want:  1,
		},
		{
			name:  "lone trump beats lead suit",
			plays: []Play{{1, Card{Diamonds, Ace}}, {0, Card{Spades, Nine}}},
			trump: Spades,
			want:  0,
		},
		{
			name:  "off-suit discard loses to lead",
			plays: []Play{{0, Card{Hearts, Nine}}, {1, Card{Clubs, Ace}}},
			trump: Spades,
			want:  0,
		},
		{
			name:  "right bower beats left bower",
			plays: []Play{{0, Card{Clubs, Jack}}, {1, Card{Spades, Jack}}},
			trump: Spades,
			want:  1,
		},
		{
			name:  "right bower beats a led left bower",
			plays: []Play{{1, Card{Clubs, Jack}}, {0, Card{Spades, Jack}}},
			trump: Spades,
			want:  0,
		},
		{
			name:  "left bower beats a led nine of trump",
			plays: []Play{{0, Card{Spades, Nine}}, {1, Card{Clubs, Jack}}},
			trump: Spades,
			want:  1,
		},
		{
			name:  "left bower beats a led ace of trump",
			plays: []Play{{0, Card{Hearts, Ace}}, {1, Card{Diamonds, Jack}}},
			trump: Hearts,
			want:  1,
		},
		{
			name:  "second seat leads and wins with higher follow",
			plays: []Play{{1, Card{Hearts, Ten}}, {0, Card{Hearts, Queen}}},
			trump: Diamonds,
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				if got := DetermineTrickWinner(tt.plays, tt.trump); got != tt.want {
					t.Fatalf("expected seat %d, got %d", tt.want, got)
				}
			}
		})
	}
}

func TestTrickStates(t *testing.T) {
	tr := NewTrick(0, 2)
	if tr.State() != TrickEmpty {
		t.Errorf("expected empty, got %s", tr.State())
	}
	if tr.LeadCard() != nil {
		t.Error("expected no lead card")
	}
	if err := tr.Add(0, Card{Hearts, Nine}); err != nil {
		t.Fatal(err)
	}
	if tr.State() != TrickPartiallyFilled {
		t.Errorf("expected partially filled, got %s", tr.State())
	}
	if err := tr.Add(0, Card{Hearts, Ten}); !errors.Is(err, ErrSeatAlreadyPlayed) {
		t.Errorf("expected ErrSeatAlreadyPlayed, got %v", err)
	}
	if err := tr.Add(1, Card{Hearts, Ten}); err != nil {
		t.Fatal(err)
	}
	if tr.State() != TrickComplete {
		t.Errorf("expected complete, got %s", tr.State())
	}
	if err := tr.Add(1, Card{Hearts, Ace}); !errors.Is(err, ErrTrickComplete) {
		t.Errorf("expected ErrTrickComplete, got %v", err)
	}
	if w := tr.Resolve(Spades); w != 1 {
		t.Errorf("expected seat 1, got %d", w)
	}
	if tr.State() != TrickResolved {
		t.Errorf("expected resolved, got %s", tr.State())
	}
	if lead := tr.LeadCard(); lead == nil || *lead != (Card{Hearts, Nine}) {
		t.Errorf("unexpected lead %v", lead)
	}
}

func TestIsLegalPlay(t *testing.T) {
	hand := []Card{{Hearts, Nine}, {Spades, Ace}, {Diamonds, Jack}}
	hearts := Card{Hearts, King}
	clubs := Card{Clubs, King}
	tests := []struct {
		name string
		card Card
		lead *Card
		want bool
	}{
		{"leading anything", Card{Spades, Ace}, nil, true},
		{"following suit", Card{Hearts, Nine}, &hearts, true},
		{"reneging", Card{Spades, Ace}, &hearts, false},
		{"left bower does not follow its trump suit", Card{Diamonds, Jack}, &hearts, false},
		{"void may play anything", Card{Spades, Ace}, &clubs, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLegalPlay(hand, tt.card, tt.lead); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
	if got := LegalPlays(hand, &hearts); len(got) != 1 || got[0] != (Card{Hearts, Nine}) {
		t.Errorf("unexpected legal plays %v", got)
	}
}

func TestScoreHand(t *testing.T) {
	tests := []struct {
		name        string
		makerTricks int
		want        []int
	}{
		{"march", 5, []int{2, 0}},
		{"made with four", 4, []int{1, 0}},
		{"made with three", 3, []int{1, 0}},
		{"euchred with two", 2, []int{0, 2}},
		{"euchred with none", 0, []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := []*Player{
				{Seat: 0, IsMaker: true, HandTricks: tt.makerTricks},
				{Seat: 1, HandTricks: TricksPerHand - tt.makerTricks},
			}
			got := ScoreHand(players)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("seat %d: expected %d, got %d", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestHandWinnerTiesToSeatZero(t *testing.T) {
	players := []*Player{{Seat: 0}, {Seat: 1}}
	if w := HandWinner(players); w != 0 {
		t.Errorf("expected 0, got %d", w)
	}
	players[1].HandScore = 1
	if w := HandWinner(players); w != 1 {
		t.Errorf("expected 1, got %d", w)
	}
}
