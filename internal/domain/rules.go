package domain

// IsLegalPlay reports whether card may be played from hand onto a trick led by lead.
// Following uses the printed suit of the lead card.
func IsLegalPlay(hand []Card, card Card, lead *Card) bool {
	if lead == nil {
		return true
	}
	if card.Suit == lead.Suit {
		return true
	}
	for _, c := range hand {
		if c.Suit == lead.Suit {
			return false
		}
	}
	return true
}

// LegalPlays returns the subset of hand that may be played onto a trick led by lead.
func LegalPlays(hand []Card, lead *Card) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if IsLegalPlay(hand, c, lead) {
			out = append(out, c)
		}
	}
	return out
}

// Scoring points.
const (
	PointsMarch   = 2
	PointsMade    = 1
	PointsEuchred = 2
)

// ScoreHand returns the points each seat earns for the finished hand.
// A maker with all five tricks scores 2 and with three or four scores 1; when the
// maker takes two or fewer, every other seat scores 2.
func ScoreHand(players []*Player) []int {
	points := make([]int, len(players))
	for i, p := range players {
		if !p.IsMaker {
			continue
		}
		switch {
		case p.HandTricks >= TricksPerHand:
			points[i] += PointsMarch
		case p.HandTricks >= 3:
			points[i] += PointsMade
		default:
			for j, q := range players {
				if !q.IsMaker {
					points[j] += PointsEuchred
				}
			}
		}
	}
	return points
}

// HandWinner returns the seat with the highest hand score. Ties go to the lowest seat.
func HandWinner(players []*Player) int {
	best := 0
	for i, p := range players {
		if p.HandScore > players[best].HandScore {
			best = i
		}
	}
	return best
}
