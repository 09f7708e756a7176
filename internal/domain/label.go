package domain

// LabelPayload holds the values advertised in a match label.
type LabelPayload struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Hand  int    `json:"hand"`
}

// ComputeLabel derives the advertised label. A table with no game yet is open to one human.
func ComputeLabel(g *Game, humans int) LabelPayload {
	if g == nil {
		return LabelPayload{Open: humans == 0, Game: "euchre", Phase: "lobby"}
	}
	return LabelPayload{Open: false, Game: "euchre", Phase: string(g.Phase), Hand: g.HandNumber}
}
