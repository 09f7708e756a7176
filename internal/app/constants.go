package app

// MinPlayersToStartGame is the minimum number of seats a game can be dealt to.
const MinPlayersToStartGame = 2

// Seat layout used by the hosted table: the human always sits in seat 0.
const (
	HumanSeat = 0
	AISeat    = 1
)
