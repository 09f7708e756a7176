package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a table.
	RpcQuickMatch = "quick_match"
	// RpcSaveGame snapshots the caller's running game and returns a resume token.
	RpcSaveGame = "save_game"
	// RpcResumeGame reopens a saved game from a resume token.
	RpcResumeGame = "resume_game"
	// RpcLoadGame reopens one of the caller's saved games by id.
	RpcLoadGame = "load_game"
	// RpcGetStats returns the caller's lifetime record.
	RpcGetStats = "get_stats"
	// RpcDeleteGame discards one of the caller's saved games.
	RpcDeleteGame = "delete_game"

	// MatchNameEuchre is the authoritative match handler name registered with Nakama.
	MatchNameEuchre = "euchre_match"

	// Match params set by the resume and load RPCs.
	paramResumeUserID = "resume_user_id"
	paramResumeGameID = "resume_game_id"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame    int64 = 1
	OpAcceptTrump  int64 = 2
	OpDeclineTrump int64 = 3
	OpDiscardCard  int64 = 4
	OpPlayCard     int64 = 5
	OpNextHand     int64 = 6
	OpRequestState int64 = 7
	OpSaveGame     int64 = 8

	// Server -> Client events
	OpMatchState     int64 = 100
	OpGameStarted    int64 = 101
	OpHandStarted    int64 = 102
	OpHandDealt      int64 = 103 // send privately
	OpBidOffered     int64 = 104
	OpBidPassed      int64 = 105
	OpTrumpAccepted  int64 = 106
	OpDealerExchange int64 = 107
	OpCardDiscarded  int64 = 108 // send privately
	OpTrumpDecided   int64 = 109
	OpCardPlayed     int64 = 110
	OpTrickResolved  int64 = 111
	OpTurnChanged    int64 = 112
	OpHandEnded      int64 = 113
	OpDeckReshuffled int64 = 114
	OpInvalidMove    int64 = 115
	OpGameSaved      int64 = 116
	OpGameError      int64 = 199
)
