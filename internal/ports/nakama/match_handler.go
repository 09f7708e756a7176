package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"euchre/internal/app"
	"euchre/internal/bot"
	"euchre/internal/config"
	"euchre/internal/domain"
	"euchre/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	gameConfigPath   = "data/euchre_config.json"
	botIdentityPath  = "data/bot_identities.json"
	signalOpSave     = "save"
	errCodeBadAction = 400
	// maxIdleTicks is how long a match with nobody connected lives, one tick per second.
	maxIdleTicks = 120
)

var errNoGame = errors.New("no game in progress")

// nameLookup resolves the name a user is seated under.
type nameLookup interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// MatchState holds the authoritative runtime state for one human-vs-AI table.
type MatchState struct {
	HumanUserID  string                      `json:"human_user_id"`  // Empty until the human joins
	HumanSeat    int                         `json:"human_seat"`     // Seat index of the human player
	BotUserID    string                      `json:"bot_user_id"`    // User id of the AI opponent
	BotLevel     string                      `json:"bot_level"`      // Brain the AI plays with
	Tick         int64                       `json:"tick"`           // Current tick of the match
	IdleTicks    int64                       `json:"idle_ticks"`     // Consecutive ticks with nobody connected
	BotMinDelay  int                         `json:"bot_min_delay"`  // Min seconds a bot waits
	BotMaxDelay  int                         `json:"bot_max_delay"`  // Max seconds a bot waits
	BotWaitUntil int64                       `json:"bot_wait_until"` // Tick when the bot should act
	DealerSeat   int                         `json:"dealer_seat"`    // First dealer, -1 for random
	Presences    map[string]runtime.Presence `json:"-"`              // Map UserId -> Presence for targeted messaging
	App          *app.Service                `json:"-"`              // Euchre use-cases
	Game         *domain.Game                `json:"-"`              // Current game (nil before the first deal)
	Bot          *bot.Agent                  `json:"-"`              // AI seat
	Stats        ports.StatsPort             `json:"-"`
	Saves        ports.SaveStore             `json:"-"`
	Resume       *app.ResumeTokenService     `json:"-"`
	Names        nameLookup                  `json:"-"`
	label        string
}

// BotSeat is the seat opposite the human.
func (ms *MatchState) BotSeat() int {
	return 1 - ms.HumanSeat
}

func (ms *MatchState) humanCount() int {
	if ms.HumanUserID == "" {
		return 0
	}
	return 1
}

// seatOf returns the seat of userID, or -1 for spectators and strangers.
func (ms *MatchState) seatOf(userID string) int {
	if userID != "" && userID == ms.HumanUserID {
		return ms.HumanSeat
	}
	return -1
}

// newMatchState builds an empty table configured from cfg.
func newMatchState(cfg config.GameConfig, stats ports.StatsPort, saves ports.SaveStore, names nameLookup) *MatchState {
	return &MatchState{
		HumanSeat:   app.HumanSeat,
		BotLevel:    cfg.BotLevel,
		BotMinDelay: cfg.BotMinDelaySeconds,
		BotMaxDelay: cfg.BotMaxDelaySeconds,
		DealerSeat:  cfg.DealerSeat,
		Presences:   make(map[string]runtime.Presence),
		App:         app.NewService(nil),
		Stats:       stats,
		Saves:       saves,
		Resume:      app.NewResumeTokenService(cfg.ResumeSecret, cfg.ResumeIssuer, cfg.ResumeTokenTTL()),
		Names:       names,
	}
}

// shouldTerminateNoHumans returns true when nobody is connected to the match.
func shouldTerminateNoHumans(state *MatchState) bool {
	return len(state.Presences) == 0
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created. Params naming a saved game reopen it
// for the user who saved it.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing euchre table.")

	if err := bot.LoadIdentities(botIdentityPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig().WithEnv(envFrom(ctx))

	state := newMatchState(cfg,
		NewNakamaStatsAdapter(nk, cfg.StatsCollection),
		NewNakamaSaveStore(nk, cfg.SaveCollection),
		NewNakamaAccountAdapter(nk),
	)

	userID, _ := params[paramResumeUserID].(string)
	gameID, _ := params[paramResumeGameID].(string)
	if userID != "" && gameID != "" {
		save, err := state.Saves.LoadGame(ctx, userID, gameID)
		if err != nil {
			logger.Error("MatchInit: Failed to load saved game %s for %s: %v", gameID, userID, err)
			return nil, 0, ""
		}
		if err := restoreSave(state, userID, save); err != nil {
			logger.Error("MatchInit: Failed to restore saved game %s: %v", gameID, err)
			return nil, 0, ""
		}
		logger.Info("MatchInit: Restored game %s (hand %d, phase %s) for %s", gameID, state.Game.HandNumber, state.Game.Phase, userID)
	}

	label, err := labelString(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.label = label

	tickRate := 1
	return state, tickRate, label
}

// restoreSave reseats a saved game. The table is reserved for userID.
func restoreSave(state *MatchState, userID string, save ports.SavedGame) error {
	game, err := domain.Restore(save.Snapshot, state.App.Rand())
	if err != nil {
		return err
	}
	if save.HumanSeat < 0 || save.HumanSeat >= len(game.Players) {
		return domain.ErrUnknownSeat
	}
	state.Game = game
	state.HumanUserID = userID
	state.HumanSeat = save.HumanSeat
	if save.BotLevel != "" {
		state.BotLevel = save.BotLevel
	}
	return seatBot(state, save.BotUserID)
}

// seatBot creates the AI agent. An empty userID picks an identity from the pool.
func seatBot(state *MatchState, userID string) error {
	if userID == "" {
		userID = bot.PickIdentity(state.App.Rand().Intn(1 << 16)).UserID
	}
	level, err := bot.LevelFor(userID, state.BotLevel)
	if err != nil {
		return err
	}
	agent, err := bot.NewAgent(userID, level)
	if err != nil {
		return err
	}
	state.BotUserID = userID
	state.BotLevel = string(level)
	state.Bot = agent
	return nil
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if bot.IsBot(presence.GetUserId()) {
		return state, false, "Bot accounts cannot join"
	}
	if matchState.HumanUserID != "" && matchState.HumanUserID != presence.GetUserId() {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if matchState.HumanUserID == "" {
			matchState.HumanUserID = p.GetUserId()
			if err := seatBot(matchState, ""); err != nil {
				logger.Error("MatchJoin: Failed to seat bot: %v", err)
			} else {
				logger.Info("MatchJoin: User %s seated against bot %s (%s)", p.GetUserId(), matchState.BotUserID, matchState.Bot.Name)
			}
		}

		mh.sendMatchState(matchState, dispatcher, logger, p)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave saves the game when the human leaves and then ends the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	humanLeft := false
	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if p.GetUserId() == matchState.HumanUserID {
			humanLeft = true
		}
	}
	if !humanLeft {
		return matchState
	}

	if matchState.Game != nil {
		if save, err := saveGame(ctx, matchState); err != nil {
			logger.Error("MatchLeave: Failed to save game for %s: %v", matchState.HumanUserID, err)
		} else {
			logger.Info("MatchLeave: Saved game %s for %s", save.GameID, matchState.HumanUserID)
		}
	}
	logger.Info("MatchLeave: Terminating match with no humans.")
	return nil
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	if shouldTerminateNoHumans(matchState) {
		matchState.IdleTicks++
		if matchState.IdleTicks >= maxIdleTicks {
			logger.Info("MatchLoop: Terminating match with no humans after %d idle ticks.", matchState.IdleTicks)
			return nil
		}
	} else {
		matchState.IdleTicks = 0
	}

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpAcceptTrump:
			mh.handleAcceptTrump(ctx, matchState, dispatcher, logger, msg)
		case OpDeclineTrump:
			mh.handleDeclineTrump(ctx, matchState, dispatcher, logger, msg)
		case OpDiscardCard:
			mh.handleDiscardCard(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpNextHand:
			mh.handleNextHand(ctx, matchState, dispatcher, logger, msg)
		case OpRequestState:
			if p, ok := matchState.Presences[msg.GetUserId()]; ok {
				mh.sendMatchState(matchState, dispatcher, logger, p)
			}
		case OpSaveGame:
			mh.handleSaveGame(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBots(ctx, matchState, dispatcher, logger)
	return matchState
}

// processBots lets the AI act once its randomized delay has elapsed.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Bot == nil {
		return
	}
	seat := bot.PendingSeat(state.Game)
	if seat != state.BotSeat() {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if spread := state.BotMaxDelay - state.BotMinDelay; spread > 0 {
			delay += state.App.Rand().Intn(spread + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s (seat %d) will act at tick %d (current %d)", state.BotUserID, seat, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	move, err := state.Bot.PlayAtSeat(state.Game, seat)
	if err != nil {
		logger.Error("processBots: Bot %s failed to calculate move: %v", state.BotUserID, err)
		return
	}
	events, err := state.App.ApplyMove(state.Game, seat, move)
	mh.applyResult(ctx, state, dispatcher, logger, state.BotUserID, "bot "+string(move.Kind), events, err)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) < 0 {
		logger.Warn("StartGame: User %s is not seated", senderID)
		return
	}
	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadAction, "game already started")
		return
	}
	if state.Bot == nil {
		if err := seatBot(state, ""); err != nil {
			logger.Error("StartGame: Failed to seat bot: %v", err)
			return
		}
	}

	players := make([]*domain.Player, app.MinPlayersToStartGame)
	players[state.HumanSeat] = &domain.Player{Name: mh.humanName(ctx, state, logger), UserID: state.HumanUserID}
	players[state.BotSeat()] = &domain.Player{Name: state.Bot.Name, UserID: state.BotUserID}

	dealer := state.DealerSeat
	if dealer < 0 {
		dealer = state.App.Rand().Intn(len(players))
	}

	game, events, err := state.App.NewGame(players, dealer)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadAction, err.Error())
		return
	}
	state.Game = game

	dealt, err := state.App.DealHand(game)
	events = append(events, dealt...)
	mh.applyResult(ctx, state, dispatcher, logger, senderID, "start game", events, err)
	logger.Info("StartGame: Game %s started, dealer seat %d.", game.ID, dealer)
}

func (mh *matchHandler) humanName(ctx context.Context, state *MatchState, logger runtime.Logger) string {
	if state.Names != nil {
		name, err := state.Names.DisplayName(ctx, state.HumanUserID)
		if err == nil && name != "" {
			return name
		}
		if err != nil {
			logger.Warn("StartGame: Could not read account for %s: %v", state.HumanUserID, err)
		}
	}
	if p, ok := state.Presences[state.HumanUserID]; ok && p.GetUsername() != "" {
		return p.GetUsername()
	}
	return state.HumanUserID
}

// actionRequest resolves the sender's seat and decodes the message body.
func (mh *matchHandler) actionRequest(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, action string) (int, *structpb.Struct, bool) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("%s: Game not started.", action)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadAction, errNoGame.Error())
		return -1, nil, false
	}
	seat := state.seatOf(senderID)
	if seat < 0 {
		logger.Warn("%s: User %s is not seated", action, senderID)
		return -1, nil, false
	}
	req, err := decodeRequest(msg.GetData())
	if err != nil {
		logger.Warn("%s: Invalid request from %s: %v", action, senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadAction, "invalid request")
		return -1, nil, false
	}
	return seat, req, true
}

func (mh *matchHandler) handleAcceptTrump(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, req, ok := mh.actionRequest(state, dispatcher, logger, msg, "AcceptTrump")
	if !ok {
		return
	}
	suit, err := suitField(req, "suit")
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errCodeBadAction, err.Error())
		return
	}
	events, err := state.App.AcceptTrump(state.Game, seat, suit)
	mh.applyResult(ctx, state, dispatcher, logger, msg.GetUserId(), "accept trump", events, err)
}

func (mh *matchHandler) handleDeclineTrump(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, _, ok := mh.actionRequest(state, dispatcher, logger, msg, "DeclineTrump")
	if !ok {
		return
	}
	events, err := state.App.DeclineTrump(state.Game, seat)
	mh.applyResult(ctx, state, dispatcher, logger, msg.GetUserId(), "decline trump", events, err)
}

func (mh *matchHandler) handleDiscardCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, req, ok := mh.actionRequest(state, dispatcher, logger, msg, "DiscardCard")
	if !ok {
		return
	}
	card, err := cardField(req, "card")
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errCodeBadAction, err.Error())
		return
	}
	events, err := state.App.DiscardCard(state.Game, seat, card)
	mh.applyResult(ctx, state, dispatcher, logger, msg.GetUserId(), "discard", events, err)
}

// handlePlayCard plays a card. An optional "trick" field pins the action to a trick
// number so a late click on a resolved trick is dropped.
func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, req, ok := mh.actionRequest(state, dispatcher, logger, msg, "PlayCard")
	if !ok {
		return
	}
	card, err := cardField(req, "card")
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errCodeBadAction, err.Error())
		return
	}
	trick, err := intField(req, "trick", state.Game.Trick.Number)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errCodeBadAction, err.Error())
		return
	}
	events, err := state.App.PlayCardInTrick(state.Game, seat, card, trick)
	mh.applyResult(ctx, state, dispatcher, logger, msg.GetUserId(), "play card", events, err)
}

func (mh *matchHandler) handleNextHand(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if _, _, ok := mh.actionRequest(state, dispatcher, logger, msg, "NextHand"); !ok {
		return
	}
	events, err := state.App.StartNextHand(state.Game)
	if err == nil {
		var dealt []app.Event
		dealt, err = state.App.DealHand(state.Game)
		events = append(events, dealt...)
	}
	mh.applyResult(ctx, state, dispatcher, logger, msg.GetUserId(), "next hand", events, err)
}

func (mh *matchHandler) handleSaveGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if _, _, ok := mh.actionRequest(state, dispatcher, logger, msg, "SaveGame"); !ok {
		return
	}
	reply, err := saveAndIssue(ctx, state)
	if err != nil {
		logger.Error("SaveGame: Failed to save game for %s: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), errCodeBadAction, "save failed")
		return
	}
	payload, err := structpb.NewStruct(map[string]interface{}{"game_id": reply.GameID, "token": reply.Token})
	if err != nil {
		logger.Error("SaveGame: Failed to build reply: %v", err)
		return
	}
	mh.sendTo(state, dispatcher, logger, msg.GetUserId(), OpGameSaved, payload)
}

// applyResult broadcasts events and reports a rejected action to its sender.
// Stale trick actions are dropped quietly; illegal plays are announced by their event.
func (mh *matchHandler) applyResult(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, action string, events []app.Event, err error) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStaleTrickAction):
			logger.Debug("%s: Ignoring stale action from %s", action, userID)
		case errors.Is(err, domain.ErrIllegalMove):
			logger.Info("%s: %s attempted an illegal play", action, userID)
		default:
			logger.Warn("%s: User %s failed: %v", action, userID, err)
			mh.sendError(state, dispatcher, logger, userID, errCodeBadAction, err.Error())
		}
	}
	mh.updateLabel(state, dispatcher, logger)
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, payload, err := eventToStruct(ev)
	if err != nil {
		logger.Warn("Unknown event kind: %v (%v)", ev.Kind, err)
		return
	}

	if ev.Kind == app.EventHandEnded {
		mh.recordHand(ctx, state, logger, ev.Payload.(app.HandEndedPayload))
	}

	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Private events meant for the bot must never reach the human.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

// recordHand folds the human's result into their lifetime stats.
func (mh *matchHandler) recordHand(ctx context.Context, state *MatchState, logger runtime.Logger, p app.HandEndedPayload) {
	if state.Stats == nil || state.Game == nil || state.HumanUserID == "" {
		return
	}
	seat := state.HumanSeat
	player := state.Game.Players[seat]
	isMaker := p.MakerSeat == seat
	rec := ports.HandRecord{
		UserID:  state.HumanUserID,
		GameID:  state.Game.ID,
		Points:  p.Points[seat],
		Tricks:  player.HandTricks,
		Won:     p.WinnerSeat == seat,
		March:   isMaker && p.MakerTricks >= domain.TricksPerHand,
		Euchred: isMaker && p.Points[seat] == 0,
	}
	if err := state.Stats.RecordHand(ctx, rec); err != nil {
		logger.Error("Failed to record hand for %s: %v", state.HumanUserID, err)
	}
}

// sendMatchState sends the full table view to one presence. Only that user's hand is included.
func (mh *matchHandler) sendMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, presence runtime.Presence) {
	payload, err := structpb.NewStruct(matchView(state, presence.GetUserId()))
	if err != nil {
		logger.Error("Failed to build match state: %v", err)
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal match state: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpMatchState, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send match state: %v", err)
	}
}

// matchView renders the table as seen from userID's seat.
func matchView(state *MatchState, userID string) map[string]interface{} {
	view := map[string]interface{}{
		"your_seat": state.seatOf(userID),
		"bot_seat":  state.BotSeat(),
		"tick":      state.Tick,
		"phase":     "lobby",
	}
	g := state.Game
	if g == nil {
		return view
	}

	view["game_id"] = g.ID
	view["phase"] = string(g.Phase)
	view["hand_number"] = g.HandNumber
	view["dealer_seat"] = g.DealerSeat()
	view["turn_seat"] = g.TurnSeat()
	view["maker_seat"] = g.MakerSeat()
	view["trick"] = g.Trick.Number
	view["trump"] = nil
	if g.Trump != nil {
		view["trump"] = g.Trump.String()
	}
	if g.TrumpPhase && g.Bid.Candidate != nil {
		view["candidate"] = cardToValue(*g.Bid.Candidate)
		view["offeree"] = g.Bid.Offeree
		view["bid_round"] = g.Bid.Round
	}

	plays := make([]interface{}, 0, len(g.Trick.Plays))
	for _, pl := range g.Trick.Plays {
		plays = append(plays, map[string]interface{}{"seat": pl.Seat, "card": cardToValue(pl.Card)})
	}
	view["plays"] = plays

	players := make([]interface{}, 0, len(g.Players))
	for i, p := range g.Players {
		players = append(players, map[string]interface{}{
			"seat":         i,
			"name":         p.Name,
			"user_id":      p.UserID,
			"cards":        p.Hand.Len(),
			"hand_tricks":  p.HandTricks,
			"score":        p.Score,
			"total_tricks": p.TotalTricks,
			"hands_won":    p.HandsWon,
		})
		if i == state.seatOf(userID) {
			view["hand"] = cardsToList(p.Hand.Cards)
		}
	}
	view["players"] = players
	return view
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload, err := structpb.NewStruct(map[string]interface{}{"code": code, "message": message})
	if err != nil {
		logger.Error("Failed to build error event: %v", err)
		return
	}
	mh.sendTo(state, dispatcher, logger, userID, OpGameError, payload)
}

func (mh *matchHandler) sendTo(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, opCode int64, payload *structpb.Struct) {
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal message %d: %v", opCode, err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send %d to %s: Presence not found", opCode, userID)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send %d to %s: %v", opCode, userID, err)
	}
}

func labelString(state *MatchState) (string, error) {
	l := domain.ComputeLabel(state.Game, state.humanCount())
	label, err := structpb.NewStruct(map[string]interface{}{
		"open":  l.Open,
		"game":  l.Game,
		"phase": l.Phase,
		"hand":  l.Hand,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// updateLabel pushes the label when it changed since the last update.
func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := labelString(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.label = label
}

// saveGame snapshots the running game into the human's save slot.
func saveGame(ctx context.Context, state *MatchState) (ports.SavedGame, error) {
	if state.Game == nil {
		return ports.SavedGame{}, errNoGame
	}
	if state.Saves == nil {
		return ports.SavedGame{}, errors.New("saves not configured")
	}
	save := ports.SavedGame{
		GameID:    state.Game.ID,
		HumanSeat: state.HumanSeat,
		BotUserID: state.BotUserID,
		BotLevel:  state.BotLevel,
		SavedAt:   time.Now().Unix(),
		Snapshot:  state.Game.Snapshot(),
	}
	return save, state.Saves.SaveGame(ctx, state.HumanUserID, save)
}

// SaveReply is returned to a user who saved their game.
type SaveReply struct {
	GameID string `json:"game_id"`
	Token  string `json:"token,omitempty"`
	Error  string `json:"error,omitempty"`
}

// saveAndIssue saves the game and, when resume tokens are configured, signs one for it.
func saveAndIssue(ctx context.Context, state *MatchState) (SaveReply, error) {
	save, err := saveGame(ctx, state)
	if err != nil {
		return SaveReply{}, err
	}
	reply := SaveReply{GameID: save.GameID}
	token, err := state.Resume.Issue(state.HumanUserID, save.GameID)
	switch {
	case err == nil:
		reply.Token = token
	case !errors.Is(err, app.ErrResumeNotConfigured):
		return SaveReply{}, err
	}
	return reply, nil
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if matchState, ok := state.(*MatchState); ok && matchState.Game != nil && matchState.HumanUserID != "" {
		if _, err := saveGame(ctx, matchState); err != nil {
			logger.Error("MatchTerminate: Failed to save game: %v", err)
		}
	}
	logger.Debug("MatchTerminate: Match terminated with grace %d", graceSeconds)
	return state
}

// MatchSignal serves save requests from the save_game RPC. Data is {"op":"save","user_id":...}.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}

	var req struct {
		Op     string `json:"op"`
		UserID string `json:"user_id"`
	}
	reply := SaveReply{}
	switch err := json.Unmarshal([]byte(data), &req); {
	case err != nil || req.Op != signalOpSave:
		reply.Error = "unsupported signal"
	case req.UserID == "" || req.UserID != matchState.HumanUserID:
		reply.Error = "not seated at this table"
	default:
		saved, err := saveAndIssue(ctx, matchState)
		if err != nil {
			logger.Error("MatchSignal: Failed to save game for %s: %v", req.UserID, err)
			reply.Error = err.Error()
		} else {
			reply = saved
		}
	}

	b, _ := json.Marshal(reply)
	return matchState, string(b)
}

// envFrom returns the runtime environment, or nil outside Nakama.
func envFrom(ctx context.Context) map[string]string {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	return env
}
