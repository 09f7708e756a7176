package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"euchre/internal/app"
	"euchre/internal/config"
	"euchre/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC status codes used by runtime.NewError.
const (
	codeInvalidArgument = 3
	codeNotFound        = 5
	codeInternal        = 13
	codeUnauthenticated = 16
)

var (
	errUnauthenticated = runtime.NewError("Authentication required", codeUnauthenticated)
	errInvalidPayload  = runtime.NewError("Invalid payload", codeInvalidArgument)
	errSaveMissing     = runtime.NewError("Saved game not found", codeNotFound)
	errInternal        = runtime.NewError("Internal error", codeInternal)
)

// OpenGameResponse names the match a saved game was reopened in.
type OpenGameResponse struct {
	MatchID string `json:"match_id"`
	GameID  string `json:"game_id"`
}

func callerID(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", errUnauthenticated
	}
	return userID, nil
}

func rpcConfig(ctx context.Context) config.GameConfig {
	return config.GetGameConfig().WithEnv(envFrom(ctx))
}

func resumeService(cfg config.GameConfig) *app.ResumeTokenService {
	return app.NewResumeTokenService(cfg.ResumeSecret, cfg.ResumeIssuer, cfg.ResumeTokenTTL())
}

// rpcSaveGame asks the caller's match to save its game.
// Payload: {"match_id": "..."}. Returns SaveReply.
func rpcSaveGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", errInvalidPayload
	}

	signal, _ := json.Marshal(map[string]string{"op": signalOpSave, "user_id": userID})
	result, err := nk.MatchSignal(ctx, req.MatchID, string(signal))
	if err != nil {
		logger.Warn("rpcSaveGame [User:%s]: Signal to match %s failed: %v", userID, req.MatchID, err)
		return "", runtime.NewError("Match not found", codeNotFound)
	}

	var reply SaveReply
	if err := json.Unmarshal([]byte(result), &reply); err != nil {
		logger.Error("rpcSaveGame [User:%s]: Bad signal reply %q: %v", userID, result, err)
		return "", errInternal
	}
	if reply.Error != "" {
		return "", runtime.NewError(reply.Error, codeInvalidArgument)
	}
	logger.Info("rpcSaveGame [User:%s]: Saved game %s", userID, reply.GameID)
	return result, nil
}

// rpcResumeGame reopens the game named by a resume token.
// Payload: {"token": "..."}. Returns OpenGameResponse.
func rpcResumeGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Token == "" {
		return "", errInvalidPayload
	}

	claims, err := resumeService(rpcConfig(ctx)).Verify(req.Token)
	if err != nil {
		if errors.Is(err, app.ErrResumeNotConfigured) {
			logger.Error("rpcResumeGame: Resume secret missing from env")
			return "", errInternal
		}
		logger.Warn("rpcResumeGame [User:%s]: Rejected token: %v", userID, err)
		return "", runtime.NewError("Invalid resume token", codeUnauthenticated)
	}
	if claims.UserID != userID {
		logger.Warn("rpcResumeGame [User:%s]: Token belongs to %s", userID, claims.UserID)
		return "", runtime.NewError("Invalid resume token", codeUnauthenticated)
	}
	return openSavedGame(ctx, logger, nk, userID, claims.GameID)
}

// rpcLoadGame reopens one of the caller's saved games.
// Payload: {"game_id": "..."}. Returns OpenGameResponse.
func rpcLoadGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		GameID string `json:"game_id"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", errInvalidPayload
	}
	return openSavedGame(ctx, logger, nk, userID, req.GameID)
}

// openSavedGame checks the save exists and creates a match that restores it.
func openSavedGame(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID, gameID string) (string, error) {
	cfg := rpcConfig(ctx)
	if _, err := NewNakamaSaveStore(nk, cfg.SaveCollection).LoadGame(ctx, userID, gameID); err != nil {
		if errors.Is(err, ports.ErrSaveNotFound) {
			return "", errSaveMissing
		}
		logger.Error("openSavedGame [User:%s]: %v", userID, err)
		return "", errInternal
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameEuchre, map[string]interface{}{
		paramResumeUserID: userID,
		paramResumeGameID: gameID,
	})
	if err != nil {
		logger.Error("openSavedGame [User:%s]: MatchCreate error: %v", userID, err)
		return "", errInternal
	}
	logger.Info("openSavedGame [User:%s]: Game %s reopened in match %s", userID, gameID, matchID)

	b, _ := json.Marshal(OpenGameResponse{MatchID: matchID, GameID: gameID})
	return string(b), nil
}

// rpcDeleteGame discards one of the caller's saved games.
// Payload: {"game_id": "..."}. Returns {"game_id": "..."}.
func rpcDeleteGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req struct {
		GameID string `json:"game_id"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", errInvalidPayload
	}

	saves := NewNakamaSaveStore(nk, rpcConfig(ctx).SaveCollection)
	if _, err := saves.LoadGame(ctx, userID, req.GameID); err != nil {
		if errors.Is(err, ports.ErrSaveNotFound) {
			return "", errSaveMissing
		}
		logger.Error("rpcDeleteGame [User:%s]: %v", userID, err)
		return "", errInternal
	}
	if err := saves.DeleteGame(ctx, userID, req.GameID); err != nil {
		logger.Error("rpcDeleteGame [User:%s]: %v", userID, err)
		return "", errInternal
	}
	logger.Info("rpcDeleteGame [User:%s]: Deleted game %s", userID, req.GameID)

	b, _ := json.Marshal(map[string]string{"game_id": req.GameID})
	return string(b), nil
}

// rpcGetStats returns the caller's lifetime record.
func rpcGetStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	stats, err := NewNakamaStatsAdapter(nk, rpcConfig(ctx).StatsCollection).GetStats(ctx, userID)
	if err != nil {
		logger.Error("rpcGetStats [User:%s]: %v", userID, err)
		return "", errInternal
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return "", errInternal
	}
	return string(b), nil
}
