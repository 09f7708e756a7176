package nakama

import (
	"context"
	"database/sql"

	"euchre/internal/bot"
	"euchre/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("Could not load game config, using defaults: %v", err)
	}
	if err := bot.LoadIdentities(botIdentityPath); err != nil {
		logger.Warn("Could not load bot identities: %v", err)
	} else {
		bot.ProvisionBots(ctx, nk, logger)
	}

	if rpcConfig(ctx).ResumeSecret == "" {
		logger.Warn("%s not set; save_game will not issue resume tokens.", config.EnvResumeSecret)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameEuchre, NewMatch); err != nil {
		return err
	}

	logger.Info("Euchre Go module loaded.")
	return nil
}
