package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"euchre/internal/app/onboarding"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateDevice is triggered after an account is authenticated.
// New accounts get a table name and an empty stats record.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.Created {
		return nil
	}

	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		resolvedID, err := extractUserIDFromToken(out.Token)
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Failed to extract user ID from token: %v", err)
			return err
		}
		userID = resolvedID
	}

	logger.Info("Onboarding new user %s", userID)

	cfg := rpcConfig(ctx)
	service := onboarding.NewService(NewNakamaAccountAdapter(nk), NewNakamaStatsAdapter(nk, cfg.StatsCollection), nil)
	result, err := service.OnboardNewUser(ctx, userID)
	if result.ProfileUpdateErr != nil {
		logger.Warn("AfterAuthenticateDevice: Failed to update profile for user %s: %v", userID, result.ProfileUpdateErr)
	}
	if err != nil {
		logger.Error("AfterAuthenticateDevice: Onboarding failed for user %s: %v", userID, err)
		return err
	}
	if !result.StatsCreated {
		logger.Info("AfterAuthenticateDevice: Stats already present for user %s", userID)
	}
	return nil
}

// extractUserIDFromToken reads the uid claim of a session token the server just issued.
// The signature is not checked because the token never left the server.
func extractUserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("token claims missing uid")
	}
	return uid, nil
}
