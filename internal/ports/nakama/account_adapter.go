package nakama

import (
	"context"

	"euchre/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaAccountAdapter implements ports.AccountPort using Nakama's account API.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// UpdateProfile sets the account username and the display name shown at the table.
func (a *NakamaAccountAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", "")
}

// DisplayName returns the name to seat userID under, preferring the display name.
func (a *NakamaAccountAdapter) DisplayName(ctx context.Context, userID string) (string, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return "", err
	}
	user := account.GetUser()
	if name := user.GetDisplayName(); name != "" {
		return name, nil
	}
	return user.GetUsername(), nil
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
