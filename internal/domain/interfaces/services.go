package interfaces

import (
	"context"

	domaintypes "trashmail/internal/domain/types"
)

// SessionState exposes whether a login has succeeded.
type SessionState interface {
	IsAuthenticated() bool
	Username() domaintypes.Username
}

// AuthService logs in and out of the API and owns the authenticated state.
type AuthService interface {
	SessionState

	CheckAuthMethods(ctx context.Context, username domaintypes.Username) domaintypes.AuthMethods
	Login(ctx context.Context, username domaintypes.Username, password string) (bool, error)
	LoginWithPAT(ctx context.Context, username domaintypes.Username, token string) (bool, error)
	Logout(ctx context.Context) bool

	// Snapshot captures the current session for persistence.
	Snapshot() domaintypes.SessionRecord
	// Restore re-establishes a persisted session. It reports false when the
	// record belongs to another server or carries no username.
	Restore(rec domaintypes.SessionRecord) bool
}

// AliasService reads and creates disposable addresses.
type AliasService interface {
	Call(ctx context.Context, cmd string, params map[string]any) (*domaintypes.APIResult, error)
	List(ctx context.Context) ([]domaintypes.DEA, error)
	Create(ctx context.Context, realEmail string, opts domaintypes.CreateOptions) (domaintypes.DEA, error)
}
