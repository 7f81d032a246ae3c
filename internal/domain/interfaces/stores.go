package interfaces

import domaintypes "trashmail/internal/domain/types"

// SessionStore persists the authenticated session between CLI runs,
// encrypted under a passphrase.
type SessionStore interface {
	SaveSession(passphrase string, rec domaintypes.SessionRecord) error
	LoadSession(passphrase string) (domaintypes.SessionRecord, bool, error)
	HasSession() (bool, error)
	ClearSession() error
}

// AccountStore remembers which account was last used per server.
type AccountStore interface {
	SaveAccountProfile(profile domaintypes.AccountProfile) error
	LoadAccountProfile(serverURL string) (domaintypes.AccountProfile, bool, error)
}
