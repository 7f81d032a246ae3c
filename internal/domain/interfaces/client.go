package interfaces

import (
	"context"

	domaintypes "trashmail/internal/domain/types"
)

// APIClient is how we talk to the TrashMail API: one JSON POST per command,
// with cookies carried between calls.
type APIClient interface {
	// BaseURL is the server root with no trailing slash.
	BaseURL() string
	// Post sends body as JSON to cmd. A body the server did not answer with a
	// JSON object yields a nil result and a nil error.
	Post(ctx context.Context, cmd string, body any) (*domaintypes.APIResult, error)

	SetCookie(name, value string)
	Cookies() []domaintypes.Cookie
	// Reset drops every cookie.
	Reset()
}
