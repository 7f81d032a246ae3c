package patopaque

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"trashmail/internal/api"
	"trashmail/internal/domain"
)

const (
	cmdInit   = "pat_opaque_auth_init"
	cmdFinish = "pat_opaque_auth_finish"

	cookieSession = "session_id"
	cookiePAT     = "pat"
)

var (
	// ErrStartFailed is wrapped when the server rejects the first message.
	ErrStartFailed = errors.New("opaque start failed")
	// ErrMalformedReply is wrapped when a reply lacks a required member.
	ErrMalformedReply = errors.New("malformed opaque reply")
)

// Exchanger performs the client side of an OPAQUE login with the token as
// the password.
type Exchanger interface {
	// Start produces the KE1 message and the state Finish needs.
	Start(token string) (request []byte, state any, err error)
	// Finish consumes the server's KE2 and produces KE3. opaqueContext is
	// the context string the key exchange must be bound to; Flow always
	// passes Context.
	Finish(state any, loginResponse []byte, opaqueContext string) (finishRequest []byte, err error)
}

// Flow drives the two OPAQUE round trips over an API client.
type Flow struct {
	client domain.APIClient
	ex     Exchanger
	log    *zap.Logger
}

// NewFlow returns a Flow. log may be nil.
func NewFlow(client domain.APIClient, ex Exchanger, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{client: client, ex: ex, log: log}
}

// Pending is the client state between the two round trips.
type Pending struct {
	state         any
	LoginResponse string
	SessionID     string
}

// Run performs the whole exchange. On success the client carries the
// session_id (and pat, when issued) cookies.
func (f *Flow) Run(ctx context.Context, username domain.Username, token string) error {
	p, err := f.Start(ctx, username, token)
	if err != nil {
		return err
	}
	return f.Finish(ctx, p)
}

// Start sends the first message and records the server's session id.
func (f *Flow) Start(ctx context.Context, username domain.Username, token string) (*Pending, error) {
	request, state, err := f.ex.Start(token)
	if err != nil {
		return nil, fmt.Errorf("opaque start: %w", err)
	}
	payload := map[string]any{
		"username":          username.String(),
		"token_prefix":      TokenPrefix(token),
		"startLoginRequest": Encode(request),
	}
	res, err := f.client.Post(ctx, cmdInit, payload)
	if err != nil {
		return nil, api.TransportError(cmdInit, "opaque start", err)
	}
	if res == nil {
		return nil, api.InvalidResponse(cmdInit)
	}
	if !res.Succeeded(false) {
		e := api.ResultError(cmdInit, res, ErrStartFailed.Error())
		e.Err = ErrStartFailed
		return nil, e
	}

	p := &Pending{
		state:         state,
		SessionID:     res.Text("session_id"),
		LoginResponse: res.Text("loginResponse"),
	}
	if p.SessionID == "" || p.LoginResponse == "" {
		return nil, fmt.Errorf("%s: %w: session_id and loginResponse are required", cmdInit, ErrMalformedReply)
	}
	f.client.SetCookie(cookieSession, p.SessionID)
	return p, nil
}

// Finish completes the exchange started by Start.
func (f *Flow) Finish(ctx context.Context, p *Pending) error {
	ke2, err := Decode(p.LoginResponse)
	if err != nil {
		return fmt.Errorf("opaque finish: decode loginResponse: %w", err)
	}
	ke3, err := f.ex.Finish(p.state, ke2, Context)
	if err != nil {
		f.log.Error("opaque credential recovery failed",
			zap.Int("ke2_len", len(ke2)),
			zap.Error(err))
		return fmt.Errorf("opaque finish: %w", err)
	}

	payload := map[string]any{
		"session_id":         p.SessionID,
		"finishLoginRequest": Encode(ke3),
	}
	res, err := f.client.Post(ctx, cmdFinish, payload)
	if err != nil {
		return api.TransportError(cmdFinish, "opaque finish", err)
	}
	if res == nil {
		return api.InvalidResponse(cmdFinish)
	}
	if res.Has("success") && !res.Succeeded(false) {
		return api.ResultError(cmdFinish, res, "opaque finish failed")
	}
	if res.Data() == nil {
		return fmt.Errorf("%s: %w: data is required", cmdFinish, ErrMalformedReply)
	}

	var data struct {
		SessionID string `json:"session_id"`
		PAT       string `json:"pat"`
	}
	if err := res.DecodeData(&data); err != nil {
		return fmt.Errorf("%s: %w: %v", cmdFinish, ErrMalformedReply, err)
	}

	sid := firstNonEmpty(data.SessionID, res.Text("session_id"), p.SessionID)
	if sid != "" {
		f.client.SetCookie(cookieSession, sid)
	}
	if data.PAT != "" {
		f.client.SetCookie(cookiePAT, data.PAT)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
