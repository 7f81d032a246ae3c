package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"trashmail/internal/api"
	"trashmail/internal/domain"
	"trashmail/internal/protocol/patopaque"
)

const (
	cmdOpaqueCheck = "opaque_check"
	cmdLogin       = "login"
	cmdLogout      = "logout"
)

// ErrInvalidPAT is returned when a token lacks the tmpat_ prefix.
var ErrInvalidPAT = errors.New("invalid PAT format: must start with '" + domain.PATPrefix + "'")

// Service logs in and out over an API client.
type Service struct {
	client domain.APIClient
	ex     patopaque.Exchanger
	flow   *patopaque.Flow
	log    *zap.Logger

	mu            sync.RWMutex
	authenticated bool
	username      domain.Username
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithExchanger enables the OPAQUE token login using ex.
func WithExchanger(ex patopaque.Exchanger) Option {
	return func(s *Service) { s.ex = ex }
}

// New returns an auth service backed by client.
func New(client domain.APIClient, opts ...Option) *Service {
	s := &Service{client: client, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.ex != nil {
		s.flow = patopaque.NewFlow(client, s.ex, s.log)
	}
	return s
}

var _ domain.AuthService = (*Service)(nil)

// CheckAuthMethods asks the server which login methods username can use.
// Failures are logged and reported as "nothing enabled".
func (s *Service) CheckAuthMethods(ctx context.Context, username domain.Username) domain.AuthMethods {
	methods, ok := s.checkMethods(ctx, username)
	if !ok {
		return domain.AuthMethods{}
	}
	return methods
}

// checkMethods reports ok=false only when the server could not be reached.
func (s *Service) checkMethods(ctx context.Context, username domain.Username) (domain.AuthMethods, bool) {
	res, err := s.client.Post(ctx, cmdOpaqueCheck, map[string]any{"username": username.String()})
	if err != nil {
		s.log.Error("auth method check failed", zap.String("username", username.String()), zap.Error(err))
		return domain.AuthMethods{}, false
	}
	return domain.AuthMethods{
		OpaqueEnabled:      res.Bool("opaque_enabled", false),
		SRPEnabled:         res.Bool("srp_enabled", false),
		MigrationAvailable: res.Bool("migration_available", false),
	}, true
}

// Login performs the classic login. It returns false with a nil error when
// the server accepted the credentials but requires a second factor, which
// this client does not implement.
func (s *Service) Login(ctx context.Context, username domain.Username, password string) (bool, error) {
	res, err := s.client.Post(ctx, cmdLogin, map[string]any{
		"fe-login-user": username.String(),
		"fe-login-pass": password,
	})
	if err != nil {
		s.log.Error("login failed", zap.String("username", username.String()), zap.Error(err))
		return false, api.TransportError(cmdLogin, "Login error", err)
	}
	if res.Empty() {
		return false, api.InvalidResponse(cmdLogin)
	}
	if !res.Succeeded(false) {
		return false, api.ResultError(cmdLogin, res, "Login failed")
	}

	s.setAuthenticated(username)
	s.log.Info("login successful", zap.String("username", username.String()))

	var data struct {
		Requires2FA json.RawMessage `json:"requires_2fa"`
	}
	if err := res.DecodeData(&data); err != nil {
		s.log.Debug("login data is not an object", zap.Error(err))
	}
	if domain.Truthy(data.Requires2FA) {
		s.log.Warn("2FA required, not supported by this client", zap.String("username", username.String()))
		return false, nil
	}
	return true, nil
}

// LoginWithPAT logs in with a personal access token.
//
// With an exchanger configured, the OPAQUE flow runs unless the server
// explicitly reports OPAQUE as disabled for the user; an unreachable
// opaque_check still attempts OPAQUE. Otherwise the token is sent through the
// classic login in place of the password.
func (s *Service) LoginWithPAT(ctx context.Context, username domain.Username, token string) (bool, error) {
	if !domain.IsPAT(token) {
		return false, ErrInvalidPAT
	}
	if s.flow == nil {
		return s.Login(ctx, username, token)
	}

	methods, ok := s.checkMethods(ctx, username)
	if ok && !methods.OpaqueEnabled {
		s.log.Info("OPAQUE disabled for user, falling back to classic login",
			zap.String("username", username.String()))
		return s.Login(ctx, username, token)
	}

	if err := s.flow.Run(ctx, username, token); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			s.log.Warn("PAT-OPAQUE rejected", zap.String("username", username.String()), zap.Error(err))
		} else {
			s.log.Error("PAT-OPAQUE authentication failed", zap.String("username", username.String()), zap.Error(err))
		}
		return false, err
	}
	s.setAuthenticated(username)
	s.log.Info("PAT-OPAQUE authentication succeeded", zap.String("username", username.String()))
	return true, nil
}

// Logout ends the session. Server-side errors are ignored; local state and
// cookies are always cleared.
func (s *Service) Logout(ctx context.Context) bool {
	if s.IsAuthenticated() {
		res, err := s.client.Post(ctx, cmdLogout, map[string]any{})
		switch {
		case err != nil:
			s.log.Debug("logout request failed", zap.Error(err))
		case res != nil && !res.Succeeded(true):
			s.log.Debug("logout rejected", zap.String("msg", res.Message("")))
		}
	}

	s.mu.Lock()
	s.authenticated = false
	s.username = ""
	s.mu.Unlock()
	s.client.Reset()
	return true
}

// IsAuthenticated reports whether a login has succeeded.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Username returns the logged-in username, or "".
func (s *Service) Username() domain.Username {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Snapshot captures the session cookies and username.
func (s *Service) Snapshot() domain.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SessionRecord{
		ServerURL:  s.client.BaseURL(),
		Username:   s.username,
		Cookies:    s.client.Cookies(),
		CreatedUTC: time.Now().UTC().Unix(),
	}
}

// Restore loads a persisted session into the client.
func (s *Service) Restore(rec domain.SessionRecord) bool {
	if rec.Username == "" || rec.ServerURL != s.client.BaseURL() {
		return false
	}
	for _, c := range rec.Cookies {
		s.client.SetCookie(c.Name, c.Value)
	}
	s.setAuthenticated(rec.Username)
	return true
}

func (s *Service) setAuthenticated(username domain.Username) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.username = username
}
