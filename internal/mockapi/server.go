// Package mockapi is an in-memory stand-in for the TrashMail API, used for
// local development of the CLI and by tests.
//
// It serves every command on "/" and dispatches on the cmd query parameter,
// the same way the real service does:
//
//	opaque_check   {username}                  -> capability flags
//	login          {fe-login-user, fe-login-pass} -> sets session_id cookie
//	read_dea       {}                          -> {success, data: [dea...]}
//	save_dea       {realemail, expire?, forwards?} -> {success, data: dea}
//	logout         {}                          -> drops the session
//
// All state is held in memory and lost on process exit.
package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trashmail/internal/domain"
)

// Error codes sent in failed replies.
const (
	CodeBadCredentials = 1
	CodeNotLoggedIn    = 2
	CodeBadRequest     = 3
	CodeUnknownCommand = 4
)

const sessionCookie = "session_id"

type account struct {
	password    string
	tokens      map[string]bool
	opaque      bool
	requires2FA bool
	deas        []domain.DEA
}

// UserOption tweaks an account created by AddUser.
type UserOption func(*account)

// WithPAT lets token stand in for the password at login.
func WithPAT(token string) UserOption {
	return func(a *account) { a.tokens[token] = true }
}

// WithOpaque makes opaque_check report OPAQUE as enabled.
func WithOpaque() UserOption { return func(a *account) { a.opaque = true } }

// With2FA makes login report requires_2fa.
func With2FA() UserOption { return func(a *account) { a.requires2FA = true } }

// WithDEA seeds an existing address forwarding to realEmail.
func WithDEA(address, realEmail string) UserOption {
	return func(a *account) {
		a.deas = append(a.deas, domain.DEA{
			"id":        float64(len(a.deas) + 1),
			"dea":       address,
			"realemail": realEmail,
		})
	}
}

// Server implements http.Handler.
type Server struct {
	log    *zap.Logger
	domain string

	mu       sync.Mutex
	users    map[string]*account
	sessions map[string]string // session id -> username
}

// New returns an empty server. log may be nil.
func New(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log:      log,
		domain:   "trashmail.com",
		users:    make(map[string]*account),
		sessions: make(map[string]string),
	}
}

// AddUser registers an account.
func (s *Server) AddUser(username, password string, opts ...UserOption) {
	a := &account{password: password, tokens: map[string]bool{}}
	for _, opt := range opts {
		opt(a)
	}
	s.mu.Lock()
	s.users[username] = a
	s.mu.Unlock()
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ServeHTTP dispatches on ?cmd=.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := map[string]any{}
	if r.Body != nil {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.fail(w, http.StatusBadRequest, CodeBadRequest, "malformed JSON body")
			return
		}
	}

	switch cmd := r.URL.Query().Get("cmd"); cmd {
	case "opaque_check":
		s.opaqueCheck(w, body)
	case "login":
		s.login(w, body)
	case "read_dea":
		s.withSession(w, r, s.readDEA)
	case "save_dea":
		s.withSession(w, r, func(w http.ResponseWriter, user string) { s.saveDEA(w, user, body) })
	case "logout":
		s.logout(w, r)
	default:
		s.fail(w, http.StatusBadRequest, CodeUnknownCommand, fmt.Sprintf("unknown command %q", cmd))
	}
}

func (s *Server) opaqueCheck(w http.ResponseWriter, body map[string]any) {
	username, _ := body["username"].(string)
	s.mu.Lock()
	a, ok := s.users[username]
	s.mu.Unlock()

	opaque := ok && a.opaque
	writeJSON(w, http.StatusOK, map[string]any{
		"opaque_enabled":      opaque,
		"srp_enabled":         false,
		"migration_available": ok && !opaque,
	})
}

func (s *Server) login(w http.ResponseWriter, body map[string]any) {
	username, _ := body["fe-login-user"].(string)
	password, _ := body["fe-login-pass"].(string)

	s.mu.Lock()
	a, ok := s.users[username]
	if !ok || password == "" || (a.password != password && !a.tokens[password]) {
		s.mu.Unlock()
		s.fail(w, http.StatusOK, CodeBadCredentials, "Invalid username or password")
		return
	}
	sid := uuid.NewString()
	s.sessions[sid] = username
	requires2FA := a.requires2FA
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sid, Path: "/", HttpOnly: true})
	s.log.Info("login", zap.String("username", username))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"requires_2fa": requires2FA},
	})
}

func (s *Server) withSession(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, string)) {
	user, ok := s.sessionUser(r)
	if !ok {
		s.fail(w, http.StatusOK, CodeNotLoggedIn, "Not logged in")
		return
	}
	next(w, user)
}

func (s *Server) sessionUser(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.sessions[c.Value]
	return user, ok
}

func (s *Server) readDEA(w http.ResponseWriter, user string) {
	s.mu.Lock()
	deas := append([]domain.DEA{}, s.users[user].deas...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": deas})
}

func (s *Server) saveDEA(w http.ResponseWriter, user string, body map[string]any) {
	realEmail, _ := body["realemail"].(string)
	if !strings.Contains(realEmail, "@") {
		s.fail(w, http.StatusOK, CodeBadRequest, "Invalid real email address")
		return
	}

	dea := domain.DEA{}
	for k, v := range body {
		dea[k] = v
	}
	dea["dea"] = strings.SplitN(uuid.NewString(), "-", 2)[0] + "@" + s.domain
	dea["realemail"] = realEmail
	dea["created"] = time.Now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	a := s.users[user]
	dea["id"] = float64(len(a.deas) + 1)
	a.deas = append(a.deas, dea)
	s.mu.Unlock()

	s.log.Info("save_dea", zap.String("username", user), zap.Any("dea", dea["dea"]))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": dea})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) fail(w http.ResponseWriter, status, code int, msg string) {
	writeJSON(w, status, map[string]any{
		"success":    false,
		"msg":        msg,
		"error_code": code,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
