package patopaque_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trashmail/internal/api"
	"trashmail/internal/protocol/patopaque"
)

// fakeExchanger echoes fixed messages and records what it was given.
type fakeExchanger struct {
	token    string
	ke2      []byte
	context  string
	startErr error
	finErr   error
}

func (f *fakeExchanger) Start(token string) ([]byte, any, error) {
	f.token = token
	if f.startErr != nil {
		return nil, nil, f.startErr
	}
	return []byte("ke1"), "state-1", nil
}

func (f *fakeExchanger) Finish(state any, ke2 []byte, opaqueContext string) ([]byte, error) {
	if state != "state-1" {
		return nil, errors.New("unexpected state")
	}
	f.ke2 = ke2
	f.context = opaqueContext
	if f.finErr != nil {
		return nil, f.finErr
	}
	return []byte("ke3"), nil
}

type opaqueServer struct {
	initReply   string
	finishReply string

	initBody   map[string]any
	finishBody map[string]any
	cookies    []*http.Cookie
}

func (s *opaqueServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	switch r.URL.Query().Get("cmd") {
	case "pat_opaque_auth_init":
		s.initBody = body
		_, _ = io.WriteString(w, s.initReply)
	case "pat_opaque_auth_finish":
		s.finishBody = body
		s.cookies = r.Cookies()
		_, _ = io.WriteString(w, s.finishReply)
	default:
		http.Error(w, "unexpected", http.StatusBadRequest)
	}
}

func newFlow(t *testing.T, srv *opaqueServer, ex patopaque.Exchanger) (*patopaque.Flow, *api.Client) {
	t.Helper()
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)
	c, err := api.New(hs.URL, api.WithHTTPClient(hs.Client()))
	require.NoError(t, err)
	return patopaque.NewFlow(c, ex, nil), c
}

func cookieMap(c *api.Client) map[string]string {
	out := map[string]string{}
	for _, ck := range c.Cookies() {
		out[ck.Name] = ck.Value
	}
	return out
}

const token = "tmpat_0123456789abcdef"

func TestFlow_Run_OK(t *testing.T) {
	srv := &opaqueServer{
		initReply:   `{"success":true,"session_id":"sid-1","loginResponse":"` + patopaque.Encode([]byte("ke2")) + `"}`,
		finishReply: `{"success":true,"data":{"session_id":"sid-2","pat":"tmpat_session"}}`,
	}
	ex := &fakeExchanger{}
	flow, c := newFlow(t, srv, ex)

	require.NoError(t, flow.Run(context.Background(), "u@example.com", token))

	assert.Equal(t, token, ex.token)
	assert.Equal(t, []byte("ke2"), ex.ke2)
	assert.Equal(t, patopaque.Context, ex.context)
	assert.Equal(t, "pat_opaque_auth", ex.context)

	assert.Equal(t, "u@example.com", srv.initBody["username"])
	assert.Equal(t, "tmpat_012345...", srv.initBody["token_prefix"])
	assert.Equal(t, patopaque.Encode([]byte("ke1")), srv.initBody["startLoginRequest"])
	assert.NotContains(t, srv.initBody, "token")

	assert.Equal(t, "sid-1", srv.finishBody["session_id"])
	assert.Equal(t, patopaque.Encode([]byte("ke3")), srv.finishBody["finishLoginRequest"])
	require.Len(t, srv.cookies, 1)
	assert.Equal(t, "sid-1", srv.cookies[0].Value)

	assert.Equal(t, map[string]string{"session_id": "sid-2", "pat": "tmpat_session"}, cookieMap(c))
}

func TestFlow_Finish_KeepsStartSession(t *testing.T) {
	srv := &opaqueServer{
		initReply:   `{"success":true,"session_id":"sid-1","loginResponse":"a2Uy"}`,
		finishReply: `{"data":{"ok":1}}`,
	}
	flow, c := newFlow(t, srv, &fakeExchanger{})

	require.NoError(t, flow.Run(context.Background(), "u@example.com", token))
	assert.Equal(t, map[string]string{"session_id": "sid-1"}, cookieMap(c))
}

func TestFlow_Start_Rejected(t *testing.T) {
	srv := &opaqueServer{initReply: `{"success":false,"msg":"unknown token","error_code":9}`}
	flow, c := newFlow(t, srv, &fakeExchanger{})

	err := flow.Run(context.Background(), "u@example.com", token)
	require.Error(t, err)
	assert.ErrorIs(t, err, patopaque.ErrStartFailed)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unknown token", apiErr.Message)
	assert.Equal(t, 9, apiErr.ErrorCode())
	assert.Nil(t, srv.finishBody)
	assert.Empty(t, c.Cookies())
}

func TestFlow_Start_MalformedReply(t *testing.T) {
	srv := &opaqueServer{initReply: `{"success":true,"loginResponse":"a2Uy"}`}
	flow, _ := newFlow(t, srv, &fakeExchanger{})

	err := flow.Run(context.Background(), "u@example.com", token)
	assert.ErrorIs(t, err, patopaque.ErrMalformedReply)
}

func TestFlow_Start_InvalidResponse(t *testing.T) {
	srv := &opaqueServer{initReply: `<html>oops</html>`}
	flow, _ := newFlow(t, srv, &fakeExchanger{})

	err := flow.Run(context.Background(), "u@example.com", token)
	assert.ErrorIs(t, err, api.ErrInvalidResponse)
}

func TestFlow_ExchangerErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("start", func(t *testing.T) {
		srv := &opaqueServer{}
		flow, _ := newFlow(t, srv, &fakeExchanger{startErr: boom})
		assert.ErrorIs(t, flow.Run(context.Background(), "u@example.com", token), boom)
		assert.Nil(t, srv.initBody)
	})

	t.Run("finish", func(t *testing.T) {
		srv := &opaqueServer{initReply: `{"success":true,"session_id":"sid-1","loginResponse":"a2Uy"}`}
		flow, _ := newFlow(t, srv, &fakeExchanger{finErr: boom})
		assert.ErrorIs(t, flow.Run(context.Background(), "u@example.com", token), boom)
		assert.Nil(t, srv.finishBody)
	})
}

func TestFlow_Finish_Rejected(t *testing.T) {
	srv := &opaqueServer{
		initReply:   `{"success":true,"session_id":"sid-1","loginResponse":"a2Uy"}`,
		finishReply: `{"success":false,"msg":"bad proof"}`,
	}
	flow, _ := newFlow(t, srv, &fakeExchanger{})

	err := flow.Run(context.Background(), "u@example.com", token)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad proof", apiErr.Message)
}

func TestFlow_Finish_MissingData(t *testing.T) {
	srv := &opaqueServer{
		initReply:   `{"success":true,"session_id":"sid-1","loginResponse":"a2Uy"}`,
		finishReply: `{"success":true}`,
	}
	flow, _ := newFlow(t, srv, &fakeExchanger{})

	assert.ErrorIs(t, flow.Run(context.Background(), "u@example.com", token), patopaque.ErrMalformedReply)
}
