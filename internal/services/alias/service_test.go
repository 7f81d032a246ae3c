package alias_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"trashmail/internal/api"
	"trashmail/internal/domain"
	"trashmail/internal/mockapi"
	"trashmail/internal/services/alias"
	"trashmail/internal/services/auth"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	user     = domain.Username("u@example.com")
	password = "pw"
)

// loggedIn returns an alias service whose client has logged in to h.
func loggedIn(t *testing.T, h http.Handler) *alias.Service {
	t.Helper()
	hs := httptest.NewServer(h)
	t.Cleanup(hs.Close)
	c, err := api.New(hs.URL, api.WithHTTPClient(hs.Client()))
	require.NoError(t, err)

	a := auth.New(c)
	ok, err := a.Login(context.Background(), user, password)
	require.NoError(t, err)
	require.True(t, ok)
	return alias.New(c, a, nil)
}

// fixed answers login with success and every other command with reply.
func fixed(reply string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cmd") == "login" {
			_, _ = io.WriteString(w, `{"success":true}`)
			return
		}
		_, _ = io.WriteString(w, reply)
	})
}

func TestCall_RequiresLogin(t *testing.T) {
	var calls int
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	t.Cleanup(hs.Close)
	c, err := api.New(hs.URL, api.WithHTTPClient(hs.Client()))
	require.NoError(t, err)

	svc := alias.New(c, auth.New(c), nil)
	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, api.ErrNotAuthenticated)
	assert.EqualError(t, err, "trashmail read_dea: Not authenticated. Call login() first.")
	_, err = svc.Create(context.Background(), "me@example.com", domain.CreateOptions{})
	assert.ErrorIs(t, err, api.ErrNotAuthenticated)
	assert.Zero(t, calls)
}

func TestList(t *testing.T) {
	srv := mockapi.New(nil)
	srv.AddUser(user.String(), password,
		mockapi.WithDEA("a@trashmail.com", "me@example.com"),
		mockapi.WithDEA("b@trashmail.com", "me@example.com"))
	svc := loggedIn(t, srv)

	deas, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, deas, 2)
	assert.Equal(t, "a@trashmail.com", deas[0].Address())
	assert.Equal(t, "me@example.com", deas[0].RealEmail())
	assert.Equal(t, "2", deas[1].ID())
}

func TestList_Shapes(t *testing.T) {
	for name, tc := range map[string]struct {
		reply string
		want  []string
	}{
		"keyed":      {`{"success":true,"data":{"2":{"dea":"b@x"},"1":{"dea":"a@x"}}}`, []string{"a@x", "b@x"}},
		"no data":    {`{"success":true}`, []string{}},
		"no success": {`{"data":[{"dea":"a@x"}]}`, []string{"a@x"}},
		"null data":  {`{"success":1,"data":null}`, []string{}},
	} {
		t.Run(name, func(t *testing.T) {
			deas, err := loggedIn(t, fixed(tc.reply)).List(context.Background())
			require.NoError(t, err)
			got := make([]string, 0, len(deas))
			for _, d := range deas {
				got = append(got, d.Address())
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestList_Failures(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		_, err := loggedIn(t, fixed(`{"success":false,"msg":"Session expired","error_code":2}`)).List(context.Background())
		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "read_dea", apiErr.Cmd)
		assert.Equal(t, "Session expired", apiErr.Message)
		assert.Equal(t, 2, apiErr.ErrorCode())
	})

	t.Run("rejected without message", func(t *testing.T) {
		_, err := loggedIn(t, fixed(`{"success":false}`)).List(context.Background())
		assert.EqualError(t, err, "trashmail read_dea: API call failed")
	})

	t.Run("not JSON", func(t *testing.T) {
		_, err := loggedIn(t, fixed(`<html></html>`)).List(context.Background())
		assert.ErrorIs(t, err, api.ErrInvalidResponse)
	})

	t.Run("empty object", func(t *testing.T) {
		_, err := loggedIn(t, fixed(`{}`)).List(context.Background())
		assert.ErrorIs(t, err, api.ErrInvalidResponse)
	})

	t.Run("bad data", func(t *testing.T) {
		_, err := loggedIn(t, fixed(`{"success":true,"data":"nope"}`)).List(context.Background())
		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "read_dea", apiErr.Cmd)
	})
}

func TestCreate(t *testing.T) {
	srv := mockapi.New(nil)
	srv.AddUser(user.String(), password)
	svc := loggedIn(t, srv)
	ctx := context.Background()

	expire, forwards := 7, 10
	dea, err := svc.Create(ctx, "me@example.com", domain.CreateOptions{
		Expire:   &expire,
		Forwards: &forwards,
		Extra:    map[string]any{"website": "shop.example"},
	})
	require.NoError(t, err)
	assert.Contains(t, dea.Address(), "@trashmail.com")
	assert.Equal(t, "me@example.com", dea.RealEmail())
	assert.EqualValues(t, 7, dea["expire"])
	assert.EqualValues(t, 10, dea["forwards"])
	assert.Equal(t, "shop.example", dea["website"])

	deas, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, deas, 1)
	assert.Equal(t, dea.Address(), deas[0].Address())

	_, err = svc.Create(ctx, "not-an-address", domain.CreateOptions{})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, mockapi.CodeBadRequest, apiErr.ErrorCode())
}

func TestCall_SendsParams(t *testing.T) {
	var got map[string]any
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cmd") == "read_dea" {
			_ = json.NewDecoder(r.Body).Decode(&got)
		}
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})
	svc := loggedIn(t, h)

	res, err := svc.Call(context.Background(), "read_dea", nil)
	require.NoError(t, err)
	assert.True(t, res.Succeeded(false))
	assert.Equal(t, map[string]any{}, got)

	_, err = svc.Call(context.Background(), "read_dea", map[string]any{"page": 2})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got["page"])
}
