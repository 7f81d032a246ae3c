package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"trashmail/internal/domain"
	domaintypes "trashmail/internal/domain/types"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://trashmail.com"
	// DefaultLang is sent when no language is configured.
	DefaultLang = "en"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Client talks JSON over HTTP to the TrashMail API.
type Client struct {
	base    string
	baseURL *url.URL
	lang    string
	log     *zap.Logger

	mu   sync.Mutex
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. The client is copied so the
// cookie jar never leaks into a shared instance such as http.DefaultClient.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h == nil {
			return
		}
		cp := *h
		c.http = &cp
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLang sets the language code sent with every request.
func WithLang(lang string) Option {
	return func(c *Client) { c.lang = normalizeLang(lang) }
}

// New returns a Client for base, e.g. https://trashmail.com.
func New(base string, opts ...Option) (*Client, error) {
	base = normalizeBase(base)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url %q: scheme must be http or https", base)
	}

	c := &Client{
		base:    base,
		baseURL: u,
		lang:    DefaultLang,
		log:     zap.NewNop(),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}

	jar, err := newJar()
	if err != nil {
		return nil, err
	}
	c.http.Jar = jar
	return c, nil
}

var _ domain.APIClient = (*Client)(nil)

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// Lang returns the language code sent with requests.
func (c *Client) Lang() string { return c.lang }

// Post sends body as JSON to cmd and decodes the reply.
//
// Transport failures are returned as errors. HTTP status codes are not
// interpreted: the service reports failures inside the JSON body, and the
// status is kept on the result for diagnostics.
func (c *Client) Post(ctx context.Context, cmd string, body any) (*domaintypes.APIResult, error) {
	if body == nil {
		body = map[string]any{}
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, fmt.Errorf("api %s: encode body: %w", cmd, err)
	}

	target := c.BuildURL(cmd, true, nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), buf)
	if err != nil {
		return nil, fmt.Errorf("api %s: %w", cmd, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debug("api request", zap.String("cmd", cmd), zap.String("url", target.URL))
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("api post %s: %w", cmd, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("api post %s: read body: %w", cmd, err)
	}
	c.log.Debug("api response",
		zap.String("cmd", cmd),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(b)))

	res := c.SafeJSON(b)
	if res == nil {
		return nil, nil
	}
	res.Status = resp.StatusCode
	return res, nil
}

// SafeJSON decodes body into an APIResult. Anything that is not a JSON
// object is logged and yields nil.
func (c *Client) SafeJSON(body []byte) *domaintypes.APIResult {
	res, err := decodeResult(body)
	if err != nil {
		c.log.Error("failed to decode JSON response",
			zap.Error(err),
			zap.Int("bytes", len(body)))
		return nil
	}
	return res
}

func decodeResult(body []byte) (*domaintypes.APIResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}
	if trimmed[0] != '{' {
		return nil, domaintypes.ErrNotObject
	}
	var res domaintypes.APIResult
	if err := json.Unmarshal(trimmed, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetCookie stores a cookie for the base URL.
func (c *Client) SetCookie(name, value string) {
	c.client().Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  name,
		Value: value,
		Path:  "/",
	}})
}

// Cookies lists the cookies that would be sent to the base URL.
func (c *Client) Cookies() []domaintypes.Cookie {
	cs := c.client().Jar.Cookies(c.baseURL)
	out := make([]domaintypes.Cookie, 0, len(cs))
	for _, ck := range cs {
		out = append(out, domaintypes.Cookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

// Reset replaces the cookie jar with an empty one.
func (c *Client) Reset() {
	jar, err := newJar()
	if err != nil {
		// cookiejar.New only fails on invalid options.
		c.log.Error("reset cookie jar", zap.Error(err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *c.http
	cp.Jar = jar
	c.http = &cp
}

func (c *Client) client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.http
}

func newJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("api: cookie jar: %w", err)
	}
	return jar, nil
}
