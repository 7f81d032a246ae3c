package api

import (
	"net/url"
	"strings"
)

// Request is a resolved endpoint: the server root plus query parameters.
type Request struct {
	URL    string
	Params url.Values
}

// String renders the full request URL.
func (r Request) String() string {
	if len(r.Params) == 0 {
		return r.URL
	}
	return r.URL + "?" + r.Params.Encode()
}

// BuildURL resolves cmd against the client's base URL. lang is always sent,
// api=1 when api is true, cmd when non-empty; extra parameters are applied
// last and replace earlier values with the same key.
func (c *Client) BuildURL(cmd string, api bool, extra url.Values) Request {
	params := url.Values{}
	params.Set("lang", c.lang)
	if api {
		params.Set("api", "1")
	}
	if cmd != "" {
		params.Set("cmd", cmd)
	}
	for k, vs := range extra {
		params[k] = append([]string(nil), vs...)
	}
	return Request{URL: c.base + "/", Params: params}
}

// normalizeBase strips trailing slashes so that BuildURL never doubles them.
func normalizeBase(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// normalizeLang keeps the two-letter language code the server expects.
func normalizeLang(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLang
	}
	if r := []rune(lang); len(r) > 2 {
		lang = string(r[:2])
	}
	return lang
}
