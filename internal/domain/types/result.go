package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrNotObject is returned when a response body is valid JSON but not an object.
var ErrNotObject = errors.New("response is not a JSON object")

// APIResult is the generic JSON envelope returned by every API command:
//
//	{"success": true, "msg": "...", "error_code": 12, "data": ...}
//
// Endpoints are inconsistent about which keys they send, so presence is
// tracked separately from value.
type APIResult struct {
	// Fields holds every top-level key of the response.
	Fields map[string]json.RawMessage
	// Status is the HTTP status code the result arrived with.
	Status int
}

// UnmarshalJSON accepts only JSON objects.
func (r *APIResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}
	r.Fields = fields
	return nil
}

// Empty reports whether the result carries no keys at all. An empty object is
// treated by callers the same way as an unparseable body.
func (r *APIResult) Empty() bool { return r == nil || len(r.Fields) == 0 }

// Has reports whether key is present.
func (r *APIResult) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Fields[key]
	return ok
}

// Bool returns the truthiness of key, or def when key is absent.
func (r *APIResult) Bool(key string, def bool) bool {
	if !r.Has(key) {
		return def
	}
	return Truthy(r.Fields[key])
}

// Text returns key as a string. Numbers are formatted; other values and
// absent keys give "".
func (r *APIResult) Text(key string) string {
	if !r.Has(key) {
		return ""
	}
	return rawString(r.Fields[key])
}

// Succeeded reports the "success" flag, falling back to def when the server
// omitted it.
func (r *APIResult) Succeeded(def bool) bool { return r.Bool("success", def) }

// Message returns "msg", or fallback when it is absent or empty.
func (r *APIResult) Message(fallback string) string {
	if m := r.Text("msg"); m != "" {
		return m
	}
	return fallback
}

// ErrorCode returns "error_code" when present and numeric.
func (r *APIResult) ErrorCode() *int {
	s := r.Text("error_code")
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// Data returns the raw "data" value, or nil when absent or null.
func (r *APIResult) Data() json.RawMessage {
	if !r.Has("data") {
		return nil
	}
	raw := r.Fields["data"]
	if isNull(raw) {
		return nil
	}
	return raw
}

// DecodeData unmarshals "data" into v. A missing or null value leaves v
// untouched and is not an error.
func (r *APIResult) DecodeData(v any) error {
	raw := r.Data()
	if raw == nil {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// Truthy applies the service's loose boolean semantics to a raw JSON value:
// null, false, 0, "", [] and {} are false; everything else is true.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n':
		return false
	case 't':
		return true
	case 'f':
		return false
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	case '[':
		var a []json.RawMessage
		if err := json.Unmarshal(raw, &a); err != nil {
			return false
		}
		return len(a) > 0
	case '{':
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return false
		}
		return len(m) > 0
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return false
		}
		return f != 0
	}
}

func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	if raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9') {
		return strings.TrimSuffix(string(raw), ".0")
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
