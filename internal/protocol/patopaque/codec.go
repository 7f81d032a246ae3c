package patopaque

import (
	"encoding/base64"
	"strings"
)

// Context is the OPAQUE context string the server binds token logins to.
const Context = "pat_opaque_auth"

// tokenPrefixLen is how much of a token is disclosed to the server to pick
// the credential record.
const tokenPrefixLen = 12

// Encode renders protocol bytes as unpadded URL-safe base64.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode accepts base64 in either alphabet, padded or not.
func Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "=")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

// TokenPrefix returns the first characters of token followed by "..." when
// the token is longer than that.
func TokenPrefix(token string) string {
	if len(token) > tokenPrefixLen {
		return token[:tokenPrefixLen] + "..."
	}
	return token
}
