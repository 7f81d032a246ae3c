package types

import "strings"

// PATPrefix starts every TrashMail personal access token.
const PATPrefix = "tmpat_"

// Username is the login name (usually an email address) of an account.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// IsPAT reports whether secret looks like a personal access token rather than
// an account password.
func IsPAT(secret string) bool {
	return strings.HasPrefix(secret, PATPrefix) && len(secret) > len(PATPrefix)
}

// AuthMethods is the result of the opaque_check capability query.
type AuthMethods struct {
	OpaqueEnabled      bool `json:"opaque_enabled"`
	SRPEnabled         bool `json:"srp_enabled"`
	MigrationAvailable bool `json:"migration_available"`
}
