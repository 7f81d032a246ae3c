package domain

import (
	"encoding/json"

	interfaces "trashmail/internal/domain/interfaces"
	types "trashmail/internal/domain/types"
)

// PATPrefix starts every personal access token.
const PATPrefix = types.PATPrefix

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username       = types.Username
	AuthMethods    = types.AuthMethods
	AccountProfile = types.AccountProfile
	Cookie         = types.Cookie
	SessionRecord  = types.SessionRecord
	APIResult      = types.APIResult
	DEA            = types.DEA
	CreateOptions  = types.CreateOptions
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	APIClient    = interfaces.APIClient
	SessionState = interfaces.SessionState
	AuthService  = interfaces.AuthService
	AliasService = interfaces.AliasService
	SessionStore = interfaces.SessionStore
	AccountStore = interfaces.AccountStore
)

// IsPAT reports whether secret looks like a personal access token.
func IsPAT(secret string) bool { return types.IsPAT(secret) }

// DecodeDEAList decodes the data member of a read_dea response.
var DecodeDEAList = types.DecodeDEAList

// Truthy applies the service's loose boolean semantics to a raw JSON value.
func Truthy(raw json.RawMessage) bool { return types.Truthy(raw) }
