package types

// AccountProfile records the account last logged in on a specific server.
// It holds nothing secret and is stored in the clear.
type AccountProfile struct {
	ServerURL string   `json:"server_url"`
	Username  Username `json:"username"`
	LastLogin int64    `json:"last_login"`
}

// Cookie is a name/value pair kept by the API client between requests.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SessionRecord is the persisted form of an authenticated session. The
// cookies are bearer credentials and must only be stored encrypted.
type SessionRecord struct {
	ServerURL  string   `json:"server_url"`
	Username   Username `json:"username"`
	Cookies    []Cookie `json:"cookies"`
	CreatedUTC int64    `json:"created_utc"`
}
