// Package auth manages logging in to and out of the TrashMail API.
//
// It supports the classic form login (username + password, which also
// accepts personal access tokens) and, when an OPAQUE exchanger is supplied,
// the token-based OPAQUE flow. The service owns the only client-side state:
// whether a login succeeded, and for which username.
package auth
