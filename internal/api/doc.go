// Package api provides the HTTP implementation of domain.APIClient for the
// TrashMail web API.
//
// Every command goes to the server root as a POST with a JSON body; the
// command name travels in the query string:
//
//	POST {base}/?lang=en&api=1&cmd=read_dea
//
// Responses are JSON objects of the form
//
//	{"success": bool, "msg": string, "error_code": int, "data": any}
//
// with any of the keys possibly absent. A body that is not a JSON object is
// logged and reported as a nil result rather than an error, so callers can
// map it to their own "invalid response" failure.
//
// The client keeps cookies (session_id, pat) in a jar scoped to the base URL.
// There is no retry logic: one call is one request.
package api
