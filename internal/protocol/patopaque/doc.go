// Package patopaque carries the message plumbing for logging in with a
// personal access token over the server's OPAQUE endpoints.
//
// The exchange is two round trips:
//
//	pat_opaque_auth_init   {username, token_prefix, startLoginRequest}
//	                    -> {success, session_id, loginResponse}
//	pat_opaque_auth_finish {session_id, finishLoginRequest}
//	                    -> {data: {session_id, pat}}
//
// The cryptographic half of each step is delegated to an Exchanger, which
// must be wire compatible with the server's opaque-ke suite. None ships with
// this module; without one, token logins go through the classic login
// command, which accepts tokens in place of passwords.
package patopaque
