// Package store provides file-based persistence for the CLI's state.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. All methods are concurrency-safe via
// internal locking, and every write goes through a temp file and rename so a
// crash never leaves a torn file. Stored files live under the configured home
// directory:
//
//   - session.json.enc: the authenticated session (cookies + username),
//     sealed with XChaCha20-Poly1305 under a scrypt-derived key
//     (SessionFileStore)
//   - accounts.json: the last username used per server, in the clear
//     (AccountFileStore)
package store
