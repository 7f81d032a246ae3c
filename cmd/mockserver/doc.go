// Command mockserver runs the in-memory TrashMail API stand-in used during
// development of the trashmail CLI.
//
// Usage
//
//	mockserver --addr :8080 --user alice@example.com:secret --pat alice@example.com:tmpat_dev
//
// Point the CLI at it with --api-url http://127.0.0.1:8080 or
// TRASHMAIL_API_URL.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Responses are JSON in the same envelope the real service uses.
//   - A lightweight access log records method, path, cmd, remote, status,
//     bytes and duration for each request.
//   - The default listen address is :8080.
//
// It implements only the commands the CLI uses and performs no OPAQUE
// cryptography.
package main
