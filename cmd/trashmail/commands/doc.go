// Package commands defines the trashmail CLI and wires dependencies for subcommands.
//
// Commands
//
//   - auth-methods  Show which login methods the server offers an account
//   - login         Log in with a password or personal access token
//   - list          List your disposable addresses
//   - create        Create a disposable address for a real mailbox
//   - logout        End the session and forget the stored copy
//   - whoami        Print the logged-in account
//   - config        Show or save the effective configuration
//   - demo          Probe, log in, list and log out in one go
//
// # Implementation
//
// The root command loads configuration and builds the dependency graph
// (stores, API client, services) before any subcommand runs. Each invocation
// is a separate process, so the session cookies are kept in an encrypted
// file when a passphrase is given with -p and restored on the next run.
package commands
