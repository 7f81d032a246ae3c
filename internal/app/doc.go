// Package app wires application dependencies for the CLI.
//
// It resolves Config from defaults, an optional config.yaml in the home
// directory and TRASHMAIL_* environment variables, then builds the API
// client, stores and services, exposing them via the Wire struct for
// commands to use.
package app
