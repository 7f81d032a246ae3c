// Package alias wraps the authenticated disposable-address commands
// (read_dea, save_dea) and the generic authenticated call they share.
package alias
