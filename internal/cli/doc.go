// Package cli implements the recstore command line: configuration, logging,
// the query, get and schema commands, and the interactive shell.
package cli
