// Package cli defines the Cobra command tree for the skillkit CLI. Each file
// in this package registers one top-level command (add-skill, sync, list,
// etc.) with the root command. Command implementations delegate to internal
// packages for business logic and only handle flag parsing and output.
package cli
