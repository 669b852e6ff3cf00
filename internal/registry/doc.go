// Package registry loads and saves the install-request registry
// (skills.json): the list of (source, skill) pairs that were explicitly
// requested with add-skill. Entries are unique by (source, skill); adding a
// pair again updates the existing entry in place. A registry that cannot be
// parsed is treated as empty so it never blocks a new installation.
package registry
