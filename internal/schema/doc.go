// Package schema compiles embedded JSON Schemas and validates lockfile and
// registry documents against them, flattening jsonschema's error tree into
// a list of path-level issues suitable for console output.
package schema
