// Package config loads skillkit settings from skillkit.yaml files in the home
// and project Locations, a project-level .env file, and SKILLKIT_* environment
// variables. It controls file names inside a Location, the external installer
// command line, and mirror exclusions.
package config
