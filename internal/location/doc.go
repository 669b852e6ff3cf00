// Package location resolves the two skill Locations: the project-local
// "repo" store (<project>/.agents) and the user-global "home" store
// (~/.agents). Each Location holds a lockfile, a registry, and a skills/
// directory tree. All sync and install logic takes a Location value so it
// can run against temporary directories in tests.
package location
