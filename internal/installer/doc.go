// Package installer drives the external skills installer and records each
// successful install in the project registry.
//
// The Installer interface hides the subprocess; NPXInstaller is the
// production implementation that shells out to `npx skills add`. The
// Orchestrator lists the skills a source offers, installs them one at a
// time, and upserts successes into skills.json.
package installer
