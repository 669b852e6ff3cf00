package lockfile

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MaxKnownVersion is the newest lockfile format this tool has been used
// with. Newer versions are still synced since skill metadata is opaque.
const MaxKnownVersion = "3"

// CheckVersion returns a warning when version is missing, unparsable, or
// newer than MaxKnownVersion. An empty string means no warning.
func CheckVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "lockfile has no version field"
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Sprintf("lockfile version %q is not a recognizable version", version)
	}

	known := semver.MustParse(MaxKnownVersion)
	if v.Major() > known.Major() {
		return fmt.Sprintf("lockfile version %s is newer than the latest known version %s", version, MaxKnownVersion)
	}
	return ""
}
