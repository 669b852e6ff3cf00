package installer

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	listStartMarker = "Available Skills"
	listEndMarker   = "Use --skill"
	listEndGlyph    = "└"

	maxSkillNameLen = 50
)

var skillNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ParseSkillList extracts skill names from installer listing output.
//
// Only lines after the first line containing "Available Skills" are
// considered, up to the first line containing "Use --skill" or "└". Each
// line has leading whitespace and box-drawing characters removed; what is
// left counts as a skill name when it is shorter than 50 bytes, has no
// whitespace, and consists of ASCII letters, digits, and hyphens. Names are
// returned in order of first appearance without duplicates.
func ParseSkillList(output string) []string {
	var names []string
	seen := map[string]bool{}
	inSection := false

	for _, line := range strings.Split(output, "\n") {
		if !inSection {
			if strings.Contains(line, listStartMarker) {
				inSection = true
			}
			continue
		}
		if strings.Contains(line, listEndMarker) || strings.Contains(line, listEndGlyph) {
			break
		}

		name := strings.TrimSpace(strings.TrimLeftFunc(line, isListDecoration))
		if !isSkillToken(name) || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func isListDecoration(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x2500 && r <= 0x257F)
}

func isSkillToken(s string) bool {
	if s == "" || len(s) >= maxSkillNameLen {
		return false
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	return skillNamePattern.MatchString(s)
}
