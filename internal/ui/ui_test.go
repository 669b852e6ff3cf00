package ui

import (
	"strings"
	"testing"
)

func TestRenderKeepsText(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"check", Check(), "✓"},
		{"cross", Cross(), "✗"},
		{"warn", Warn(), "⚠"},
		{"success", Success("done"), "done"},
		{"error", Error("failed"), "failed"},
		{"warning", Warning("careful"), "careful"},
		{"header", Header("Skills"), "Skills"},
		{"dim", Dim("npx skills add"), "npx skills add"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("rendered %q does not contain %q", tt.got, tt.want)
			}
		})
	}
}
