package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/agentx-labs/skillkit/internal/location"
	"github.com/agentx-labs/skillkit/internal/lockfile"
	"github.com/agentx-labs/skillkit/internal/mirror"
)

var (
	listHome bool
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills in the project or home lockfile",
	Long:  `List every skill named by the project's lockfile (or the home lockfile with --home).`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listHome, "home", false, "List the home directory instead of the project")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a lockfile skill for display.
type listEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Installed   bool   `json:"installed"`
	Description string `json:"description,omitempty"`
}

// skillFrontmatter is the part of SKILL.md that list reads.
type skillFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	loc := s.repo
	if listHome {
		loc = s.home
	}

	entries, err := listSkills(loc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "No lockfile at %s.\n", loc.LockfilePath())
			return nil
		}
		return err
	}

	if listJSON {
		if entries == nil {
			entries = []listEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling skill list: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No skills in lockfile.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tDESCRIPTION")
	for _, e := range entries {
		status := "installed"
		if !e.Installed {
			status = "missing"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, status, truncate(e.Description, 60))
	}
	return w.Flush()
}

// listSkills returns one entry per lockfile skill in loc, sorted by name.
func listSkills(loc location.Location) ([]listEntry, error) {
	lf, err := lockfile.Load(loc.LockfilePath())
	if err != nil {
		return nil, err
	}

	var entries []listEntry
	for _, name := range lf.SkillNames() {
		dir := loc.SkillDir(name)
		e := listEntry{Name: name, Path: dir}
		if ok, err := mirror.IsDir(dir); err == nil && ok {
			e.Installed = true
			e.Description = readSkillDescription(dir)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// readSkillDescription returns the description from the YAML frontmatter of
// dir/SKILL.md, or "" if there is none.
func readSkillDescription(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		return ""
	}
	fm, ok := frontmatter(data)
	if !ok {
		return ""
	}
	var meta skillFrontmatter
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return ""
	}
	return meta.Description
}

// frontmatter returns the text between a leading "---" line and the next one.
func frontmatter(data []byte) ([]byte, bool) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, false
	}
	rest := data[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, false
	}
	return rest[:end], true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
