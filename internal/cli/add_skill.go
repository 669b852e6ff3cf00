package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/skillkit/internal/installer"
	"github.com/agentx-labs/skillkit/internal/ui"
)

var addSkillName string

var addSkillCmd = &cobra.Command{
	Use:   "add-skill <source>",
	Short: "Install skills from a source and record them in skills.json",
	Long: `Install one skill (with --skill) or every skill a source offers, then record
each successful install in the project's skills.json so install-skills can
replay it later. A failed install is reported and the rest continue.`,
	Example: `  skillkit add-skill https://github.com/vercel-labs/skills -s find-skills
  skillkit add-skill vercel-labs/skills`,
	Args: cobra.ExactArgs(1),
	RunE: runAddSkill,
}

func init() {
	addSkillCmd.Flags().StringVarP(&addSkillName, "skill", "s", "", "Install only this skill")
	rootCmd.AddCommand(addSkillCmd)
}

func runAddSkill(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	o := &installer.Orchestrator{
		Installer:    newInstaller(s.cfg.Installer, s.projectRoot, out, cmd.ErrOrStderr()),
		RegistryPath: s.repo.RegistryPath(),
		Logger:       s.log,
		Progress:     addSkillProgress(out),
	}

	result, err := o.Install(cmd.Context(), args[0], strings.TrimSpace(addSkillName))
	if err != nil && result == nil {
		return err
	}
	if result != nil && result.NoneFound {
		fmt.Fprintln(out, "\nNo skills found in the repository.")
		return nil
	}
	if result != nil && result.RegistryPath != "" {
		fmt.Fprintf(out, "\n%s Saved to %s\n", ui.Check(), result.RegistryPath)
		if n := result.FailedCount(); n > 0 {
			fmt.Fprintf(out, "  %s %d of %d skill(s) failed to install\n", ui.Warn(), n, len(result.Candidates))
		}
	}
	return err
}

func addSkillProgress(out io.Writer) func(installer.Event) {
	return func(ev installer.Event) {
		switch ev.Kind {
		case installer.EventListing:
			fmt.Fprintln(out, "Listing skills from repository...")
			if ev.Command != "" {
				fmt.Fprintf(out, "Running: %s\n\n", ui.Dim(ev.Command))
			}
		case installer.EventListed:
			fmt.Fprintln(out, ev.Output)
			if len(ev.Skills) > 0 {
				fmt.Fprintf(out, "\nFound %d skill(s): %s\n", len(ev.Skills), strings.Join(ev.Skills, ", "))
				fmt.Fprintln(out, "Installing each skill individually...")
			}
		case installer.EventInstalling:
			if ev.Command != "" {
				fmt.Fprintf(out, "\n[%s] Running: %s\n", ev.Skill, ui.Dim(ev.Command))
			} else {
				fmt.Fprintf(out, "\n[%s] Installing...\n", ev.Skill)
			}
		case installer.EventInstalled:
			verb := "Added"
			if ev.Updated {
				verb = "Updated"
			}
			fmt.Fprintf(out, "  %s %s skill entry: %s\n", ui.Check(), verb, ev.Skill)
		case installer.EventFailed:
			fmt.Fprintf(out, "  %s Error installing skill %q: %v\n", ui.Cross(), ev.Skill, unwrapInstall(ev.Err))
		}
	}
}

// unwrapInstall strips the InstallError prefix, since the skill is already
// named on the same line.
func unwrapInstall(err error) error {
	if ie, ok := err.(*installer.InstallError); ok {
		return ie.Err
	}
	return err
}
