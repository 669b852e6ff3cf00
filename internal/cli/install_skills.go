package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/skillkit/internal/installer"
	"github.com/agentx-labs/skillkit/internal/registry"
	"github.com/agentx-labs/skillkit/internal/ui"
)

var installSkillsCmd = &cobra.Command{
	Use:   "install-skills",
	Short: "Install every skill recorded in skills.json",
	Long: `Replay the project's skills.json: install each recorded skill in order. A
failed install is reported and the rest continue. skills.json is not changed.`,
	Args: cobra.NoArgs,
	RunE: runInstallSkills,
}

func init() {
	rootCmd.AddCommand(installSkillsCmd)
}

func runInstallSkills(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	reg, err := registry.Read(s.repo.RegistryPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(out, "No skills.json found. Nothing to install.")
			return nil
		}
		return err
	}
	if reg.Len() == 0 {
		fmt.Fprintln(out, "No skills found in skills.json.")
		return nil
	}

	fmt.Fprintf(out, "Found %d skill(s) to install:\n", reg.Len())

	o := &installer.Orchestrator{
		Installer: newInstaller(s.cfg.Installer, s.projectRoot, out, cmd.ErrOrStderr()),
		Logger:    s.log,
		Progress:  installSkillsProgress(out),
	}
	result, err := o.InstallAll(cmd.Context(), reg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s Finished installing skills from registry\n", ui.Check())
	if n := result.FailedCount(); n > 0 {
		fmt.Fprintf(out, "  %s %d of %d skill(s) failed to install\n", ui.Warn(), n, len(result.Candidates))
	}
	return nil
}

func installSkillsProgress(out io.Writer) func(installer.Event) {
	return func(ev installer.Event) {
		name := fmt.Sprintf("%s (skill: %s)", ev.Source, ev.Skill)
		switch ev.Kind {
		case installer.EventInstalling:
			fmt.Fprintf(out, "\nInstalling: %s\n", name)
			if ev.Command != "" {
				fmt.Fprintf(out, "Command: %s\n\n", ui.Dim(ev.Command))
			}
		case installer.EventInstalled:
			fmt.Fprintf(out, "  %s Installed %s\n", ui.Check(), ev.Skill)
		case installer.EventFailed:
			fmt.Fprintf(out, "  %s Failed to install %s: %v\n", ui.Cross(), name, unwrapInstall(ev.Err))
		}
	}
}
