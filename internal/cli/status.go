package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/mirror"
	"github.com/agentx-labs/skillkit/internal/syncer"
	"github.com/agentx-labs/skillkit/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the project's skills with your home directory",
	Long: `Compare the project's lockfile and skill directories with the ones in your
home directory. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	report, err := syncer.Compare(s.repo, s.home, mirror.Options{Exclude: s.cfg.Mirror.Exclude})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.Header("Locations"))
	fmt.Fprintf(out, "  project: %s %s\n", s.repo.LockfilePath(), presence(report.SourceLockfile))
	fmt.Fprintf(out, "  home:    %s %s\n", s.home.LockfilePath(), presence(report.DestLockfile))
	if report.SourceLockfile && report.DestLockfile {
		if report.LockfilesMatch {
			fmt.Fprintf(out, "  %s lockfiles match\n", ui.Check())
		} else {
			fmt.Fprintf(out, "  %s lockfiles differ\n", ui.Warn())
		}
	}

	if len(report.Skills) == 0 {
		fmt.Fprintln(out, "\nNo skills in either lockfile.")
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.Header("Skills"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tSTATE")
	for _, st := range report.Skills {
		state := string(st.State)
		switch st.State {
		case syncer.StateSourceOnly:
			state = "only in project"
		case syncer.StateDestOnly:
			state = "only in home"
		}
		fmt.Fprintf(w, "  %s\t%s\n", st.Name, state)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if pending := report.Pending(); len(pending) > 0 {
		fmt.Fprintf(out, "\n%d skill(s) differ. Run '%s sync-to-home' or '%s sync' to reconcile.\n",
			len(pending), branding.CLIName(), branding.CLIName())
	}
	return nil
}

func presence(found bool) string {
	if found {
		return ""
	}
	return ui.Dim("(missing)")
}
