package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/skillkit/internal/location"
	"github.com/agentx-labs/skillkit/internal/mirror"
	"github.com/agentx-labs/skillkit/internal/syncer"
	"github.com/agentx-labs/skillkit/internal/ui"
)

var syncDryRun bool

var syncToHomeCmd = &cobra.Command{
	Use:   "sync-to-home",
	Short: "Copy the project's lockfile and skills into your home directory",
	Long: `Overwrite the home lockfile with the project's lockfile and replace each skill
directory it names. Skills missing from the project are skipped; home skill
directories not named by the lockfile are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, syncer.ToHome)
	},
}

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"sync-from-home"},
	Short:   "Copy your home lockfile and skills into the project",
	Long: `Overwrite the project's lockfile with the home lockfile and replace each skill
directory it names. Skills missing from home are skipped; project skill
directories not named by the lockfile are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, syncer.FromHome)
	},
}

func init() {
	for _, c := range []*cobra.Command{syncToHomeCmd, syncCmd} {
		c.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show what would change without writing anything")
		rootCmd.AddCommand(c)
	}
}

// endpoints returns the source and destination for dir, and how each is
// described in output.
func endpoints(s *session, dir syncer.Direction) (src, dst location.Location, srcLabel, dstLabel string) {
	if dir == syncer.ToHome {
		return s.repo, s.home, "repository", "home directory"
	}
	return s.home, s.repo, "home directory", "repository"
}

func runSync(cmd *cobra.Command, dir syncer.Direction) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	src, dst, srcLabel, dstLabel := endpoints(s, dir)
	opts := mirror.Options{Exclude: s.cfg.Mirror.Exclude}

	if syncDryRun {
		return printPlan(out, dir, src, dst, opts)
	}

	fmt.Fprintf(out, "Syncing skills from %s to %s...\n\n", srcLabel, dstLabel)
	fmt.Fprintf(out, "Source: %s\n", src.LockfilePath())
	fmt.Fprintf(out, "Target: %s\n", dst.LockfilePath())

	printedHeader := false
	r := &syncer.Reconciler{
		Mirror: opts,
		Logger: s.log,
		Progress: func(ev syncer.Event) {
			if !printedHeader {
				fmt.Fprintln(out, "\nSyncing skill folders...")
				printedHeader = true
			}
			switch ev.Status {
			case syncer.StatusSynced:
				fmt.Fprintf(out, "  %s Synced %s\n", ui.Check(), ev.Skill)
			case syncer.StatusSkipped:
				fmt.Fprintf(out, "  %s Skipped %s (not found in %s)\n", ui.Warn(), ev.Skill, srcLabel)
			case syncer.StatusFailed:
				fmt.Fprintf(out, "  %s Failed %s: %v\n", ui.Cross(), ev.Skill, ev.Err)
			}
		},
	}

	result, err := r.Sync(cmd.Context(), dir, src, dst)
	if result == nil {
		return err
	}
	printSyncSummary(out, result, srcLabel, dstLabel)
	return err
}

func printSyncSummary(out io.Writer, result *syncer.Result, srcLabel, dstLabel string) {
	fmt.Fprintf(out, "\nLockfile version: %s\n", result.Version)
	fmt.Fprintf(out, "Skills found: %d\n", result.Total)
	if result.VersionWarning != "" {
		fmt.Fprintf(out, "%s %s\n", ui.Warn(), ui.Warning(result.VersionWarning))
	}
	if result.PreviousCount >= 0 {
		fmt.Fprintf(out, "%s Replaced existing lockfile with %d skill(s)\n", ui.Warn(), result.PreviousCount)
	}
	fmt.Fprintf(out, "\n%s Lockfile synced to %s!\n", ui.Check(), dstLabel)
	fmt.Fprintf(out, "  %s\n", ui.Dim(result.Dest.LockfilePath()))

	if result.Total == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", ui.Success(fmt.Sprintf("Successfully synced %d skill(s) to %s!", result.SyncedCount(), dstLabel)))
	if n := result.SkippedCount(); n > 0 {
		fmt.Fprintf(out, "   %d skill(s) skipped (not found in %s)\n", n, srcLabel)
	}
	if n := result.FailedCount(); n > 0 {
		fmt.Fprintf(out, "   %s\n", ui.Error(fmt.Sprintf("%d skill(s) failed to sync", n)))
	}
}

// printPlan shows what a sync from src to dst would change.
func printPlan(out io.Writer, dir syncer.Direction, src, dst location.Location, opts mirror.Options) error {
	report, err := syncer.Compare(src, dst, opts)
	if err != nil {
		return err
	}
	if !report.SourceLockfile {
		return &syncer.MissingSourceError{Path: src.LockfilePath(), Hint: dir.Hint()}
	}

	fmt.Fprintf(out, "Dry run (%s), nothing will be written.\n\n", dir)
	switch {
	case !report.DestLockfile:
		fmt.Fprintf(out, "Lockfile: would create %s\n", dst.LockfilePath())
	case report.LockfilesMatch:
		fmt.Fprintln(out, "Lockfile: unchanged")
	default:
		fmt.Fprintf(out, "Lockfile: would overwrite %s\n", dst.LockfilePath())
	}

	pending := report.Pending()
	for _, st := range report.Skills {
		switch st.State {
		case syncer.StateSourceOnly, syncer.StateDiffers:
			fmt.Fprintf(out, "  %s would sync %s (%s)\n", ui.Check(), st.Name, st.State)
		case syncer.StateMissing:
			fmt.Fprintf(out, "  %s would skip %s (%s)\n", ui.Warn(), st.Name, st.State)
		case syncer.StateDestOnly:
			fmt.Fprintf(out, "  %s %s\n", ui.Dim("would keep"), st.Name)
		}
	}
	fmt.Fprintf(out, "\n%d skill(s) would be synced.\n", len(pending))
	return nil
}
