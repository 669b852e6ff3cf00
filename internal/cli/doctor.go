package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/skillkit/internal/location"
	"github.com/agentx-labs/skillkit/internal/lockfile"
	"github.com/agentx-labs/skillkit/internal/mirror"
	"github.com/agentx-labs/skillkit/internal/registry"
	"github.com/agentx-labs/skillkit/internal/ui"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the installer and the lockfiles and registry skillkit uses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		failed := runDoctor(cmd.OutOrStdout(), s)
		if failed > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d check(s) failed.\n", failed)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s All checks passed.\n", ui.Check())
		}
		return nil
	},
}

// checkLevel is the outcome of one doctor check.
type checkLevel int

const (
	checkOK checkLevel = iota
	checkWarn
	checkFail
)

// runDoctor prints every check and returns how many failed.
func runDoctor(out io.Writer, s *session) int {
	failed := 0
	report := func(level checkLevel, format string, a ...any) {
		mark := ui.Check()
		switch level {
		case checkWarn:
			mark = ui.Warn()
		case checkFail:
			mark = ui.Cross()
			failed++
		}
		fmt.Fprintf(out, "  %s %s\n", mark, fmt.Sprintf(format, a...))
	}

	fmt.Fprintln(out, ui.Header("Installer"))
	if path, err := exec.LookPath(s.cfg.Installer.Command); err != nil {
		report(checkFail, "%s not found on PATH", s.cfg.Installer.Command)
	} else {
		report(checkOK, "%s (%s)", s.cfg.Installer.Command, path)
	}

	fmt.Fprintln(out, ui.Header("Lockfiles"))
	for _, loc := range []location.Location{s.repo, s.home} {
		checkLockfile(loc, report)
	}

	fmt.Fprintln(out, ui.Header("Registry"))
	checkRegistry(s.repo.RegistryPath(), report)

	if len(s.cfg.Mirror.Exclude) > 0 {
		fmt.Fprintln(out, ui.Header("Mirror"))
		if err := mirror.ValidatePatterns(s.cfg.Mirror.Exclude); err != nil {
			report(checkFail, "%v", err)
		} else {
			report(checkOK, "%d exclude pattern(s)", len(s.cfg.Mirror.Exclude))
		}
	}
	return failed
}

func checkLockfile(loc location.Location, report func(checkLevel, string, ...any)) {
	path := loc.LockfilePath()
	lf, err := lockfile.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		report(checkWarn, "%s: no lockfile at %s", loc.Name, path)
		return
	case err != nil:
		report(checkFail, "%s: %v", loc.Name, err)
		return
	}

	if w := lockfile.CheckVersion(lf.Version); w != "" {
		report(checkWarn, "%s: %s", loc.Name, w)
	}

	missing := 0
	for _, name := range lf.SkillNames() {
		if ok, err := mirror.IsDir(loc.SkillDir(name)); err != nil || !ok {
			missing++
		}
	}
	if missing > 0 {
		report(checkWarn, "%s: %d skill(s), %d without a directory", loc.Name, lf.Count(), missing)
		return
	}
	report(checkOK, "%s: %d skill(s)", loc.Name, lf.Count())
}

func checkRegistry(path string, report func(checkLevel, string, ...any)) {
	reg, err := registry.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		report(checkWarn, "no registry at %s", path)
		return
	case err != nil:
		report(checkFail, "%v", err)
		return
	}

	if n := reg.Dropped(); n > 0 {
		report(checkWarn, "%d duplicate entr(ies) will be dropped on next save", n)
	}
	report(checkOK, "%d entr(ies) in %s", reg.Len(), path)
}
