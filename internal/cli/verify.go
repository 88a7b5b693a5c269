package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/deepclone/internal/clone"
	"github.com/roach88/deepclone/internal/graphcheck"
	"github.com/roach88/deepclone/internal/store"
	"github.com/roach88/deepclone/internal/value"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Mode string // "alias", "copy" or "both"
}

// VerifyCheck is one property checked against a clone.
type VerifyCheck struct {
	Name   string `json:"name"`
	Pass   bool   `json:"pass"`
	Detail string `json:"detail,omitempty"`
}

// ModeReport holds the checks for one clone mode.
type ModeReport struct {
	Mode              string        `json:"mode"`
	CallID            string        `json:"call_id"`
	Stats             clone.Stats   `json:"stats"`
	SourceFingerprint string        `json:"source_fingerprint"`
	CloneFingerprint  string        `json:"clone_fingerprint"`
	Checks            []VerifyCheck `json:"checks"`
	Pass              bool          `json:"pass"`
}

// VerifyResult is the JSON payload of the verify command.
type VerifyResult struct {
	Fixture string       `json:"fixture"`
	Modes   []ModeReport `json:"modes"`
	Pass    bool         `json:"pass"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <fixture>",
		Short: "Clone a fixture and check the clone's guarantees",
		Long: `Clone a fixture in each mode and check that:

  structure    the clone has the source's shape, aliases and cycles
  fresh        no record or sequence of the clone belongs to the source
  independent  (copy mode) no container is shared except failed rebuilds
  drift        (with --journal) the clone's shape matches the last journaled
               verify of the same, unchanged source

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Command error (unreadable fixture, bad flag, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "both", "mode to verify (alias|copy|both)")

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	var modes []clone.Mode
	if opts.Mode == "both" {
		modes = []clone.Mode{clone.ModeAlias, clone.ModeCopy}
	} else {
		mode, err := parseModeFlag(opts.Mode)
		if err != nil {
			return f.Fail(ErrCodeInvalidFlag, err.Error(), nil)
		}
		modes = []clone.Mode{mode}
	}

	j, err := openJournal(opts.RootOptions, f)
	if err != nil {
		return err
	}
	defer closeJournal(j)

	src, err := loadGraph(f, path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	key := journalKey(path)
	result := VerifyResult{Fixture: path, Pass: true}
	for _, mode := range modes {
		report, err := verifyMode(src, mode, f)
		if err != nil {
			return f.Fail(ErrCodeCloneFailed, err.Error(), map[string]any{"mode": mode.String()})
		}

		if j != nil {
			check, err := checkDrift(ctx, j, key, report)
			if err != nil {
				return f.Fail(ErrCodeJournal, err.Error(), nil)
			}
			report.Checks = append(report.Checks, check)
			report.Pass = report.Pass && check.Pass

			err = recordRun(ctx, j, f, store.Run{
				CallID:            report.CallID,
				Command:           "verify",
				Fixture:           key,
				Mode:              report.Mode,
				Stats:             report.Stats,
				SourceFingerprint: report.SourceFingerprint,
				CloneFingerprint:  report.CloneFingerprint,
				Pass:              report.Pass,
				Errors:            failedChecks(report),
			})
			if err != nil {
				return err
			}
		}

		result.Modes = append(result.Modes, report)
		result.Pass = result.Pass && report.Pass
	}

	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Pass {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeVerifyFailed, Message: "clone failed verification"}
		}
		if err := f.encode(resp); err != nil {
			return err
		}
	} else {
		writeVerifyText(f, result)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, "clone failed verification")
	}
	return nil
}

func verifyMode(src value.Value, mode clone.Mode, f *OutputFormatter) (ModeReport, error) {
	callID := uuid.Must(uuid.NewV7()).String()
	cloner := clone.New(
		clone.WithMode(mode),
		clone.WithLogger(f.Logger()),
		clone.WithCallID(func() string { return callID }),
	)
	dst, stats, err := cloner.CloneWithStats(src)
	if err != nil {
		return ModeReport{}, err
	}

	report := ModeReport{
		Mode:              mode.String(),
		CallID:            callID,
		Stats:             stats,
		SourceFingerprint: graphcheck.Fingerprint(src),
		CloneFingerprint:  graphcheck.Fingerprint(dst),
		Pass:              true,
	}
	add := func(c VerifyCheck) {
		report.Checks = append(report.Checks, c)
		report.Pass = report.Pass && c.Pass
	}

	add(checkStructure(report, stats))
	add(checkFresh(src, dst))
	if mode == clone.ModeCopy {
		add(checkIndependent(src, dst, stats))
	}
	return report, nil
}

// checkStructure compares fingerprints. Omitted detached views change the
// shape on purpose, so the check is waived when any were skipped.
func checkStructure(r ModeReport, stats clone.Stats) VerifyCheck {
	c := VerifyCheck{Name: "structure", Pass: true}
	if stats.Skipped > 0 {
		c.Detail = fmt.Sprintf("waived: %d detached view(s) omitted", stats.Skipped)
		return c
	}
	if r.SourceFingerprint != r.CloneFingerprint {
		c.Pass = false
		c.Detail = "fingerprints differ"
	}
	return c
}

// checkFresh walks the clone through records and sequences only; those
// are rebuilt in every mode, so none may come from the source.
func checkFresh(src, dst value.Value) VerifyCheck {
	c := VerifyCheck{Name: "fresh", Pass: true}
	if !value.IsContainer(dst) {
		return c
	}
	inSrc := sourceSet(src)
	reached := graphcheck.Walk(dst, func(v value.Value) bool {
		k := v.Kind()
		return k == value.KindRecord || k == value.KindSequence
	})
	var stale int
	for _, v := range reached {
		k := v.Kind()
		if (k == value.KindRecord || k == value.KindSequence) && inSrc[v] {
			stale++
		}
	}
	if stale > 0 {
		c.Pass = false
		c.Detail = fmt.Sprintf("%d record/sequence container(s) shared with the source", stale)
	}
	return c
}

// checkIndependent requires every visible container of a copy-mode clone
// to be new, allowing one shared container per failed rebuild.
func checkIndependent(src, dst value.Value, stats clone.Stats) VerifyCheck {
	c := VerifyCheck{Name: "independent", Pass: true}
	if !value.IsContainer(dst) {
		return c
	}
	if dst == src {
		c.Detail = "root returned unchanged"
		return c
	}
	inSrc := sourceSet(src)
	var shared int
	for _, v := range graphcheck.Walk(dst, func(value.Value) bool { return true }) {
		if inSrc[v] {
			shared++
		}
	}
	switch {
	case shared > stats.Fallbacks:
		c.Pass = false
		c.Detail = fmt.Sprintf("%d container(s) shared with the source, %d fallback(s)", shared, stats.Fallbacks)
	case shared > 0:
		c.Detail = fmt.Sprintf("%d container(s) shared after failed rebuilds", shared)
	}
	return c
}

// checkDrift compares the report with the latest journaled verify of the
// same fixture and mode.
func checkDrift(ctx context.Context, j *store.Store, fixture string, r ModeReport) (VerifyCheck, error) {
	c := VerifyCheck{Name: "drift", Pass: true}
	prev, ok, err := j.Latest(ctx, fixture, r.Mode, "verify")
	if err != nil {
		return c, err
	}
	run := store.Run{SourceFingerprint: r.SourceFingerprint, CloneFingerprint: r.CloneFingerprint}
	switch {
	case !ok:
		c.Detail = "no previous run"
	case run.Drifted(prev):
		c.Pass = false
		c.Detail = driftDetail(prev)
	case prev.SourceFingerprint != r.SourceFingerprint:
		c.Detail = "source changed"
	}
	return c, nil
}

func failedChecks(r ModeReport) []string {
	var out []string
	for _, c := range r.Checks {
		if !c.Pass {
			out = append(out, c.Name+": "+c.Detail)
		}
	}
	return out
}

func sourceSet(src value.Value) map[value.Value]bool {
	set := make(map[value.Value]bool)
	for _, v := range graphcheck.Containers(src) {
		set[v] = true
	}
	return set
}

func writeVerifyText(f *OutputFormatter, result VerifyResult) {
	w := f.Writer
	for _, m := range result.Modes {
		mark := "✓"
		if !m.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s mode\n", mark, m.Mode)
		writeStats(w, m.Stats)
		for _, c := range m.Checks {
			status := "ok"
			if !c.Pass {
				status = "FAIL"
			}
			line := fmt.Sprintf("  %-12s %s", c.Name, status)
			if c.Detail != "" {
				line += " (" + c.Detail + ")"
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)
	if result.Pass {
		fmt.Fprintln(w, "✓ Clone verified")
	} else {
		fmt.Fprintln(w, "✗ Clone failed verification")
	}
}
