package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/deepclone/internal/clone"
	"github.com/roach88/deepclone/internal/graphcheck"
	"github.com/roach88/deepclone/internal/render"
	"github.com/roach88/deepclone/internal/store"
	"github.com/roach88/deepclone/internal/value"
)

// CloneOptions holds flags for the clone command.
type CloneOptions struct {
	*RootOptions
	Mode   string // "alias" | "copy"
	Color  bool   // style the tree with terminal colors
	Output string // write the rendered clone to a file
}

// CloneOutput is the JSON payload of the clone command.
type CloneOutput struct {
	Mode        string      `json:"mode"`
	Stats       clone.Stats `json:"stats"`
	Fingerprint string      `json:"fingerprint"`
	Tree        string      `json:"tree"`
}

// NewCloneCommand creates the clone command.
func NewCloneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CloneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clone <fixture>",
		Short: "Clone a fixture graph and print the result",
		Long: `Load a fixture (.yaml, .yml, .json or .cue), clone it and print the
clone as a tree. Shared references appear as &N anchors and *N back-references.

Examples:
  deepclone clone testdata/kitchen.yaml
  deepclone clone testdata/kitchen.yaml --mode copy --color
  deepclone clone tree.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClone(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "alias", "clone mode (alias|copy)")
	cmd.Flags().BoolVar(&opts.Color, "color", false, "colorize the tree")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the rendered clone to a file")

	return cmd
}

func runClone(opts *CloneOptions, path string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	mode, err := parseModeFlag(opts.Mode)
	if err != nil {
		return f.Fail(ErrCodeInvalidFlag, err.Error(), nil)
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

	var callID string
	c := clone.New(
		clone.WithMode(mode),
		clone.WithLogger(f.Logger()),
		clone.WithCallID(func() string {
			callID = uuid.Must(uuid.NewV7()).String()
			return callID
		}),
	)
	dst, stats, err := c.CloneWithStats(src)
	if err != nil {
		return f.Fail(ErrCodeCloneFailed, err.Error(), nil)
	}
	f.VerboseLog("Cloned %s in %s mode (call %s)", path, mode, callID)

	fingerprint := graphcheck.Fingerprint(dst)
	err = recordRun(cmd.Context(), j, f, store.Run{
		CallID:            callID,
		Command:           "clone",
		Fixture:           journalKey(path),
		Mode:              mode.String(),
		Stats:             stats,
		SourceFingerprint: graphcheck.Fingerprint(src),
		CloneFingerprint:  fingerprint,
		Pass:              true,
	})
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := writeTree(opts.Output, dst); err != nil {
			return f.Fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "ok",
			Data: CloneOutput{
				Mode:        mode.String(),
				Stats:       stats,
				Fingerprint: fingerprint,
				Tree:        render.String(dst),
			},
			CallID: callID,
		})
	}

	w := f.Writer
	fmt.Fprintf(w, "✓ Cloned %s (%s mode)\n", path, mode)
	writeStats(w, stats)
	fmt.Fprintln(w)
	if err := render.Write(w, dst, render.Options{Styled: opts.Color}); err != nil {
		return f.Fail(ErrCodeWriteFailed, err.Error(), nil)
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "\nWrote clone to %s\n", opts.Output)
	}
	return nil
}

func writeStats(w io.Writer, s clone.Stats) {
	fmt.Fprintf(w, "  visited=%d rebuilt=%d shared=%d fallbacks=%d skipped=%d\n",
		s.Visited, s.Rebuilt, s.Shared, s.Fallbacks, s.Skipped)
}

func writeTree(path string, v value.Value) error {
	return os.WriteFile(path, []byte(render.String(v)), 0644)
}
