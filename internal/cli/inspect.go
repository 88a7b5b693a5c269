package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/deepclone/internal/graphcheck"
	"github.com/roach88/deepclone/internal/render"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Path  string // sub-graph to show, in graphcheck path syntax
	Color bool
}

// InspectOutput is the JSON payload of the inspect command.
type InspectOutput struct {
	Path        string `json:"path,omitempty"`
	Kind        string `json:"kind"`
	Fingerprint string `json:"fingerprint"`
	Containers  int    `json:"containers"`
	Tree        string `json:"tree"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <fixture>",
		Short: "Print a fixture graph without cloning it",
		Long: `Load a fixture and print the source graph as a tree, along with its
structural fingerprint and container count.

Examples:
  deepclone inspect testdata/kitchen.yaml
  deepclone inspect testdata/kitchen.yaml --path ".map{k2}"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "path", "p", "", "show only the value at this path")
	cmd.Flags().BoolVar(&opts.Color, "color", false, "colorize the tree")

	return cmd
}

func runInspect(opts *InspectOptions, file string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	root, err := loadGraph(f, file)
	if err != nil {
		return err
	}

	v, err := graphcheck.Resolve(root, opts.Path)
	if err != nil {
		return f.Fail(ErrCodeNotFound, err.Error(), nil)
	}

	out := InspectOutput{
		Path:        opts.Path,
		Kind:        v.Kind().String(),
		Fingerprint: graphcheck.Fingerprint(v),
		Containers:  len(graphcheck.Containers(v)),
	}

	if f.Format == "json" {
		out.Tree = render.String(v)
		return f.Success(out)
	}

	w := f.Writer
	fmt.Fprintf(w, "%s: %s, %d container(s)\n", file, out.Kind, out.Containers)
	fmt.Fprintf(w, "  fingerprint %s\n\n", out.Fingerprint)
	if err := render.Write(w, v, render.Options{Styled: opts.Color}); err != nil {
		return f.Fail(ErrCodeWriteFailed, err.Error(), nil)
	}
	return nil
}
