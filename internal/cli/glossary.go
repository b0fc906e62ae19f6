package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/catalogtree/pkg/pipeline"
	"github.com/matzehuels/catalogtree/pkg/render"
)

// glossaryCommand creates the glossary command for building a stored subtree.
func (c *CLI) glossaryCommand() *cobra.Command {
	var flags buildOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "glossary [nodeUri]",
		Short: "Build the hierarchy under a glossary node from the store",
		Long: `Build the hierarchy under a glossary node from the store.

The node may be a glossary, a category or a term. Every non-deleted node whose
path lies under it is loaded from the configured store and linked by
nodeUri/parentUri. The default output is a text outline.`,
		Example: `  catalogtree glossary 4f2a9c1e
  catalogtree glossary 4f2a9c1e --output-formats svg -o finance.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Outputs = parseFormats(flags.formatsStr, render.FormatOutline)
			if err := pipeline.ValidateOutputs(opts.Outputs); err != nil {
				return err
			}
			return c.runGlossary(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple); stdout if empty")
	cmd.Flags().StringVarP(&flags.formatsStr, "output-formats", "F", "", "output format(s): outline (default), json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results and rebuild")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show every node field in diagrams")

	return cmd
}

// runGlossary resolves the node's path, builds its subtree and writes the artifacts.
func (c *CLI) runGlossary(ctx context.Context, uri string, opts pipeline.Options, flags buildOpts) error {
	runner, err := c.newRunner(ctx, flags.noCache, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = loggerFromContext(ctx)

	path, err := runner.ResolveGlossary(ctx, uri)
	if err != nil {
		return err
	}
	opts.RootPath = path

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %s...", path))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Outputs,
		input:     uri,
		output:    flags.output,
		stats:     result.Stats,
		cacheHit:  result.CacheInfo.BuildHit,
		stdout:    os.Stdout,
	})
}
