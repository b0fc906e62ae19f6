package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	rio "github.com/matzehuels/catalogtree/pkg/io"
	"github.com/matzehuels/catalogtree/pkg/pipeline"
	"github.com/matzehuels/catalogtree/pkg/render"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// stdinSource is the file argument that reads records from standard input.
const stdinSource = "-"

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output     string // output file (single format) or base path (multiple)
	formatsStr string // comma-separated output formats
	noCache    bool   // skip the cache entirely
}

// buildCommand creates the build command for linking a record file into a forest.
func (c *CLI) buildCommand() *cobra.Command {
	var flags buildOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Build a forest from a file of parent-linked records",
		Long: `Build a forest from a file of parent-linked records.

The input is a JSON, YAML or TOML file holding an array of records (or an
object with a "records" array). Every record whose parent field names another
record's id becomes that record's child; all other records become roots.
Records caught in a parent cycle are reported as unreachable.

Use "-" to read from standard input (JSON unless --format says otherwise).
Field names and the duplicate policy default to the [tree] section of the
config file.

Results are cached; --refresh rebuilds and overwrites the cached entry.`,
		Example: `  catalogtree build nodes.json
  catalogtree build nodes.yaml --id-field nodeUri --parent-field parentUri
  catalogtree build nodes.json --output-formats outline,svg -o out/nodes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Outputs = parseFormats(flags.formatsStr, render.FormatJSON)
			if err := pipeline.ValidateOutputs(opts.Outputs); err != nil {
				return err
			}
			c.applyTreeDefaults(&opts)
			return c.runBuild(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple); stdout if empty")
	cmd.Flags().StringVarP(&flags.formatsStr, "output-formats", "F", "", "output format(s): json (default), outline, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	addTreeFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "input format: auto (default), json, yaml, toml")
	cmd.Flags().StringVar(&opts.LabelField, "label-field", "", "field shown for each node in outline and diagrams (default: label)")
	cmd.Flags().StringVar(&opts.TypeField, "type-field", "", "field shown as a [type] suffix in outlines")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show every record field in diagrams")

	return cmd
}

// addTreeFlags registers the flags shared by commands that link records.
func addTreeFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.IDField, "id-field", "", "record field holding the identifier")
	cmd.Flags().StringVar(&opts.ParentField, "parent-field", "", "record field holding the parent identifier")
	cmd.Flags().StringVar((*string)(&opts.Duplicates), "duplicates", "", "duplicate id policy: last, first")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results and rebuild")
}

// applyTreeDefaults fills field names left empty on the command line from
// the [tree] config section.
func (c *CLI) applyTreeDefaults(opts *pipeline.Options) {
	t := c.settings().Tree
	if opts.IDField == "" {
		opts.IDField = t.IDField
	}
	if opts.ParentField == "" {
		opts.ParentField = t.ParentField
	}
	if opts.Duplicates == "" {
		opts.Duplicates = t.Duplicates
	}
}

// runBuild loads the records, builds the forest and writes every artifact.
func (c *CLI) runBuild(ctx context.Context, input string, opts pipeline.Options, flags buildOpts) error {
	if input == stdinSource {
		records, err := readStdin(os.Stdin, opts.Format)
		if err != nil {
			return err
		}
		opts.Records = records
	} else {
		opts.Source = input
	}

	runner, err := c.newRunner(ctx, flags.noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Building forest...")
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
		input:     input,
		output:    flags.output,
		stats:     result.Stats,
		cacheHit:  result.CacheInfo.BuildHit,
		stdout:    os.Stdout,
	})
}

// readStdin decodes records from r; auto-detection falls back to JSON.
func readStdin(r io.Reader, format string) ([]tree.Record, error) {
	if format == "" || format == rio.FormatAuto {
		format = rio.FormatJSON
	}
	records, err := rio.ReadRecords(r, format)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return records, nil
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	stats     pipeline.Stats
	cacheHit  bool
	stdout    io.Writer
}

// writeArtifacts writes each rendered format. A single format with no output
// path goes to stdout; otherwise files are named after the output (or input)
// base path with the format's extension.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.output == "" {
		_, err := p.stdout.Write(withNewline(p.artifacts[p.formats[0]]))
		return err
	}

	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		path := artifactPath(p.input, p.output, format, len(p.formats) > 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Forest built")
	printStats(p.stats, p.cacheHit)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// artifactPath picks the file name for format. With one format the output
// path is used verbatim; with several it is a base path that gets the
// format's extension appended.
func artifactPath(input, output, format string, multi bool) string {
	ext := "." + render.Extension(format)
	if output != "" {
		if multi {
			return strings.TrimSuffix(output, filepath.Ext(output)) + ext
		}
		return output
	}
	base := "forest"
	if input != "" && input != stdinSource {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return base + ".forest" + ext
}

func withNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return data
	}
	return append(data[:len(data):len(data)], '\n')
}
