package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/glossary"
	rio "github.com/matzehuels/catalogtree/pkg/io"
	"github.com/matzehuels/catalogtree/pkg/store"
)

// maxReportedErrors caps the validation errors printed by import.
const maxReportedErrors = 10

// importCommand creates the import command for loading glossary nodes.
func (c *CLI) importCommand() *cobra.Command {
	var (
		format string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Validate glossary nodes and write them to the store",
		Long: `Validate glossary nodes and write them to the store.

The file holds an array of glossary nodes (nodeUri, parentUri, __typename,
label, path and optional metadata). Nodes without a nodeUri get a fresh one;
nodes without a path get one derived from their parent, which may be in the
same file or already in the store. Existing nodes with the same nodeUri are
replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], format, dryRun)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: auto (default), json, yaml, toml")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without writing")

	return cmd
}

// runImport reads, completes, validates and stores the nodes in input.
func (c *CLI) runImport(ctx context.Context, input, format string, dryRun bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	nodes, err := rio.ReadGlossaryNodesFile(input, format)
	if err != nil {
		return err
	}

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := completeNodes(ctx, st, nodes); err != nil {
		return err
	}
	if err := validateNodes(nodes); err != nil {
		return err
	}
	if dryRun {
		printSuccess("%d nodes are valid", len(nodes))
		return nil
	}

	if err := st.PutNodes(ctx, nodes); err != nil {
		return fmt.Errorf("write nodes: %w", err)
	}
	prog.done(fmt.Sprintf("Imported %d nodes", len(nodes)))

	stats := glossary.Statistics(glossary.Tree(nodes).Roots)
	printSuccess("Imported %d nodes into %s", len(nodes), c.settings().Store.Backend)
	printDetail("%d glossaries · %d categories · %d terms", stats.Glossaries, stats.Categories, stats.Terms)
	for _, n := range nodes {
		if n.NodeType == glossary.TypeGlossary {
			printNextStep("View it", "catalogtree glossary "+n.NodeURI)
			break
		}
	}
	return nil
}

// completeNodes assigns missing node URIs and derives missing paths from
// each node's parent. Parents are looked up in the batch first, then in st.
func completeNodes(ctx context.Context, st store.Store, nodes []glossary.Node) error {
	byURI := make(map[string]int, len(nodes))
	for i := range nodes {
		if nodes[i].NodeURI == "" {
			nodes[i].NodeURI = glossary.NewNodeURI()
		}
		byURI[nodes[i].NodeURI] = i
	}

	resolving := make(map[int]bool)
	var resolve func(i int) (string, error)
	resolve = func(i int) (string, error) {
		n := &nodes[i]
		if n.Path != "" {
			return n.Path, nil
		}
		if n.ParentURI == "" {
			n.Path = glossary.ChildPath("", n.NodeURI)
			return n.Path, nil
		}
		if resolving[i] {
			return "", errors.New(errors.ErrCodeInvalidPath, "parent cycle at %s", n.NodeURI)
		}
		resolving[i] = true
		defer delete(resolving, i)

		var parentPath string
		if j, ok := byURI[n.ParentURI]; ok {
			p, err := resolve(j)
			if err != nil {
				return "", err
			}
			parentPath = p
		} else {
			parent, found, err := store.FindByURI(ctx, st, n.ParentURI)
			if err != nil {
				return "", err
			}
			if !found {
				return "", errors.New(errors.ErrCodeNotFound, "parent %s of %s not found", n.ParentURI, n.NodeURI)
			}
			parentPath = parent.Path
		}
		n.Path = glossary.ChildPath(parentPath, n.NodeURI)
		return n.Path, nil
	}

	for i := range nodes {
		if _, err := resolve(i); err != nil {
			return err
		}
	}
	return nil
}

// validateNodes checks every node and reports the first few failures.
func validateNodes(nodes []glossary.Node) error {
	var errs []error
	for _, n := range nodes {
		if err := glossary.Validate(n); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	for i, err := range errs {
		if i == maxReportedErrors {
			printDetail("... and %d more", len(errs)-maxReportedErrors)
			break
		}
		printError("%s", errors.UserMessage(err))
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, stderrors.Join(errs...), "%d of %d nodes are invalid", len(errs), len(nodes))
}
