package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ifcread/internal/entity"
	"github.com/roach88/ifcread/internal/fixture"
	"github.com/roach88/ifcread/internal/reader"
	"github.com/roach88/ifcread/internal/record"
	"github.com/roach88/ifcread/internal/schema"
	"github.com/roach88/ifcread/internal/store"
)

// TreeOptions holds flags for the tree command.
type TreeOptions struct {
	*RootOptions
	DB string // read the model from a store instead of a fixture
}

// TreeNode is one entity in the JSON tree payload.
type TreeNode struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Name        string     `json:"name,omitempty"`
	Composition string     `json:"composition,omitempty"`
	Kids        []TreeNode `json:"kids,omitempty"`
}

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TreeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tree [fixture.yaml]",
		Short: "Print the spatial hierarchy of a model",
		Long: `Load a model from a fixture file or a store and print its decomposition
hierarchy from the project root, with composition kinds.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "store path to read instead of a fixture")

	return cmd
}

func runTree(opts *TreeOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	r, err := openReader(opts.RootOptions, opts.DB, args)
	if err != nil {
		return err
	}
	formatter.VerboseLog("model loaded, schema %s", r.Registry().Version())

	if opts.Format == "json" {
		return formatter.JSON(buildTreeNode(r.Project()))
	}

	printTreeNode(formatter, r.Project(), 0)
	return nil
}

// openReader loads a model from --db when set, else from the fixture
// argument.
func openReader(opts *RootOptions, dbPath string, args []string) (*reader.DataReader, error) {
	var (
		reg   *schema.Registry
		graph *record.Graph
		err   error
	)
	switch {
	case dbPath != "":
		var st *store.Store
		st, err = store.Open(dbPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "open store", err)
		}
		defer st.Close()
		reg, graph, err = st.Graph(context.Background())
	case len(args) == 1:
		reg, graph, err = fixture.Load(args[0])
	default:
		return nil, NewExitError(ExitCommandError, "a fixture path or --db is required")
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load model", err)
	}

	r, err := reader.New(graph, reg)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid model", err)
	}
	return r, nil
}

func buildTreeNode(obj *entity.Object) TreeNode {
	node := TreeNode{
		ID:          obj.GlobalID(),
		Type:        obj.TypeName(),
		Name:        obj.Name(),
		Composition: obj.CompositionType(),
	}
	for _, kid := range obj.Kids() {
		node.Kids = append(node.Kids, buildTreeNode(kid))
	}
	return node
}

func printTreeNode(formatter *OutputFormatter, obj *entity.Object, depth int) {
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s%s <%s>", indent, displayName(obj), obj.TypeName())
	if comp := obj.CompositionType(); comp != "" {
		line += fmt.Sprintf(" [%s]", comp)
	}
	fmt.Fprintln(formatter.Writer, line)
	for _, kid := range obj.Kids() {
		printTreeNode(formatter, kid, depth+1)
	}
}

func displayName(obj *entity.Object) string {
	if name := obj.Name(); name != "" {
		return name
	}
	return obj.GlobalID()
}
