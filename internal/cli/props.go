package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ifcread/internal/entity"
	"github.com/roach88/ifcread/internal/naming"
	"github.com/roach88/ifcread/internal/reader"
)

// PropsOptions holds flags for the props command.
type PropsOptions struct {
	*RootOptions
	DB   string // read the model from a store instead of a fixture
	Pset string // restrict to one property set codename
}

// PropsReport is the JSON payload of the props command.
type PropsReport struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Name         string            `json:"name,omitempty"`
	PropertySets []PropertySetDump `json:"property_sets,omitempty"`
	Quantities   []PropertyDump    `json:"quantities,omitempty"`
}

// PropertySetDump is one property set in the props payload.
type PropertySetDump struct {
	Name       string         `json:"name"`
	Codename   string         `json:"codename"`
	Properties []PropertyDump `json:"properties,omitempty"`
}

// PropertyDump is one property or quantity value.
type PropertyDump struct {
	Name      string `json:"name"`
	Value     any    `json:"value,omitempty"`
	ValueType string `json:"value_type,omitempty"`
	Unit      any    `json:"unit,omitempty"`
}

// NewPropsCommand creates the props command.
func NewPropsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PropsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "props [fixture.yaml] <codename>",
		Short: "Show the property sets and quantities of one entity",
		Long: `Find the entity addressed by codename and print its property sets,
property values, and quantities. Codenames are display names with
punctuation and spaces stripped, case-insensitive.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProps(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "store path to read instead of a fixture")
	cmd.Flags().StringVar(&opts.Pset, "pset", "", "property set codename filter")

	return cmd
}

func runProps(opts *PropsOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	codename := args[len(args)-1]
	r, err := openReader(opts.RootOptions, opts.DB, args[:len(args)-1])
	if err != nil {
		return err
	}

	obj, err := findByCodename(r, codename)
	if err != nil {
		return err
	}
	formatter.VerboseLog("matched %s record %s", obj.TypeName(), obj.GlobalID())

	report := PropsReport{
		ID:   obj.GlobalID(),
		Type: obj.TypeName(),
		Name: obj.Name(),
	}
	for _, ps := range obj.PropertySets() {
		if opts.Pset != "" && ps.Codename() != naming.SpacedCodename(opts.Pset) {
			continue
		}
		dump := PropertySetDump{Name: ps.Name(), Codename: ps.Codename()}
		for _, p := range ps.Properties() {
			dump.Properties = append(dump.Properties, PropertyDump{
				Name:      p.Name(),
				Value:     p.Value(),
				ValueType: p.ValueType(),
				Unit:      p.Unit(),
			})
		}
		report.PropertySets = append(report.PropertySets, dump)
	}
	for _, q := range obj.Quantities() {
		report.Quantities = append(report.Quantities, PropertyDump{
			Name:  q.Name(),
			Value: q.Value(),
			Unit:  q.Unit(),
		})
	}

	if opts.Format == "json" {
		return formatter.JSON(report)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s <%s> %s\n", report.Name, report.Type, report.ID)
	for _, ps := range report.PropertySets {
		fmt.Fprintf(w, "  %s\n", ps.Name)
		for _, p := range ps.Properties {
			fmt.Fprintf(w, "    %s = %v", p.Name, p.Value)
			if p.ValueType != "" {
				fmt.Fprintf(w, " (%s)", p.ValueType)
			}
			fmt.Fprintln(w)
		}
	}
	if len(report.Quantities) > 0 {
		fmt.Fprintln(w, "  quantities:")
		for _, q := range report.Quantities {
			fmt.Fprintf(w, "    %s = %v\n", q.Name, q.Value)
		}
	}
	return nil
}

// findByCodename scans every object definition for a matching codename.
func findByCodename(r *reader.DataReader, codename string) (*entity.Object, error) {
	want := naming.Codename(codename)
	objs, err := r.ReadEntities("IfcObjectDefinition", nil)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "scan entities", err)
	}
	for _, obj := range objs {
		if obj.Codename() == want {
			return obj, nil
		}
	}
	return nil, NewExitError(ExitFailure, fmt.Sprintf("no entity with codename %q", want))
}
