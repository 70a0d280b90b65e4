package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ifcread/internal/schema"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	Entity string // dump one entity's merged attribute view
}

// SchemaSummary is the JSON payload of the schema command.
type SchemaSummary struct {
	Version      string   `json:"version"`
	DefinedTypes []string `json:"defined_types"`
	SelectTypes  []string `json:"select_types"`
	Enumerations []string `json:"enumerations"`
	Entities     []string `json:"entities"`
}

// EntitySummary is the JSON payload of schema --entity.
type EntitySummary struct {
	Name       string   `json:"name"`
	Supertype  string   `json:"supertype,omitempty"`
	Attributes []string `json:"attributes"`
	Inverses   []string `json:"inverses,omitempty"`
	Subtypes   []string `json:"subtypes,omitempty"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema <name>",
		Short: "Dump a built-in schema grammar",
		Long: `Parse one of the built-in schema grammars and dump its type registry:
defined types, select types, enumerations, and entities. With --entity,
dump that entity's merged attribute and inverse views instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Entity, "entity", "e", "", "entity name to inspect")

	return cmd
}

func runSchema(opts *SchemaOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := schema.Load(name)
	if err != nil {
		return WrapExitError(ExitCommandError, "load schema", err)
	}

	if opts.Entity != "" {
		return runSchemaEntity(formatter, reg, opts.Entity)
	}

	summary := SchemaSummary{
		Version:      reg.Version(),
		DefinedTypes: reg.DefinedTypeNames(),
		SelectTypes:  reg.SelectTypeNames(),
		Enumerations: reg.EnumerationNames(),
		Entities:     reg.EntityNames(),
	}

	if opts.Format == "json" {
		return formatter.JSON(summary)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "SCHEMA %s\n", summary.Version)
	fmt.Fprintf(w, "  defined types: %d\n", len(summary.DefinedTypes))
	fmt.Fprintf(w, "  select types:  %d\n", len(summary.SelectTypes))
	fmt.Fprintf(w, "  enumerations:  %d\n", len(summary.Enumerations))
	fmt.Fprintf(w, "  entities:      %d\n", len(summary.Entities))
	for _, entity := range summary.Entities {
		fmt.Fprintf(w, "    %s\n", entity)
	}
	return nil
}

func runSchemaEntity(formatter *OutputFormatter, reg *schema.Registry, name string) error {
	ent, err := reg.GetEntity(name)
	if err != nil {
		return WrapExitError(ExitFailure, "unknown entity", err)
	}

	summary := EntitySummary{
		Name:       ent.Name,
		Supertype:  ent.SupertypeName,
		Attributes: ent.AllAttributeNames(true, true),
		Inverses:   ent.AllInverseNames(false),
		Subtypes:   ent.SubtypeNames(true),
	}

	if formatter.Format == "json" {
		return formatter.JSON(summary)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "ENTITY %s\n", summary.Name)
	if summary.Supertype != "" {
		fmt.Fprintf(w, "  SUBTYPE OF %s\n", summary.Supertype)
	}
	fmt.Fprintln(w, "  attributes:")
	for _, attr := range summary.Attributes {
		fmt.Fprintf(w, "    %s\n", attr)
	}
	if len(summary.Inverses) > 0 {
		fmt.Fprintln(w, "  inverses:")
		for _, inv := range summary.Inverses {
			fmt.Fprintf(w, "    %s\n", inv)
		}
	}
	if len(summary.Subtypes) > 0 {
		fmt.Fprintln(w, "  subtypes:")
		for _, sub := range summary.Subtypes {
			fmt.Fprintf(w, "    %s\n", sub)
		}
	}
	return nil
}
