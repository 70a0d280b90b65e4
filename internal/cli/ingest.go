package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ifcread/internal/fixture"
	"github.com/roach88/ifcread/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	DB string // store path, required
}

// IngestResult is the JSON payload of the ingest command.
type IngestResult struct {
	Schema  string `json:"schema"`
	Records int    `json:"records"`
	DB      string `json:"db"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <fixture.yaml>",
		Short: "Write a fixture's records into a store",
		Long: `Validate a fixture file, resolve its record graph once to catch
dangling references, and write the records into a store. Ingestion is
idempotent: re-ingesting the same fixture is a no-op.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "store path (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runIngest(opts *IngestOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	f, err := fixture.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "read fixture", err)
	}
	if _, _, err := f.Build(); err != nil {
		return WrapExitError(ExitCommandError, "resolve fixture", err)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	if err := st.WriteModel(context.Background(), f.Schema, f.Records); err != nil {
		return WrapExitError(ExitCommandError, "write model", err)
	}

	result := IngestResult{Schema: f.Schema, Records: len(f.Records), DB: opts.DB}
	if opts.Format == "json" {
		return formatter.JSON(result)
	}
	fmt.Fprintf(formatter.Writer, "ingested %d %s records into %s\n",
		result.Records, result.Schema, result.DB)
	return nil
}
