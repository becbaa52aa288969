package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bits/internal/packet"
	"github.com/roach88/bits/internal/store"
)

// ArchiveOptions holds flags for the archive command.
type ArchiveOptions struct {
	*RootOptions
	Input    InputOptions
	Database string

	// IDGenerator allows overriding the record id generator (for testing).
	// If nil, the store defaults to UUIDv7.
	IDGenerator store.IDGenerator
}

// ArchiveResult is the archive command's result.
type ArchiveResult struct {
	Inserted     bool               `json:"inserted"`
	Transmission store.Transmission `json:"transmission"`
}

func (r ArchiveResult) String() string {
	verb := "archived"
	if !r.Inserted {
		verb = "already archived"
	}
	return fmt.Sprintf("%s %s (seq %d)", verb, r.Transmission.ID, r.Transmission.Seq)
}

// NewArchiveCommand creates the archive command.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	return newArchiveCommand(&ArchiveOptions{RootOptions: rootOpts})
}

func newArchiveCommand(opts *ArchiveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive [hex]",
		Short: "Decode a transmission and record it in the archive",
		Long: `Decode and evaluate a transmission and record it in a SQLite archive.

Archiving is idempotent per packet tree: transmissions that decode to the
same tree (e.g. differing only in trailing padding) share one record.

Example:
  bits archive --db ./bits.db 9C0141080250320F1802104A08`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(opts, cmd, args)
		},
	}

	addInputFlags(cmd, &opts.Input)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runArchive(opts *ArchiveOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)

	d, err := opts.decodeInput(cmd, f, &opts.Input, args)
	if err != nil {
		return err
	}

	tr, err := store.BuildTransmission(d.Text, d.BitLength, d.Packet)
	if err != nil {
		return f.fail(ExitFailure, ErrCodeDecode, "cannot describe tree", err)
	}

	st, err := opts.openStore(f)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.logger().Error("error closing database", "error", closeErr)
		}
	}()

	stored, inserted, err := st.WriteTransmission(cmd.Context(), tr)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to archive transmission", err)
	}

	return f.Success(ArchiveResult{Inserted: inserted, Transmission: stored})
}

func (o *ArchiveOptions) openStore(f *OutputFormatter) (*store.Store, error) {
	storeOpts := []store.Option{store.WithLogger(o.logger())}
	if o.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(o.IDGenerator))
	}
	st, err := store.Open(o.Database, storeOpts...)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	return st, nil
}

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database      string
	Kind          string
	MinVersionSum uint64
	Limit         int
}

// HistoryResult is the history command's result.
type HistoryResult struct {
	Transmissions []store.Transmission `json:"transmissions"`
}

func (r HistoryResult) String() string {
	if len(r.Transmissions) == 0 {
		return "No transmissions archived."
	}
	var b strings.Builder
	for i, tr := range r.Transmissions {
		if i > 0 {
			b.WriteString("\n")
		}
		value := "error " + tr.EvalError
		if tr.Value != nil {
			value = fmt.Sprintf("%d", *tr.Value)
		}
		fmt.Fprintf(&b, "%d  %s  %-12s  versions=%d  value=%s  %s",
			tr.Seq, tr.ID, tr.RootKind, tr.VersionSum, value, tr.Input)
	}
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived transmissions",
		Long: `List archived transmissions in the order they were first archived.

Examples:
  bits history --db ./bits.db
  bits history --db ./bits.db --kind equal_to --min-version-sum 10 --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only transmissions whose root is this kind (or literal)")
	cmd.Flags().Uint64Var(&opts.MinVersionSum, "min-version-sum", 0, "only transmissions with at least this version sum")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of rows (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if opts.Kind != "" && opts.Kind != store.RootKindLiteral {
		if _, err := packet.ParseKind(opts.Kind); err != nil {
			return f.fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid kind %q", opts.Kind), nil)
		}
	}
	if opts.Limit < 0 {
		return f.fail(ExitCommandError, ErrCodeGeneric, "limit must be non-negative", nil)
	}
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return f.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}

	st, err := store.Open(opts.Database, store.WithLogger(opts.logger()))
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.logger().Error("error closing database", "error", closeErr)
		}
	}()

	trs, err := st.ListTransmissions(cmd.Context(), store.Filter{
		RootKind:      opts.Kind,
		MinVersionSum: opts.MinVersionSum,
		Limit:         opts.Limit,
	})
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to read history", err)
	}

	return f.Success(HistoryResult{Transmissions: trs})
}
