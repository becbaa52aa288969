package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bits/internal/harness"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Filter string // case filter (glob pattern)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <corpus.yaml>",
		Short: "Run a transmission corpus",
		Long: `Decode and evaluate every case in a YAML corpus and compare the
results against the expected values, version sums and error codes.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (missing corpus, invalid filter, etc.)

Examples:
  bits check testdata/examples.yaml
  bits check testdata/examples.yaml --filter "eval_*"
  bits check testdata/examples.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern")

	return cmd
}

func runCheck(opts *CheckOptions, corpusPath string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if _, err := os.Stat(corpusPath); os.IsNotExist(err) {
		return f.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("corpus file not found: %s", corpusPath), nil)
	}

	corpus, err := harness.LoadCorpus(corpusPath)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeCorpus, "failed to load corpus", err)
	}
	f.VerboseLog("Loaded %d case(s) from %s", len(corpus.Cases), corpusPath)

	result, err := harness.New(opts.decoder(), opts.logger()).Run(corpus, opts.Filter)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "invalid filter", err)
	}

	if opts.Format == "json" {
		if result.Pass {
			return f.Success(result)
		}
		_ = f.Fail(ErrCodeCheckFailed, summarize(result), result)
		return NewExitError(ExitFailure, summarize(result))
	}

	w := f.Writer
	if result.Total == 0 {
		fmt.Fprintln(w, "No cases matched.")
		return nil
	}
	for _, cr := range result.Cases {
		if cr.Pass {
			fmt.Fprintf(w, "✓ %s\n", cr.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", cr.Name)
		for _, e := range cr.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, summarize(result))

	if !result.Pass {
		return NewExitError(ExitFailure, summarize(result))
	}
	return nil
}

func summarize(r *harness.Result) string {
	parts := []string{
		fmt.Sprintf("%d passed", r.Passed),
		fmt.Sprintf("%d failed", r.Failed),
		fmt.Sprintf("%d total", r.Total),
	}
	return strings.Join(parts, ", ")
}
