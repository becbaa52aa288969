package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bits/internal/eval"
	"github.com/roach88/bits/internal/packet"
)

// DecodeReport is the decode command's result.
type DecodeReport struct {
	Input      string           `json:"input"`
	BitLength  int              `json:"bit_length"`
	Tree       json.RawMessage  `json:"tree"`
	Stats      packet.TreeStats `json:"stats"`
	VersionSum uint64           `json:"version_sum"`
	Value      *uint64          `json:"value,omitempty"`
	EvalError  string           `json:"eval_error,omitempty"`
	Hash       string           `json:"hash"`
	Canonical  string           `json:"canonical"`

	render string
}

// String renders the report for text output.
func (r DecodeReport) String() string {
	var b strings.Builder
	b.WriteString(r.render)
	b.WriteString("\n")
	fmt.Fprintf(&b, "version sum: %d\n", r.VersionSum)
	if r.Value != nil {
		fmt.Fprintf(&b, "value:       %d\n", *r.Value)
	} else {
		fmt.Fprintf(&b, "value:       error %s\n", r.EvalError)
	}
	fmt.Fprintf(&b, "packets:     %d\n", r.Stats.Packets)
	fmt.Fprintf(&b, "depth:       %d\n", r.Stats.Depth)
	fmt.Fprintf(&b, "hash:        %s\n", r.Hash)
	fmt.Fprintf(&b, "canonical:   %s", r.Canonical)
	return b.String()
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a transmission and describe its packet tree",
		Long: `Decode a transmission and print its packet tree, version sum, value,
tree hash and canonical re-encoding.

An evaluation failure (e.g. overflow) is reported in the output but does
not fail the command; only a decode failure does.

Examples:
  bits decode D2FE28
  bits decode --file transmission.txt --format json
  bits decode --bits 110100101111111000101`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, in, cmd, args)
		},
	}

	addInputFlags(cmd, in)
	return cmd
}

func runDecode(opts *RootOptions, in *InputOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)

	d, err := opts.decodeInput(cmd, f, in, args)
	if err != nil {
		return err
	}

	report, err := buildDecodeReport(d)
	if err != nil {
		return f.fail(ExitFailure, ErrCodeDecode, "cannot describe tree", err)
	}
	return f.Success(report)
}

func buildDecodeReport(d decodedInput) (DecodeReport, error) {
	tree, err := packet.MarshalCanonical(d.Packet)
	if err != nil {
		return DecodeReport{}, err
	}
	hash, err := packet.Hash(d.Packet)
	if err != nil {
		return DecodeReport{}, err
	}
	canonical, err := packet.EncodeHex(d.Packet)
	if err != nil {
		return DecodeReport{}, err
	}

	report := DecodeReport{
		Input:      d.Text,
		BitLength:  d.BitLength,
		Tree:       tree,
		Stats:      packet.Stats(d.Packet),
		VersionSum: eval.SumVersions(d.Packet),
		Hash:       hash,
		Canonical:  canonical,
		render:     packet.Render(d.Packet),
	}

	value, err := eval.Evaluate(d.Packet)
	if err != nil {
		var ee *eval.Error
		if !errors.As(err, &ee) {
			return DecodeReport{}, err
		}
		report.EvalError = string(ee.Code)
		return report, nil
	}
	report.Value = &value
	return report, nil
}

// ValueResult is the eval command's result.
type ValueResult struct {
	Input string `json:"input"`
	Value uint64 `json:"value"`
}

func (r ValueResult) String() string {
	return fmt.Sprintf("%d", r.Value)
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "eval [hex]",
		Short: "Evaluate a transmission",
		Long: `Decode a transmission and print the value of its outermost packet.

Exit codes:
  0 - Evaluated
  1 - Decode or evaluation failure
  2 - Command error (missing input, bad config)

Examples:
  bits eval 9C0141080250320F1802104A08
  bits eval --file - < transmission.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, in, cmd, args)
		},
	}

	addInputFlags(cmd, in)
	return cmd
}

func runEval(opts *RootOptions, in *InputOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)

	d, err := opts.decodeInput(cmd, f, in, args)
	if err != nil {
		return err
	}

	value, err := eval.Evaluate(d.Packet)
	if err != nil {
		opts.logger().Debug("evaluation failed", "error", err)
		return f.fail(ExitFailure, ErrCodeEval, "evaluation failed", err)
	}

	return f.Success(ValueResult{Input: d.Text, Value: value})
}

// VersionSumResult is the versions command's result.
type VersionSumResult struct {
	Input      string `json:"input"`
	VersionSum uint64 `json:"version_sum"`
}

func (r VersionSumResult) String() string {
	return fmt.Sprintf("%d", r.VersionSum)
}

// NewVersionsCommand creates the versions command.
func NewVersionsCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "versions [hex]",
		Short: "Sum the versions of every packet in a transmission",
		Long: `Decode a transmission and print the sum of the version fields of
all its packets, nested ones included.

Example:
  bits versions A0016C880162017C3686B18A3D4780`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			d, err := rootOpts.decodeInput(cmd, f, in, args)
			if err != nil {
				return err
			}
			return f.Success(VersionSumResult{Input: d.Text, VersionSum: eval.SumVersions(d.Packet)})
		},
	}

	addInputFlags(cmd, in)
	return cmd
}
