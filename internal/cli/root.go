package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/bits/internal/packet"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // optional CUE limits file

	// Limits and Logger are resolved in PersistentPreRunE.
	// Commands built directly (tests) fall back to defaults.
	Limits packet.Limits
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bits CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bits",
		Short: "BITS transmission decoder",
		Long: `Decode hexadecimal BITS transmissions into packet trees, evaluate
them, and archive the results.

A transmission is a hex string. Each packet carries a 3-bit version and
a 3-bit type id; type 4 is a literal and every other type is an operator
over its sub-packets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			if opts.ConfigPath == "" {
				opts.Limits = packet.DefaultLimits()
				return nil
			}
			limits, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Limits = limits
			opts.Logger.Debug("limits loaded",
				"config", opts.ConfigPath,
				"max_depth", limits.MaxDepth,
				"max_packets", limits.MaxPackets,
				"max_input_bits", limits.MaxInputBits,
			)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "CUE file with decoder limits")

	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewVersionsCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewArchiveCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) decoder() *packet.Decoder {
	return packet.NewDecoder(o.Limits)
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
