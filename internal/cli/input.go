package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bits/internal/bitstream"
	"github.com/roach88/bits/internal/packet"
)

// InputOptions selects where a transmission is read from.
type InputOptions struct {
	File string // path, or "-" for stdin
	Bits bool   // input is a '0'/'1' string instead of hex
}

func addInputFlags(cmd *cobra.Command, in *InputOptions) {
	cmd.Flags().StringVarP(&in.File, "file", "f", "", "read the transmission from a file (- for stdin)")
	cmd.Flags().BoolVar(&in.Bits, "bits", false, "input is a binary string rather than hex")
}

// errNoInput is returned when neither an argument nor --file was given.
var errNoInput = errors.New("a transmission argument or --file is required")

// readInput returns the trimmed transmission text from args or --file.
func readInput(cmd *cobra.Command, in *InputOptions, args []string) (string, error) {
	switch {
	case len(args) > 0 && in.File != "":
		return "", fmt.Errorf("give either a transmission argument or --file, not both")
	case len(args) > 0:
		return strings.TrimSpace(args[0]), nil
	case in.File == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case in.File != "":
		data, err := os.ReadFile(in.File)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", in.File, err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return "", errNoInput
	}
}

// decodedInput is a transmission together with its decoded tree.
type decodedInput struct {
	Text      string
	BitLength int
	Packet    packet.Packet
}

// decodeInput reads and decodes one transmission, reporting failures
// through f. Input problems exit 2; decode failures exit 1.
func (o *RootOptions) decodeInput(cmd *cobra.Command, f *OutputFormatter, in *InputOptions, args []string) (decodedInput, error) {
	text, err := readInput(cmd, in, args)
	if err != nil {
		return decodedInput{}, f.fail(ExitCommandError, ErrCodeInput, "no transmission", err)
	}

	bits := text
	if !in.Bits {
		// Hex is validated by the decoder; expansion here only measures length.
		if expanded, err := bitstream.ExpandHex(text); err == nil {
			bits = expanded
		}
	}

	var p packet.Packet
	if in.Bits {
		p, err = o.decoder().DecodeString(text)
	} else {
		p, err = o.decoder().DecodeHex(text)
	}
	if err != nil {
		o.logger().Debug("decode failed", "code", packet.CodeOf(err), "error", err)
		return decodedInput{}, f.fail(ExitFailure, ErrCodeDecode, "decode failed", err)
	}

	f.VerboseLog("decoded %d bits", len(bits))
	return decodedInput{Text: text, BitLength: len(bits), Packet: p}, nil
}
