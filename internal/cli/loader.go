package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/bits/internal/packet"
)

// configSchema is the closed schema every limits file is unified with.
// Unknown fields are rejected, so a misspelled limit fails loudly.
const configSchema = `
#Config: {
	max_depth?:      int & >0
	max_packets?:    int & >0
	max_input_bits?: int & >0
}
`

// LoadError represents an error that occurred while loading a config file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Config is the decoded form of a limits file.
// Nil fields keep the decoder defaults.
type Config struct {
	MaxDepth     *int `json:"max_depth"`
	MaxPackets   *int `json:"max_packets"`
	MaxInputBits *int `json:"max_input_bits"`
}

// Limits applies c on top of the default decoder limits.
func (c Config) Limits() packet.Limits {
	limits := packet.DefaultLimits()
	if c.MaxDepth != nil {
		limits.MaxDepth = *c.MaxDepth
	}
	if c.MaxPackets != nil {
		limits.MaxPackets = *c.MaxPackets
	}
	if c.MaxInputBits != nil {
		limits.MaxInputBits = *c.MaxInputBits
	}
	return limits
}

// LoadConfig reads a CUE limits file, validates it against #Config, and
// returns the resulting decoder limits.
//
// Example file:
//
//	max_depth:   64
//	max_packets: 4096
func LoadConfig(path string) (packet.Limits, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return packet.Limits{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return packet.Limits{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
	}
	return ParseConfig(data, path)
}

// ParseConfig validates CUE source against #Config. filename is used in
// error positions only.
func ParseConfig(data []byte, filename string) (packet.Limits, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return packet.Limits{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling schema: %v", err)}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return packet.Limits{}, newLoadError(ErrCodeBuildFailed, "building CUE value", err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return packet.Limits{}, newLoadError(ErrCodeConfigInvalid, "invalid config", err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return packet.Limits{}, newLoadError(ErrCodeConfigInvalid, "decoding config", err)
	}

	limits := cfg.Limits()
	if err := limits.Validate(); err != nil {
		return packet.Limits{}, &LoadError{Code: ErrCodeConfigInvalid, Message: err.Error()}
	}
	return limits, nil
}

// newLoadError attaches the first CUE position carried by err, if any.
func newLoadError(code, context string, err error) *LoadError {
	le := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", context, err)}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeLoadFailed  = "E004" // File read failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	// Config errors
	ErrCodeConfigInvalid = "E120" // Config does not satisfy #Config

	// Transmission errors
	ErrCodeInput       = "E200" // Missing or ambiguous input
	ErrCodeDecode      = "E201" // Transmission failed to decode
	ErrCodeEval        = "E202" // Tree failed to evaluate
	ErrCodeCheckFailed = "E203" // Corpus had failing cases
	ErrCodeCorpus      = "E204" // Corpus file could not be loaded
	ErrCodeStore       = "E210" // Archive database error
)
