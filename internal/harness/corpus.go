package harness

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bits/internal/eval"
	"github.com/roach88/bits/internal/packet"
)

// Corpus is a named set of transmissions with expected outcomes.
type Corpus struct {
	// Name identifies the corpus in reports.
	Name string `yaml:"name"`

	// Description explains what the corpus covers.
	Description string `yaml:"description"`

	// Cases lists the transmissions to check, in file order.
	Cases []Case `yaml:"cases"`
}

// Case is one transmission and what decoding it should produce.
// Exactly one of Hex or Bits is set.
type Case struct {
	Name   string `yaml:"name"`
	Hex    string `yaml:"hex,omitempty"`
	Bits   string `yaml:"bits,omitempty"`
	Expect Expect `yaml:"expect"`
}

// Expect holds the checks applied to a case. Unset fields are not checked.
type Expect struct {
	// Value is the evaluated result.
	Value *uint64 `yaml:"value,omitempty"`

	// VersionSum is the sum of every packet version in the tree.
	VersionSum *uint64 `yaml:"version_sum,omitempty"`

	// Error is a decode or evaluation error code, e.g. INSUFFICIENT_BITS or OVERFLOW.
	Error string `yaml:"error,omitempty"`
}

// LoadCorpus reads and parses a corpus YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or fails validation.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return ParseCorpus(data)
}

// ParseCorpus parses corpus YAML from memory.
func ParseCorpus(data []byte) (*Corpus, error) {
	var corpus Corpus
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&corpus); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	normalizeCorpus(&corpus)
	if err := validateCorpus(&corpus); err != nil {
		return nil, fmt.Errorf("invalid corpus: %w", err)
	}

	return &corpus, nil
}

// normalizeCorpus puts free-text fields in NFC so names typed in composed
// and decomposed form compare equal in duplicate checks, filters and reports.
func normalizeCorpus(c *Corpus) {
	c.Name = norm.NFC.String(c.Name)
	c.Description = norm.NFC.String(c.Description)
	for i := range c.Cases {
		c.Cases[i].Name = norm.NFC.String(c.Cases[i].Name)
	}
}

func validateCorpus(c *Corpus) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	if c.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(c.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(c.Cases))
	for i := range c.Cases {
		if err := validateCase(i, &c.Cases[i]); err != nil {
			return err
		}
		if seen[c.Cases[i].Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Cases[i].Name)
		}
		seen[c.Cases[i].Name] = true
	}

	return nil
}

func validateCase(index int, c *Case) error {
	if c.Name == "" {
		return fmt.Errorf("cases[%d]: name is required", index)
	}

	if (c.Hex == "") == (c.Bits == "") {
		return fmt.Errorf("cases[%d]: exactly one of hex or bits is required", index)
	}

	e := c.Expect
	if e.Value == nil && e.VersionSum == nil && e.Error == "" {
		return fmt.Errorf("cases[%d]: expect needs at least one of value, version_sum, error", index)
	}

	if e.Error != "" {
		if !knownErrorCode(e.Error) {
			return fmt.Errorf("cases[%d]: unknown error code %q", index, e.Error)
		}
		if e.Value != nil {
			return fmt.Errorf("cases[%d]: value and error are mutually exclusive", index)
		}
	}

	return nil
}

func knownErrorCode(code string) bool {
	switch packet.ErrorCode(code) {
	case packet.ErrCodeInsufficientBits,
		packet.ErrCodeUnexpectedTrailingBits,
		packet.ErrCodeUnknownTypeID,
		packet.ErrCodeInvalidBit,
		packet.ErrCodeInvalidHex,
		packet.ErrCodeLiteralOverflow,
		packet.ErrCodeEmptyOperator,
		packet.ErrCodeArityMismatch,
		packet.ErrCodeDepthExceeded,
		packet.ErrCodePacketLimitExceeded,
		packet.ErrCodeInputTooLarge:
		return true
	}
	switch eval.ErrorCode(code) {
	case eval.ErrCodeOverflow, eval.ErrCodeUnknownOperator:
		return true
	}
	return false
}
