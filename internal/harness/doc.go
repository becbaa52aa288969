// Package harness runs transmission corpora against the decoder and evaluator.
//
// # Corpus Format
//
// Corpora are YAML files with the following structure:
//
//	name: examples
//	description: "What this corpus covers"
//	cases:
//	  - name: literal
//	    hex: D2FE28
//	    expect:
//	      value: 2021
//	      version_sum: 6
//	  - name: short total length
//	    bits: "0011100000000000011010..."
//	    expect:
//	      error: INSUFFICIENT_BITS
//
// Each case sets exactly one of hex or bits. Unknown fields are rejected so
// a misspelled expectation fails loudly instead of being skipped.
//
// # Checks
//
//   - value: the evaluated result
//   - version_sum: sum of all packet versions
//   - error: the decode or evaluation error code
//
// # Golden Files
//
// AssertGolden and AssertCanonicalGolden compare rendered trees against
// files under testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
