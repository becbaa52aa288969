package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/bits/internal/eval"
	"github.com/roach88/bits/internal/packet"
)

// Harness runs corpora through a decoder and the evaluator.
type Harness struct {
	decoder *packet.Decoder
	logger  *slog.Logger
}

// New creates a harness. A nil logger discards output.
func New(decoder *packet.Decoder, logger *slog.Logger) *Harness {
	if decoder == nil {
		decoder = packet.NewDecoder(packet.DefaultLimits())
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{decoder: decoder, logger: logger}
}

// Run checks every case whose name matches filter (a path.Match glob;
// empty matches all). Cases run in file order. The filter is compared in
// NFC, the form ParseCorpus stores names in.
func (h *Harness) Run(c *Corpus, filter string) (*Result, error) {
	if filter != "" {
		if _, err := path.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
		filter = norm.NFC.String(filter)
	}

	result := NewResult(c.Name)
	for _, tc := range c.Cases {
		if filter != "" {
			if ok, _ := path.Match(filter, tc.Name); !ok {
				continue
			}
		}

		cr := h.runCase(tc)
		result.add(cr)

		if cr.Pass {
			h.logger.Debug("case passed", "corpus", c.Name, "case", tc.Name)
		} else {
			h.logger.Info("case failed", "corpus", c.Name, "case", tc.Name, "errors", cr.Errors)
		}
	}

	h.logger.Info("corpus complete",
		"corpus", c.Name,
		"total", result.Total,
		"passed", result.Passed,
		"failed", result.Failed,
	)
	return result, nil
}

func (h *Harness) runCase(tc Case) CaseResult {
	cr := CaseResult{Name: tc.Name, Pass: true, Errors: []string{}}

	var p packet.Packet
	var err error
	if tc.Hex != "" {
		p, err = h.decoder.DecodeHex(tc.Hex)
	} else {
		p, err = h.decoder.DecodeString(tc.Bits)
	}
	if err != nil {
		cr.ErrorCode = errorCode(err)
		cr.check(tc.Expect.Error == cr.ErrorCode,
			"decode: expected %s, got %v", describeExpectedError(tc.Expect.Error), err)
		if tc.Expect.VersionSum != nil || tc.Expect.Value != nil {
			cr.fail("decode failed before value or version_sum could be checked")
		}
		return cr
	}

	sum := eval.SumVersions(p)
	cr.VersionSum = &sum
	if tc.Expect.VersionSum != nil {
		cr.check(*tc.Expect.VersionSum == sum,
			"version_sum: expected %d, got %d", *tc.Expect.VersionSum, sum)
	}

	value, err := eval.Evaluate(p)
	if err != nil {
		cr.ErrorCode = errorCode(err)
		cr.check(tc.Expect.Error == cr.ErrorCode,
			"eval: expected %s, got %v", describeExpectedError(tc.Expect.Error), err)
		return cr
	}
	cr.Value = &value

	if tc.Expect.Error != "" {
		cr.fail("expected error %s, got value %d", tc.Expect.Error, value)
	}
	if tc.Expect.Value != nil {
		cr.check(*tc.Expect.Value == value,
			"value: expected %d, got %d", *tc.Expect.Value, value)
	}
	return cr
}

// errorCode extracts the decode or evaluation code from err.
func errorCode(err error) string {
	if code := packet.CodeOf(err); code != "" {
		return string(code)
	}
	var ee *eval.Error
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return ""
}

func describeExpectedError(code string) string {
	if code == "" {
		return "success"
	}
	return code
}
