package harness

import "fmt"

// CaseResult is the outcome of one corpus case.
type CaseResult struct {
	Name       string   `json:"name"`
	Pass       bool     `json:"pass"`
	Value      *uint64  `json:"value,omitempty"`
	VersionSum *uint64  `json:"version_sum,omitempty"`
	ErrorCode  string   `json:"error_code,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

func (cr *CaseResult) fail(format string, args ...any) {
	cr.Errors = append(cr.Errors, fmt.Sprintf(format, args...))
	cr.Pass = false
}

func (cr *CaseResult) check(ok bool, format string, args ...any) {
	if !ok {
		cr.fail(format, args...)
	}
}

// Result is the outcome of running a corpus.
type Result struct {
	Corpus string       `json:"corpus"`
	Pass   bool         `json:"pass"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}

// NewResult creates an empty passing result.
func NewResult(corpus string) *Result {
	return &Result{
		Corpus: corpus,
		Pass:   true,
		Cases:  []CaseResult{},
	}
}

func (r *Result) add(cr CaseResult) {
	r.Cases = append(r.Cases, cr)
	r.Total++
	if cr.Pass {
		r.Passed++
		return
	}
	r.Failed++
	r.Pass = false
}

// Failures returns the cases that did not pass.
func (r *Result) Failures() []CaseResult {
	failed := []CaseResult{}
	for _, cr := range r.Cases {
		if !cr.Pass {
			failed = append(failed, cr)
		}
	}
	return failed
}
