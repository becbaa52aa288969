package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit statuses. A transmission that is well formed but fails to
// decode or evaluate is a failure; anything wrong with how bits was invoked
// is a command error.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // decode, eval or corpus check failed
	ExitCommandError = 2 // missing input, bad flag, config or archive path
)

// ExitError carries the status main should exit with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError with no cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps a command error to a process exit status. Errors that
// carry no ExitError, such as cobra flag parsing errors, count as failures.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as the JSON envelope.
type OutputFormatter struct {
	Format    string    // "text" or "json"
	Writer    io.Writer // results and reported errors
	ErrWriter io.Writer // diagnostics; Writer when nil
	Verbose   bool
}

// CLIResponse is the JSON envelope every command writes in json format.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError describes a failed command. Code is one of the ErrCode constants.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (f *OutputFormatter) isJSON() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Success writes a result. Text output relies on the result's String method.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes an error report. Text output shows details only when verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	if _, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		_, err := fmt.Fprintf(f.Writer, "Details: %v\n", details)
		return err
	}
	return nil
}

// Fail writes an error report that still carries a result, such as the
// per-case report of a failing corpus.
func (f *OutputFormatter) Fail(code, message string, data any) error {
	if f.isJSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: code, Message: message},
		})
	}
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// VerboseLog writes a diagnostic line when verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the diagnostic writer, keeping JSON on Writer clean
// when ErrWriter is set.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports code and message through f and returns the matching
// ExitError. A failure to write the report is joined into the cause.
func (f *OutputFormatter) fail(exitCode int, code, message string, err error) error {
	var details any
	if err != nil {
		details = err.Error()
	}
	if writeErr := f.Error(code, message, details); writeErr != nil {
		err = errors.Join(err, fmt.Errorf("write error report: %w", writeErr))
	}
	msg := fmt.Sprintf("%s: %s", code, message)
	if err != nil {
		return WrapExitError(exitCode, msg, err)
	}
	return NewExitError(exitCode, msg)
}
