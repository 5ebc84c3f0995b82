package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gildedrose/internal/catalog"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenarios failed or the catalog content is invalid
	ExitCommandError = 2 // Bad flags, unreadable paths or ledgers
)

// Problem codes raised by the commands themselves. Catalog problems keep
// the catalog package's E0xx and E1xx codes.
const (
	CodeScenariosFailed = "E201" // test: at least one scenario failed
	CodeNotRecorded     = "E301" // history: item or day missing from the ledger
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err. Errors that carry none map
// to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Problem is a failure reported to the user on stdout. Catalog problems
// carry the position CUE attached to them.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// problemFrom converts a catalog load error into a Problem. Any other
// error is reported as E001.
func problemFrom(err error) *Problem {
	var loadErr *catalog.LoadError
	if !errors.As(err, &loadErr) {
		return &Problem{Code: catalog.ErrCodeGeneric, Message: err.Error()}
	}
	p := &Problem{Code: loadErr.Code, Message: loadErr.Message}
	if loadErr.Pos.IsValid() {
		p.File = loadErr.Pos.Filename()
		p.Line = loadErr.Pos.Line()
		p.Column = loadErr.Pos.Column()
	}
	return p
}

// String renders the problem as file:line:col: CODE: message, dropping
// the location when there is none.
func (p *Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", p.File, p.Line, p.Column, p.Code, p.Message)
	}
	return fmt.Sprintf("%s: %s", p.Code, p.Message)
}

// ExitCode maps the problem to a process exit code. Failing to find or
// read a catalog is a command error; bad content is a failure.
func (p *Problem) ExitCode() int {
	switch p.Code {
	case catalog.ErrCodeNotFound, catalog.ErrCodeScanError, catalog.ErrCodeNoFiles, CodeNotRecorded:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

// Response is the single JSON document a command writes in json format.
type Response struct {
	Status string   `json:"status"` // "ok" or "error"
	Data   any      `json:"data,omitempty"`
	Error  *Problem `json:"error,omitempty"`
}

// printer writes a command's outcome to stdout as text or as a Response.
// Verbose lines always go to stderr so they never corrupt JSON.
type printer struct {
	json    bool
	out     io.Writer
	diag    io.Writer
	verbose bool
}

func newPrinter(opts *RootOptions, cmd *cobra.Command) *printer {
	return &printer{
		json:    opts.Format == "json",
		out:     cmd.OutOrStdout(),
		diag:    cmd.ErrOrStderr(),
		verbose: opts.Verbose,
	}
}

// ok reports success. In json format data is encoded; otherwise text
// renders the human-readable form.
func (p *printer) ok(data any, text func(w io.Writer)) error {
	if p.json {
		return json.NewEncoder(p.out).Encode(Response{Status: "ok", Data: data})
	}
	text(p.out)
	return nil
}

// fail reports prob and returns the ExitError the command should return.
// heading, when set, precedes the problem in text format.
func (p *printer) fail(prob *Problem, heading string) error {
	if p.json {
		if err := json.NewEncoder(p.out).Encode(Response{Status: "error", Error: prob}); err != nil {
			return WrapExitError(ExitCommandError, "failed to write response", err)
		}
	} else {
		if heading != "" {
			fmt.Fprintln(p.out, heading)
		}
		fmt.Fprintf(p.out, "  %s\n", prob)
	}
	return NewExitError(prob.ExitCode(), fmt.Sprintf("%s: %s", prob.Code, prob.Message))
}

// debugf writes a verbose line to stderr.
func (p *printer) debugf(format string, args ...any) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.diag, format+"\n", args...)
}
