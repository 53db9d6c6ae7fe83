package framework

import (
	"bytes"
	"fmt"
	"io"
)

const protocolVersion = "TAP version 14"

// diagnosticMarker prefixes every line of captured test output reproduced in
// the protocol stream.
const diagnosticMarker = "#: "

// Reporter emits the line-oriented result protocol: a version header, a plan
// line, one status line per test in plan order, and marker-prefixed
// diagnostics after failures.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Begin emits the version header and the plan line.
func (r *Reporter) Begin(planned int) {
	fmt.Fprintln(r.w, protocolVersion)
	fmt.Fprintf(r.w, "1..%d\n", planned)
}

// Report emits the status line for one test, plus its diagnostic block when
// it failed.
func (r *Reporter) Report(res TestResult) {
	o := res.Outcome
	if o.Passed() {
		fmt.Fprintf(r.w, "ok %d - %s\n", res.Index, res.Description)
		return
	}
	fmt.Fprintf(r.w, "not ok %d - %s (%s)\n", res.Index, res.Description, o.Reason())
	if o.CaptureErr != nil {
		fmt.Fprintf(r.w, "# failed to read test output: %s\n", o.CaptureErr)
		return
	}
	r.writeDiagnostics(o.Output)
}

// writeDiagnostics reproduces captured output with each physical line
// prefixed by the marker. A final line missing its terminator still gets the
// marker, and a newline is synthesized so the block stays well-formed.
func (r *Reporter) writeDiagnostics(output []byte) {
	for len(output) > 0 {
		line := output
		if i := bytes.IndexByte(output, '\n'); i >= 0 {
			line = output[:i+1]
			output = output[i+1:]
		} else {
			output = nil
		}
		io.WriteString(r.w, diagnosticMarker)
		r.w.Write(line)
		if line[len(line)-1] != '\n' {
			io.WriteString(r.w, "\n")
		}
	}
}
