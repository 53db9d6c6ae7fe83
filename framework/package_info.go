// Package framework contains the low-level implementation of test harness
// infrastructure that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. Each test runs in its own child process with its own address space. The
// Runner creates a private capture file, points the child's stdout and stderr
// at it, waits for termination, and classifies the wait status (clean exit,
// nonzero exit, timeout signal, other fatal signal, or a spawn/capture
// infrastructure failure).
//
// 2. The Reporter turns classified outcomes into the line-oriented result
// protocol on a single writer: version header, plan line, one status line per
// test, and marker-prefixed diagnostics reproducing the captured output after
// a failure.
//
// 3. RunSuite drives the two strictly sequentially, so a test's status line
// and diagnostics are complete before the next test's process exists.
//
// The domain-specific code that knows what is being tested supplies the
// ordered test descriptions, the command builder that re-execs a worker for a
// given test index, and optionally a TestLogger for human-facing progress
// output away from the protocol stream.
package framework
