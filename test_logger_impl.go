package main

import (
	"fmt"
	"os"

	"github.com/jwdevantier/tapdance/framework"
)

// ConsoleTestLogger narrates suite progress on stderr, leaving stdout to the
// protocol stream.
type ConsoleTestLogger struct{}

func (c *ConsoleTestLogger) TestStarted(index int, description string) {
	fmt.Fprintf(os.Stderr, "[%d] %s\n", index, description)
}

func (c *ConsoleTestLogger) TestFinished(index int, description string, outcome framework.Outcome) {
	if !outcome.Passed() {
		fmt.Fprintf(os.Stderr, "  FAILED: %s (%s)\n", description, outcome.Reason())
	}
}
