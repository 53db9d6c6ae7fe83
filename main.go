package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jwdevantier/tapdance/framework"
	"github.com/jwdevantier/tapdance/registry"
	"github.com/jwdevantier/tapdance/taptests"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(2)
	}

	reg := taptests.Suite()
	if params.manifest != "" {
		selected, err := registry.LoadManifest(params.manifest, reg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Manifest error: %s\n", err)
			os.Exit(2)
		}
		reg = selected
	}

	if params.workerIndex >= 0 {
		registry.RunWorker(reg, params.workerIndex, params.timeout)
	}

	debugLogger := framework.NullLogger()
	var testLogger framework.TestLogger
	if params.debug {
		debugLogger = log.New(os.Stderr, "", log.LstdFlags)
		testLogger = &ConsoleTestLogger{}
	}

	framework.PrintFilterDescription(os.Stderr, params.filters)

	runner := &framework.Runner{
		Timeout:  params.timeout,
		TempDir:  params.tempDir,
		BuildCmd: framework.SelfCmdBuilder(params.childArgs()...),
		Logger:   debugLogger,
	}

	results := framework.RunSuite(framework.SuiteConfig{
		Descriptions: reg.Descriptions(),
		Filter:       params.filters.AsFilter,
		Runner:       runner,
		Output:       os.Stdout,
		TestLogger:   testLogger,
	})

	if !params.noSummary {
		framework.PrintSummary(os.Stderr, results)
	}

	// The protocol text carries the verdict; the harness itself exits 0
	// unless asked otherwise.
	if params.failOnError && !results.OK() {
		os.Exit(1)
	}
}
