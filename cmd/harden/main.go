// Package main is the entry point for harden, the host hardening
// check, fix and report tool.
package main

import (
	"os"
)

// Populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], newApp(os.Stdout, os.Stderr)))
}

// run executes the command line and returns the process exit code:
// 0 = no failing rule, 1 = a failing rule or a command error,
// 2 = no failures but some rules could not be evaluated.
func run(args []string, a *app) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.Execute(); err != nil {
		a.errorf("%v", err)
		return exitError
	}
	return a.exitCode
}
