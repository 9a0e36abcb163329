package turtlelang

import (
	"fmt"
	"os"
)

// Trace gates execution-tracing output (the --trace flag); TraceParse
// gates parse-time tracing (--trace-parse). Both default off and are
// toggled once, at startup, by the CLI driver -- the same ambient
// Verbose-bool-plus-gated-printf idiom the teacher uses throughout its
// package for optional diagnostic noise.
var (
	Trace      bool
	TraceParse bool
)

// trace prints an execution-trace line when Trace is enabled.
func trace(format string, args ...interface{}) {
	if !Trace {
		return
	}
	fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
}

// traceParse prints a parse-trace line when TraceParse is enabled.
func traceParse(format string, args ...interface{}) {
	if !TraceParse {
		return
	}
	fmt.Fprintf(os.Stderr, "parse: "+format+"\n", args...)
}
