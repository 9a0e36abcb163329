package turtlelang

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/glycerine/liner"
	goon "github.com/shurcooL/go-goon"
	"github.com/ugorji/go/codec"
)

// DebugEvent is one structured record emitted while tracing execution
// with --trace; it is JSON-encoded through ugorji/go/codec rather than
// hand-formatted, matching the teacher's preference for a reflection
// based encoder over ad hoc string building.
type DebugEvent struct {
	Chunk     string `json:"chunk"`
	Statement int    `json:"statement"`
	Line      int    `json:"line"`
	Col       int    `json:"col"`
	Label     string `json:"label"`
}

// cursorFrame is one entry of the shadow program-counter stack the
// debugger walks to print backtraces and trace events.
type cursorFrame struct {
	chunkIdx int
	stmtIdx  int
}

// DebugCursor is attached to a Runtime only when --debug is given. It
// mirrors the call stack (a "shadow PC stack") purely for diagnostics,
// independent of the two value stacks, and optionally drives an
// interactive breakpoint REPL over glycerine/liner.
type DebugCursor struct {
	store *ChunkStore
	stack []cursorFrame

	Breakpoints map[string]bool // "chunkName:stmtIdx" -> true
	TraceOn     bool
	ShowBreaks  bool

	out   io.Writer
	line  *liner.State
	forceBreakNext bool
}

func NewDebugCursor(store *ChunkStore, out io.Writer) *DebugCursor {
	return &DebugCursor{store: store, Breakpoints: make(map[string]bool), out: out}
}

// EnableREPL attaches an interactive liner session, used when stdin is
// a tty and --debug was requested.
func (dc *DebugCursor) EnableREPL() {
	dc.line = liner.NewLiner()
}

func (dc *DebugCursor) Close() {
	if dc.line != nil {
		dc.line.Close()
	}
}

func (dc *DebugCursor) PushChunk(idx int) {
	dc.stack = append(dc.stack, cursorFrame{chunkIdx: idx})
}

func (dc *DebugCursor) PopChunk() {
	dc.stack = dc.stack[:len(dc.stack)-1]
}

func (dc *DebugCursor) SetStatement(i int) {
	dc.stack[len(dc.stack)-1].stmtIdx = i
	if dc.TraceOn {
		dc.emitTrace()
	}
}

// ForceBreak schedules an unconditional stop at the very next
// statement boundary, used by the `breakpoint` keyword.
func (dc *DebugCursor) ForceBreak() {
	dc.forceBreakNext = true
}

func (dc *DebugCursor) breakKey(chunk *Chunk, stmtIdx int) string {
	return fmt.Sprintf("%s:%d", chunk.Name, stmtIdx)
}

// MaybeBreak checks whether the current statement is a breakpoint and,
// if so and a REPL is attached, drops into it.
func (dc *DebugCursor) MaybeBreak(chunk *Chunk, stmtIdx int) error {
	hit := dc.forceBreakNext || dc.Breakpoints[dc.breakKey(chunk, stmtIdx)]
	dc.forceBreakNext = false
	if !hit {
		return nil
	}
	if dc.ShowBreaks {
		info := chunk.Statements[stmtIdx]
		fmt.Fprintf(dc.out, "break: %s:%d (%s) at line %d col %d\n", chunk.Name, stmtIdx, info.Label, info.Line, info.Col)
	}
	if dc.line == nil {
		return nil
	}
	return dc.repl(chunk, stmtIdx)
}

func (dc *DebugCursor) repl(chunk *Chunk, stmtIdx int) error {
	for {
		text, err := dc.line.Prompt("(turtledbg) ")
		if err != nil {
			return nil
		}
		dc.line.AppendHistory(text)
		switch text {
		case "continue", "c", "":
			return nil
		case "backtrace", "bt":
			dc.PrintBacktrace(dc.out)
		case "list-chunks", "lc":
			dc.ListChunks(dc.out)
		case "where":
			fmt.Fprintf(dc.out, "%s:%d\n", chunk.Name, stmtIdx)
		case "quit", "q":
			return fmt.Errorf("debugger quit")
		default:
			fmt.Fprintf(dc.out, "commands: continue, backtrace, list-chunks, where, quit\n")
		}
	}
}

func (dc *DebugCursor) emitTrace() {
	f := dc.stack[len(dc.stack)-1]
	chunk := dc.store.Get(f.chunkIdx)
	info := chunk.Statements[f.stmtIdx]
	ev := DebugEvent{Chunk: chunk.Name, Statement: f.stmtIdx, Line: info.Line, Col: info.Col, Label: info.Label}
	h := &codec.JsonHandle{}
	enc := codec.NewEncoder(dc.out, h)
	_ = enc.Encode(ev)
	fmt.Fprintln(dc.out)
}

// PrintBacktrace writes the current shadow call stack, innermost first.
func (dc *DebugCursor) PrintBacktrace(w io.Writer) {
	for i := len(dc.stack) - 1; i >= 0; i-- {
		f := dc.stack[i]
		chunk := dc.store.Get(f.chunkIdx)
		info := chunk.Statements[f.stmtIdx]
		fmt.Fprintf(w, "#%d %s (line %d, col %d)\n", len(dc.stack)-1-i, chunk.Name, info.Line, info.Col)
	}
}

// ListChunks pretty-prints every compiled chunk via go-goon, the way
// the teacher dumps internal structures for --list-chunks-equivalent
// debugging output.
func (dc *DebugCursor) ListChunks(w io.Writer) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()
	for i := 1; i < dc.store.Len(); i++ {
		c := dc.store.Get(i)
		fmt.Fprintf(bw, "chunk %d: ", i)
		goon.Fdump(bw, c)
	}
}

// NewStderrDebugCursor is a convenience constructor for the CLI.
func NewStderrDebugCursor(store *ChunkStore) *DebugCursor {
	return NewDebugCursor(store, os.Stderr)
}
