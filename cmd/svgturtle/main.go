/*
The svgturtle command compiles and runs a turtle-graphics program,
emitting a standalone SVG document.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmkns/svgturtle/svgpath"
	"github.com/mmkns/svgturtle/turtle"
	"github.com/mmkns/svgturtle/turtlelang"
)

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "svgturtle command line help:\n")
	fs.PrintDefaults()
	os.Exit(1)
}

func main() {
	cfg := turtlelang.NewConfig()
	cfg.DefineFlags(flag.CommandLine)
	err := flag.CommandLine.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(flag.CommandLine)
	}
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "svgturtle command line error: '%v'\n", err)
		usage(flag.CommandLine)
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: svgturtle [flags] <program.turtle>\n")
		usage(flag.CommandLine)
	}
	sourcePath := args[0]

	if err := run(cfg, sourcePath); err != nil {
		fmt.Fprintf(os.Stderr, "svgturtle: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *turtlelang.Config, sourcePath string) error {
	turtlelang.Trace = cfg.Trace
	turtlelang.TraceParse = cfg.TraceParse

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}

	eng := turtlelang.NewEngine()
	importer := turtlelang.NewImporter(filepath.Dir(sourcePath))
	mainChunk, err := turtlelang.ParseProgram(eng, importer, filepath.Base(sourcePath), string(src))
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}

	if cfg.ListChunks {
		cursor := turtlelang.NewStderrDebugCursor(eng.Chunks)
		cursor.ListChunks(os.Stderr)
		return nil
	}

	format := svgpath.FormatNormal
	switch {
	case cfg.Optimize:
		format = svgpath.FormatOptimize
	case cfg.Prettyprint:
		format = svgpath.FormatPrettyprint
	}
	emitter := svgpath.NewEmitter(format, cfg.Decimals)
	turt := turtle.New(emitter)

	var cursor *turtlelang.DebugCursor
	if cfg.Debug {
		cursor = turtlelang.NewStderrDebugCursor(eng.Chunks)
		cursor.TraceOn = cfg.Trace
		cursor.ShowBreaks = cfg.ShowBreaks
		for _, bp := range cfg.Breakpoints {
			cursor.Breakpoints[bp] = true
		}
		if isTerminal(os.Stdin) {
			cursor.EnableREPL()
		}
		defer cursor.Close()
	}

	rt := turtlelang.NewRuntime(eng.Chunks, turt, cursor)
	if err := rt.ExecuteMain(mainChunk); err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}

	envelope := svgpath.Envelope{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Background:  cfg.Background,
		Fill:        cfg.Fill,
		Stroke:      cfg.Stroke,
		StrokeWidth: cfg.StrokeWidth,
		Linejoin:    cfg.Linejoin,
		Linecap:     cfg.Linecap,
	}

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return envelope.Write(out, emitter.String())
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
