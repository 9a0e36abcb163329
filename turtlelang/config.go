package turtlelang

import (
	"flag"
	"fmt"
)

// Config holds every CLI-controlled option. DefineFlags registers the
// flag set; ValidateConfig is run after flag.Parse and cross-checks option
// combinations that a flag.FlagSet alone cannot express -- the same
// two-step Config pattern the teacher's cfg.go uses (DefineFlags then
// ValidateConfig, called from main separately from parsing).
type Config struct {
	Debug       bool
	Trace       bool
	TraceParse  bool
	ShowBreaks  bool
	ListChunks  bool
	Breakpoints []string

	Optimize    bool
	Prettyprint bool
	Decimals    int

	Width, Height float64
	Background    string
	Fill          string
	Stroke        string
	StrokeWidth   float64
	Linejoin      string
	Linecap       string

	Output string

	flagSet *flag.FlagSet
}

func NewConfig() *Config {
	return &Config{Decimals: 3, Width: 400, Height: 400, Stroke: "black", StrokeWidth: 1, Fill: "none", Linejoin: "round", Linecap: "round"}
}

// DefineFlags registers every flag against fs (ordinarily flag.CommandLine).
func (c *Config) DefineFlags(fs *flag.FlagSet) {
	c.flagSet = fs
	fs.BoolVar(&c.Debug, "debug", false, "enable the interactive debugger")
	fs.BoolVar(&c.Trace, "trace", false, "trace statement execution (implies --debug)")
	fs.BoolVar(&c.TraceParse, "trace-parse", false, "trace parsing (implies --debug)")
	fs.BoolVar(&c.ShowBreaks, "show-breaks", false, "print a line whenever a breakpoint is hit (implies --debug)")
	fs.BoolVar(&c.ListChunks, "list-chunks", false, "dump every compiled chunk and exit (implies --debug)")

	fs.BoolVar(&c.Optimize, "optimize", false, "emit the most compact SVG path data")
	fs.BoolVar(&c.Prettyprint, "prettyprint", false, "emit human-readable SVG path data")
	fs.IntVar(&c.Decimals, "decimals", c.Decimals, "decimal places for emitted coordinates")

	fs.Float64Var(&c.Width, "width", c.Width, "SVG viewport width")
	fs.Float64Var(&c.Height, "height", c.Height, "SVG viewport height")
	fs.StringVar(&c.Background, "background", "", "SVG background fill, empty for none")
	fs.StringVar(&c.Fill, "fill", c.Fill, "path fill")
	fs.StringVar(&c.Stroke, "stroke", c.Stroke, "path stroke")
	fs.Float64Var(&c.StrokeWidth, "stroke-width", c.StrokeWidth, "path stroke width")
	fs.StringVar(&c.Linejoin, "linejoin", c.Linejoin, "path stroke-linejoin")
	fs.StringVar(&c.Linecap, "linecap", c.Linecap, "path stroke-linecap")

	fs.StringVar(&c.Output, "o", "", "output file, stdout if empty")
}

// ValidateConfig applies the auto-enable rules and rejects
// contradictory combinations, matching Options.cpp's parse_command_line:
// any of --trace/--trace-parse/--show-breaks/--list-chunks turns on
// --debug, and --optimize together with --prettyprint is an error.
func (c *Config) ValidateConfig() error {
	if c.Trace || c.TraceParse || c.ShowBreaks || c.ListChunks {
		c.Debug = true
	}
	if c.Optimize && c.Prettyprint {
		return fmt.Errorf("--optimize and --prettyprint are mutually exclusive")
	}
	if c.Decimals < 0 {
		return fmt.Errorf("--decimals must be non-negative")
	}
	return nil
}
