// Package svgpath turns a stream of absolute path primitives into SVG
// path data (the "d" attribute) and wraps it in a minimal standalone
// SVG document.
package svgpath

import (
	"strconv"
	"strings"
)

// tokenKind tracks which SVG path command letter was last written, so
// consecutive commands of the same kind can be emitted without
// repeating the letter -- the same "previous token kind" bookkeeping
// an ostream-based turtle emitter keeps in the original engine.
type tokenKind int

const (
	tokNone tokenKind = iota
	tokMove
	tokLine
	tokQuad
	tokCubic
	tokClose
)

// Format selects how liberally Emitter inserts whitespace and repeats
// command letters.
type Format int

const (
	// FormatNormal always writes the command letter and separates
	// numbers with a single space.
	FormatNormal Format = iota
	// FormatPrettyprint adds a newline after every command for
	// readability.
	FormatPrettyprint
	// FormatOptimize drops the command letter when it repeats the
	// previous command. Numbers and commands are still separated by
	// single spaces.
	FormatOptimize
)

// Emitter implements turtle.PathSink, accumulating SVG path data in a
// strings.Builder. It owns the smooth-curve control-point history (the
// "has a previous curve been drawn, and where was its control point"
// state that 't' and 'S' reflect) since that bookkeeping belongs to
// the path's own continuity, not to the turtle producing the points.
type Emitter struct {
	buf      strings.Builder
	format   Format
	decimals int

	prevTok tokenKind
	started bool

	lastQuadCX, lastQuadCY   float64
	haveLastQuad             bool
	lastCubicCX, lastCubicCY float64
	haveLastCubic            bool

	curX, curY float64
}

func NewEmitter(format Format, decimals int) *Emitter {
	return &Emitter{format: format, decimals: decimals}
}

func (e *Emitter) String() string { return e.buf.String() }

func (e *Emitter) num(v float64) string {
	return strconv.FormatFloat(v, 'f', e.decimals, 64)
}

// writeCmd writes the command letter, respecting FormatOptimize's rule
// of suppressing the letter when it repeats the previous command. A
// single separating space always precedes the numbers that follow,
// whether or not the letter itself was written.
func (e *Emitter) writeCmd(letter string, kind tokenKind) {
	suppressLetter := e.format == FormatOptimize && e.prevTok == kind
	if e.started {
		e.buf.WriteByte(' ')
	}
	if !suppressLetter {
		e.buf.WriteString(letter)
		e.buf.WriteByte(' ')
	}
	e.prevTok = kind
	e.started = true
	if e.format == FormatPrettyprint && !suppressLetter {
		defer e.buf.WriteByte('\n')
	}
}

func (e *Emitter) writeNums(vals ...float64) {
	for i, v := range vals {
		if i > 0 {
			e.buf.WriteByte(' ')
		}
		e.buf.WriteString(e.num(v))
	}
}

// ensureOpened prepends an implicit "M 0 0" if the very first command
// written isn't itself a move -- every SVG path must begin with m/M.
func (e *Emitter) ensureOpened() {
	if e.started {
		return
	}
	e.writeCmd("M", tokMove)
	e.writeNums(0, 0)
}

func (e *Emitter) MoveTo(x, y float64) {
	e.writeCmd("M", tokMove)
	e.writeNums(x, y)
	e.curX, e.curY = x, y
	e.haveLastQuad, e.haveLastCubic = false, false
}

func (e *Emitter) LineTo(x, y float64) {
	e.ensureOpened()
	e.writeCmd("L", tokLine)
	e.writeNums(x, y)
	e.curX, e.curY = x, y
	e.haveLastQuad, e.haveLastCubic = false, false
}

func (e *Emitter) QuadTo(cx, cy, x, y float64) {
	e.ensureOpened()
	e.writeCmd("Q", tokQuad)
	e.writeNums(cx, cy, x, y)
	e.curX, e.curY = x, y
	e.lastQuadCX, e.lastQuadCY = cx, cy
	e.haveLastQuad = true
	e.haveLastCubic = false
}

// QuadSmoothTo reflects the previous quadratic control point across
// the current point to synthesize the implicit control point, the way
// SVG's own "T" command is defined. If there was no previous quadratic
// segment, the reflected point is the current point itself (SVG's
// fallback rule).
func (e *Emitter) QuadSmoothTo(x, y float64) {
	e.ensureOpened()
	cx, cy := e.curX, e.curY
	if e.haveLastQuad {
		cx = 2*e.curX - e.lastQuadCX
		cy = 2*e.curY - e.lastQuadCY
	}
	e.writeCmd("Q", tokQuad)
	e.writeNums(cx, cy, x, y)
	e.curX, e.curY = x, y
	e.lastQuadCX, e.lastQuadCY = cx, cy
	e.haveLastQuad = true
	e.haveLastCubic = false
}

func (e *Emitter) CubicTo(x1, y1, x2, y2, x, y float64) {
	e.ensureOpened()
	e.writeCmd("C", tokCubic)
	e.writeNums(x1, y1, x2, y2, x, y)
	e.curX, e.curY = x, y
	e.lastCubicCX, e.lastCubicCY = x2, y2
	e.haveLastCubic = true
	e.haveLastQuad = false
}

// CubicSmoothTo reflects the previous cubic's second control point
// across the current point for the implicit first control point,
// mirroring SVG's "S" command.
func (e *Emitter) CubicSmoothTo(x2, y2, x, y float64) {
	e.ensureOpened()
	x1, y1 := e.curX, e.curY
	if e.haveLastCubic {
		x1 = 2*e.curX - e.lastCubicCX
		y1 = 2*e.curY - e.lastCubicCY
	}
	e.writeCmd("C", tokCubic)
	e.writeNums(x1, y1, x2, y2, x, y)
	e.curX, e.curY = x, y
	e.lastCubicCX, e.lastCubicCY = x2, y2
	e.haveLastCubic = true
	e.haveLastQuad = false
}

func (e *Emitter) ClosePath() {
	e.ensureOpened()
	e.writeCmd("Z", tokClose)
	e.haveLastQuad, e.haveLastCubic = false, false
}

func (e *Emitter) Newline() {
	e.buf.WriteByte('\n')
}

func (e *Emitter) Space() {
	e.buf.WriteByte(' ')
}
