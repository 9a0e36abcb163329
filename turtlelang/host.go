package turtlelang

import "math"

// TurtleHost is everything the language needs from the drawing side.
// turtlelang never imports the turtle package directly -- the CLI
// driver wires a concrete *turtle.Turtle in, so the language core and
// the drawing engine can be tested independently (accept interfaces,
// return structs).
type TurtleHost interface {
	X() float64
	Y() float64
	Dir() float64

	Rotate(deltaDeg float64)
	RotateRight(deltaDeg float64)
	RotateLeft(deltaDeg float64)
	Aim(headingDeg float64)

	MoveRelative(dx, dy float64)
	MoveAbsolute(x, y float64)
	Forward(dist float64)
	Jump(dx, dy float64)
	Arc(angleDeg, radius float64)
	Orbit(angleDeg, radius float64)
	Ellipse(angleDeg, rx, ry float64)

	QuadRelative(cx, cy, x, y float64)
	QuadAbsolute(cx, cy, x, y float64)
	QuadSmooth(x, y float64)
	CubicRelative(x1, y1, x2, y2, x, y float64)
	CubicAbsolute(x1, y1, x2, y2, x, y float64)
	CubicSmoothRelative(x2, y2, x, y float64)
	CubicSmoothAbsolute(x2, y2, x, y float64)
	ClosePath()

	Newline()
	Space()

	PenUp()
	PenDown()
	PushState() error
	PopState() error

	PushMatrix()
	PopMatrix() error
	ApplyRotate(deg float64)
	ApplyScale(sx, sy float64)
	ApplyShear(shx, shy float64)
	ApplyReflect(deg float64)
	ApplyTranslate(dx, dy float64)
}

// builtinDef describes one reserved command name: its parameter count
// (all turtle commands take plain value parameters, never lambdas) and
// how to dispatch it against a live host.
type builtinDef struct {
	name   string
	arity  int
	invoke func(h TurtleHost, a []float64) error
}

// builtinTable is the fixed set of names reserved at parse time,
// mirroring the original Parser.cpp registration table for the turtle
// host's builtin commands.
var builtinTable = []builtinDef{
	{"d", 1, func(h TurtleHost, a []float64) error { h.Rotate(a[0]); return nil }},
	{"r", 1, func(h TurtleHost, a []float64) error { h.RotateRight(a[0]); return nil }},
	{"l", 1, func(h TurtleHost, a []float64) error { h.RotateLeft(a[0]); return nil }},
	{"aim", 1, func(h TurtleHost, a []float64) error { h.Aim(a[0]); return nil }},

	{"m", 2, func(h TurtleHost, a []float64) error { h.MoveRelative(a[0], a[1]); return nil }},
	{"M", 2, func(h TurtleHost, a []float64) error { h.MoveAbsolute(a[0], a[1]); return nil }},
	{"f", 1, func(h TurtleHost, a []float64) error { h.Forward(a[0]); return nil }},
	{"j", 2, func(h TurtleHost, a []float64) error { h.Jump(a[0], a[1]); return nil }},
	{"a", 2, func(h TurtleHost, a []float64) error { h.Arc(a[0], a[1]); return nil }},
	{"orbit", 2, func(h TurtleHost, a []float64) error { h.Orbit(a[0], a[1]); return nil }},
	{"ellipse", 3, func(h TurtleHost, a []float64) error { h.Ellipse(a[0], a[1], a[2]); return nil }},

	{"q", 4, func(h TurtleHost, a []float64) error { h.QuadRelative(a[0], a[1], a[2], a[3]); return nil }},
	{"Q", 4, func(h TurtleHost, a []float64) error { h.QuadAbsolute(a[0], a[1], a[2], a[3]); return nil }},
	{"t", 2, func(h TurtleHost, a []float64) error { h.QuadSmooth(a[0], a[1]); return nil }},
	{"c", 6, func(h TurtleHost, a []float64) error { h.CubicRelative(a[0], a[1], a[2], a[3], a[4], a[5]); return nil }},
	{"C", 6, func(h TurtleHost, a []float64) error { h.CubicAbsolute(a[0], a[1], a[2], a[3], a[4], a[5]); return nil }},
	{"s", 4, func(h TurtleHost, a []float64) error { h.CubicSmoothRelative(a[0], a[1], a[2], a[3]); return nil }},
	{"S", 4, func(h TurtleHost, a []float64) error { h.CubicSmoothAbsolute(a[0], a[1], a[2], a[3]); return nil }},
	{"z", 0, func(h TurtleHost, a []float64) error { h.ClosePath(); return nil }},

	{"nl", 0, func(h TurtleHost, a []float64) error { h.Newline(); return nil }},
	{"sp", 0, func(h TurtleHost, a []float64) error { h.Space(); return nil }},

	{"up", 0, func(h TurtleHost, a []float64) error { h.PenUp(); return nil }},
	{"down", 0, func(h TurtleHost, a []float64) error { h.PenDown(); return nil }},
	{"push", 0, func(h TurtleHost, a []float64) error { return h.PushState() }},
	{"pop", 0, func(h TurtleHost, a []float64) error { return h.PopState() }},
	{"push_matrix", 0, func(h TurtleHost, a []float64) error { h.PushMatrix(); return nil }},
	{"pop_matrix", 0, func(h TurtleHost, a []float64) error { return h.PopMatrix() }},

	{"rotation", 1, func(h TurtleHost, a []float64) error { h.ApplyRotate(a[0]); return nil }},
	{"scaling", 2, func(h TurtleHost, a []float64) error { h.ApplyScale(a[0], a[1]); return nil }},
	{"shearing", 2, func(h TurtleHost, a []float64) error { h.ApplyShear(a[0], a[1]); return nil }},
	{"reflection", 1, func(h TurtleHost, a []float64) error { h.ApplyReflect(a[0]); return nil }},
	{"translation", 2, func(h TurtleHost, a []float64) error { h.ApplyTranslate(a[0], a[1]); return nil }},

	// ah/ao/ha/ho/hb are right-triangle distance commands: given one
	// leg or the hypotenuse plus an angle, move forward by the
	// computed other side, the same way the original's adjacent_for_*/
	// hypotenuse_for_* methods call f() internally rather than
	// returning a pure value.
	{"ah", 2, func(h TurtleHost, a []float64) error { h.Forward(a[0] * math.Cos(a[1]*math.Pi/180)); return nil }},
	{"ao", 2, func(h TurtleHost, a []float64) error { h.Forward(a[0] / math.Tan(a[1]*math.Pi/180)); return nil }},
	{"ha", 2, func(h TurtleHost, a []float64) error { h.Forward(a[0] / math.Cos(a[1]*math.Pi/180)); return nil }},
	{"ho", 2, func(h TurtleHost, a []float64) error { h.Forward(a[0] / math.Sin(a[1]*math.Pi/180)); return nil }},
	{"hb", 2, func(h TurtleHost, a []float64) error { h.Forward(math.Hypot(a[0], a[1])); return nil }},
}
