package turtle

import (
	"fmt"
	"math"
)

// PathSink receives the absolute (already transformed) path
// geometry a Turtle produces. svgpath.Emitter implements this;
// turtle never imports svgpath directly, so the two packages can be
// tested independently.
type PathSink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	QuadSmoothTo(x, y float64)
	CubicTo(x1, y1, x2, y2, x, y float64)
	CubicSmoothTo(x2, y2, x, y float64)
	ClosePath()
	Newline()
	Space()
}

type savedState struct {
	x, y, dir float64
	penUp     bool
}

// Turtle is the drawing-side state machine: logical position and
// heading (independent of any transform), pen state, a saved
// position/heading stack (push/pop), and an affine transform stack
// (push_matrix/pop_matrix) that only affects how moves are projected
// onto the PathSink, never the turtle's own idea of where it is.
type Turtle struct {
	x, y, dir float64
	penUp     bool
	hasMoved  bool
	subStartX float64
	subStartY float64

	sink PathSink

	matrixStack []Matrix2d
	stateStack  []savedState
}

func New(sink PathSink) *Turtle {
	return &Turtle{sink: sink, matrixStack: []Matrix2d{Identity()}}
}

func (t *Turtle) X() float64   { return t.x }
func (t *Turtle) Y() float64   { return t.y }
func (t *Turtle) Dir() float64 { return t.dir }

func (t *Turtle) currentMatrix() Matrix2d {
	return t.matrixStack[len(t.matrixStack)-1]
}

// ---- heading ----

func (t *Turtle) Rotate(delta float64)      { t.dir += delta }
func (t *Turtle) RotateRight(delta float64) { t.dir -= delta }
func (t *Turtle) RotateLeft(delta float64)  { t.dir += delta }
func (t *Turtle) Aim(heading float64)       { t.dir = heading }

// ---- movement ----

func (t *Turtle) Forward(dist float64) {
	rad := t.dir * math.Pi / 180
	t.MoveRelative(dist*math.Cos(rad), dist*math.Sin(rad))
}

func (t *Turtle) MoveRelative(dx, dy float64) {
	t.moveTo(t.x+dx, t.y+dy)
}

func (t *Turtle) MoveAbsolute(x, y float64) {
	t.moveTo(x, y)
}

func (t *Turtle) moveTo(nx, ny float64) {
	tx, ty := t.currentMatrix().Apply(nx, ny)
	if t.penUp || !t.hasMoved {
		t.sink.MoveTo(tx, ty)
		t.subStartX, t.subStartY = nx, ny
	} else {
		t.sink.LineTo(tx, ty)
	}
	t.x, t.y = nx, ny
	t.hasMoved = true
}

// Jump repositions without drawing, restoring the pen state
// afterward -- the MoveCalcRAII pattern: pen up, move, pen back down.
func (t *Turtle) Jump(dx, dy float64) {
	was := t.penUp
	t.penUp = true
	t.MoveRelative(dx, dy)
	t.penUp = was
}

// arcStep subdivides a circular arc of the given angle (degrees) and
// radius into short chords, updating heading continuously so the
// turtle ends facing dir+angle. When draw is false, position and
// heading update silently with no PathSink calls at all -- used by
// Orbit, which repositions without leaving a mark regardless of pen
// state.
func (t *Turtle) arcStep(angleDeg, radius float64, draw bool) {
	if angleDeg == 0 || radius == 0 {
		return
	}
	steps := int(math.Abs(angleDeg)/5) + 1
	dTheta := angleDeg / float64(steps)
	for i := 0; i < steps; i++ {
		dStepRad := dTheta * math.Pi / 180
		chord := 2 * radius * math.Sin(dStepRad/2)
		midDir := t.dir + dTheta/2
		midRad := midDir * math.Pi / 180
		dx := chord * math.Cos(midRad)
		dy := chord * math.Sin(midRad)
		t.dir += dTheta
		if draw {
			t.MoveRelative(dx, dy)
		} else {
			t.x += dx
			t.y += dy
		}
	}
}

func (t *Turtle) Arc(angleDeg, radius float64) {
	t.arcStep(angleDeg, radius, true)
}

func (t *Turtle) Orbit(angleDeg, radius float64) {
	t.arcStep(angleDeg, radius, false)
}

// Ellipse traces an elliptical arc by parametrizing the two radii
// independently about the turtle's current heading, approximated the
// same way Arc is: short chords, continuously updated heading.
func (t *Turtle) Ellipse(angleDeg, rx, ry float64) {
	if angleDeg == 0 {
		return
	}
	startDir := t.dir
	steps := int(math.Abs(angleDeg)/5) + 1
	dTheta := angleDeg / float64(steps)
	prevLocalX, prevLocalY := 0.0, 0.0
	for i := 1; i <= steps; i++ {
		theta := dTheta * float64(i) * math.Pi / 180
		localX := rx * math.Sin(theta)
		localY := ry * (1 - math.Cos(theta))
		dx := localX - prevLocalX
		dy := localY - prevLocalY
		prevLocalX, prevLocalY = localX, localY
		rad := startDir * math.Pi / 180
		c, s := math.Cos(rad), math.Sin(rad)
		wx := dx*c - dy*s
		wy := dx*s + dy*c
		t.MoveRelative(wx, wy)
	}
	t.dir = startDir + angleDeg
}

// ---- SVG-flavored path primitives ----

func (t *Turtle) QuadRelative(cx, cy, x, y float64) {
	tcx, tcy := t.currentMatrix().Apply(t.x+cx, t.y+cy)
	tx, ty := t.currentMatrix().Apply(t.x+x, t.y+y)
	t.sink.QuadTo(tcx, tcy, tx, ty)
	t.x, t.y = t.x+x, t.y+y
	t.hasMoved = true
}

func (t *Turtle) QuadAbsolute(cx, cy, x, y float64) {
	tcx, tcy := t.currentMatrix().Apply(cx, cy)
	tx, ty := t.currentMatrix().Apply(x, y)
	t.sink.QuadTo(tcx, tcy, tx, ty)
	t.x, t.y = x, y
	t.hasMoved = true
}

func (t *Turtle) QuadSmooth(x, y float64) {
	tx, ty := t.currentMatrix().Apply(t.x+x, t.y+y)
	t.sink.QuadSmoothTo(tx, ty)
	t.x, t.y = t.x+x, t.y+y
	t.hasMoved = true
}

func (t *Turtle) CubicRelative(x1, y1, x2, y2, x, y float64) {
	tx1, ty1 := t.currentMatrix().Apply(t.x+x1, t.y+y1)
	tx2, ty2 := t.currentMatrix().Apply(t.x+x2, t.y+y2)
	tx, ty := t.currentMatrix().Apply(t.x+x, t.y+y)
	t.sink.CubicTo(tx1, ty1, tx2, ty2, tx, ty)
	t.x, t.y = t.x+x, t.y+y
	t.hasMoved = true
}

func (t *Turtle) CubicAbsolute(x1, y1, x2, y2, x, y float64) {
	tx1, ty1 := t.currentMatrix().Apply(x1, y1)
	tx2, ty2 := t.currentMatrix().Apply(x2, y2)
	tx, ty := t.currentMatrix().Apply(x, y)
	t.sink.CubicTo(tx1, ty1, tx2, ty2, tx, ty)
	t.x, t.y = x, y
	t.hasMoved = true
}

func (t *Turtle) CubicSmoothRelative(x2, y2, x, y float64) {
	tx2, ty2 := t.currentMatrix().Apply(t.x+x2, t.y+y2)
	tx, ty := t.currentMatrix().Apply(t.x+x, t.y+y)
	t.sink.CubicSmoothTo(tx2, ty2, tx, ty)
	t.x, t.y = t.x+x, t.y+y
	t.hasMoved = true
}

func (t *Turtle) CubicSmoothAbsolute(x2, y2, x, y float64) {
	tx2, ty2 := t.currentMatrix().Apply(x2, y2)
	tx, ty := t.currentMatrix().Apply(x, y)
	t.sink.CubicSmoothTo(tx2, ty2, tx, ty)
	t.x, t.y = x, y
	t.hasMoved = true
}

func (t *Turtle) ClosePath() {
	t.sink.ClosePath()
	t.x, t.y = t.subStartX, t.subStartY
}

func (t *Turtle) Newline() { t.sink.Newline() }
func (t *Turtle) Space()   { t.sink.Space() }

// ---- pen & stacks ----

func (t *Turtle) PenUp()   { t.penUp = true }
func (t *Turtle) PenDown() { t.penUp = false }

func (t *Turtle) PushState() error {
	t.stateStack = append(t.stateStack, savedState{x: t.x, y: t.y, dir: t.dir, penUp: t.penUp})
	return nil
}

func (t *Turtle) PopState() error {
	if len(t.stateStack) == 0 {
		return &EmptyStackError{What: "turtle state"}
	}
	s := t.stateStack[len(t.stateStack)-1]
	t.stateStack = t.stateStack[:len(t.stateStack)-1]
	t.x, t.y, t.dir, t.penUp = s.x, s.y, s.dir, s.penUp
	return nil
}

func (t *Turtle) PushMatrix() {
	t.matrixStack = append(t.matrixStack, t.currentMatrix())
}

func (t *Turtle) PopMatrix() error {
	if len(t.matrixStack) <= 1 {
		return &EmptyStackError{What: "matrix"}
	}
	t.matrixStack = t.matrixStack[:len(t.matrixStack)-1]
	return nil
}

func (t *Turtle) ApplyRotate(deg float64) {
	m := t.currentMatrix()
	m.Combine(Rotation(deg))
	t.matrixStack[len(t.matrixStack)-1] = m
}

func (t *Turtle) ApplyScale(sx, sy float64) {
	m := t.currentMatrix()
	m.Combine(Scaling(sx, sy))
	t.matrixStack[len(t.matrixStack)-1] = m
}

func (t *Turtle) ApplyShear(shx, shy float64) {
	m := t.currentMatrix()
	m.Combine(Shearing(shx, shy))
	t.matrixStack[len(t.matrixStack)-1] = m
}

func (t *Turtle) ApplyReflect(deg float64) {
	m := t.currentMatrix()
	m.Combine(Reflection(deg))
	t.matrixStack[len(t.matrixStack)-1] = m
}

func (t *Turtle) ApplyTranslate(dx, dy float64) {
	m := t.currentMatrix()
	m.Combine(Translation(dx, dy))
	t.matrixStack[len(t.matrixStack)-1] = m
}

// EmptyStackError reports popping a turtle-state or matrix stack that
// has nothing left on it.
type EmptyStackError struct{ What string }

func (e *EmptyStackError) Error() string {
	return fmt.Sprintf("%s stack is empty", e.What)
}
