package turtle

import (
	"fmt"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

// recordingSink is a PathSink that just remembers every call made to
// it, for assertions, without depending on svgpath.
type recordingSink struct {
	calls []string
}

func (r *recordingSink) MoveTo(x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("M %.2f %.2f", x, y))
}
func (r *recordingSink) LineTo(x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("L %.2f %.2f", x, y))
}
func (r *recordingSink) QuadTo(cx, cy, x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("Q %.2f %.2f %.2f %.2f", cx, cy, x, y))
}
func (r *recordingSink) QuadSmoothTo(x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("T %.2f %.2f", x, y))
}
func (r *recordingSink) CubicTo(x1, y1, x2, y2, x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("C %.2f %.2f %.2f %.2f %.2f %.2f", x1, y1, x2, y2, x, y))
}
func (r *recordingSink) CubicSmoothTo(x2, y2, x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("S %.2f %.2f %.2f %.2f", x2, y2, x, y))
}
func (r *recordingSink) ClosePath() { r.calls = append(r.calls, "Z") }
func (r *recordingSink) Newline()   { r.calls = append(r.calls, "\\n") }
func (r *recordingSink) Space()     { r.calls = append(r.calls, " ") }

func Test001ForwardMovesAlongHeading(t *testing.T) {
	cv.Convey("Forward along heading 0 should move along +x only", t, func() {
		sink := &recordingSink{}
		tr := New(sink)
		tr.PenDown()
		tr.Forward(10) // first-ever move is always an implicit M
		tr.Forward(5)
		cv.So(tr.X(), cv.ShouldAlmostEqual, 15, 0.0001)
		cv.So(tr.Y(), cv.ShouldAlmostEqual, 0, 0.0001)
		cv.So(sink.calls[0], cv.ShouldEqual, "M 10.00 0.00")
		cv.So(sink.calls[1], cv.ShouldEqual, "L 15.00 0.00")
	})
}

func Test002JumpRestoresPenState(t *testing.T) {
	cv.Convey("Jump should not draw even when the pen is down, and restore pen-down after", t, func() {
		sink := &recordingSink{}
		tr := New(sink)
		tr.PenDown()
		tr.Jump(5, 5)
		cv.So(sink.calls[0], cv.ShouldEqual, "M 5.00 5.00")
		tr.Forward(1)
		cv.So(sink.calls[1], cv.ShouldEqual, "L 6.00 5.00")
	})
}

func Test003PushPopStateRoundTrips(t *testing.T) {
	cv.Convey("push/pop should restore position, heading, and pen state", t, func() {
		sink := &recordingSink{}
		tr := New(sink)
		tr.Aim(90)
		tr.PushState()
		tr.Aim(180)
		tr.MoveAbsolute(50, 50)
		err := tr.PopState()
		cv.So(err, cv.ShouldBeNil)
		cv.So(tr.Dir(), cv.ShouldEqual, 90)
		cv.So(tr.X(), cv.ShouldEqual, 0)
	})
}

func Test004PopStateUnderflowErrors(t *testing.T) {
	cv.Convey("popping an empty state stack should error", t, func() {
		tr := New(&recordingSink{})
		err := tr.PopState()
		cv.So(err, cv.ShouldNotBeNil)
	})
}

func Test005PopMatrixUnderflowErrors(t *testing.T) {
	cv.Convey("popping the base matrix should error", t, func() {
		tr := New(&recordingSink{})
		err := tr.PopMatrix()
		cv.So(err, cv.ShouldNotBeNil)
	})
}

func Test006TranslateMatrixAffectsDrawnCoordinatesNotLogicalPosition(t *testing.T) {
	cv.Convey("rendering-matrix translate should shift emitted points but not turtle.x/turtle.y", t, func() {
		sink := &recordingSink{}
		tr := New(sink)
		tr.ApplyTranslate(100, 0)
		tr.PenDown()
		tr.MoveAbsolute(1, 1)
		cv.So(tr.X(), cv.ShouldEqual, 1)
		cv.So(tr.Y(), cv.ShouldEqual, 1)
		cv.So(sink.calls[0], cv.ShouldEqual, "M 101.00 1.00")
	})
}

func Test007ArcEndsAtRotatedHeading(t *testing.T) {
	cv.Convey("an arc of 90 degrees should leave the turtle facing 90 degrees further", t, func() {
		tr := New(&recordingSink{})
		tr.Arc(90, 10)
		cv.So(tr.Dir(), cv.ShouldAlmostEqual, 90, 0.01)
	})
}

func Test008OrbitMovesWithoutDrawing(t *testing.T) {
	cv.Convey("orbit should reposition without ever touching the sink", t, func() {
		sink := &recordingSink{}
		tr := New(sink)
		tr.PenDown()
		tr.Orbit(90, 10)
		cv.So(len(sink.calls), cv.ShouldEqual, 0)
		cv.So(tr.Dir(), cv.ShouldAlmostEqual, 90, 0.01)
	})
}

func Test009ClosePathReturnsToSubpathStart(t *testing.T) {
	cv.Convey("z should return the turtle to the start of the current subpath", t, func() {
		sink := &recordingSink{}
		tr := New(sink)
		tr.MoveAbsolute(3, 4)
		tr.PenDown()
		tr.MoveAbsolute(10, 10)
		tr.ClosePath()
		cv.So(tr.X(), cv.ShouldEqual, 3)
		cv.So(tr.Y(), cv.ShouldEqual, 4)
	})
}
