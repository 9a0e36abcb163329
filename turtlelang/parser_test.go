package turtlelang

import (
	"fmt"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

// fakeHost is a minimal TurtleHost recording every call made to it, for
// end-to-end parser/runtime assertions that don't need a real drawing
// engine.
type fakeHost struct {
	calls []string
}

func (h *fakeHost) log(format string, a ...interface{}) {
	h.calls = append(h.calls, fmt.Sprintf(format, a...))
}

func (h *fakeHost) X() float64   { return 0 }
func (h *fakeHost) Y() float64   { return 0 }
func (h *fakeHost) Dir() float64 { return 0 }

func (h *fakeHost) Rotate(d float64)      { h.log("d %v", d) }
func (h *fakeHost) RotateRight(d float64) { h.log("r %v", d) }
func (h *fakeHost) RotateLeft(d float64)  { h.log("l %v", d) }
func (h *fakeHost) Aim(d float64)         { h.log("aim %v", d) }

func (h *fakeHost) MoveRelative(dx, dy float64) { h.log("m %v %v", dx, dy) }
func (h *fakeHost) MoveAbsolute(x, y float64)   { h.log("M %v %v", x, y) }
func (h *fakeHost) Forward(dist float64)        { h.log("f %v", dist) }
func (h *fakeHost) Jump(dx, dy float64)         { h.log("jump %v %v", dx, dy) }
func (h *fakeHost) Arc(a, r float64)            { h.log("arc %v %v", a, r) }
func (h *fakeHost) Orbit(a, r float64)          { h.log("orbit %v %v", a, r) }
func (h *fakeHost) Ellipse(a, rx, ry float64)   { h.log("ellipse %v %v %v", a, rx, ry) }

func (h *fakeHost) QuadRelative(cx, cy, x, y float64)          { h.log("q %v %v %v %v", cx, cy, x, y) }
func (h *fakeHost) QuadAbsolute(cx, cy, x, y float64)          { h.log("Q %v %v %v %v", cx, cy, x, y) }
func (h *fakeHost) QuadSmooth(x, y float64)                    { h.log("t %v %v", x, y) }
func (h *fakeHost) CubicRelative(x1, y1, x2, y2, x, y float64) { h.log("c") }
func (h *fakeHost) CubicAbsolute(x1, y1, x2, y2, x, y float64) { h.log("C") }
func (h *fakeHost) CubicSmoothRelative(x2, y2, x, y float64)   { h.log("s") }
func (h *fakeHost) CubicSmoothAbsolute(x2, y2, x, y float64)   { h.log("S") }
func (h *fakeHost) ClosePath()                                 { h.log("z") }

func (h *fakeHost) Newline() { h.log("nl") }
func (h *fakeHost) Space()   { h.log("sp") }

func (h *fakeHost) PenUp()   { h.log("pen_up") }
func (h *fakeHost) PenDown() { h.log("pen_down") }
func (h *fakeHost) PushState() error { h.log("push"); return nil }
func (h *fakeHost) PopState() error  { h.log("pop"); return nil }

func (h *fakeHost) PushMatrix()            { h.log("push_matrix") }
func (h *fakeHost) PopMatrix() error       { h.log("pop_matrix"); return nil }
func (h *fakeHost) ApplyRotate(d float64)    { h.log("rotate %v", d) }
func (h *fakeHost) ApplyScale(x, y float64)  { h.log("scale %v %v", x, y) }
func (h *fakeHost) ApplyShear(x, y float64)  { h.log("shear %v %v", x, y) }
func (h *fakeHost) ApplyReflect(d float64)   { h.log("reflect %v", d) }
func (h *fakeHost) ApplyTranslate(x, y float64) { h.log("translate %v %v", x, y) }

func run(t *testing.T, src string) (*fakeHost, error) {
	eng := NewEngine()
	mainIdx, err := ParseProgram(eng, nil, "test", src)
	if err != nil {
		return nil, err
	}
	host := &fakeHost{}
	rt := NewRuntime(eng.Chunks, host, nil)
	return host, rt.ExecuteMain(mainIdx)
}

func Test001SimpleForwardProgram(t *testing.T) {
	cv.Convey("a bare `f 10` should call Forward once, with no parens around the argument", t, func() {
		host, err := run(t, "f 10")
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 10"})
	})
}

func Test001bMultipleSpaceSeparatedCommandsOnOneLine(t *testing.T) {
	cv.Convey("`m 10 0 m 0 10 z` should run three commands, args bound purely by arity", t, func() {
		host, err := run(t, "m 10 0 m 0 10 z")
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"m 10 0", "m 0 10", "z"})
	})
}

func Test002ConditionalRunsThenBranch(t *testing.T) {
	cv.Convey("if with a truthy constant condition should run the then-branch only", t, func() {
		host, err := run(t, "if 1 { f 1 } else { f 2 }")
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 1"})
	})
}

func Test003ForLoopRangeIsInclusiveAscending(t *testing.T) {
	cv.Convey("for i = 1..3 should run the body 3 times with i = 1, 2, 3", t, func() {
		host, err := run(t, "for i = 1..3 { f i }")
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 1", "f 2", "f 3"})
	})
}

func Test004ForLoopDescendingIgnoresPositiveStepSign(t *testing.T) {
	cv.Convey("for i = 5..1..1 should descend even with a positive step magnitude", t, func() {
		host, err := run(t, "for i = 5..1..1 { f i }")
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 5", "f 4", "f 3", "f 2", "f 1"})
	})
}

func Test005BareCountForLoopTruncates(t *testing.T) {
	cv.Convey("for 3.9 should run exactly 3 times (truncated toward zero)", t, func() {
		host, err := run(t, "for 3.9 { f 1 }")
		cv.So(err, cv.ShouldBeNil)
		cv.So(len(host.calls), cv.ShouldEqual, 3)
	})
}

func Test006DefAndCallNamedFunction(t *testing.T) {
	cv.Convey("defining and calling a named function should run its body", t, func() {
		host, err := run(t, `
def square(n) {
  f n
}
square 7
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 7"})
	})
}

func Test007ClosureCapturesEnclosingValue(t *testing.T) {
	cv.Convey("a def body should see a value defined before it in the enclosing scope", t, func() {
		host, err := run(t, `
x = 5
def useX() {
  f x
}
useX
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 5"})
	})
}

func Test008SelfRecursiveFunctionTerminates(t *testing.T) {
	cv.Convey("a self-recursive function with a base case should terminate and unwind cleanly", t, func() {
		host, err := run(t, `
def countdown(n) {
  f n
  if n > 0 {
    countdown n - 1
  }
}
countdown 3
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 3", "f 2", "f 1", "f 0"})
	})
}

func Test009UndefinedNameIsACompileError(t *testing.T) {
	cv.Convey("calling an undefined name should fail to parse with UndefinedNameError", t, func() {
		_, err := run(t, "doesNotExist 1")
		cv.So(err, cv.ShouldNotBeNil)
		_, ok := err.(*UndefinedNameError)
		cv.So(ok, cv.ShouldBeTrue)
	})
}

func Test010LambdaParameterCallsThroughDynamicDispatch(t *testing.T) {
	cv.Convey("passing a named function as a lambda argument should call through it dynamically", t, func() {
		host, err := run(t, `
def triple(n) {
  f n
}
def apply(cb(a) v) {
  cb v
}
apply triple 9
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 9"})
	})
}

func Test011LambdaLiteralArgumentRunsInline(t *testing.T) {
	cv.Convey("`twice { f 5 }` should pass an anonymous zero-param lambda and run it twice", t, func() {
		host, err := run(t, `
def twice(cb()) {
  cb
  cb
}
twice { f 5 }
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 5", "f 5"})
	})
}

func Test012LambdaLiteralWithParamsCapturesArgument(t *testing.T) {
	cv.Convey("a lambda literal with `=> (params)` should receive the caller's argument", t, func() {
		host, err := run(t, `
def withValue(cb(a) v) {
  cb v
}
withValue { => (n) f n } 9
`)
		cv.So(err, cv.ShouldBeNil)
		cv.So(host.calls, cv.ShouldResemble, []string{"f 9"})
	})
}
