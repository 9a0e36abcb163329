package turtlelang

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test001FrameStackPushFramePopFrame(t *testing.T) {
	cv.Convey("pushing a frame should reclaim the top argsSize values and isolate them", t, func() {
		fs := NewFrameStack[float64]()
		cv.So(fs.Push(1), cv.ShouldBeNil)
		cv.So(fs.Push(2), cv.ShouldBeNil)
		cv.So(fs.PushFrame(2, 2), cv.ShouldBeNil)
		cv.So(fs.FrameSize(), cv.ShouldEqual, 2)
		cv.So(fs.At(0), cv.ShouldEqual, float64(1))
		cv.So(fs.At(1), cv.ShouldEqual, float64(2))
		popped := fs.PopFrame()
		cv.So(popped, cv.ShouldEqual, 2)
		cv.So(fs.StackSize(), cv.ShouldEqual, 0)
	})
}

func Test002FrameStackNegativeOffsetReadsBelowFrame(t *testing.T) {
	cv.Convey("At(-1) should read the closure-position slot just below the frame start", t, func() {
		fs := NewFrameStack[float64]()
		cv.So(fs.Push(42), cv.ShouldBeNil) // closure position
		cv.So(fs.Push(7), cv.ShouldBeNil)  // one real arg
		cv.So(fs.PushFrame(1, 1), cv.ShouldBeNil)
		cv.So(fs.At(-1), cv.ShouldEqual, float64(42))
		cv.So(fs.At(0), cv.ShouldEqual, float64(7))
	})
}

func Test003FrameStackGlobalReadWrite(t *testing.T) {
	cv.Convey("ReadGlobal/SetGlobal should address absolute stack positions", t, func() {
		fs := NewFrameStack[float64]()
		cv.So(fs.Push(10), cv.ShouldBeNil)
		cv.So(fs.Push(20), cv.ShouldBeNil)
		fs.SetGlobal(0, 99)
		cv.So(fs.ReadGlobal(0), cv.ShouldEqual, float64(99))
		cv.So(fs.ReadGlobal(1), cv.ShouldEqual, float64(20))
	})
}

func Test004FrameStackAbsolutePosTracksCaptureListStart(t *testing.T) {
	cv.Convey("AbsolutePos should report where a value pushed right now would land", t, func() {
		fs := NewFrameStack[float64]()
		cv.So(fs.AbsolutePos(), cv.ShouldEqual, 0)
		cv.So(fs.Push(1), cv.ShouldBeNil)
		cv.So(fs.AbsolutePos(), cv.ShouldEqual, 1)
	})
}

func Test006FrameStackPushFrameTruncatesExcessArguments(t *testing.T) {
	cv.Convey("PushFrame should truncate argsSize down to paramsSize, discarding the extra slots", t, func() {
		fs := NewFrameStack[float64]()
		cv.So(fs.Push(10), cv.ShouldBeNil)
		cv.So(fs.Push(20), cv.ShouldBeNil)
		cv.So(fs.Push(30), cv.ShouldBeNil)
		cv.So(fs.PushFrame(3, 1), cv.ShouldBeNil)
		cv.So(fs.FrameSize(), cv.ShouldEqual, 1)
		cv.So(fs.At(0), cv.ShouldEqual, float64(10))
		cv.So(fs.Push(99), cv.ShouldBeNil) // a local declared after the truncated params
		cv.So(fs.At(1), cv.ShouldEqual, float64(99))
		popped := fs.PopFrame()
		cv.So(popped, cv.ShouldEqual, 2)
		cv.So(fs.StackSize(), cv.ShouldEqual, 0)
	})
}

func Test005FrameStackEmptyFrameDepth(t *testing.T) {
	cv.Convey("PushEmptyFrame/PopFrame should nest independent of locals content", t, func() {
		fs := NewFrameStack[float64]()
		cv.So(fs.Depth(), cv.ShouldEqual, 1)
		cv.So(fs.PushEmptyFrame(), cv.ShouldBeNil)
		cv.So(fs.Depth(), cv.ShouldEqual, 2)
		cv.So(fs.PopFrame(), cv.ShouldEqual, 0)
		cv.So(fs.Depth(), cv.ShouldEqual, 1)
	})
}
