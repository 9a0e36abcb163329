package turtlelang

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test001MatchSignaturePlainValues(t *testing.T) {
	cv.Convey("two plain value args should match a 'vv' signature", t, func() {
		args := []CallArg{{IsLambda: false}, {IsLambda: false}}
		cv.So(MatchSignature("vv", args), cv.ShouldBeTrue)
	})
}

func Test002MatchSignatureRejectsLambdaForValue(t *testing.T) {
	cv.Convey("a lambda argument should not satisfy a plain 'v' slot", t, func() {
		args := []CallArg{{IsLambda: true, Signature: "v"}}
		cv.So(MatchSignature("v", args), cv.ShouldBeFalse)
	})
}

func Test003MatchSignatureLambdaExactArity(t *testing.T) {
	cv.Convey("a lambda declared to take exactly two values should satisfy a (vv) slot", t, func() {
		args := []CallArg{{IsLambda: true, Signature: "vv"}}
		cv.So(MatchSignature("(vv)", args), cv.ShouldBeTrue)
	})
}

func Test004MatchSignatureLambdaAcceptingMoreThanRequired(t *testing.T) {
	cv.Convey("a lambda that accepts more values than the call site requires should still match", t, func() {
		args := []CallArg{{IsLambda: true, Signature: "vvv"}}
		cv.So(MatchSignature("(v)", args), cv.ShouldBeTrue)
	})
}

func Test005MatchSignatureLambdaTooFewValuesFails(t *testing.T) {
	cv.Convey("a lambda that accepts fewer values than required should fail to match", t, func() {
		args := []CallArg{{IsLambda: true, Signature: "v"}}
		cv.So(MatchSignature("(vv)", args), cv.ShouldBeFalse)
	})
}

func Test006MatchSignatureNestedLambdaParam(t *testing.T) {
	cv.Convey("a nested lambda-of-lambda signature should match structurally", t, func() {
		args := []CallArg{{IsLambda: true, Signature: "(vv)v"}}
		cv.So(MatchSignature("((vv)v)", args), cv.ShouldBeTrue)
	})
}

func Test007MatchSignatureTrailingExtraArgsPermitted(t *testing.T) {
	cv.Convey("extra trailing call-site args beyond the declared signature are allowed", t, func() {
		args := []CallArg{{IsLambda: false}, {IsLambda: false}}
		cv.So(MatchSignature("v", args), cv.ShouldBeTrue)
	})
}
