package turtlelang

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test001LexerTokenizesBasicProgram(t *testing.T) {
	cv.Convey("lexing a short program should yield the expected token kinds", t, func() {
		lx := NewLexer("test", "x = 1 + 2\nf(x)")
		var kinds []TokenKind
		for {
			tok, err := lx.Next()
			cv.So(err, cv.ShouldBeNil)
			kinds = append(kinds, tok.Kind)
			if tok.Kind == TokEOF {
				break
			}
		}
		expected := []TokenKind{
			TokIdent, TokAssign, TokNumber, TokPlus, TokNumber,
			TokIdent, TokLParen, TokIdent, TokRParen, TokEOF,
		}
		cv.So(kinds, cv.ShouldResemble, expected)
	})
}

func Test002LexerSkipsLineComments(t *testing.T) {
	cv.Convey("a # comment should be skipped entirely", t, func() {
		lx := NewLexer("test", "x = 1 # trailing comment\n")
		tok, err := lx.Next()
		cv.So(err, cv.ShouldBeNil)
		cv.So(tok.Kind, cv.ShouldEqual, TokIdent)
		_, _ = lx.Next() // =
		numTok, err := lx.Next()
		cv.So(err, cv.ShouldBeNil)
		cv.So(numTok.Num, cv.ShouldEqual, 1)
		eofTok, err := lx.Next()
		cv.So(err, cv.ShouldBeNil)
		cv.So(eofTok.Kind, cv.ShouldEqual, TokEOF)
	})
}

func Test003LexerPeekDoesNotConsume(t *testing.T) {
	cv.Convey("Peek should return the same token Next later returns", t, func() {
		lx := NewLexer("test", "abc")
		p, err := lx.Peek()
		cv.So(err, cv.ShouldBeNil)
		n, err := lx.Next()
		cv.So(err, cv.ShouldBeNil)
		cv.So(p, cv.ShouldResemble, n)
	})
}

func Test004LexerRecognizesTwoCharOperators(t *testing.T) {
	cv.Convey("&&, ||, ==, !=, <=, >=, .., =>, ** should lex as single tokens", t, func() {
		lx := NewLexer("test", "&& || == != <= >= .. => **")
		var kinds []TokenKind
		for {
			tok, err := lx.Next()
			cv.So(err, cv.ShouldBeNil)
			if tok.Kind == TokEOF {
				break
			}
			kinds = append(kinds, tok.Kind)
		}
		cv.So(kinds, cv.ShouldResemble, []TokenKind{
			TokAndAnd, TokOrOr, TokEq, TokNotEq, TokLessEq, TokGreaterEq, TokDotDot, TokArrow, TokStarStar,
		})
	})
}

func Test005LexerKeywords(t *testing.T) {
	cv.Convey("reserved words should lex as keyword tokens, not identifiers", t, func() {
		lx := NewLexer("test", "import def if else for turtle unique breakpoint")
		var kinds []TokenKind
		for {
			tok, err := lx.Next()
			cv.So(err, cv.ShouldBeNil)
			if tok.Kind == TokEOF {
				break
			}
			kinds = append(kinds, tok.Kind)
		}
		cv.So(kinds, cv.ShouldResemble, []TokenKind{
			TokImport, TokDef, TokIf, TokElse, TokFor, TokTurtle, TokUnique, TokBreakpoint,
		})
	})
}
