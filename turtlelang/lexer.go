package turtlelang

import (
	"fmt"
	"strconv"
	"strings"
)

// Lexer turns source text into a flat token stream. It matches the
// teacher's hand-rolled scanner style (zygo/lexer.go): no external
// tokenizer library, rune-at-a-time with a one-token lookahead buffer.
type Lexer struct {
	src   []rune
	pos   int
	line  int
	col   int
	file  string
	peekd *Token
}

func NewLexer(file, src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1, col: 1, file: file}
}

func (lx *Lexer) errf(format string, args ...interface{}) error {
	return &CompileError{File: lx.file, Line: lx.line, Col: lx.col, Kind: "lex", Msg: fmt.Sprintf(format, args...)}
}

func (lx *Lexer) cur() rune {
	if lx.pos >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *Lexer) at(off int) rune {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *Lexer) advance() rune {
	r := lx.cur()
	lx.pos++
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *Lexer) skipSpaceAndComments() {
	for {
		switch lx.cur() {
		case ' ', '\t', '\r', '\n':
			lx.advance()
		case '#':
			for lx.cur() != '\n' && lx.cur() != 0 {
				lx.advance()
			}
		default:
			return
		}
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() (Token, error) {
	if lx.peekd != nil {
		return *lx.peekd, nil
	}
	t, err := lx.scan()
	if err != nil {
		return Token{}, err
	}
	lx.peekd = &t
	return t, nil
}

// Next consumes and returns the next token.
func (lx *Lexer) Next() (Token, error) {
	if lx.peekd != nil {
		t := *lx.peekd
		lx.peekd = nil
		return t, nil
	}
	return lx.scan()
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (lx *Lexer) scan() (Token, error) {
	lx.skipSpaceAndComments()
	line, col := lx.line, lx.col
	r := lx.cur()
	if r == 0 {
		return Token{Kind: TokEOF, Line: line, Col: col}, nil
	}

	switch {
	case isIdentStart(r):
		start := lx.pos
		for isIdentCont(lx.cur()) {
			lx.advance()
		}
		text := string(lx.src[start:lx.pos])
		if kw, ok := keywords[text]; ok {
			return Token{Kind: kw, Text: text, Line: line, Col: col}, nil
		}
		return Token{Kind: TokIdent, Text: text, Line: line, Col: col}, nil

	case isDigit(r) || (r == '.' && isDigit(lx.at(1))):
		start := lx.pos
		for isDigit(lx.cur()) {
			lx.advance()
		}
		if lx.cur() == '.' && lx.at(1) != '.' {
			lx.advance()
			for isDigit(lx.cur()) {
				lx.advance()
			}
		}
		if lx.cur() == 'e' || lx.cur() == 'E' {
			save := lx.pos
			lx.advance()
			if lx.cur() == '+' || lx.cur() == '-' {
				lx.advance()
			}
			if isDigit(lx.cur()) {
				for isDigit(lx.cur()) {
					lx.advance()
				}
			} else {
				lx.pos = save
			}
		}
		text := string(lx.src[start:lx.pos])
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, lx.errf("invalid number literal %q", text)
		}
		return Token{Kind: TokNumber, Text: text, Num: v, Line: line, Col: col}, nil

	case r == '"':
		lx.advance()
		var sb strings.Builder
		for lx.cur() != '"' {
			if lx.cur() == 0 {
				return Token{}, lx.errf("unterminated string literal")
			}
			c := lx.advance()
			if c == '\\' {
				e := lx.advance()
				switch e {
				case 'n':
					sb.WriteRune('\n')
				case 't':
					sb.WriteRune('\t')
				case '"':
					sb.WriteRune('"')
				case '\\':
					sb.WriteRune('\\')
				default:
					sb.WriteRune(e)
				}
				continue
			}
			sb.WriteRune(c)
		}
		lx.advance()
		return Token{Kind: TokString, Text: sb.String(), Line: line, Col: col}, nil

	case r == '(':
		lx.advance()
		return Token{Kind: TokLParen, Text: "(", Line: line, Col: col}, nil
	case r == ')':
		lx.advance()
		return Token{Kind: TokRParen, Text: ")", Line: line, Col: col}, nil
	case r == '{':
		lx.advance()
		return Token{Kind: TokLBrace, Text: "{", Line: line, Col: col}, nil
	case r == '}':
		lx.advance()
		return Token{Kind: TokRBrace, Text: "}", Line: line, Col: col}, nil
	case r == '?':
		lx.advance()
		return Token{Kind: TokQuestion, Text: "?", Line: line, Col: col}, nil
	case r == ':':
		lx.advance()
		return Token{Kind: TokColon, Text: ":", Line: line, Col: col}, nil
	case r == '.':
		lx.advance()
		if lx.cur() == '.' {
			lx.advance()
			if lx.cur() == '.' {
				lx.advance()
				return Token{Kind: TokEllipsis, Text: "...", Line: line, Col: col}, nil
			}
			return Token{Kind: TokDotDot, Text: "..", Line: line, Col: col}, nil
		}
		return Token{Kind: TokDot, Text: ".", Line: line, Col: col}, nil
	case r == '+':
		lx.advance()
		return Token{Kind: TokPlus, Text: "+", Line: line, Col: col}, nil
	case r == '-':
		lx.advance()
		return Token{Kind: TokMinus, Text: "-", Line: line, Col: col}, nil
	case r == '*':
		lx.advance()
		if lx.cur() == '*' {
			lx.advance()
			return Token{Kind: TokStarStar, Text: "**", Line: line, Col: col}, nil
		}
		return Token{Kind: TokStar, Text: "*", Line: line, Col: col}, nil
	case r == '/':
		lx.advance()
		return Token{Kind: TokSlash, Text: "/", Line: line, Col: col}, nil
	case r == '!':
		lx.advance()
		if lx.cur() == '=' {
			lx.advance()
			return Token{Kind: TokNotEq, Text: "!=", Line: line, Col: col}, nil
		}
		return Token{Kind: TokBang, Text: "!", Line: line, Col: col}, nil
	case r == '<':
		lx.advance()
		if lx.cur() == '=' {
			lx.advance()
			return Token{Kind: TokLessEq, Text: "<=", Line: line, Col: col}, nil
		}
		return Token{Kind: TokLess, Text: "<", Line: line, Col: col}, nil
	case r == '>':
		lx.advance()
		if lx.cur() == '=' {
			lx.advance()
			return Token{Kind: TokGreaterEq, Text: ">=", Line: line, Col: col}, nil
		}
		return Token{Kind: TokGreater, Text: ">", Line: line, Col: col}, nil
	case r == '=':
		lx.advance()
		if lx.cur() == '=' {
			lx.advance()
			return Token{Kind: TokEq, Text: "==", Line: line, Col: col}, nil
		}
		if lx.cur() == '>' {
			lx.advance()
			return Token{Kind: TokArrow, Text: "=>", Line: line, Col: col}, nil
		}
		return Token{Kind: TokAssign, Text: "=", Line: line, Col: col}, nil
	case r == '&':
		lx.advance()
		if lx.cur() == '&' {
			lx.advance()
			return Token{Kind: TokAndAnd, Text: "&&", Line: line, Col: col}, nil
		}
		return Token{}, lx.errf("unexpected character %q", r)
	case r == '|':
		lx.advance()
		if lx.cur() == '|' {
			lx.advance()
			return Token{Kind: TokOrOr, Text: "||", Line: line, Col: col}, nil
		}
		return Token{}, lx.errf("unexpected character %q", r)
	}

	return Token{}, lx.errf("unexpected character %q", r)
}
