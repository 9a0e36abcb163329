package turtlelang

import (
	"fmt"
	"math"
)

// capSource records where a captured value is read from at the moment
// its owning closure is created: either the enclosing function's own
// locals, or one of the enclosing function's own captures (when the
// variable lives more than one function boundary away and must
// cascade outward).
type capSource struct {
	domain Domain
	offset int
}

// fnBuildCtx tracks per-function parse state: which outer names this
// function has already captured (deduplicated so repeated references
// share one slot), and, for the pseudo "global" context at the
// bottom of the stack, nothing at all (depth 0 names resolve via
// DomainGlobal directly and never need to be captured).
type fnBuildCtx struct {
	depth          int
	def            *NameDefinition // nil for the global pseudo-context
	captureOffset  map[*NameDefinition]int
	captureOrder   []*NameDefinition
	captureSources []capSource
}

// Parser is a recursive-descent statement parser with a Pratt
// expression core, building directly into an Engine's chunk store as
// it goes -- there is no separate AST pass.
type Parser struct {
	lx   *Lexer
	eng  *Engine
	file string

	fnStack []*fnBuildCtx

	importer *Importer
}

func NewParser(eng *Engine, file, src string, importer *Importer) *Parser {
	return &Parser{
		lx:       NewLexer(file, src),
		eng:      eng,
		file:     file,
		fnStack:  []*fnBuildCtx{{depth: 0}},
		importer: importer,
	}
}

func (p *Parser) errf(tok Token, format string, args ...interface{}) error {
	return &CompileError{File: p.file, Line: tok.Line, Col: tok.Col, Kind: "parse", Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) peek() (Token, error)        { return p.lx.Peek() }
func (p *Parser) next() (Token, error)        { return p.lx.Next() }

func (p *Parser) expect(k TokenKind, what string) (Token, error) {
	t, err := p.next()
	if err != nil {
		return t, err
	}
	if t.Kind != k {
		return t, p.errf(t, "expected %s, got %q", what, t.Text)
	}
	return t, nil
}

func (p *Parser) curFn() *fnBuildCtx { return p.fnStack[len(p.fnStack)-1] }

// ParseProgram compiles the whole source as one top-level "main" call
// frame chunk and returns its index.
func ParseProgram(eng *Engine, importer *Importer, file, src string) (int, error) {
	p := NewParser(eng, file, src, importer)
	mainIdx := eng.BeginCallFrameChunk("main")
	traceParse("begin program %s", file)
	for {
		t, err := p.peek()
		if err != nil {
			return 0, err
		}
		if t.Kind == TokEOF {
			break
		}
		if err := p.parseStatement(); err != nil {
			return 0, err
		}
	}
	eng.EndCallFrameChunk(false, 0)
	return mainIdx, nil
}

func (p *Parser) parseBlockInto(name string) (int, error) {
	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return 0, err
	}
	idx := p.eng.BeginLocalBlockChunk(name)
	p.eng.Names.PushScope(false)
	for {
		t, err := p.peek()
		if err != nil {
			return 0, err
		}
		if t.Kind == TokRBrace {
			break
		}
		if t.Kind == TokEOF {
			return 0, p.errf(t, "unterminated block")
		}
		if err := p.parseStatement(); err != nil {
			return 0, err
		}
	}
	if _, err := p.expect(TokRBrace, "'}'"); err != nil {
		return 0, err
	}
	p.eng.Names.PopScope()
	p.eng.EndLocalBlockChunk()
	return idx, nil
}

func (p *Parser) parseStatement() error {
	t, err := p.peek()
	if err != nil {
		return err
	}
	switch t.Kind {
	case TokImport:
		return p.parseImport()
	case TokDef:
		return p.parseDef()
	case TokIf:
		return p.parseIf()
	case TokFor:
		return p.parseFor()
	case TokBreakpoint:
		_, _ = p.next()
		p.eng.Append(t.Line, t.Col, "breakpoint", func(rt *Runtime) error {
			if rt.Cursor != nil {
				rt.Cursor.ForceBreak()
			}
			return nil
		})
		return nil
	case TokLBrace:
		_, err := p.parseBlockAsStatement()
		return err
	case TokIdent:
		return p.parseIdentStatement()
	default:
		return p.errf(t, "unexpected token %q at statement position", t.Text)
	}
}

func (p *Parser) parseBlockAsStatement() (int, error) {
	idx, err := p.parseBlockInto("block")
	if err != nil {
		return 0, err
	}
	p.eng.Append(0, 0, "block", func(rt *Runtime) error {
		return rt.ExecLocalBlock(idx)
	})
	return idx, nil
}

// parseIdentStatement disambiguates `name = expr` from a command/function
// call `name argument*` (space-separated, no enclosing parens or commas).
func (p *Parser) parseIdentStatement() error {
	nameTok, _ := p.next()
	nt, err := p.peek()
	if err != nil {
		return err
	}
	if nt.Kind == TokAssign {
		_, _ = p.next()
		return p.parseAssign(nameTok)
	}
	return p.parseCallStatement(nameTok)
}

func (p *Parser) parseAssign(nameTok Token) error {
	expr, err := p.parseExpr(0)
	if err != nil {
		return err
	}
	def := &NameDefinition{Text: nameTok.Text, Kind: KindValue, Line: nameTok.Line, Col: nameTok.Col}
	if v, ok := expr.Const(); ok {
		def.IsConst = true
		def.ConstVal = v
		def.Size = 0
	} else {
		def.Offset = p.eng.AddLocal()
		def.Size = 1
		p.eng.Append(nameTok.Line, nameTok.Col, nameTok.Text+"=", func(rt *Runtime) error {
			return rt.Locals.Push(expr.Value(rt))
		})
	}
	return p.eng.Names.Define(def)
}

func (p *Parser) parseImport() error {
	tok, _ := p.next()
	strTok, err := p.expect(TokString, "import path string")
	if err != nil {
		return err
	}
	if p.importer == nil {
		return p.errf(tok, "imports are not supported in this context")
	}
	src, fresh, err := p.importer.Load(strTok.Text)
	if err != nil {
		return &CompileError{File: p.file, Line: tok.Line, Col: tok.Col, Kind: "import", Msg: err.Error()}
	}
	if !fresh {
		traceParse("skip already-imported file %s", strTok.Text)
		return nil
	}
	sub := NewParser(p.eng, strTok.Text, src, p.importer)
	sub.fnStack = p.fnStack
	for {
		pt, err := sub.peek()
		if err != nil {
			return err
		}
		if pt.Kind == TokEOF {
			break
		}
		if err := sub.parseStatement(); err != nil {
			return err
		}
	}
	return nil
}

// ---- def ----

func (p *Parser) parseDef() error {
	_, _ = p.next()
	nameTok, err := p.expect(TokIdent, "function name")
	if err != nil {
		return err
	}

	def := &NameDefinition{Text: nameTok.Text, Kind: KindFunction, Line: nameTok.Line, Col: nameTok.Col, Size: 2}
	def.Offset = p.eng.AddLocal()
	p.eng.AddLocal()
	if err := p.eng.Names.Define(def); err != nil {
		return err
	}

	chunkIdx := p.eng.BeginCallFrameChunk(nameTok.Text)
	def.ChunkIndex = chunkIdx

	p.eng.Names.PushScope(true)
	ctx := &fnBuildCtx{depth: p.eng.Depth(), def: def, captureOffset: make(map[*NameDefinition]int)}
	p.fnStack = append(p.fnStack, ctx)

	sig, err := p.parseParamList(def)
	if err != nil {
		return err
	}
	def.Signature = sig

	bodyStart := p.eng.Chunks.Get(chunkIdx)
	_ = bodyStart
	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return err
	}
	for {
		t, err := p.peek()
		if err != nil {
			return err
		}
		if t.Kind == TokRBrace {
			break
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	if _, err := p.expect(TokRBrace, "'}'"); err != nil {
		return err
	}

	hasClosure := len(ctx.captureOrder) > 0
	p.eng.EndCallFrameChunk(hasClosure, len(ctx.captureOrder))
	p.fnStack = p.fnStack[:len(p.fnStack)-1]
	p.eng.Names.PopScope()

	p.emitClosureMaterialization(def, ctx)
	return nil
}

// emitClosureMaterialization appends, into the chunk now current again
// (the scope where `def` appeared), the statement that computes this
// function's 2-slot value once, plus one push statement per captured
// variable.
func (p *Parser) emitClosureMaterialization(def *NameDefinition, ctx *fnBuildCtx) {
	chunkIdx := def.ChunkIndex
	offset := def.Offset
	sources := ctx.captureSources
	p.eng.Append(def.Line, def.Col, "closure:"+def.Text, func(rt *Runtime) error {
		pos := float64(rt.Captures.AbsolutePos())
		if err := rt.Locals.Push(float64(chunkIdx)); err != nil {
			return err
		}
		if err := rt.Locals.Push(pos); err != nil {
			return err
		}
		for _, src := range sources {
			var v float64
			switch src.domain {
			case DomainLocal:
				v = rt.Locals.At(src.offset)
			case DomainCapture:
				v = rt.ReadCapture(src.offset)
			case DomainGlobal:
				v = rt.Locals.ReadGlobal(src.offset)
			}
			if err := rt.Captures.Push(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// parseParamList parses `(` param* `)` and returns the accumulated
// signature string. Params are space-separated, with no comma between
// them. Each plain value param is defined as a KindValue name
// occupying one local slot; each lambda param is defined as a
// KindLambdaParam name occupying two local slots (its chunk-index and
// closure-position, exactly like a function value).
func (p *Parser) parseParamList(fnDef *NameDefinition) (string, error) {
	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return "", err
	}
	var b SignatureBuilder
	for {
		t, err := p.peek()
		if err != nil {
			return "", err
		}
		if t.Kind == TokRParen {
			break
		}
		if err := p.parseOneParam(&b); err != nil {
			return "", err
		}
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (p *Parser) parseOneParam(b *SignatureBuilder) error {
	nameTok, err := p.expect(TokIdent, "parameter name")
	if err != nil {
		return err
	}
	nt, err := p.peek()
	if err != nil {
		return err
	}
	if nt.Kind == TokLParen {
		sig, err := p.parseSignatureSpec()
		if err != nil {
			return err
		}
		def := &NameDefinition{Text: nameTok.Text, Kind: KindLambdaParam, Line: nameTok.Line, Col: nameTok.Col, Size: 2, Signature: sig}
		def.Offset = p.eng.AddParam()
		p.eng.AddParam()
		b.StartLambda()
		writeRawSig(b, sig)
		b.EndLambda()
		return p.eng.Names.Define(def)
	}
	def := &NameDefinition{Text: nameTok.Text, Kind: KindValue, Line: nameTok.Line, Col: nameTok.Col, Size: 1}
	def.Offset = p.eng.AddParam()
	b.AddValue()
	return p.eng.Names.Define(def)
}

func writeRawSig(b *SignatureBuilder, sig string) {
	for _, c := range sig {
		switch c {
		case 'v':
			b.AddValue()
		case '(':
			b.StartLambda()
		case ')':
			b.EndLambda()
		}
	}
}

// parseSignatureSpec parses the placeholder arity list inside a lambda
// parameter's declaration, e.g. `cb(a b)` declares cb as taking two
// plain values; `cb((a b) c)` declares cb's first argument as itself
// a 2-value lambda. Placeholders are space-separated, no comma.
// Identifier text inside here is never bound to anything -- only its
// position and nesting matter.
func (p *Parser) parseSignatureSpec() (string, error) {
	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return "", err
	}
	var b SignatureBuilder
	for {
		t, err := p.peek()
		if err != nil {
			return "", err
		}
		if t.Kind == TokRParen {
			break
		}
		t2, err := p.peek()
		if err != nil {
			return "", err
		}
		if t2.Kind == TokLParen {
			nested, err := p.parseSignatureSpec()
			if err != nil {
				return "", err
			}
			b.StartLambda()
			writeRawSig(&b, nested)
			b.EndLambda()
		} else {
			if _, err := p.expect(TokIdent, "parameter placeholder"); err != nil {
				return "", err
			}
			b.AddValue()
		}
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ---- if / for ----

func (p *Parser) parseIf() error {
	_, _ = p.next()
	cond, err := p.parseExpr(0)
	if err != nil {
		return err
	}
	thenIdx, err := p.parseBlockInto("if")
	if err != nil {
		return err
	}
	elseIdx := -1
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind == TokElse {
		_, _ = p.next()
		elseIdx, err = p.parseBlockInto("else")
		if err != nil {
			return err
		}
	}
	p.eng.Append(t.Line, t.Col, "if", func(rt *Runtime) error {
		if truthy(cond.Value(rt)) {
			return rt.ExecLocalBlock(thenIdx)
		}
		if elseIdx >= 0 {
			return rt.ExecLocalBlock(elseIdx)
		}
		return nil
	})
	return nil
}

func (p *Parser) parseFor() error {
	forTok, _ := p.next()

	hasVar := false
	var varOffset int
	t, err := p.peek()
	if err != nil {
		return err
	}
	if t.Kind == TokIdent {
		save := *p.lx
		ident, _ := p.next()
		t2, err := p.peek()
		if err != nil {
			return err
		}
		if t2.Kind == TokAssign {
			_, _ = p.next()
			hasVar = true
			def := &NameDefinition{Text: ident.Text, Kind: KindValue, Line: ident.Line, Col: ident.Col, Size: 1}
			def.Offset = p.eng.AddLocal()
			varOffset = def.Offset
			p.eng.Names.PushScope(false)
			if err := p.eng.Names.Define(def); err != nil {
				return err
			}
		} else {
			*p.lx = save
		}
	}

	e1, err := p.parseExpr(0)
	if err != nil {
		return err
	}
	var step, end *Expr
	nt, err := p.peek()
	if err != nil {
		return err
	}
	if nt.Kind == TokDotDot {
		_, _ = p.next()
		e2, err := p.parseExpr(0)
		if err != nil {
			return err
		}
		nt2, err := p.peek()
		if err != nil {
			return err
		}
		if nt2.Kind == TokDotDot {
			_, _ = p.next()
			e3, err := p.parseExpr(0)
			if err != nil {
				return err
			}
			step = &e2
			end = &e3
		} else {
			end = &e2
		}
	}

	bodyIdx, err := p.parseBlockInto("for")
	if err != nil {
		return err
	}

	if hasVar {
		p.eng.RemoveLocals(1)
		p.eng.Names.PopScope()
	}

	start := e1
	p.eng.Append(forTok.Line, forTok.Col, "for", func(rt *Runtime) error {
		if end == nil {
			n := int64(math.Trunc(start.Value(rt)))
			for i := int64(0); i < n; i++ {
				if hasVar {
					if err := rt.Locals.Push(float64(i)); err != nil {
						return err
					}
				}
				err := rt.ExecLocalBlock(bodyIdx)
				if hasVar {
					rt.Locals.Pop(1)
				}
				if err != nil {
					return err
				}
			}
			return nil
		}
		a := start.Value(rt)
		b := end.Value(rt)
		stepMag := 1.0
		if step != nil {
			stepMag = math.Abs(step.Value(rt))
		}
		if stepMag == 0 {
			return nil
		}
		ascending := a <= b
		signedStep := stepMag
		if !ascending {
			signedStep = -stepMag
		}
		count := int64(math.Floor(math.Abs(b-a)/stepMag)) + 1
		for i := int64(0); i < count; i++ {
			v := a + float64(i)*signedStep
			if hasVar {
				if err := rt.Locals.Push(v); err != nil {
					return err
				}
			}
			err := rt.ExecLocalBlock(bodyIdx)
			if hasVar {
				rt.Locals.Pop(1)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	_ = varOffset
	return nil
}

// ---- calls ----

func (p *Parser) parseCallStatement(nameTok Token) error {
	stmt, err := p.parseCallExpr(nameTok)
	if err != nil {
		return err
	}
	p.eng.Append(nameTok.Line, nameTok.Col, nameTok.Text, stmt)
	return nil
}
