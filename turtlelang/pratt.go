package turtlelang

// Pratt-style expression parsing: a small table of infix operators
// with left/right binding power, walked by Expression(rbp) the way
// the teacher's pratt.go walks its InfixOp table. Ported to this
// language's arithmetic/comparison/logical/ternary operator set.
type infixOp struct {
	lbp   int
	rbp   int // right binding power used when recursing for the RHS
	build func(a, b Expr) Expr
}

var infixTable = map[TokenKind]infixOp{
	TokOrOr:      {4, 5, func(a, b Expr) Expr { return NewBinary("||", a, b) }},
	TokAndAnd:    {6, 7, func(a, b Expr) Expr { return NewBinary("&&", a, b) }},
	TokEq:        {8, 9, func(a, b Expr) Expr { return NewBinary("==", a, b) }},
	TokNotEq:     {8, 9, func(a, b Expr) Expr { return NewBinary("!=", a, b) }},
	TokLess:      {10, 11, func(a, b Expr) Expr { return NewBinary("<", a, b) }},
	TokGreater:   {10, 11, func(a, b Expr) Expr { return NewBinary(">", a, b) }},
	TokLessEq:    {10, 11, func(a, b Expr) Expr { return NewBinary("<=", a, b) }},
	TokGreaterEq: {10, 11, func(a, b Expr) Expr { return NewBinary(">=", a, b) }},
	TokPlus:      {12, 13, func(a, b Expr) Expr { return NewBinary("+", a, b) }},
	TokMinus:     {12, 13, func(a, b Expr) Expr { return NewBinary("-", a, b) }},
	TokStar:      {14, 15, func(a, b Expr) Expr { return NewBinary("*", a, b) }},
	TokSlash:     {14, 15, func(a, b Expr) Expr { return NewBinary("/", a, b) }},
	// ** is right-associative: its own rbp is lower than its lbp.
	TokStarStar: {17, 16, func(a, b Expr) Expr { return NewBinary("**", a, b) }},
}

const ternaryLBP = 2

// parseExpr implements Pratt's Expression(rbp): parse a prefix (nud),
// then repeatedly fold in infix/ternary operators whose left binding
// power exceeds rbp.
func (p *Parser) parseExpr(rbp int) (Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return Expr{}, err
	}
	for {
		t, err := p.peek()
		if err != nil {
			return Expr{}, err
		}
		if t.Kind == TokQuestion && ternaryLBP > rbp {
			_, _ = p.next()
			thenE, err := p.parseExpr(0)
			if err != nil {
				return Expr{}, err
			}
			if _, err := p.expect(TokColon, "':'"); err != nil {
				return Expr{}, err
			}
			elseE, err := p.parseExpr(ternaryLBP - 1)
			if err != nil {
				return Expr{}, err
			}
			left = NewTernary(left, thenE, elseE)
			continue
		}
		op, ok := infixTable[t.Kind]
		if !ok || op.lbp <= rbp {
			break
		}
		_, _ = p.next()
		right, err := p.parseExpr(op.rbp - 1)
		if err != nil {
			return Expr{}, err
		}
		left = op.build(left, right)
	}
	return left, nil
}

func (p *Parser) parsePrefix() (Expr, error) {
	t, err := p.next()
	if err != nil {
		return Expr{}, err
	}
	switch t.Kind {
	case TokNumber:
		return ConstExpr(t.Num), nil
	case TokMinus:
		a, err := p.parseExpr(15)
		if err != nil {
			return Expr{}, err
		}
		return NewUnary("-", a), nil
	case TokBang:
		a, err := p.parseExpr(15)
		if err != nil {
			return Expr{}, err
		}
		return NewUnary("!", a), nil
	case TokLParen:
		e, err := p.parseExpr(0)
		if err != nil {
			return Expr{}, err
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return Expr{}, err
		}
		return e, nil
	case TokUnique:
		return EvalExpr(func(rt *Runtime) float64 { return rt.NextUnique() }), nil
	case TokTurtle:
		if _, err := p.expect(TokDot, "'.'"); err != nil {
			return Expr{}, err
		}
		field, err := p.expect(TokIdent, "x, y, or dir")
		if err != nil {
			return Expr{}, err
		}
		switch field.Text {
		case "x":
			return EvalExpr(func(rt *Runtime) float64 { return rt.Host.X() }), nil
		case "y":
			return EvalExpr(func(rt *Runtime) float64 { return rt.Host.Y() }), nil
		case "dir":
			return EvalExpr(func(rt *Runtime) float64 { return rt.Host.Dir() }), nil
		}
		return Expr{}, p.errf(field, "turtle has no field %q", field.Text)
	case TokIdent:
		return p.parseIdentExpr(t)
	}
	return Expr{}, p.errf(t, "unexpected token %q in expression", t.Text)
}

func (p *Parser) parseIdentExpr(tok Token) (Expr, error) {
	def, _, ok := p.eng.Names.Lookup(tok.Text)
	if !ok {
		return Expr{}, &UndefinedNameError{Name: tok.Text, Line: tok.Line, Col: tok.Col}
	}
	switch def.Kind {
	case KindValue:
		if def.IsConst {
			return ConstExpr(def.ConstVal), nil
		}
		domain, offset := p.locateRead(def)
		return p.readExpr(domain, offset), nil
	default:
		return Expr{}, p.errf(tok, "%q must be called, not used as a value", tok.Text)
	}
}

// locateRead implements locate_name for a value read: depth 0 is
// always Global; the current function's own depth is Local;
// anything in between cascades outward through captures.
func (p *Parser) locateRead(def *NameDefinition) (Domain, int) {
	if def.Depth == 0 {
		return DomainGlobal, def.Offset
	}
	cur := p.curFn()
	if def.Depth == cur.depth {
		return DomainLocal, def.Offset
	}
	off := p.resolveCapture(cur, def)
	return DomainCapture, off
}

func (p *Parser) resolveCapture(ctx *fnBuildCtx, def *NameDefinition) int {
	if off, ok := ctx.captureOffset[def]; ok {
		return off
	}
	var idx int
	for i, c := range p.fnStack {
		if c == ctx {
			idx = i
			break
		}
	}
	parent := p.fnStack[idx-1]
	var src capSource
	if def.Depth == parent.depth {
		src = capSource{DomainLocal, def.Offset}
	} else {
		pOff := p.resolveCapture(parent, def)
		src = capSource{DomainCapture, pOff}
	}
	off := p.eng.AddCapture()
	ctx.captureOffset[def] = off
	ctx.captureOrder = append(ctx.captureOrder, def)
	ctx.captureSources = append(ctx.captureSources, src)
	return off
}

func (p *Parser) readExpr(domain Domain, offset int) Expr {
	switch domain {
	case DomainLocal:
		return EvalExpr(func(rt *Runtime) float64 { return rt.Locals.At(offset) })
	case DomainCapture:
		return EvalExpr(func(rt *Runtime) float64 { return rt.ReadCapture(offset) })
	default:
		return EvalExpr(func(rt *Runtime) float64 { return rt.Locals.ReadGlobal(offset) })
	}
}
