package turtlelang

// compiledArg is one fully-compiled call argument: how many locals
// slots it contributes, and the statements that push its value(s)
// when the call executes.
type compiledArg struct {
	size int
	push []Statement
}

func isBuiltinName(name string) bool {
	for _, b := range builtinTable {
		if b.name == name {
			return true
		}
	}
	return false
}

// sigSlot is one top-level position in a callee's signature string:
// either a plain value, or a lambda whose own nested signature an
// argument bound to this position must structurally satisfy.
type sigSlot struct {
	isLambda bool
	nested   string
}

// sigSlots walks sig one top-level token at a time, the way the
// original's FunctionSignature::TypeChecker.more()/consume_value()/
// consume_lambda_start() drive argument consumption -- the number of
// slots IS the callee's arity, with no separator between arguments.
func sigSlots(sig string) []sigSlot {
	var out []sigSlot
	i := 0
	for i < len(sig) {
		switch sig[i] {
		case 'v':
			out = append(out, sigSlot{})
			i++
		case '(':
			close := matchParen(sig, i)
			out = append(out, sigSlot{isLambda: true, nested: sig[i+1 : close]})
			i = close + 1
		default:
			i++
		}
	}
	return out
}

// parseCallExpr parses `argument*` immediately following an
// already-resolved callee name -- space-separated, no enclosing
// parens, no commas -- and returns the Statement that performs the
// call. Exactly as many arguments as the callee's signature has
// top-level slots are consumed; there is no delimiter to mark where
// the argument list ends. This language has no return statement, so a
// call is only ever used as a statement, never nested inside an
// arithmetic expression -- the one place a function or lambda-param
// name appears inside an expression is as a bare reference being
// handed to another call as a higher-order argument, which
// parseCallArg handles without going through here.
func (p *Parser) parseCallExpr(nameTok Token) (Statement, error) {
	def, _, ok := p.eng.Names.Lookup(nameTok.Text)
	if !ok {
		return nil, &UndefinedNameError{Name: nameTok.Text, Line: nameTok.Line, Col: nameTok.Col}
	}
	if def.Kind != KindFunction && def.Kind != KindLambdaParam {
		return nil, p.errf(nameTok, "%q is not callable", nameTok.Text)
	}

	isBuiltin := def.Kind == KindFunction && isBuiltinName(nameTok.Text)

	slots := sigSlots(def.Signature)
	args := make([]compiledArg, 0, len(slots))
	for i, slot := range slots {
		a, err := p.parseCallArg(nameTok, i, slot)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}

	argsSize := 0
	for _, a := range args {
		argsSize += a.size
	}
	pushStmts := make([]Statement, 0, len(args))
	for _, a := range args {
		pushStmts = append(pushStmts, a.push...)
	}

	if isBuiltin {
		chunkIdx := def.ChunkIndex
		return func(rt *Runtime) error {
			for _, push := range pushStmts {
				if err := push(rt); err != nil {
					return err
				}
			}
			return rt.CallChunk(chunkIdx, argsSize)
		}, nil
	}

	var chunkIdxExpr, closurePosExpr Expr
	switch {
	case def.Kind == KindLambdaParam:
		domain, offset := p.locateRead(def)
		chunkIdxExpr = p.readExpr(domain, offset)
		closurePosExpr = p.readExpr(domain, offset+1)
	case p.curFn().def == def:
		chunkIdxExpr = ConstExpr(float64(def.ChunkIndex))
		closurePosExpr = EvalExpr(func(rt *Runtime) float64 { return rt.Locals.At(-1) })
	default:
		domain, offset := p.locateRead(def)
		chunkIdxExpr = p.readExpr(domain, offset)
		closurePosExpr = p.readExpr(domain, offset+1)
	}

	return func(rt *Runtime) error {
		closurePos := closurePosExpr.Value(rt)
		if err := rt.PushClosurePos(closurePos); err != nil {
			return err
		}
		for _, push := range pushStmts {
			if err := push(rt); err != nil {
				return err
			}
		}
		chunkIdx := int(chunkIdxExpr.Value(rt))
		err := rt.CallChunk(chunkIdx, argsSize)
		rt.Locals.Pop(1) // the closure-position slot pushed above
		return err
	}, nil
}

// parseCallArg parses one argument at the position described by slot:
// a value expression for a 'v' slot, or -- for a '(' slot -- either a
// bare reference to an existing function/lambda parameter, or a
// lambda literal, whichever is structurally next.
func (p *Parser) parseCallArg(nameTok Token, paramIndex int, slot sigSlot) (compiledArg, error) {
	if !slot.isLambda {
		expr, err := p.parseExpr(0)
		if err != nil {
			return compiledArg{}, err
		}
		return compiledArg{
			size: 1,
			push: []Statement{func(rt *Runtime) error {
				return rt.Locals.Push(expr.Value(rt))
			}},
		}, nil
	}

	t, err := p.peek()
	if err != nil {
		return compiledArg{}, err
	}
	if t.Kind == TokLBrace {
		return p.parseLambdaLiteralArg(nameTok, paramIndex, slot.nested)
	}
	if t.Kind == TokIdent {
		def, _, ok := p.eng.Names.Lookup(t.Text)
		if !ok {
			return compiledArg{}, &UndefinedNameError{Name: t.Text, Line: t.Line, Col: t.Col}
		}
		if def.Kind != KindFunction && def.Kind != KindLambdaParam {
			return compiledArg{}, p.errf(t, "%q is not a function", t.Text)
		}
		if !signaturePrefixMatches(slot.nested, def.Signature) {
			return compiledArg{}, p.errf(t, "function signature of %q does not match parameter %d in call to %q", t.Text, paramIndex+1, nameTok.Text)
		}
		_, _ = p.next()
		return p.parseFunctionValueArg(t, def)
	}
	return compiledArg{}, p.errf(t, "expected a function name or anonymous function for parameter %d in call to %q", paramIndex+1, nameTok.Text)
}

// parseFunctionValueArg passes an already-named function or lambda
// parameter onward as a higher-order argument: copy its materialized
// 2-slot (chunk index, closure position) pair by value.
func (p *Parser) parseFunctionValueArg(tok Token, def *NameDefinition) (compiledArg, error) {
	var chunkIdxExpr, closurePosExpr Expr
	if def.Kind == KindFunction && p.curFn().def == def {
		chunkIdxExpr = ConstExpr(float64(def.ChunkIndex))
		closurePosExpr = EvalExpr(func(rt *Runtime) float64 { return rt.Locals.At(-1) })
	} else {
		domain, offset := p.locateRead(def)
		chunkIdxExpr = p.readExpr(domain, offset)
		closurePosExpr = p.readExpr(domain, offset+1)
	}
	return compiledArg{
		size: 2,
		push: []Statement{
			func(rt *Runtime) error { return rt.Locals.Push(chunkIdxExpr.Value(rt)) },
			func(rt *Runtime) error { return rt.Locals.Push(closurePosExpr.Value(rt)) },
		},
	}, nil
}

// parseLambdaLiteralArg parses `{ ('=>' '(' param* ')')? statement* }`
// used directly as a call argument: the function's captures are
// pushed right there, inline, and its 2-slot value is pushed as this
// argument's contents immediately -- no named NameDefinition or
// reserved locals pair is needed since the value is consumed by the
// very next call.
func (p *Parser) parseLambdaLiteralArg(nameTok Token, paramIndex int, required string) (compiledArg, error) {
	_, _ = p.next() // '{'
	chunkIdx := p.eng.BeginCallFrameChunk("lambda")
	p.eng.Names.PushScope(true)
	ctx := &fnBuildCtx{depth: p.eng.Depth(), captureOffset: make(map[*NameDefinition]int)}
	p.fnStack = append(p.fnStack, ctx)

	var b SignatureBuilder
	t, err := p.peek()
	if err != nil {
		return compiledArg{}, err
	}
	if t.Kind == TokArrow {
		_, _ = p.next()
		if _, err := p.expect(TokLParen, "'('"); err != nil {
			return compiledArg{}, err
		}
		for {
			pt, err := p.peek()
			if err != nil {
				return compiledArg{}, err
			}
			if pt.Kind == TokRParen {
				break
			}
			if err := p.parseOneParam(&b); err != nil {
				return compiledArg{}, err
			}
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return compiledArg{}, err
		}
	}
	for {
		bt, err := p.peek()
		if err != nil {
			return compiledArg{}, err
		}
		if bt.Kind == TokRBrace {
			break
		}
		if err := p.parseStatement(); err != nil {
			return compiledArg{}, err
		}
	}
	if _, err := p.expect(TokRBrace, "'}'"); err != nil {
		return compiledArg{}, err
	}

	hasClosure := len(ctx.captureOrder) > 0
	p.eng.EndCallFrameChunk(hasClosure, len(ctx.captureOrder))
	p.fnStack = p.fnStack[:len(p.fnStack)-1]
	p.eng.Names.PopScope()

	sources := ctx.captureSources
	sig := b.String()

	if !signaturePrefixMatches(required, sig) {
		return compiledArg{}, p.errf(nameTok, "anonymous function's signature does not match parameter %d in call to %q", paramIndex+1, nameTok.Text)
	}

	return compiledArg{
		size: 2,
		push: []Statement{
			func(rt *Runtime) error {
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
			},
		},
	}, nil
}
