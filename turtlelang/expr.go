package turtlelang

import "math"

// Expr is a compiled expression: either an already-folded constant or
// a thunk evaluated against a live Runtime. Keeping both shapes behind
// one value (rather than an interface per node) lets folding collapse
// whole subtrees to a single float64 with no further indirection at
// runtime, and matches the Const/Eval split in the original ASTNode's
// constant-propagation pass.
type Expr struct {
	isConst bool
	c       float64
	eval    func(rt *Runtime) float64
}

// ConstExpr builds an already-folded expression.
func ConstExpr(v float64) Expr {
	return Expr{isConst: true, c: v}
}

// EvalExpr builds an expression that must run against the runtime.
func EvalExpr(f func(rt *Runtime) float64) Expr {
	return Expr{eval: f}
}

// Value evaluates the expression.
func (e Expr) Value(rt *Runtime) float64 {
	if e.isConst {
		return e.c
	}
	return e.eval(rt)
}

// Const reports whether the expression already folded to a constant,
// and if so its value.
func (e Expr) Const() (float64, bool) {
	if e.isConst {
		return e.c, true
	}
	return 0, false
}

func truthy(v float64) bool {
	return v != 0
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// NewUnary folds a unary operator over a constant operand, or defers
// to runtime evaluation otherwise.
func NewUnary(op string, a Expr) Expr {
	if v, ok := a.Const(); ok {
		switch op {
		case "-":
			return ConstExpr(-v)
		case "!":
			return ConstExpr(boolf(!truthy(v)))
		}
	}
	switch op {
	case "-":
		return EvalExpr(func(rt *Runtime) float64 { return -a.Value(rt) })
	case "!":
		return EvalExpr(func(rt *Runtime) float64 { return boolf(!truthy(a.Value(rt))) })
	}
	panic("turtlelang: unknown unary operator " + op)
}

// NewBinary folds a binary operator over two constant operands, or
// defers to runtime evaluation otherwise. && and || are deliberately
// NOT short-circuiting: both operands are always evaluated, so side
// effects in unique() on either side always occur.
func NewBinary(op string, a, b Expr) Expr {
	av, aok := a.Const()
	bv, bok := b.Const()
	if aok && bok {
		return ConstExpr(applyBinary(op, av, bv))
	}
	return EvalExpr(func(rt *Runtime) float64 {
		x := a.Value(rt)
		y := b.Value(rt)
		return applyBinary(op, x, y)
	})
}

func applyBinary(op string, x, y float64) float64 {
	switch op {
	case "+":
		return x + y
	case "-":
		return x - y
	case "*":
		return x * y
	case "/":
		return x / y
	case "**":
		return math.Pow(x, y)
	case "==":
		return boolf(x == y)
	case "!=":
		return boolf(x != y)
	case "<":
		return boolf(x < y)
	case ">":
		return boolf(x > y)
	case "<=":
		return boolf(x <= y)
	case ">=":
		return boolf(x >= y)
	case "&&":
		return boolf(truthy(x) && truthy(y))
	case "||":
		return boolf(truthy(x) || truthy(y))
	}
	panic("turtlelang: unknown binary operator " + op)
}

// NewTernary folds cond ? a : b when cond is constant.
func NewTernary(cond, a, b Expr) Expr {
	if v, ok := cond.Const(); ok {
		if truthy(v) {
			return a
		}
		return b
	}
	return EvalExpr(func(rt *Runtime) float64 {
		if truthy(cond.Value(rt)) {
			return a.Value(rt)
		}
		return b.Value(rt)
	})
}
