package sym

import (
	"strconv"
	"strings"
)

// ============================================================
// Expr: immutable scalar node of an expression graph
// ============================================================

// Expr is a node of a scalar expression DAG. Nodes are immutable and shared
// by reference; two symbols are the same variable only if they are the same
// pointer, regardless of their names.
type Expr struct {
	op   Op
	args []*Expr
	val  float64
	name string
}

// Const returns a constant node.
func Const(v float64) *Expr { return &Expr{op: OpConst, val: v} }

// Symbol returns a fresh scalar symbol.
func Symbol(name string) *Expr { return &Expr{op: OpSym, name: name} }

func (e *Expr) Op() Op                 { return e.op }
func (e *Expr) Args() []*Expr          { return e.args }
func (e *Expr) Name() string           { return e.name }
func (e *Expr) IsConst() bool          { return e.op == OpConst }
func (e *Expr) IsSymbol() bool         { return e.op == OpSym }
func (e *Expr) Value() float64         { return e.val }
func (e *Expr) isValue(v float64) bool { return e.op == OpConst && e.val == v }

func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	switch {
	case e.op == OpConst:
		sb.WriteString(strconv.FormatFloat(e.val, 'g', -1, 64))
	case e.op == OpSym:
		sb.WriteString(e.name)
	case e.op == OpNeg:
		sb.WriteString("(-")
		e.args[0].write(sb)
		sb.WriteString(")")
	case e.op.infix():
		sb.WriteString("(")
		e.args[0].write(sb)
		sb.WriteString(e.op.String())
		e.args[1].write(sb)
		sb.WriteString(")")
	default:
		sb.WriteString(e.op.String())
		sb.WriteString("(")
		for i, a := range e.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.write(sb)
		}
		sb.WriteString(")")
	}
}

// ============================================================
// Node constructors with light simplification
// ============================================================

func allConst(args ...*Expr) bool {
	for _, a := range args {
		if a.op != OpConst {
			return false
		}
	}
	return true
}

func unary(op Op, a *Expr) *Expr {
	if a.op == OpConst {
		return Const(evalOp(op, a.val, 0, 0))
	}
	switch op {
	case OpNeg:
		if a.op == OpNeg {
			return a.args[0]
		}
	case OpLog:
		if a.op == OpExp {
			return a.args[0]
		}
	}
	return &Expr{op: op, args: []*Expr{a}}
}

func binary(op Op, a, b *Expr) *Expr {
	if allConst(a, b) {
		return Const(evalOp(op, a.val, b.val, 0))
	}
	switch op {
	case OpAdd:
		return add(a, b)
	case OpSub:
		return sub(a, b)
	case OpMul:
		return mul(a, b)
	case OpDiv:
		return div(a, b)
	case OpPow:
		return pow(a, b)
	}
	return &Expr{op: op, args: []*Expr{a, b}}
}

func add(a, b *Expr) *Expr {
	switch {
	case allConst(a, b):
		return Const(a.val + b.val)
	case a.isValue(0):
		return b
	case b.isValue(0):
		return a
	case b.op == OpNeg:
		return sub(a, b.args[0])
	}
	return &Expr{op: OpAdd, args: []*Expr{a, b}}
}

func sub(a, b *Expr) *Expr {
	switch {
	case allConst(a, b):
		return Const(a.val - b.val)
	case b.isValue(0):
		return a
	case a.isValue(0):
		return unary(OpNeg, b)
	case a == b:
		return Const(0)
	case b.op == OpNeg:
		return add(a, b.args[0])
	}
	return &Expr{op: OpSub, args: []*Expr{a, b}}
}

func mul(a, b *Expr) *Expr {
	switch {
	case allConst(a, b):
		return Const(a.val * b.val)
	case a.isValue(0), b.isValue(0):
		return Const(0)
	case a.isValue(1):
		return b
	case b.isValue(1):
		return a
	case a.isValue(-1):
		return unary(OpNeg, b)
	case b.isValue(-1):
		return unary(OpNeg, a)
	}
	return &Expr{op: OpMul, args: []*Expr{a, b}}
}

func div(a, b *Expr) *Expr {
	switch {
	case allConst(a, b):
		return Const(a.val / b.val)
	case a.isValue(0):
		return Const(0)
	case b.isValue(1):
		return a
	case b.isValue(-1):
		return unary(OpNeg, a)
	}
	return &Expr{op: OpDiv, args: []*Expr{a, b}}
}

func pow(a, b *Expr) *Expr {
	switch {
	case allConst(a, b):
		return Const(evalOp(OpPow, a.val, b.val, 0))
	case b.isValue(0):
		return Const(1)
	case b.isValue(1):
		return a
	case a.isValue(1):
		return Const(1)
	}
	return &Expr{op: OpPow, args: []*Expr{a, b}}
}

func ifElse(c, a, b *Expr) *Expr {
	switch {
	case c.op == OpConst && c.val != 0:
		return a
	case c.op == OpConst:
		return b
	case a == b:
		return a
	case allConst(a, b) && a.val == b.val:
		return a
	}
	return &Expr{op: OpIfElse, args: []*Expr{c, a, b}}
}

func neg(a *Expr) *Expr { return unary(OpNeg, a) }

// apply rebuilds a node of the given op with new operands.
func apply(op Op, args ...*Expr) *Expr {
	switch op.Arity() {
	case 1:
		return unary(op, args[0])
	case 2:
		return binary(op, args[0], args[1])
	}
	return ifElse(args[0], args[1], args[2])
}
