package sym

import "math"

// Op identifies the operation carried by an expression node.
type Op uint8

const (
	OpConst Op = iota
	OpSym

	// unary
	OpNeg
	OpSqrt
	OpExp
	OpLog
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpSinh
	OpCosh
	OpTanh
	OpAsinh
	OpAcosh
	OpAtanh
	OpAbs
	OpSign
	OpFloor
	OpCeil
	OpErf
	OpNot

	// binary
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpAtan2
	OpFmin
	OpFmax
	OpLt
	OpLe
	OpEq
	OpNe
	OpAnd
	OpOr

	// ternary
	OpIfElse
)

var opNames = [...]string{
	OpConst:  "const",
	OpSym:    "sym",
	OpNeg:    "neg",
	OpSqrt:   "sqrt",
	OpExp:    "exp",
	OpLog:    "log",
	OpSin:    "sin",
	OpCos:    "cos",
	OpTan:    "tan",
	OpAsin:   "asin",
	OpAcos:   "acos",
	OpAtan:   "atan",
	OpSinh:   "sinh",
	OpCosh:   "cosh",
	OpTanh:   "tanh",
	OpAsinh:  "asinh",
	OpAcosh:  "acosh",
	OpAtanh:  "atanh",
	OpAbs:    "fabs",
	OpSign:   "sign",
	OpFloor:  "floor",
	OpCeil:   "ceil",
	OpErf:    "erf",
	OpNot:    "not",
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpPow:    "^",
	OpAtan2:  "atan2",
	OpFmin:   "fmin",
	OpFmax:   "fmax",
	OpLt:     "<",
	OpLe:     "<=",
	OpEq:     "==",
	OpNe:     "!=",
	OpAnd:    "&&",
	OpOr:     "||",
	OpIfElse: "if_else",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "op?"
}

// Arity returns the number of operands of op.
func (op Op) Arity() int {
	switch {
	case op <= OpSym:
		return 0
	case op <= OpNot:
		return 1
	case op <= OpOr:
		return 2
	}
	return 3
}

func (op Op) infix() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow, OpLt, OpLe, OpEq, OpNe, OpAnd, OpOr:
		return true
	}
	return false
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// evalOp is the single numeric kernel shared by constant folding and the
// compiled evaluator.
func evalOp(op Op, x, y, z float64) float64 {
	switch op {
	case OpNeg:
		return -x
	case OpSqrt:
		return math.Sqrt(x)
	case OpExp:
		return math.Exp(x)
	case OpLog:
		return math.Log(x)
	case OpSin:
		return math.Sin(x)
	case OpCos:
		return math.Cos(x)
	case OpTan:
		return math.Tan(x)
	case OpAsin:
		return math.Asin(x)
	case OpAcos:
		return math.Acos(x)
	case OpAtan:
		return math.Atan(x)
	case OpSinh:
		return math.Sinh(x)
	case OpCosh:
		return math.Cosh(x)
	case OpTanh:
		return math.Tanh(x)
	case OpAsinh:
		return math.Asinh(x)
	case OpAcosh:
		return math.Acosh(x)
	case OpAtanh:
		return math.Atanh(x)
	case OpAbs:
		return math.Abs(x)
	case OpSign:
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	case OpFloor:
		return math.Floor(x)
	case OpCeil:
		return math.Ceil(x)
	case OpErf:
		return math.Erf(x)
	case OpNot:
		return truth(x == 0)
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpPow:
		return math.Pow(x, y)
	case OpAtan2:
		return math.Atan2(x, y)
	case OpFmin:
		return math.Min(x, y)
	case OpFmax:
		return math.Max(x, y)
	case OpLt:
		return truth(x < y)
	case OpLe:
		return truth(x <= y)
	case OpEq:
		return truth(x == y)
	case OpNe:
		return truth(x != y)
	case OpAnd:
		return truth(x != 0 && y != 0)
	case OpOr:
		return truth(x != 0 || y != 0)
	case OpIfElse:
		if x != 0 {
			return y
		}
		return z
	}
	return math.NaN()
}
