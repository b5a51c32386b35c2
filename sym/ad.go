package sym

import (
	"fmt"
	"math"
)

// ============================================================
// Symbolic differentiation
// ============================================================

// topoSort lists every node reachable from roots, operands before the nodes
// that use them.
func topoSort(roots []*Expr) []*Expr {
	type frame struct {
		e    *Expr
		next int
	}
	visited := make(map[*Expr]bool)
	var order []*Expr
	var stack []frame
	for _, r := range roots {
		if visited[r] {
			continue
		}
		visited[r] = true
		stack = append(stack, frame{e: r})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.e.args) {
				c := top.e.args[top.next]
				top.next++
				if !visited[c] {
					visited[c] = true
					stack = append(stack, frame{e: c})
				}
				continue
			}
			order = append(order, top.e)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}

// chain returns seed * d(n)/d(n.args[k]), or nil where that partial is zero.
// The result is linear in seed, so the same rule drives both the reverse
// (adjoint) and the forward (tangent) sweep.
func chain(n *Expr, k int, seed *Expr) *Expr {
	x := n.args[0]
	one := Const(1)
	switch n.op {
	case OpNeg:
		return neg(seed)
	case OpSqrt:
		return div(seed, mul(Const(2), n))
	case OpExp:
		return mul(seed, n)
	case OpLog:
		return div(seed, x)
	case OpSin:
		return mul(seed, unary(OpCos, x))
	case OpCos:
		return neg(mul(seed, unary(OpSin, x)))
	case OpTan:
		return mul(seed, add(one, mul(n, n)))
	case OpAsin:
		return div(seed, unary(OpSqrt, sub(one, mul(x, x))))
	case OpAcos:
		return neg(div(seed, unary(OpSqrt, sub(one, mul(x, x)))))
	case OpAtan:
		return div(seed, add(one, mul(x, x)))
	case OpSinh:
		return mul(seed, unary(OpCosh, x))
	case OpCosh:
		return mul(seed, unary(OpSinh, x))
	case OpTanh:
		return mul(seed, sub(one, mul(n, n)))
	case OpAsinh:
		return div(seed, unary(OpSqrt, add(mul(x, x), one)))
	case OpAcosh:
		return div(seed, unary(OpSqrt, sub(mul(x, x), one)))
	case OpAtanh:
		return div(seed, sub(one, mul(x, x)))
	case OpAbs:
		return mul(seed, unary(OpSign, x))
	case OpErf:
		return mul(seed, mul(Const(2/math.Sqrt(math.Pi)), unary(OpExp, neg(mul(x, x)))))
	case OpAdd:
		return seed
	case OpSub:
		if k == 0 {
			return seed
		}
		return neg(seed)
	case OpMul:
		return mul(seed, n.args[1-k])
	case OpDiv:
		y := n.args[1]
		if k == 0 {
			return div(seed, y)
		}
		return neg(mul(seed, div(n, y)))
	case OpPow:
		y := n.args[1]
		if k == 0 {
			return mul(seed, mul(y, pow(x, sub(y, one))))
		}
		return mul(seed, mul(n, unary(OpLog, x)))
	case OpAtan2:
		y, xx := n.args[0], n.args[1]
		r2 := add(mul(xx, xx), mul(y, y))
		if k == 0 {
			return mul(seed, div(xx, r2))
		}
		return neg(mul(seed, div(y, r2)))
	case OpFmin, OpFmax:
		a, b := n.args[0], n.args[1]
		first := binary(OpLe, a, b)
		if n.op == OpFmax {
			first = binary(OpLe, b, a)
		}
		if k == 0 {
			return ifElse(first, seed, Const(0))
		}
		return ifElse(first, Const(0), seed)
	case OpIfElse:
		switch k {
		case 1:
			return ifElse(n.args[0], seed, Const(0))
		case 2:
			return ifElse(n.args[0], Const(0), seed)
		}
	}
	// piecewise constant: sign, floor, ceil, comparisons, logic, branch condition
	return nil
}

func isZero(e *Expr) bool { return e == nil || e.isValue(0) }

// reverse accumulates adjoints from the seeded nodes down to the leaves.
func reverse(order []*Expr, seeds map[*Expr]*Expr) map[*Expr]*Expr {
	adj := make(map[*Expr]*Expr, len(seeds))
	for e, s := range seeds {
		adj[e] = s
	}
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		a := adj[n]
		if isZero(a) || len(n.args) == 0 {
			continue
		}
		for k, arg := range n.args {
			if arg.op == OpConst {
				continue
			}
			c := chain(n, k, a)
			if isZero(c) {
				continue
			}
			if prev, ok := adj[arg]; ok && prev != nil {
				adj[arg] = add(prev, c)
			} else {
				adj[arg] = c
			}
		}
	}
	return adj
}

// forward propagates tangents from the seeded leaves up to the roots.
func forward(order []*Expr, seeds map[*Expr]*Expr) map[*Expr]*Expr {
	tan := make(map[*Expr]*Expr, len(seeds))
	for e, s := range seeds {
		tan[e] = s
	}
	for _, n := range order {
		if _, seeded := seeds[n]; seeded || len(n.args) == 0 {
			continue
		}
		var t *Expr
		for k, arg := range n.args {
			ta := tan[arg]
			if isZero(ta) {
				continue
			}
			c := chain(n, k, ta)
			if isZero(c) {
				continue
			}
			if t == nil {
				t = c
			} else {
				t = add(t, c)
			}
		}
		if t != nil {
			tan[n] = t
		}
	}
	return tan
}

func collect(m map[*Expr]*Expr, keys []*Expr) []*Expr {
	out := make([]*Expr, len(keys))
	for i, k := range keys {
		if v := m[k]; v != nil {
			out[i] = v
		} else {
			out[i] = Const(0)
		}
	}
	return out
}

// Gradient returns df/dx shaped like x. f must be 1x1 and x a Variable.
func Gradient(f, x *Matrix) *Matrix {
	return GradientAll(f, []*Matrix{x})[0]
}

// GradientAll differentiates f with respect to several variables in one
// reverse sweep.
func GradientAll(f *Matrix, xs []*Matrix) []*Matrix {
	if !f.IsScalar() {
		panic(fmt.Sprintf("sym: Gradient requires a scalar expression, got %dx%d", f.rows, f.cols))
	}
	adj := reverse(topoSort(f.data), map[*Expr]*Expr{f.data[0]: Const(1)})
	out := make([]*Matrix, len(xs))
	for i, x := range xs {
		out[i] = NewMatrix(x.rows, x.cols, collect(adj, x.Symbols()))
	}
	return out
}

// Hessian returns the second derivative matrix of f with respect to x,
// numel(x) x numel(x), together with the gradient it was derived from.
func Hessian(f, x *Matrix) (h, g *Matrix) {
	g = Gradient(f, x)
	return Jacobian(g, x), g
}

// Jacobian returns the numel(a) x numel(x) matrix of partial derivatives
// da_i/dx_j, with a and x flattened column-major. Forward mode is used when
// x has fewer entries than a, reverse mode otherwise.
func Jacobian(a, x *Matrix) *Matrix {
	syms := x.Symbols()
	na, nx := a.Numel(), len(syms)
	order := topoSort(a.data)
	jac := newMatrix(na, nx)
	if nx < na {
		for j, s := range syms {
			tan := forward(order, map[*Expr]*Expr{s: Const(1)})
			col := collect(tan, a.data)
			copy(jac.data[j*na:(j+1)*na], col)
		}
		return jac
	}
	for i, e := range a.data {
		row := collect(reverse(order, map[*Expr]*Expr{e: Const(1)}), syms)
		for j, d := range row {
			jac.data[i+j*na] = d
		}
	}
	return jac
}

// Jtimes returns the directional derivative of a along v, shaped like a.
func Jtimes(a, x, v *Matrix) *Matrix {
	return JtimesAll(a, []*Matrix{x}, []*Matrix{v})
}

// JtimesAll returns sum_k da/dx_k . v_k, shaped like a.
func JtimesAll(a *Matrix, xs, vs []*Matrix) *Matrix {
	if len(xs) != len(vs) {
		panic(fmt.Sprintf("sym: Jtimes: %d variables but %d directions", len(xs), len(vs)))
	}
	seeds := make(map[*Expr]*Expr)
	for k, x := range xs {
		v := vs[k]
		if v.rows != x.rows || v.cols != x.cols {
			panic(fmt.Sprintf("sym: Jtimes: direction %dx%d for variable %dx%d", v.rows, v.cols, x.rows, x.cols))
		}
		for i, s := range x.Symbols() {
			seeds[s] = v.data[i]
		}
	}
	tan := forward(topoSort(a.data), seeds)
	return NewMatrix(a.rows, a.cols, collect(tan, a.data))
}

// Depends reports whether any entry of a depends on a symbol of x.
func Depends(a, x *Matrix) bool {
	want := make(map[*Expr]bool, x.Numel())
	for _, s := range x.Symbols() {
		want[s] = true
	}
	for _, n := range topoSort(a.data) {
		if want[n] {
			return true
		}
	}
	return false
}
