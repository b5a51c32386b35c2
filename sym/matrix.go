package sym

import (
	"fmt"
	"strings"
)

// ============================================================
// Matrix: dense symbolic matrix, column-major
// ============================================================

// Matrix is a rows x cols block of scalar expressions stored in column-major
// order. A 1x1 matrix plays the role of a scalar and broadcasts in every
// element-wise operation. Matrices are never modified in place.
type Matrix struct {
	rows, cols int
	data       []*Expr
}

func newMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("sym: negative matrix size %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]*Expr, rows*cols)}
}

// Variable returns a rows x cols matrix of fresh symbols. Element k (in
// column-major order) is named name_k; a 1x1 variable is named name.
func Variable(name string, rows, cols int) *Matrix {
	m := newMatrix(rows, cols)
	if len(m.data) == 1 {
		m.data[0] = Symbol(name)
		return m
	}
	for k := range m.data {
		m.data[k] = Symbol(fmt.Sprintf("%s_%d", name, k))
	}
	return m
}

// NewMatrix wraps entries given in column-major order.
func NewMatrix(rows, cols int, entries []*Expr) *Matrix {
	if len(entries) != rows*cols {
		panic(fmt.Sprintf("sym: NewMatrix needs %d entries, got %d", rows*cols, len(entries)))
	}
	m := newMatrix(rows, cols)
	copy(m.data, entries)
	return m
}

// Build fills a rows x cols matrix from f(i, j).
func Build(rows, cols int, f func(i, j int) *Expr) *Matrix {
	m := newMatrix(rows, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			m.data[i+j*rows] = f(i, j)
		}
	}
	return m
}

// FromExpr wraps a scalar expression as a 1x1 matrix.
func FromExpr(e *Expr) *Matrix { return &Matrix{rows: 1, cols: 1, data: []*Expr{e}} }

// Scalar returns the 1x1 constant v.
func Scalar(v float64) *Matrix { return FromExpr(Const(v)) }

// Vector returns a column vector of constants.
func Vector(vals ...float64) *Matrix {
	m := newMatrix(len(vals), 1)
	for i, v := range vals {
		m.data[i] = Const(v)
	}
	return m
}

// FromRows builds a constant matrix from row-major nested slices.
func FromRows(rows [][]float64) *Matrix {
	if len(rows) == 0 {
		return newMatrix(0, 0)
	}
	return Build(len(rows), len(rows[0]), func(i, j int) *Expr { return Const(rows[i][j]) })
}

func Full(rows, cols int, v float64) *Matrix {
	return Build(rows, cols, func(int, int) *Expr { return Const(v) })
}

func Zeros(rows, cols int) *Matrix { return Full(rows, cols, 0) }
func Ones(rows, cols int) *Matrix  { return Full(rows, cols, 1) }

// Eye returns the n x n identity.
func Eye(n int) *Matrix {
	return Build(n, n, func(i, j int) *Expr {
		if i == j {
			return Const(1)
		}
		return Const(0)
	})
}

// ============================================================
// Accessors
// ============================================================

func (m *Matrix) Rows() int         { return m.rows }
func (m *Matrix) Cols() int         { return m.cols }
func (m *Matrix) Numel() int        { return len(m.data) }
func (m *Matrix) Shape() (int, int) { return m.rows, m.cols }
func (m *Matrix) IsScalar() bool    { return m.rows == 1 && m.cols == 1 }
func (m *Matrix) Elem(k int) *Expr  { return m.data[k] }

// Index returns entry k (column-major) as a 1x1 matrix.
func (m *Matrix) Index(k int) *Matrix { return FromExpr(m.data[k]) }

// Exprs returns a copy of the entries in column-major order.
func (m *Matrix) Exprs() []*Expr {
	out := make([]*Expr, len(m.data))
	copy(out, m.data)
	return out
}

func (m *Matrix) checkBounds(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("sym: matrix index out of range [%d,%d] for %dx%d", i, j, m.rows, m.cols))
	}
}

// At returns entry (i, j).
func (m *Matrix) At(i, j int) *Expr {
	m.checkBounds(i, j)
	return m.data[i+j*m.rows]
}

// Get returns entry (i, j) as a 1x1 matrix.
func (m *Matrix) Get(i, j int) *Matrix { return FromExpr(m.At(i, j)) }

// With returns a copy of m with entry (i, j) replaced.
func (m *Matrix) With(i, j int, e *Expr) *Matrix {
	m.checkBounds(i, j)
	out := NewMatrix(m.rows, m.cols, m.data)
	out.data[i+j*m.rows] = e
	return out
}

// Block returns the r x c sub-matrix starting at (i0, j0).
func (m *Matrix) Block(i0, j0, r, c int) *Matrix {
	if r > 0 && c > 0 {
		m.checkBounds(i0, j0)
		m.checkBounds(i0+r-1, j0+c-1)
	}
	return Build(r, c, func(i, j int) *Expr { return m.data[i0+i+(j0+j)*m.rows] })
}

func (m *Matrix) Row(i int) *Matrix { return m.Block(i, 0, 1, m.cols) }
func (m *Matrix) Col(j int) *Matrix { return m.Block(0, j, m.rows, 1) }

// Symbols returns the entries of a matrix made only of symbols, as created by
// Variable. It panics on any other entry.
func (m *Matrix) Symbols() []*Expr {
	for _, e := range m.data {
		if e.op != OpSym {
			panic(fmt.Sprintf("sym: %s is not a symbol", e))
		}
	}
	return m.Exprs()
}

func (m *Matrix) String() string {
	if m.IsScalar() {
		return m.data[0].String()
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			m.data[i+j*m.rows].write(&sb)
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

// ============================================================
// Element-wise algebra
// ============================================================

func (m *Matrix) mapUnary(op Op) *Matrix {
	out := newMatrix(m.rows, m.cols)
	for k, e := range m.data {
		out.data[k] = unary(op, e)
	}
	return out
}

// broadcastShape returns the common shape of operands where 1x1 operands
// broadcast against the others.
func broadcastShape(name string, ms ...*Matrix) (int, int) {
	rows, cols := 1, 1
	for _, m := range ms {
		if m.IsScalar() {
			continue
		}
		if rows == 1 && cols == 1 {
			rows, cols = m.rows, m.cols
			continue
		}
		if m.rows != rows || m.cols != cols {
			panic(fmt.Sprintf("sym: %s: dimension mismatch %dx%d vs %dx%d", name, rows, cols, m.rows, m.cols))
		}
	}
	return rows, cols
}

func (m *Matrix) bcast(k int) *Expr {
	if m.IsScalar() {
		return m.data[0]
	}
	return m.data[k]
}

func zip(op Op, a, b *Matrix) *Matrix {
	rows, cols := broadcastShape(op.String(), a, b)
	out := newMatrix(rows, cols)
	for k := range out.data {
		out.data[k] = binary(op, a.bcast(k), b.bcast(k))
	}
	return out
}

func (m *Matrix) Add(o *Matrix) *Matrix { return zip(OpAdd, m, o) }
func (m *Matrix) Sub(o *Matrix) *Matrix { return zip(OpSub, m, o) }
func (m *Matrix) Mul(o *Matrix) *Matrix { return zip(OpMul, m, o) }
func (m *Matrix) Div(o *Matrix) *Matrix { return zip(OpDiv, m, o) }
func (m *Matrix) Pow(o *Matrix) *Matrix { return zip(OpPow, m, o) }
func (m *Matrix) Neg() *Matrix          { return m.mapUnary(OpNeg) }

// Scale multiplies every entry by the constant v.
func (m *Matrix) Scale(v float64) *Matrix { return m.Mul(Scalar(v)) }

// AddConst adds the constant v to every entry.
func (m *Matrix) AddConst(v float64) *Matrix { return m.Add(Scalar(v)) }

// PowConst raises every entry to the constant power p.
func (m *Matrix) PowConst(p float64) *Matrix { return m.Pow(Scalar(p)) }

// RSub returns v - m.
func (m *Matrix) RSub(v float64) *Matrix { return Scalar(v).Sub(m) }

// MatMul is the matrix product m * o.
func (m *Matrix) MatMul(o *Matrix) *Matrix {
	if m.cols != o.rows {
		panic(fmt.Sprintf("sym: MatMul: dimension mismatch %dx%d * %dx%d", m.rows, m.cols, o.rows, o.cols))
	}
	return Build(m.rows, o.cols, func(i, j int) *Expr {
		var acc *Expr
		for k := 0; k < m.cols; k++ {
			t := mul(m.data[i+k*m.rows], o.data[k+j*o.rows])
			if acc == nil {
				acc = t
			} else {
				acc = add(acc, t)
			}
		}
		if acc == nil {
			return Const(0)
		}
		return acc
	})
}

// T is the transpose.
func (m *Matrix) T() *Matrix {
	return Build(m.cols, m.rows, func(i, j int) *Expr { return m.data[j+i*m.rows] })
}

// ============================================================
// Element-wise math
// ============================================================

func Sqrt(m *Matrix) *Matrix  { return m.mapUnary(OpSqrt) }
func Exp(m *Matrix) *Matrix   { return m.mapUnary(OpExp) }
func Log(m *Matrix) *Matrix   { return m.mapUnary(OpLog) }
func Sin(m *Matrix) *Matrix   { return m.mapUnary(OpSin) }
func Cos(m *Matrix) *Matrix   { return m.mapUnary(OpCos) }
func Tan(m *Matrix) *Matrix   { return m.mapUnary(OpTan) }
func Asin(m *Matrix) *Matrix  { return m.mapUnary(OpAsin) }
func Acos(m *Matrix) *Matrix  { return m.mapUnary(OpAcos) }
func Atan(m *Matrix) *Matrix  { return m.mapUnary(OpAtan) }
func Sinh(m *Matrix) *Matrix  { return m.mapUnary(OpSinh) }
func Cosh(m *Matrix) *Matrix  { return m.mapUnary(OpCosh) }
func Tanh(m *Matrix) *Matrix  { return m.mapUnary(OpTanh) }
func Asinh(m *Matrix) *Matrix { return m.mapUnary(OpAsinh) }
func Acosh(m *Matrix) *Matrix { return m.mapUnary(OpAcosh) }
func Atanh(m *Matrix) *Matrix { return m.mapUnary(OpAtanh) }
func Fabs(m *Matrix) *Matrix  { return m.mapUnary(OpAbs) }
func Sign(m *Matrix) *Matrix  { return m.mapUnary(OpSign) }
func Floor(m *Matrix) *Matrix { return m.mapUnary(OpFloor) }
func Ceil(m *Matrix) *Matrix  { return m.mapUnary(OpCeil) }
func Erf(m *Matrix) *Matrix   { return m.mapUnary(OpErf) }
func Not(m *Matrix) *Matrix   { return m.mapUnary(OpNot) }

func Atan2(y, x *Matrix) *Matrix { return zip(OpAtan2, y, x) }
func Fmin(a, b *Matrix) *Matrix  { return zip(OpFmin, a, b) }
func Fmax(a, b *Matrix) *Matrix  { return zip(OpFmax, a, b) }

// Comparisons and logic evaluate to 1 (true) or 0 (false).
func Lt(a, b *Matrix) *Matrix  { return zip(OpLt, a, b) }
func Le(a, b *Matrix) *Matrix  { return zip(OpLe, a, b) }
func Gt(a, b *Matrix) *Matrix  { return zip(OpLt, b, a) }
func Ge(a, b *Matrix) *Matrix  { return zip(OpLe, b, a) }
func Eq(a, b *Matrix) *Matrix  { return zip(OpEq, a, b) }
func Ne(a, b *Matrix) *Matrix  { return zip(OpNe, a, b) }
func And(a, b *Matrix) *Matrix { return zip(OpAnd, a, b) }
func Or(a, b *Matrix) *Matrix  { return zip(OpOr, a, b) }

// IfElse selects a where cond is nonzero and b elsewhere, entry by entry.
func IfElse(cond, a, b *Matrix) *Matrix {
	rows, cols := broadcastShape("if_else", cond, a, b)
	out := newMatrix(rows, cols)
	for k := range out.data {
		out.data[k] = ifElse(cond.bcast(k), a.bcast(k), b.bcast(k))
	}
	return out
}

// ============================================================
// Reductions
// ============================================================

func sumExprs(es []*Expr) *Expr {
	if len(es) == 0 {
		return Const(0)
	}
	acc := es[0]
	for _, e := range es[1:] {
		acc = add(acc, e)
	}
	return acc
}

// Sum1 sums over rows, giving a 1 x cols row vector.
func Sum1(m *Matrix) *Matrix {
	return Build(1, m.cols, func(_, j int) *Expr { return sumExprs(m.data[j*m.rows : (j+1)*m.rows]) })
}

// Sum2 sums over columns, giving a rows x 1 column vector.
func Sum2(m *Matrix) *Matrix { return Sum1(m.T()).T() }

// Sum adds all entries.
func Sum(m *Matrix) *Matrix { return FromExpr(sumExprs(m.data)) }

// Sumsqr is the sum of squared entries.
func Sumsqr(m *Matrix) *Matrix { return Sum(m.Mul(m)) }

// Norm1 is the sum of absolute entries.
func Norm1(m *Matrix) *Matrix { return Sum(Fabs(m)) }

// Norm2 is the Euclidean (Frobenius) norm.
func Norm2(m *Matrix) *Matrix { return Sqrt(Sumsqr(m)) }

// Dot is the inner product of two equally shaped matrices.
func Dot(a, b *Matrix) *Matrix {
	if a.rows != b.rows || a.cols != b.cols {
		panic(fmt.Sprintf("sym: Dot: dimension mismatch %dx%d vs %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	return Sum(a.Mul(b))
}

func reduce(op Op, m *Matrix) *Matrix {
	if m.Numel() == 0 {
		panic(fmt.Sprintf("sym: %s of empty matrix", op))
	}
	acc := m.data[0]
	for _, e := range m.data[1:] {
		acc = binary(op, acc, e)
	}
	return FromExpr(acc)
}

// Mmin and Mmax reduce a matrix to its smallest and largest entry.
func Mmin(m *Matrix) *Matrix { return reduce(OpFmin, m) }
func Mmax(m *Matrix) *Matrix { return reduce(OpFmax, m) }

// Cross is the cross product of two 3-vectors.
func Cross(a, b *Matrix) *Matrix {
	if a.Numel() != 3 || b.Numel() != 3 {
		panic("sym: Cross requires two 3-vectors")
	}
	x := func(k int) *Expr { return a.data[k] }
	y := func(k int) *Expr { return b.data[k] }
	out := NewMatrix(3, 1, []*Expr{
		sub(mul(x(1), y(2)), mul(x(2), y(1))),
		sub(mul(x(2), y(0)), mul(x(0), y(2))),
		sub(mul(x(0), y(1)), mul(x(1), y(0))),
	})
	return out.Reshape(a.rows, a.cols)
}

// Diag returns the diagonal of a square matrix as a column vector, or the
// diagonal matrix of a vector.
func Diag(m *Matrix) *Matrix {
	if m.rows == 1 || m.cols == 1 {
		n := m.Numel()
		return Build(n, n, func(i, j int) *Expr {
			if i == j {
				return m.data[i]
			}
			return Const(0)
		})
	}
	m.square("Diag")
	return Build(m.rows, 1, func(i, _ int) *Expr { return m.data[i+i*m.rows] })
}

// ============================================================
// Structure
// ============================================================

// Reshape reinterprets the column-major entries as rows x cols.
func (m *Matrix) Reshape(rows, cols int) *Matrix {
	if rows*cols != m.Numel() {
		panic(fmt.Sprintf("sym: cannot reshape %dx%d into %dx%d", m.rows, m.cols, rows, cols))
	}
	return NewMatrix(rows, cols, m.data)
}

// Vec stacks the columns into one column vector.
func (m *Matrix) Vec() *Matrix { return m.Reshape(m.Numel(), 1) }

// Vertcat stacks matrices with equal column counts on top of each other.
func Vertcat(ms ...*Matrix) *Matrix {
	ts := make([]*Matrix, len(ms))
	for i, m := range ms {
		ts[i] = m.T()
	}
	return Horzcat(ts...).T()
}

// Horzcat places matrices with equal row counts side by side.
func Horzcat(ms ...*Matrix) *Matrix {
	var rows, cols int
	var data []*Expr
	for i, m := range ms {
		if m.Numel() == 0 {
			continue
		}
		if i > 0 && cols > 0 && m.rows != rows {
			panic(fmt.Sprintf("sym: Horzcat: row mismatch %d vs %d", rows, m.rows))
		}
		rows = m.rows
		cols += m.cols
		data = append(data, m.data...)
	}
	return NewMatrix(rows, cols, data)
}

// Vertsplit cuts m into row blocks at the given offsets. Offsets must start
// at 0 and end at m.Rows(); with no offsets every row is its own block.
func Vertsplit(m *Matrix, offsets ...int) []*Matrix {
	if len(offsets) == 0 {
		offsets = make([]int, m.rows+1)
		for i := range offsets {
			offsets[i] = i
		}
	}
	if offsets[0] != 0 || offsets[len(offsets)-1] != m.rows {
		panic(fmt.Sprintf("sym: Vertsplit: offsets %v do not span %d rows", offsets, m.rows))
	}
	out := make([]*Matrix, 0, len(offsets)-1)
	for k := 1; k < len(offsets); k++ {
		out = append(out, m.Block(offsets[k-1], 0, offsets[k]-offsets[k-1], m.cols))
	}
	return out
}

// Repmat tiles m n times vertically and p times horizontally.
func Repmat(m *Matrix, n, p int) *Matrix {
	return Build(m.rows*n, m.cols*p, func(i, j int) *Expr { return m.data[i%m.rows+(j%m.cols)*m.rows] })
}

// Triu keeps the upper triangle including the diagonal.
func Triu(m *Matrix) *Matrix {
	return Build(m.rows, m.cols, func(i, j int) *Expr {
		if j >= i {
			return m.data[i+j*m.rows]
		}
		return Const(0)
	})
}

// Tril keeps the lower triangle including the diagonal.
func Tril(m *Matrix) *Matrix { return Triu(m.T()).T() }
