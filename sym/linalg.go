package sym

import "fmt"

// ============================================================
// Linear algebra on symbolic matrices
// ============================================================

func (m *Matrix) square(name string) {
	if m.rows != m.cols {
		panic(fmt.Sprintf("sym: %s requires a square matrix, got %dx%d", name, m.rows, m.cols))
	}
}

// Trace is the sum of the diagonal entries.
func Trace(m *Matrix) *Matrix {
	m.square("Trace")
	terms := make([]*Expr, m.rows)
	for i := range terms {
		terms[i] = m.data[i+i*m.rows]
	}
	return FromExpr(sumExprs(terms))
}

// Det is the determinant, expanded along the first row.
func Det(m *Matrix) *Matrix {
	m.square("Det")
	return FromExpr(det(m.data, m.rows))
}

// det works on a column-major n x n block.
func det(data []*Expr, n int) *Expr {
	at := func(i, j int) *Expr { return data[i+j*n] }
	switch n {
	case 0:
		return Const(1)
	case 1:
		return at(0, 0)
	case 2:
		return sub(mul(at(0, 0), at(1, 1)), mul(at(0, 1), at(1, 0)))
	}
	var acc *Expr
	for j := 0; j < n; j++ {
		t := mul(at(0, j), det(minor(data, n, 0, j), n-1))
		switch {
		case acc == nil && j%2 == 1:
			acc = neg(t)
		case acc == nil:
			acc = t
		case j%2 == 1:
			acc = sub(acc, t)
		default:
			acc = add(acc, t)
		}
	}
	return acc
}

func minor(data []*Expr, n, skipRow, skipCol int) []*Expr {
	out := make([]*Expr, 0, (n-1)*(n-1))
	for j := 0; j < n; j++ {
		if j == skipCol {
			continue
		}
		for i := 0; i < n; i++ {
			if i == skipRow {
				continue
			}
			out = append(out, data[i+j*n])
		}
	}
	return out
}

// Cofactor returns the matrix of signed minors.
func Cofactor(m *Matrix) *Matrix {
	m.square("Cofactor")
	n := m.rows
	if n == 1 {
		return Scalar(1)
	}
	return Build(n, n, func(i, j int) *Expr {
		d := det(minor(m.data, n, i, j), n-1)
		if (i+j)%2 == 1 {
			return neg(d)
		}
		return d
	})
}

// Adj is the adjugate, the transposed cofactor matrix.
func Adj(m *Matrix) *Matrix { return Cofactor(m).T() }

// Inv is the inverse adj(m) / det(m). Singular matrices give inf or NaN on
// evaluation.
func Inv(m *Matrix) *Matrix {
	m.square("Inv")
	return Adj(m).Div(Det(m))
}
