package sym

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ============================================================
// Tensor helpers for continuum mechanics
// ============================================================

// DefaultEigvalsEps is the diagonal shift used by Eigvals.
const DefaultEigvalsEps = 1e-4

// TrescaEps is the shift used by Tresca and the default for Mexp.
const TrescaEps = 8e-5

// Invariants returns the principal invariants of a square matrix.
func Invariants(T *Matrix) (I1, I2, I3 *Matrix) {
	I1 = Trace(T)
	I2 = I1.Mul(I1).Sub(Trace(T.MatMul(T))).Scale(0.5)
	I3 = Det(T)
	return I1, I2, I3
}

// Eigvals returns the eigenvalues of a 1x1, 2x2 or 3x3 matrix with real
// eigenvalues as a column vector in ascending order. The matrix is shifted by
// eps * diag(1, -1, 0) first so that repeated eigenvalues separate and the
// closed-form expressions stay differentiable.
func Eigvals(T *Matrix, eps float64) *Matrix {
	T.square("Eigvals")
	switch T.rows {
	case 1:
		return T
	case 2:
		A := T.Add(Diag(Vector(1, -1)).Scale(eps))
		a, b, c, d := A.Get(0, 0), A.Get(0, 1), A.Get(1, 0), A.Get(1, 1)
		mid := a.Add(d).Scale(0.5)
		h := a.Sub(d).Scale(0.5)
		r := Sqrt(h.Mul(h).Add(b.Mul(c)))
		return Vertcat(mid.Sub(r), mid.Add(r))
	case 3:
		return eigvals3(T.Add(Diag(Vector(1, -1, 0)).Scale(eps)))
	}
	panic(fmt.Sprintf("sym: Eigvals supports up to 3x3, got %dx%d", T.rows, T.cols))
}

// eigvals3 is the trigonometric solution of the characteristic cubic.
func eigvals3(A *Matrix) *Matrix {
	q := Trace(A).Scale(1.0 / 3)
	B := A.Sub(Eye(3).Mul(q))
	p := Sqrt(Trace(B.MatMul(B)).Scale(1.0 / 6))
	r := Det(B.Div(p)).Scale(0.5)
	r = Fmin(Fmax(r, Scalar(-1)), Scalar(1))
	phi := Acos(r).Scale(1.0 / 3)

	hi := q.Add(p.Scale(2).Mul(Cos(phi)))
	lo := q.Add(p.Scale(2).Mul(Cos(phi.AddConst(2 * math.Pi / 3))))
	mid := q.Scale(3).Sub(hi).Sub(lo)
	return Vertcat(lo, mid, hi)
}

// Cof is the cofactor matrix det(T) inv(T)^T.
func Cof(T *Matrix) *Matrix { return Cofactor(T) }

// SymPart is the symmetric part (T + T^T) / 2.
func SymPart(T *Matrix) *Matrix { return T.Add(T.T()).Scale(0.5) }

// Dev is the deviatoric part T - tr(T)/n I.
func Dev(T *Matrix) *Matrix {
	n := T.rows
	return T.Sub(Eye(n).Mul(Trace(T).Scale(1 / float64(n))))
}

// DDot is the double contraction tr(A^T B).
func DDot(A, B *Matrix) *Matrix { return Dot(A, B) }

// Tresca is the largest difference of two eigenvalues of C.
func Tresca(C *Matrix) *Matrix {
	w := Eigvals(C, TrescaEps)
	if w.Numel() != 3 {
		panic("sym: Tresca requires a 3x3 matrix")
	}
	shifted := NewMatrix(3, 1, []*Expr{w.data[1], w.data[2], w.data[0]})
	return Mmax(Fabs(w.Sub(shifted)))
}

// Mexp is the exponential of a symmetric 3x3 matrix with distinct
// eigenvalues, by Sylvester's formula.
func Mexp(C *Matrix, eps float64) *Matrix {
	w := Eigvals(C, eps)
	if w.Numel() != 3 {
		panic("sym: Mexp requires a 3x3 matrix")
	}
	I := Eye(3)
	shift := func(k int) *Matrix { return C.Sub(I.Mul(w.Index(k))) }
	out := Zeros(3, 3)
	for a := 0; a < 3; a++ {
		b, c := (a+1)%3, (a+2)%3
		P := shift(b).MatMul(shift(c)).
			Div(w.Index(a).Sub(w.Index(b))).
			Div(w.Index(a).Sub(w.Index(c)))
		out = out.Add(Exp(w.Index(a)).Mul(P))
	}
	return out
}

// AsVoigt packs a symmetric 3x3 (or 2x2) tensor into the 6x1 (or 3x1) vector
// [11, 22, 33, 12, 23, 13] ([11, 22, 12]); shear entries are multiplied by
// scale.
func AsVoigt(A *Matrix, scale float64) (*Matrix, error) {
	switch {
	case A.rows == 3 && A.cols == 3:
		return Vertcat(
			A.Get(0, 0), A.Get(1, 1), A.Get(2, 2),
			A.Get(0, 1).Scale(scale), A.Get(1, 2).Scale(scale), A.Get(0, 2).Scale(scale),
		), nil
	case A.rows == 2 && A.cols == 2:
		return Vertcat(A.Get(0, 0), A.Get(1, 1), A.Get(0, 1).Scale(scale)), nil
	}
	return nil, errors.Wrapf(ErrVoigtShape, "tensor of shape %dx%d", A.rows, A.cols)
}

// AsTensor is the inverse of AsVoigt for 6x1 and 3x1 vectors.
func AsTensor(A *Matrix, scale float64) (*Matrix, error) {
	switch {
	case A.rows == 6 && A.cols == 1:
		s := func(k int) *Matrix { return A.Index(k).Scale(1 / scale) }
		return Horzcat(
			Vertcat(A.Index(0), s(3), s(5)),
			Vertcat(s(3), A.Index(1), s(4)),
			Vertcat(s(5), s(4), A.Index(2)),
		), nil
	case A.rows == 3 && A.cols == 1:
		s := A.Index(2).Scale(1 / scale)
		return Horzcat(
			Vertcat(A.Index(0), s),
			Vertcat(s, A.Index(1)),
		), nil
	}
	return nil, errors.Wrapf(ErrVoigtShape, "vector of shape %dx%d", A.rows, A.cols)
}
