package sym_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/hyperdual"

	"github.com/njchilds90/matadi/sym"
)

// evalAt compiles outs over in and evaluates them at vals.
func evalAt(t *testing.T, in []*sym.Matrix, vals [][]float64, outs ...*sym.Matrix) [][]float64 {
	t.Helper()
	f, err := sym.Compile("eval", in, outs)
	require.NoError(t, err)
	res := make([][]float64, len(outs))
	for k, o := range outs {
		res[k] = make([]float64, o.Numel())
	}
	require.NoError(t, f.Call(vals, res))
	return res
}

// ============================================================
// Gradient
// ============================================================

func TestGradient_ClosedForm(t *testing.T) {
	X := sym.Variable("x", 2, 1)
	x, y := X.Index(0), X.Index(1)
	f := x.Mul(x).Mul(y).Add(sym.Sin(x)).Add(sym.Exp(y).Div(x))

	g := sym.Gradient(f, X)
	require.Equal(t, 2, g.Rows())
	require.Equal(t, 1, g.Cols())

	a, b := 0.7, -0.3
	got := evalAt(t, []*sym.Matrix{X}, [][]float64{{a, b}}, g)[0]
	require.InDelta(t, 2*a*b+math.Cos(a)-math.Exp(b)/(a*a), got[0], 1e-12)
	require.InDelta(t, a*a+math.Exp(b)/a, got[1], 1e-12)
}

func TestGradient_FiniteDifference(t *testing.T) {
	F := sym.Variable("F", 3, 3)
	C := F.T().MatMul(F)
	J := sym.Det(F)
	W := sym.Trace(C).Mul(J.PowConst(-2.0 / 3)).AddConst(-3).Scale(0.5).
		Add(J.AddConst(-1).PowConst(2).Scale(10))

	g := sym.Gradient(W, F)
	fw, err := sym.Compile("W", []*sym.Matrix{F}, []*sym.Matrix{W})
	require.NoError(t, err)
	energy := func(x []float64) float64 {
		out := [][]float64{{0}}
		require.NoError(t, fw.Call([][]float64{x}, out))
		return out[0][0]
	}

	x := []float64{1.1, 0.05, -0.02, 0.1, 0.9, 0.03, 0.0, -0.04, 1.05}
	want := fd.Gradient(nil, energy, x, &fd.Settings{Formula: fd.Central})
	got := evalAt(t, []*sym.Matrix{F}, [][]float64{x}, g)[0]
	for k := range want {
		require.InDelta(t, want[k], got[k], 1e-6, "entry %d", k)
	}
}

func TestGradient_RequiresScalar(t *testing.T) {
	x := sym.Variable("x", 2, 1)
	require.Panics(t, func() { sym.Gradient(x, x) })
}

// ============================================================
// Hessian
// ============================================================

func TestHessian_Hyperdual(t *testing.T) {
	X := sym.Variable("x", 2, 1)
	x, y := X.Index(0), X.Index(1)
	// x^2 exp(y) + sin(x y) / sqrt(x)
	f := x.Mul(x).Mul(sym.Exp(y)).Add(sym.Sin(x.Mul(y)).Div(sym.Sqrt(x)))

	fn := func(x, y hyperdual.Number) hyperdual.Number {
		return hyperdual.Add(
			hyperdual.Mul(hyperdual.Mul(x, x), hyperdual.Exp(y)),
			hyperdual.Mul(hyperdual.Sin(hyperdual.Mul(x, y)), hyperdual.Inv(hyperdual.Sqrt(x))),
		)
	}
	a, b := 1.3, 0.4
	dxx := fn(hyperdual.Number{Real: a, E1mag: 1, E2mag: 1}, hyperdual.Number{Real: b})
	dyy := fn(hyperdual.Number{Real: a}, hyperdual.Number{Real: b, E1mag: 1, E2mag: 1})
	dxy := fn(hyperdual.Number{Real: a, E1mag: 1}, hyperdual.Number{Real: b, E2mag: 1})

	h, g := sym.Hessian(f, X)
	res := evalAt(t, []*sym.Matrix{X}, [][]float64{{a, b}}, h, g)

	require.InDelta(t, dxx.E1mag, res[1][0], 1e-12)
	require.InDelta(t, dyy.E1mag, res[1][1], 1e-12)
	require.InDelta(t, dxx.E1E2mag, res[0][0], 1e-10)
	require.InDelta(t, dxy.E1E2mag, res[0][1], 1e-10)
	require.InDelta(t, dxy.E1E2mag, res[0][2], 1e-10)
	require.InDelta(t, dyy.E1E2mag, res[0][3], 1e-10)
}

// ============================================================
// Jacobian and directional derivatives
// ============================================================

func TestJacobian_ForwardAndReverse(t *testing.T) {
	X := sym.Variable("x", 2, 1)
	x0, x1 := X.Index(0), X.Index(1)
	// more outputs than inputs takes the forward path, fewer the reverse one
	tall := sym.Vertcat(x0.Mul(x1), sym.Sin(x0), x1.PowConst(3))
	wide := sym.Vertcat(x0.Mul(x1).Add(sym.Cos(x1)))
	funcs := map[string]*sym.Matrix{"tall": tall, "wide": wide}

	x := []float64{0.3, 1.7}
	for name, a := range funcs {
		t.Run(name, func(t *testing.T) {
			fa, err := sym.Compile(name, []*sym.Matrix{X}, []*sym.Matrix{a})
			require.NoError(t, err)
			n := a.Numel()
			want := mat.NewDense(n, 2, nil)
			fd.Jacobian(want, func(y, x []float64) {
				require.NoError(t, fa.Call([][]float64{x}, [][]float64{y}))
			}, x, &fd.JacobianSettings{Formula: fd.Central})

			jac := sym.Jacobian(a, X)
			require.Equal(t, n, jac.Rows())
			require.Equal(t, 2, jac.Cols())
			got := evalAt(t, []*sym.Matrix{X}, [][]float64{x}, jac)[0]
			for i := 0; i < n; i++ {
				for j := 0; j < 2; j++ {
					require.InDelta(t, want.At(i, j), got[i+j*n], 1e-7)
				}
			}
		})
	}
}

func TestJtimes_MatchesJacobian(t *testing.T) {
	X := sym.Variable("x", 3, 1)
	V := sym.Variable("v", 3, 1)
	a := sym.Vertcat(
		X.Index(0).Mul(X.Index(1)).Mul(X.Index(2)),
		sym.Exp(X.Index(0)).Sub(X.Index(2)),
	)
	jv := sym.Jtimes(a, X, V)
	jac := sym.Jacobian(a, X)

	x := []float64{0.5, -1.2, 2.0}
	v := []float64{0.1, 0.2, -0.3}
	got := evalAt(t, []*sym.Matrix{X, V}, [][]float64{x, v}, jv)[0]
	j := evalAt(t, []*sym.Matrix{X}, [][]float64{x}, jac)[0]
	for i := 0; i < 2; i++ {
		want := 0.0
		for k := 0; k < 3; k++ {
			want += j[i+k*2] * v[k]
		}
		require.InDelta(t, want, got[i], 1e-12)
	}
}

func TestGradient_PiecewiseFunctions(t *testing.T) {
	x := sym.Variable("x", 1, 1)
	ramp := sym.Fmax(x, sym.Scalar(0))
	f := ramp.Mul(ramp).Add(sym.IfElse(sym.Gt(x, sym.Scalar(1)), x.Scale(3), sym.Scalar(0)))
	g := sym.Gradient(f, x)

	for _, c := range []struct{ x, want float64 }{
		{-0.5, 0},
		{0.5, 1},
		{2, 7},
	} {
		got := evalAt(t, []*sym.Matrix{x}, [][]float64{{c.x}}, g)[0][0]
		require.InDelta(t, c.want, got, 1e-14, "x=%v", c.x)
	}
}

func TestDepends(t *testing.T) {
	x := sym.Variable("x", 2, 2)
	y := sym.Variable("y", 1, 1)
	require.True(t, sym.Depends(sym.Trace(x), x))
	require.False(t, sym.Depends(y.Mul(y), x))
}
