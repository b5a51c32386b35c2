package matadi_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/njchilds90/matadi"
	"github.com/njchilds90/matadi/models"
	"github.com/njchilds90/matadi/sym"
)

func delta(a, b int) float64 {
	if a == b {
		return 1
	}
	return 0
}

func TestMaterial_NeoHookeAtIdentity(t *testing.T) {
	W := models.NeoHooke(0.5)
	m, err := matadi.NewMaterial([]*sym.Matrix{sym.Variable("F", 3, 3)}, func(x []*sym.Matrix) *sym.Matrix {
		return W(x[0])
	})
	require.NoError(t, err)

	F := batch(t, identity3, 0, 4, 3, 3)
	g, err := m.Gradient([]*matadi.Array{F})
	require.NoError(t, err)
	require.Len(t, g, 1)
	require.Equal(t, matadi.Shape{3, 3, 4}, g[0].Shape())
	for _, v := range g[0].Data() {
		require.InDelta(t, 0, v, 1e-8)
	}

	h, err := m.Hessian([]*matadi.Array{F})
	require.NoError(t, err)
	require.Len(t, h, 1)
	require.Equal(t, matadi.Shape{3, 3, 3, 3, 4}, h[0].Shape())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					want := delta(i, k)*delta(j, l) + delta(i, l)*delta(j, k) - 2.0/3*delta(i, j)*delta(k, l)
					for s := 0; s < 4; s++ {
						require.InDelta(t, want, h[0].At(i, j, k, l, s), 1e-8)
					}
				}
			}
		}
	}

	j, err := m.Jacobian([]*matadi.Array{F})
	require.NoError(t, err)
	require.Equal(t, g[0].Data(), j[0].Data())
}

func TestMaterial_EigenvalueEnergy(t *testing.T) {
	// the sum of the eigenvalues of C is its trace
	m, err := matadi.NewMaterial([]*sym.Matrix{sym.Variable("F", 3, 3)}, func(x []*sym.Matrix) *sym.Matrix {
		C := x[0].T().MatMul(x[0])
		return sym.Sum(sym.Eigvals(C, sym.DefaultEigvalsEps)).AddConst(-3).Scale(0.5)
	})
	require.NoError(t, err)

	F := single(t, deformed3, 3, 3)
	g, err := m.Gradient([]*matadi.Array{F})
	require.NoError(t, err)
	require.InDeltaSlice(t, deformed3, g[0].Data(), 1e-8)

	h, err := m.Hessian([]*matadi.Array{F})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					require.InDelta(t, delta(i, k)*delta(j, l), h[0].At(i, j, k, l), 1e-8)
				}
			}
		}
	}
}

// mixed is a material of F and a scalar p.
func mixed(t *testing.T, opts ...matadi.Option) *matadi.Material {
	t.Helper()
	W := models.NeoHooke(0.5)
	x := []*sym.Matrix{sym.Variable("F", 3, 3), sym.Variable("p", 1, 1)}
	m, err := matadi.NewMaterial(x, func(x []*sym.Matrix) *sym.Matrix {
		F, p := x[0], x[1]
		return W(F).Add(p.Mul(sym.Det(F).AddConst(-1))).Add(p.PowConst(2).Scale(0.1))
	}, opts...)
	require.NoError(t, err)
	return m
}

func TestMaterial_Index(t *testing.T) {
	idx := mixed(t).Index()
	require.Equal(t, []matadi.Shape{{3, 3}, {1, 1}}, idx.Gradient)
	require.Equal(t, []matadi.Shape{{3, 3, 3, 3}, {3, 3, 1, 1}, {1, 1, 1, 1}}, idx.Hessian)
	require.Equal(t, []matadi.Pair{{0, 0}, {0, 1}, {1, 1}}, idx.Pairs)

	idx = mixed(t, matadi.WithCompress()).Index()
	require.Equal(t, []matadi.Shape{{3, 3}, {}}, idx.Gradient)
	require.Equal(t, []matadi.Shape{{3, 3, 3, 3}, {3, 3}, {}}, idx.Hessian)
}

func TestMaterial_CompressRoundTrip(t *testing.T) {
	full, compressed := mixed(t), mixed(t, matadi.WithCompress())

	same := func(want, got []*matadi.Array) {
		t.Helper()
		require.Len(t, got, len(want))
		for k := range want {
			require.InDeltaSlice(t, want[k].Data(), got[k].Data(), 1e-12, "output %d", k)
		}
	}
	evaluate := func(m *matadi.Material, x []*matadi.Array) (w, g, h []*matadi.Array) {
		t.Helper()
		var err error
		w, err = m.Function(x)
		require.NoError(t, err)
		g, err = m.Gradient(x)
		require.NoError(t, err)
		h, err = m.Hessian(x)
		require.NoError(t, err)
		return w, g, h
	}

	// batch (2, 3)
	F, err := batch(t, deformed3, 0.02, 6, 3, 3).Reshape(3, 3, 2, 3)
	require.NoError(t, err)
	p := batch(t, []float64{0.3}, 0.5, 6, 1, 1)
	p11, err := p.Reshape(1, 1, 2, 3)
	require.NoError(t, err)
	p0, err := p.Reshape(2, 3)
	require.NoError(t, err)

	w, g, h := evaluate(full, []*matadi.Array{F, p11})
	wc, gc, hc := evaluate(compressed, []*matadi.Array{F, p0})
	same(w, wc)
	same(g, gc)
	same(h, hc)

	require.Equal(t, matadi.Shape{2, 3}, w[0].Shape())
	require.Equal(t, matadi.Shape{2, 3}, wc[0].Shape())
	require.Equal(t, matadi.Shape{1, 1, 2, 3}, g[1].Shape())
	require.Equal(t, matadi.Shape{2, 3}, gc[1].Shape())
	require.Equal(t, matadi.Shape{3, 3, 1, 1, 2, 3}, h[1].Shape())
	require.Equal(t, matadi.Shape{3, 3, 2, 3}, hc[1].Shape())
	require.Equal(t, matadi.Shape{1, 1, 1, 1, 2, 3}, h[2].Shape())
	require.Equal(t, matadi.Shape{2, 3}, hc[2].Shape())

	// no batch axes
	F1 := single(t, deformed3, 3, 3)
	w, g, h = evaluate(full, []*matadi.Array{F1, single(t, []float64{0.3}, 1, 1)})
	wc, gc, hc = evaluate(compressed, []*matadi.Array{F1, single(t, []float64{0.3})})
	same(w, wc)
	same(g, gc)
	same(h, hc)

	require.Equal(t, matadi.Shape{1, 1}, g[1].Shape())
	require.Equal(t, matadi.Shape{1}, gc[1].Shape())
	require.Equal(t, matadi.Shape{3, 3, 3, 3}, hc[0].Shape())
	require.Equal(t, matadi.Shape{3, 3}, hc[1].Shape())
	require.Equal(t, matadi.Shape{1}, hc[2].Shape())
}

func TestMaterial_GradientFiniteDifference(t *testing.T) {
	m := mixed(t)
	F := single(t, deformed3, 3, 3)
	p := single(t, []float64{0.3}, 1, 1)
	g, err := m.Gradient([]*matadi.Array{F, p})
	require.NoError(t, err)

	value := func(x []float64) float64 {
		out, err := m.Function([]*matadi.Array{single(t, x[:9], 3, 3), single(t, x[9:], 1, 1)})
		require.NoError(t, err)
		return out[0].Data()[0]
	}
	x0 := append(append([]float64(nil), deformed3...), 0.3)
	want := fd.Gradient(nil, value, x0, &fd.Settings{Formula: fd.Central, Step: 1e-6})
	require.InDeltaSlice(t, want[:9], g[0].Data(), 1e-6)
	require.InDeltaSlice(t, want[9:], g[1].Data(), 1e-6)
}

func TestMaterial_VectorProducts(t *testing.T) {
	m := mixed(t)
	n := 3
	F := batch(t, deformed3, 0.02, n, 3, 3)
	p := batch(t, []float64{0.3}, 0.5, n, 1, 1)
	v0 := batch(t, []float64{0.1, -0.2, 0.3, 0.05, 0.4, -0.1, 0.2, 0.1, -0.3}, 0.3, n, 3, 3)
	v1 := batch(t, []float64{0.7}, 0.2, n, 1, 1)
	u0 := batch(t, []float64{-0.1, 0.2, 0.1, 0.3, -0.2, 0.4, 0.1, -0.1, 0.2}, 0.1, n, 3, 3)
	u1 := batch(t, []float64{-0.4}, 0.3, n, 1, 1)
	x := []*matadi.Array{F, p}

	g, err := m.Gradient(x)
	require.NoError(t, err)
	h, err := m.Hessian(x)
	require.NoError(t, err)
	gv, err := m.GradientVectorProduct(x, []*matadi.Array{v0, v1})
	require.NoError(t, err)
	hv, err := m.HessianVectorProduct(x, []*matadi.Array{v0, v1}, []*matadi.Array{u0, u1})
	require.NoError(t, err)
	require.Equal(t, matadi.Shape{n}, gv[0].Shape())
	require.Equal(t, matadi.Shape{n}, hv[0].Shape())

	sizes := []int{9, 1}
	v := [][]float64{v0.Data(), v1.Data()}
	u := [][]float64{u0.Data(), u1.Data()}
	for s := 0; s < n; s++ {
		sample := func(d []float64, size int) []float64 { return d[s*size : (s+1)*size] }
		wantGV := 0.0
		for i, size := range sizes {
			wantGV += floats.Dot(sample(g[i].Data(), size), sample(v[i], size))
		}
		require.InDelta(t, wantGV, gv[0].Data()[s], 1e-10)

		// v_i^T H_ij u_j over the full grid, lower blocks by symmetry
		wantHV := 0.0
		for k, pair := range m.Index().Pairs {
			ni, nj := sizes[pair.I], sizes[pair.J]
			block := sample(h[k].Data(), ni*nj)
			vi, uj := sample(v[pair.I], ni), sample(u[pair.J], nj)
			vj, ui := sample(v[pair.J], nj), sample(u[pair.I], ni)
			for a := 0; a < ni; a++ {
				for b := 0; b < nj; b++ {
					wantHV += vi[a] * block[a+b*ni] * uj[b]
					if pair.I != pair.J {
						wantHV += vj[b] * block[a+b*ni] * ui[a]
					}
				}
			}
		}
		require.InDelta(t, wantHV, hv[0].Data()[s], 1e-10)
	}
}

func TestMaterial_StateVars(t *testing.T) {
	x := []*sym.Matrix{sym.Variable("F", 3, 3), sym.Variable("z", 2, 1)}
	m, err := matadi.NewMaterial(x, func(x []*sym.Matrix) *sym.Matrix {
		return sym.Sumsqr(x[0]).Mul(x[1].Index(0))
	}, matadi.WithStateVars(1))
	require.NoError(t, err)
	require.Len(t, m.Gradients(), 1)
	require.Len(t, m.Hessians(), 1)

	g, err := m.Gradient([]*matadi.Array{single(t, deformed3, 3, 3), single(t, []float64{2, 5}, 2, 1)})
	require.NoError(t, err)
	require.Len(t, g, 1)
	want := make([]float64, 9)
	floats.ScaleTo(want, 4, deformed3)
	require.InDeltaSlice(t, want, g[0].Data(), 1e-12)

	_, err = matadi.NewMaterial(x, func(x []*sym.Matrix) *sym.Matrix { return sym.Sumsqr(x[0]) }, matadi.WithStateVars(3))
	require.ErrorIs(t, err, matadi.ErrStateVars)
}
