package models

import "github.com/njchilds90/matadi/sym"

// Energy is a strain energy density as a function of the 3x3 deformation
// gradient. It returns a 1x1 expression.
type Energy func(F *sym.Matrix) *sym.Matrix

// StateFunc is a stress formulation with internal state: given the
// deformation gradient and the state vector of the last step it returns the
// first Piola-Kirchhoff stress and the updated state vector.
type StateFunc func(F, z *sym.Matrix) (P, zNew *sym.Matrix)

// ============================================================
// Volumetric term
// ============================================================

// Volumetric is an optional volumetric energy U(J) = bulk (J - 1)^2 / 2. The
// zero value is absent.
type Volumetric struct {
	bulk    float64
	present bool
}

// NoVolumetric adds nothing.
var NoVolumetric = Volumetric{}

// Bulk returns the volumetric term with the given bulk modulus.
func Bulk(k float64) Volumetric { return Volumetric{bulk: k, present: true} }

// Present reports whether the term contributes.
func (v Volumetric) Present() bool { return v.present }

// Energy evaluates U(J); zero when absent.
func (v Volumetric) Energy(J *sym.Matrix) *sym.Matrix {
	if !v.present {
		return sym.Scalar(0)
	}
	return volumetric(J, sym.Scalar(v.bulk))
}

func volumetric(J, bulk *sym.Matrix) *sym.Matrix {
	return bulk.Mul(J.AddConst(-1).PowConst(2)).Scale(0.5)
}

// ============================================================
// Composition
// ============================================================

// Isochoric evaluates fun on the isochoric part J^(-1/3) F of the
// deformation gradient.
func Isochoric(fun Energy) Energy {
	return func(F *sym.Matrix) *sym.Matrix {
		return fun(isochoric(F))
	}
}

func isochoric(F *sym.Matrix) *sym.Matrix {
	return F.Mul(sym.Det(F).PowConst(-1.0 / 3))
}

// AddVolumetric adds the volumetric term vol(det F) to W.
func AddVolumetric(W Energy, vol Volumetric) Energy {
	if !vol.Present() {
		return W
	}
	return func(F *sym.Matrix) *sym.Matrix {
		return W(F).Add(vol.Energy(sym.Det(F)))
	}
}

// IsochoricVolumetricSplit applies fun to the isochoric part of F and adds
// the volumetric term.
func IsochoricVolumetricSplit(fun Energy, vol Volumetric) Energy {
	return AddVolumetric(Isochoric(fun), vol)
}

// Compose sums several energies.
func Compose(ws ...Energy) Energy {
	return func(F *sym.Matrix) *sym.Matrix {
		out := sym.Scalar(0)
		for _, w := range ws {
			out = out.Add(w(F))
		}
		return out
	}
}

// ============================================================
// Displacement-pressure split
// ============================================================

// PressureSplit is a stress formulation augmented by an independent
// pressure field. Pressure is the 1x1 variable that has to be listed as
// x[1], right after the deformation gradient.
type PressureSplit struct {
	Fun      func(x []*sym.Matrix) []*sym.Matrix
	Pressure *sym.Matrix
}

// DisplacementPressureSplit wraps fun, whose first output is the first
// Piola-Kirchhoff stress P for x[0] = F. The hydrostatic part of P is
// replaced by the pressure p:
//
//	P' = P - (Pvol - p) cof(F),  Pvol = tr(P F^T) / (3 det F)
//
// Fun returns P', the constraint Pvol - p and the remaining outputs of fun.
func DisplacementPressureSplit(fun func(x []*sym.Matrix) []*sym.Matrix) PressureSplit {
	p := sym.Variable("p", 1, 1)
	wrapped := func(x []*sym.Matrix) []*sym.Matrix {
		F := x[0]
		outs := fun(x)
		P := outs[0]
		pvol := sym.Trace(P.MatMul(F.T())).Div(sym.Det(F)).Scale(1.0 / 3)
		dp := pvol.Sub(p)
		res := []*sym.Matrix{P.Sub(sym.Cof(F).Mul(dp)), dp}
		return append(res, outs[1:]...)
	}
	return PressureSplit{Fun: wrapped, Pressure: p}
}

// StateSplit adapts a StateFunc to x = [F, ..., z] with the state vector
// last.
func StateSplit(fun StateFunc) func(x []*sym.Matrix) []*sym.Matrix {
	return func(x []*sym.Matrix) []*sym.Matrix {
		P, z := fun(x[0], x[len(x)-1])
		return []*sym.Matrix{P, z}
	}
}
