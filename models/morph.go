package models

import "github.com/njchilds90/matadi/sym"

// MorphStateSize is the length of the MORPH state vector: the maximum
// Tresca invariant, then C and the overstress, both in Voigt form.
const MorphStateSize = 13

// MorphParams are the eight MORPH material parameters p1..p8.
type MorphParams [8]float64

// DefaultMorphParams is a parameter set fitted to a filled rubber.
var DefaultMorphParams = MorphParams{0.035, 0.37, 0.17, 2.4, 0.01, 6.4, 5.5, 0.24}

// MorphInitialState returns the state of an undeformed, unloaded body.
func MorphInitialState() []float64 {
	z := make([]float64, MorphStateSize)
	z[1], z[2], z[3] = 1, 1, 1
	return z
}

// Morph is the MORPH formulation of Besdo and Ihlemann: a neo-Hookean
// ground state with a deformation dependent shear modulus and an
// overstress that follows a hull stress along the loading direction.
func Morph(p MorphParams, vol Volumetric) StateFunc {
	f := func(x *sym.Matrix) *sym.Matrix { return x.PowConst(2).AddConst(1).PowConst(-0.5) }
	zero := sym.Scalar(0)

	return func(F, z *sym.Matrix) (*sym.Matrix, *sym.Matrix) {
		parts := sym.Vertsplit(z, 0, 1, 7, 13)
		CTSn, Cn, SZn := parts[0], mustTensor(parts[1]), mustTensor(parts[2])

		C := rightCauchyGreen(F)
		J := sym.Det(F)
		dC := C.Sub(Cn)
		invC := sym.Inv(C)

		CG := C.Mul(J.PowConst(-2.0 / 3))
		LG := sym.Dev(sym.SymPart(dC.MatMul(invC))).MatMul(CG)

		CT := sym.Tresca(CG)
		LT := sym.Tresca(LG)

		// maximum invariant of the load history
		CTS := sym.IfElse(sym.Gt(CT, CTSn), CT, CTSn)

		LGLT := sym.IfElse(sym.Gt(LT, zero), LG.Div(LT), LG)
		CTCTS := sym.IfElse(sym.Gt(CTS, zero), CT.Div(CTS), CT)

		a := f(CTS.Scale(p[2])).Scale(p[1]).AddConst(p[0])
		b := f(CTS.Scale(p[2])).Scale(p[3])
		c := CTS.Scale(p[4]).Mul(f(CTS.Scale(1 / p[5])).RSub(1))

		// hull stress
		SH := sym.Mexp(LGLT.Mul(CTCTS).Scale(p[6]), sym.TrescaEps).Mul(c).
			Add(LGLT.Scale(p[7])).MatMul(invC)

		// implicit Euler update of the overstress
		bLT := b.Mul(LT)
		SZ := SZn.Add(bLT.Mul(SH)).Div(bLT.AddConst(1))

		W := neoHooke(isochoric(F), a)
		U := vol.Energy(J)
		S := sym.Dev(SZ.MatMul(C)).MatMul(invC)

		P := sym.Gradient(W, F).Add(sym.Gradient(U, F)).Add(F.MatMul(S))
		return P, sym.Vertcat(CTS, mustVoigt(C), mustVoigt(SZ))
	}
}
