package models

import "github.com/njchilds90/matadi/sym"

// ViscoelasticStateSize is the length of the viscoelastic state vector, the
// Voigt form of the inelastic right Cauchy-Green tensor.
const ViscoelasticStateSize = 6

// FiniteStrainViscoelastic is a Maxwell element at finite strain with
// shear modulus mu, viscosity eta and time step dtime. The state is the
// inelastic right Cauchy-Green tensor Ci in Voigt form, starting at the
// identity. Ci is updated by an implicit Euler step and kept unimodular.
func FiniteStrainViscoelastic(mu, eta, dtime float64) StateFunc {
	return func(F, Cin *sym.Matrix) (*sym.Matrix, *sym.Matrix) {
		J := sym.Det(F)
		C := rightCauchyGreen(F)
		Ci := mustTensor(Cin).Add(C.Mul(J.PowConst(-2.0 / 3)).Scale(mu / eta * dtime))
		Ci = Ci.Mul(sym.Det(Ci).PowConst(-1.0 / 3))
		I1 := J.PowConst(-2.0 / 3).Mul(sym.Trace(C.MatMul(sym.Inv(Ci))))
		W := I1.AddConst(-3).Scale(mu / 2)
		return sym.Gradient(W, F), mustVoigt(Ci)
	}
}

func mustTensor(v *sym.Matrix) *sym.Matrix {
	t, err := sym.AsTensor(v, 1)
	if err != nil {
		panic(err)
	}
	return t
}

func mustVoigt(t *sym.Matrix) *sym.Matrix {
	v, err := sym.AsVoigt(t, 1)
	if err != nil {
		panic(err)
	}
	return v
}
