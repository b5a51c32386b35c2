package models

import (
	"math"

	"github.com/njchilds90/matadi/sym"
)

// ============================================================
// Isotropic hyperelasticity
// ============================================================

func rightCauchyGreen(F *sym.Matrix) *sym.Matrix { return F.T().MatMul(F) }

// firstSecond returns I1 = tr C and I2 = (tr(C)^2 - tr(C C)) / 2.
func firstSecond(C *sym.Matrix) (I1, I2 *sym.Matrix) {
	I1 = sym.Trace(C)
	I2 = I1.PowConst(2).Sub(sym.Trace(C.MatMul(C))).Scale(0.5)
	return I1, I2
}

// LinearElastic is the small-strain energy mu tr(e e) + lambda/2 tr(e)^2
// with e = sym(F - 1).
func LinearElastic(mu, lambda float64) Energy {
	return func(F *sym.Matrix) *sym.Matrix {
		strain := sym.SymPart(F.Sub(sym.Eye(3)))
		return sym.Trace(strain.MatMul(strain)).Scale(mu).
			Add(sym.Trace(strain).PowConst(2).Scale(lambda / 2))
	}
}

// SaintVenantKirchhoff is mu tr(E E) + lambda/2 tr(E)^2 on the Green-Lagrange
// strain E = (C - 1)/2.
func SaintVenantKirchhoff(mu, lambda float64) Energy {
	return func(F *sym.Matrix) *sym.Matrix {
		C := rightCauchyGreen(F)
		I1 := sym.Trace(C).Scale(0.5).AddConst(-1.5)
		I2 := sym.Trace(C.MatMul(C)).Scale(0.25).Sub(sym.Trace(C).Scale(0.5)).AddConst(0.75)
		return I2.Scale(mu).Add(I1.PowConst(2).Scale(lambda / 2))
	}
}

// NeoHooke is C10 (I1 - 3), evaluated on the isochoric part of F.
func NeoHooke(C10 float64) Energy {
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		return neoHooke(F, sym.Scalar(C10))
	})
}

func neoHooke(F, C10 *sym.Matrix) *sym.Matrix {
	return C10.Mul(sym.Trace(rightCauchyGreen(F)).AddConst(-3))
}

// MooneyRivlin is C10 (I1 - 3) + C01 (I2 - 3), isochoric.
func MooneyRivlin(C10, C01 float64) Energy {
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		I1, I2 := firstSecond(rightCauchyGreen(F))
		return I1.AddConst(-3).Scale(C10).Add(I2.AddConst(-3).Scale(C01))
	})
}

// Yeoh is a cubic polynomial in (I1 - 3), isochoric.
func Yeoh(C10, C20, C30 float64) Energy {
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		d := sym.Trace(rightCauchyGreen(F)).AddConst(-3)
		return d.Scale(C10).Add(d.PowConst(2).Scale(C20)).Add(d.PowConst(3).Scale(C30))
	})
}

// ThirdOrderDeformation is the James-Green-Simpson polynomial, isochoric.
func ThirdOrderDeformation(C10, C01, C11, C20, C30 float64) Energy {
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		I1, I2 := firstSecond(rightCauchyGreen(F))
		d1, d2 := I1.AddConst(-3), I2.AddConst(-3)
		return d1.Scale(C10).
			Add(d2.Scale(C01)).
			Add(d1.Mul(d2).Scale(C11)).
			Add(d1.PowConst(2).Scale(C20)).
			Add(d1.PowConst(3).Scale(C30))
	})
}

// Ogden sums mu_k/alpha_k (sum_i lambda_i^alpha_k - 3) over the principal
// stretches, isochoric. mu and alpha must have equal length.
func Ogden(mu, alpha []float64) Energy {
	if len(mu) != len(alpha) {
		panic("models: Ogden: mu and alpha differ in length")
	}
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		wC := sym.Eigvals(rightCauchyGreen(F), sym.DefaultEigvalsEps)
		out := sym.Scalar(0)
		for k, a := range alpha {
			out = out.Add(sym.Sum(wC.PowConst(a / 2)).AddConst(-3).Scale(mu[k] / a))
		}
		return out
	})
}

var arrudaBoyceAlpha = [...]float64{1.0 / 2, 1.0 / 20, 11.0 / 1050, 19.0 / 7000, 519.0 / 673750}

// ArrudaBoyce is the five-term series of the eight-chain model with the
// locking stretch limit, isochoric.
func ArrudaBoyce(C1, limit float64) Energy {
	beta := 1 / (limit * limit)
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		I1 := sym.Trace(rightCauchyGreen(F))
		out := sym.Scalar(0)
		for i, a := range arrudaBoyceAlpha {
			j := float64(i + 1)
			c := a * math.Pow(beta, 2*j-2)
			out = out.Add(I1.PowConst(j).AddConst(-math.Pow(3, j)).Scale(c))
		}
		return out.Scale(C1)
	})
}

// ExtendedTube is the extended tube model of Kaliske and Heinrich,
// isochoric.
func ExtendedTube(Gc, delta, Ge, beta float64) Energy {
	d2 := delta * delta
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		C := rightCauchyGreen(F)
		D := sym.Trace(C).AddConst(-3)
		wC := sym.Eigvals(C, sym.DefaultEigvalsEps)
		den := D.Scale(-d2).AddConst(1)
		g := D.Scale(1 - d2).Div(den)
		Wc := g.Add(sym.Log(den)).Scale(Gc / 2)
		We := sym.Sum(wC.PowConst(-beta / 2).AddConst(-1)).Scale(2 * Ge / (beta * beta))
		return Wc.Add(We)
	})
}

// VanDerWaals is the van der Waals model with locking stretch limit,
// global interaction a and invariant mixture beta, isochoric.
func VanDerWaals(mu, limit, a, beta float64) Energy {
	l2 := limit*limit - 3
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		I1, I2 := firstSecond(rightCauchyGreen(F))
		I := I1.Scale(1 - beta).Add(I2.Scale(beta)).AddConst(-3)
		eta := sym.Sqrt(I.Scale(1 / l2))
		W := sym.Log(eta.RSub(1)).Add(eta).Scale(-l2).
			Sub(I.Scale(0.5).PowConst(1.5).Scale(2.0 / 3 * a))
		return W.Scale(mu)
	})
}
