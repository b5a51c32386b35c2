package models

import "github.com/njchilds90/matadi/sym"

// OgdenRoxburgh is the pseudo-elastic Mullins softening of Ogden and
// Roxburgh. W is the current (isochoric) energy density and Wmaxn the
// maximum over the load history so far. It returns the softening factor eta
// and the updated maximum.
func OgdenRoxburgh(W, Wmaxn *sym.Matrix, r, m, beta float64) (eta, Wmax *sym.Matrix) {
	Wmax = sym.Fmax(W, Wmaxn)
	eta = sym.Erf(Wmax.Sub(W).Div(Wmax.Scale(beta).AddConst(m))).Scale(-1 / r).AddConst(1)
	return eta, Wmax
}

// NeoHookeOgdenRoxburgh is a neo-Hookean solid with Ogden-Roxburgh
// softening. The state is the 1x1 maximum energy density.
func NeoHookeOgdenRoxburgh(C10, r, m, beta float64) StateFunc {
	energy := NeoHooke(C10)
	return func(F, Wmaxn *sym.Matrix) (*sym.Matrix, *sym.Matrix) {
		W := energy(F)
		eta, Wmax := OgdenRoxburgh(W, Wmaxn, r, m, beta)
		return sym.Gradient(W, F).Mul(eta), Wmax
	}
}
