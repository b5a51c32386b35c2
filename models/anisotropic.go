package models

import (
	"math"

	"github.com/njchilds90/matadi/sym"
)

// ============================================================
// Anisotropic hyperelasticity
// ============================================================

// fiberPlanes lists the two coordinate axes spanning the plane normal to
// each axis.
var fiberPlanes = [3][2]int{{1, 2}, {2, 0}, {0, 1}}

// direction returns the unit vector at angle degrees inside the plane
// normal to axis.
func direction(angle float64, axis int) *sym.Matrix {
	if axis < 0 || axis > 2 {
		panic("models: fiber axis out of range")
	}
	a := angle * math.Pi / 180
	n := make([]float64, 3)
	plane := fiberPlanes[axis]
	n[plane[0]] = math.Cos(a)
	n[plane[1]] = math.Sin(a)
	return sym.Vector(n...)
}

// FiberOptions configures a fiber.
type FiberOptions struct {
	// K selects the strain measure (stretch^K - 1)/K; K = 0 is the
	// logarithmic strain.
	K float64
	// Axis is the normal of the fiber plane: 0, 1 or 2.
	Axis int
	// Compression lets the fiber carry compressive strain.
	Compression bool
}

// DefaultFiberOptions are K = 1, fibers in the x-y plane, tension only.
var DefaultFiberOptions = FiberOptions{K: 1, Axis: 2}

func fiber(F *sym.Matrix, E, angle float64, o FiberOptions) *sym.Matrix {
	N := direction(angle, o.Axis)
	C := rightCauchyGreen(F)
	stretch := sym.Sqrt(N.T().MatMul(C).MatMul(N))
	var strain *sym.Matrix
	if o.K == 0 {
		strain = sym.Log(stretch)
	} else {
		strain = stretch.PowConst(o.K).AddConst(-1).Scale(1 / o.K)
	}
	if !o.Compression {
		strain = sym.IfElse(sym.Lt(strain, sym.Scalar(0)), sym.Scalar(0), strain)
	}
	return strain.PowConst(2).Scale(E / 2)
}

// Fiber is E/2 strain^2 of a single fiber at angle degrees, isochoric.
func Fiber(E, angle float64, o FiberOptions) Energy {
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		return fiber(F, E, angle, o)
	})
}

// FiberFamily is the pair of fibers at +angle and -angle, isochoric.
func FiberFamily(E, angle float64, o FiberOptions) Energy {
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		return fiber(F, E, angle, o).Add(fiber(F, E, -angle, o))
	})
}

// HolzapfelGasserOgden is the arterial wall model with two dispersed fiber
// families at +-angle degrees in the plane normal to axis, isochoric. A
// family only contributes while its mixed invariant exceeds one.
func HolzapfelGasserOgden(c, k1, k2, kappa, angle float64, axis int) Energy {
	N1 := direction(angle, axis)
	N2 := direction(-angle, axis)
	A1 := N1.MatMul(N1.T())
	A2 := N2.MatMul(N2.T())
	return Isochoric(func(F *sym.Matrix) *sym.Matrix {
		C := rightCauchyGreen(F)
		I1 := sym.Trace(C)
		family := func(A *sym.Matrix) *sym.Matrix {
			E := I1.Scale(kappa).Add(sym.Trace(C.MatMul(A)).Scale(1 - 3*kappa)).AddConst(-1)
			w := sym.Exp(E.PowConst(2).Scale(k2)).AddConst(-1)
			return sym.IfElse(sym.Gt(E, sym.Scalar(0)), w, sym.Scalar(0))
		}
		Wiso := I1.AddConst(-3).Scale(c / 2)
		Waniso := family(A1).Add(family(A2)).Scale(k1 / (2 * k2))
		return Wiso.Add(Waniso)
	})
}
