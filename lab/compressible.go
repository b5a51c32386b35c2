package lab

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Compressible runs load cases on a compressible material. The free lateral
// stretches are found by Newton's method so that the lateral normal
// stresses vanish.
type Compressible struct {
	m       Material
	tol     float64
	maxIter int
}

// NewCompressible wraps a material with a volumetric energy.
func NewCompressible(m Material) *Compressible {
	cfg := DefaultConfig()
	return &Compressible{m: m, tol: cfg.Tol, maxIter: cfg.MaxIter}
}

// solve finds the free diagonal entries of F. free lists the indices that
// are unknown; fixed holds the prescribed diagonal and gamma the shear F01.
// The lateral stresses P[i][i] of the free indices are driven to zero.
func (lab *Compressible) solve(fixed [3]float64, free []int, gamma float64, starts ...float64) ([3]float64, error) {
	f := func(x []float64) ([]float64, *mat.Dense, error) {
		k := fixed
		for a, i := range free {
			k[i] = x[a]
		}
		s, err := evaluate(lab.m, deformation(k, gamma), true)
		if err != nil {
			return nil, nil, err
		}
		r := make([]float64, len(free))
		jac := mat.NewDense(len(free), len(free), nil)
		for a, i := range free {
			r[a] = s.p(i, i)
			for b, j := range free {
				jac.Set(a, b, s.a(i, i, j, j))
			}
		}
		return r, jac, nil
	}

	var err error
	for _, start := range starts {
		x0 := make([]float64, len(free))
		for i := range x0 {
			x0[i] = start
		}
		var x []float64
		x, err = newton(f, x0, lab.tol, lab.maxIter)
		if err == nil {
			k := fixed
			for a, i := range free {
				k[i] = x[a]
			}
			return k, nil
		}
	}
	return [3]float64{}, err
}

func (lab *Compressible) normal(k [3]float64) (point, error) {
	s, err := evaluate(lab.m, deformation(k, 0), true)
	if err != nil {
		return point{}, err
	}
	return point{
		stress:   s.p(0, 0),
		stretch2: k[1],
		stretch3: k[2],
		stable:   stableUnderUnitLoads(s.normalStiffness()),
	}, nil
}

func (lab *Compressible) uniaxial(l float64) (point, error) {
	k, err := lab.solve([3]float64{l, 1, 1}, []int{1, 2}, 0, 1, 1/math.Sqrt(l))
	if err != nil {
		return point{}, err
	}
	return lab.normal(k)
}

func (lab *Compressible) biaxial(l float64) (point, error) {
	k, err := lab.solve([3]float64{l, l, 1}, []int{2}, 0, 1)
	if err != nil {
		return point{}, err
	}
	return lab.normal(k)
}

func (lab *Compressible) planar(l float64) (point, error) {
	k, err := lab.solve([3]float64{l, 1, 1}, []int{2}, 0, 1)
	if err != nil {
		return point{}, err
	}
	return lab.normal(k)
}

func (lab *Compressible) shear(gamma float64) (point, error) {
	k, err := lab.solve([3]float64{1, 1, 1}, []int{1, 2}, gamma, 1)
	if err != nil {
		return point{}, err
	}
	s, err := evaluate(lab.m, deformation(k, gamma), false)
	if err != nil {
		return point{}, err
	}
	return point{stress: s.p(0, 1), stretch2: k[1], stretch3: k[2]}, nil
}

// Run evaluates the load cases selected by cfg, in the order uniaxial,
// biaxial, planar, shear.
func (lab *Compressible) Run(cfg Config) ([]Data, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Tol <= 0 || cfg.MaxIter < 1 {
		return nil, errors.Wrapf(ErrConfig, "tol %g, max iter %d", cfg.Tol, cfg.MaxIter)
	}
	r := &Compressible{m: lab.m, tol: cfg.Tol, maxIter: cfg.MaxIter}
	return runCases([]caseSpec{
		{cfg.Uniaxial, Uniaxial, cfg.uniaxialGrid(), false, true, r.uniaxial},
		{cfg.Biaxial, Biaxial, cfg.biaxialGrid(), false, true, r.biaxial},
		{cfg.Planar, Planar, cfg.planarGrid(), false, true, r.planar},
		{cfg.Shear, Shear, cfg.shearGrid(), true, false, r.shear},
	})
}
