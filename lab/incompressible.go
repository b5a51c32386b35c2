package lab

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Incompressible runs load cases on an isochoric material. The lateral
// stresses are made to vanish by the hydrostatic pressure, which is
// eliminated with the third principal direction.
type Incompressible struct {
	m Material
}

// NewIncompressible wraps a material whose energy does not depend on det F.
func NewIncompressible(m Material) *Incompressible { return &Incompressible{m: m} }

type kinematics func(stretch float64) [3]float64

func uniaxialKinematics(l float64) [3]float64 {
	return [3]float64{l, 1 / math.Sqrt(l), 1 / math.Sqrt(l)}
}

func biaxialKinematics(l float64) [3]float64 { return [3]float64{l, l, 1 / (l * l)} }

func planarKinematics(l float64) [3]float64 { return [3]float64{l, 1, 1 / l} }

// stabilityIncrement is the stretch increment taken to check the slope of
// the force.
const stabilityIncrement = 1e-6

func (lab *Incompressible) loadCase(kin kinematics) loadCase {
	return func(l float64) (point, error) {
		k := kin(l)
		s, err := evaluate(lab.m, deformation(k, 0), true)
		if err != nil {
			return point{}, err
		}
		stress := s.p(0, 0) - k[2]/l*s.p(2, 2)

		// reduced stiffness of the in-plane directions with the pressure
		// eliminated
		B := mat.NewDense(2, 2, nil)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				v := s.a(i, i, j, j) - k[2]/k[i]*s.a(2, 2, j, j)
				if j == 1 {
					v -= s.p(2, 2) / k[i]
				}
				if i == j {
					v += k[2] / (k[i] * k[i]) * s.p(2, 2)
				}
				B.Set(i, j, v)
			}
		}
		var dl mat.VecDense
		stable := dl.SolveVec(B, mat.NewVecDense(2, []float64{1, 0})) == nil && dl.AtVec(0) > 0
		if stable {
			next, err := evaluate(lab.m, deformation(kin(l+stabilityIncrement), 0), false)
			if err != nil {
				return point{}, err
			}
			stable = next.p(0, 0)-s.p(0, 0) > 0
		}
		return point{stress: stress, stretch2: k[1], stretch3: k[2], stable: stable}, nil
	}
}

func (lab *Incompressible) shear(gamma float64) (point, error) {
	s, err := evaluate(lab.m, deformation([3]float64{1, 1, 1}, gamma), false)
	if err != nil {
		return point{}, err
	}
	return point{stress: s.p(0, 1), stretch2: 1, stretch3: 1}, nil
}

// Run evaluates the load cases selected by cfg, in the order uniaxial,
// biaxial, planar, shear.
func (lab *Incompressible) Run(cfg Config) ([]Data, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return runCases([]caseSpec{
		{cfg.Uniaxial, Uniaxial, cfg.uniaxialGrid(), false, true, lab.loadCase(uniaxialKinematics)},
		{cfg.Biaxial, Biaxial, cfg.biaxialGrid(), false, true, lab.loadCase(biaxialKinematics)},
		{cfg.Planar, Planar, cfg.planarGrid(), false, true, lab.loadCase(planarKinematics)},
		{cfg.Shear, Shear, cfg.shearGrid(), true, false, lab.shear},
	})
}
