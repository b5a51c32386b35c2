package matadi

import (
	"github.com/pkg/errors"

	"github.com/njchilds90/matadi/models"
	"github.com/njchilds90/matadi/sym"
)

// ============================================================
// Hyperelastic templates
// ============================================================

// Hyperelastic is a Material whose only variable is the deformation
// gradient.
type Hyperelastic struct {
	*Material
	energy     models.Energy
	kinematics func(F *sym.Matrix) *sym.Matrix
}

// NewHyperelastic builds a Material of a 3x3 deformation gradient F from
// a strain energy density.
func NewHyperelastic(energy models.Energy, opts ...Option) (*Hyperelastic, error) {
	return newHyperelastic(sym.Variable("F", 3, 3), energy, func(F *sym.Matrix) *sym.Matrix { return F }, opts)
}

// NewHyperelasticPlaneStrain builds a Material of the in-plane 2x2
// deformation gradient. The energy is evaluated on the 3x3 tensor with
// F33 = 1 and no out-of-plane shear.
func NewHyperelasticPlaneStrain(energy models.Energy, opts ...Option) (*Hyperelastic, error) {
	return newHyperelastic(sym.Variable("F", 2, 2), energy, planeStrain, opts)
}

func newHyperelastic(F *sym.Matrix, energy models.Energy, kin func(*sym.Matrix) *sym.Matrix, opts []Option) (*Hyperelastic, error) {
	if energy == nil {
		return nil, ErrNilFunc
	}
	m, err := NewMaterial([]*sym.Matrix{F}, func(x []*sym.Matrix) *sym.Matrix {
		return energy(kin(x[0]))
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Hyperelastic{Material: m, energy: energy, kinematics: kin}, nil
}

func planeStrain(F *sym.Matrix) *sym.Matrix {
	return sym.Build(3, 3, func(i, j int) *sym.Expr {
		switch {
		case i < 2 && j < 2:
			return F.At(i, j)
		case i == 2 && j == 2:
			return sym.Const(1)
		}
		return sym.Const(0)
	})
}

// Energy returns the strain energy density the material was built from.
func (h *Hyperelastic) Energy() models.Energy { return h.energy }

// NewThreeFieldVariation builds the Hu-Washizu form of a hyperelastic
// material with the variables F, the pressure p and the volume ratio J:
//
//	W((J / det F)^(1/3) F) + p (det F - J)
//
// F has the shape of the hyperelastic material's variable, so plane strain
// materials give the plane strain variant.
func NewThreeFieldVariation(h *Hyperelastic, opts ...Option) (*Material, error) {
	if h == nil {
		return nil, ErrNilFunc
	}
	x := []*sym.Matrix{h.x[0], sym.Variable("p", 1, 1), sym.Variable("J", 1, 1)}
	return NewMaterial(x, func(x []*sym.Matrix) *sym.Matrix {
		F, p, J := h.kinematics(x[0]), x[1], x[2]
		detF := sym.Det(F)
		Fmod := F.Mul(J.Div(detF).PowConst(1.0 / 3))
		return h.energy(Fmod).Add(p.Mul(detF.Sub(J)))
	}, opts...)
}

// ============================================================
// Tensor templates with state
// ============================================================

// NewGeneralTensor builds a MaterialTensor of x = [F, z] from a stress
// formulation with a state vector z of stateSize entries. The outputs are
// P and the updated state; only dP/dF is differentiated.
func NewGeneralTensor(fun models.StateFunc, stateSize int, opts ...Option) (*MaterialTensor, error) {
	if err := checkState(fun, stateSize); err != nil {
		return nil, err
	}
	x := []*sym.Matrix{sym.Variable("F", 3, 3), sym.Variable("z", stateSize, 1)}
	return NewMaterialTensor(x, models.StateSplit(fun), withOptions(opts, WithStateVars(1))...)
}

// NewGeneralTensorUP is NewGeneralTensor with the displacement-pressure
// split: x = [F, p, z] and the outputs are P, the pressure constraint and the
// updated state. The jacobian grid keeps the upper triangle.
func NewGeneralTensorUP(fun models.StateFunc, stateSize int, opts ...Option) (*MaterialTensor, error) {
	if err := checkState(fun, stateSize); err != nil {
		return nil, err
	}
	split := models.DisplacementPressureSplit(models.StateSplit(fun))
	x := []*sym.Matrix{sym.Variable("F", 3, 3), split.Pressure, sym.Variable("z", stateSize, 1)}
	return NewMaterialTensor(x, split.Fun, withOptions(opts, WithStateVars(1), WithTriu())...)
}

func checkState(fun models.StateFunc, stateSize int) error {
	if fun == nil {
		return ErrNilFunc
	}
	if stateSize < 1 {
		return errors.Wrapf(ErrStateVars, "state size %d", stateSize)
	}
	return nil
}

func withOptions(opts []Option, more ...Option) []Option {
	return append(append([]Option(nil), opts...), more...)
}

// NewNeoHookeOgdenRoxburgh is a nearly incompressible neo-Hookean solid with
// Mullins softening. The state is the maximum energy density (1 entry).
func NewNeoHookeOgdenRoxburgh(C10, r, m, beta float64, opts ...Option) (*MaterialTensor, error) {
	return NewGeneralTensorUP(models.NeoHookeOgdenRoxburgh(C10, r, m, beta), 1, opts...)
}

// NewMorph is the MORPH material in displacement-pressure form with a state
// vector of models.MorphStateSize entries.
func NewMorph(p models.MorphParams, opts ...Option) (*MaterialTensor, error) {
	return NewGeneralTensorUP(models.Morph(p, models.NoVolumetric), models.MorphStateSize, opts...)
}

// NewViscoelastic is the finite-strain Maxwell material in
// displacement-pressure form with a state of models.ViscoelasticStateSize
// entries.
func NewViscoelastic(mu, eta, dtime float64, opts ...Option) (*MaterialTensor, error) {
	return NewGeneralTensorUP(models.FiniteStrainViscoelastic(mu, eta, dtime), models.ViscoelasticStateSize, opts...)
}
