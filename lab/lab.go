package lab

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/njchilds90/matadi"
)

// Material is what the lab needs from a hyperelastic material of a single
// 3x3 deformation gradient. *matadi.Material and *matadi.Hyperelastic
// satisfy it.
type Material interface {
	Gradient(x []*matadi.Array, opts ...matadi.EvalOption) ([]*matadi.Array, error)
	Hessian(x []*matadi.Array, opts ...matadi.EvalOption) ([]*matadi.Array, error)
}

// Data is the result of one load case over its grid. Stability is nil for
// simple shear.
type Data struct {
	Label     string    `json:"label"`
	Stretch   []float64 `json:"stretch"`
	Stretch2  []float64 `json:"stretch_2"`
	Stretch3  []float64 `json:"stretch_3"`
	Shear     []float64 `json:"shear"`
	Stress    []float64 `json:"stress"`
	Stability []bool    `json:"stability,omitempty"`
}

// Load case labels.
const (
	Uniaxial = "uniaxial"
	Biaxial  = "biaxial"
	Planar   = "planar"
	Shear    = "shear"
)

// Config selects the load cases and their grids.
type Config struct {
	Uniaxial, Biaxial, Planar, Shear bool

	// StretchMin is the first uniaxial stretch. Zero selects
	// max(0, 1 - (StretchMax - 1)/5).
	StretchMin float64
	StretchMax float64
	ShearMax   float64
	Num        int

	// Tol and MaxIter control the Newton iterations of the compressible
	// lab.
	Tol     float64
	MaxIter int
}

// DefaultConfig runs all four load cases with 50 points up to a stretch of
// 2.5 and a shear of 1.
func DefaultConfig() Config {
	return Config{
		Uniaxial: true, Biaxial: true, Planar: true, Shear: true,
		StretchMax: 2.5,
		ShearMax:   1,
		Num:        50,
		Tol:        1e-10,
		MaxIter:    50,
	}
}

func (c Config) validate() error {
	if c.Num < 2 {
		return errors.Wrapf(ErrConfig, "num %d", c.Num)
	}
	if c.StretchMax <= 1 {
		return errors.Wrapf(ErrConfig, "stretch max %g", c.StretchMax)
	}
	if c.StretchMin < 0 || c.StretchMin >= c.StretchMax {
		return errors.Wrapf(ErrConfig, "stretch min %g", c.StretchMin)
	}
	return nil
}

func (c Config) uniaxialGrid() []float64 {
	lo := c.StretchMin
	if lo == 0 {
		lo = 1 - (c.StretchMax-1)/5
		if lo < 0 {
			lo = 0
		}
	}
	return floats.Span(make([]float64, c.Num), lo, c.StretchMax)
}

func (c Config) biaxialGrid() []float64 {
	return floats.Span(make([]float64, c.Num), 1, (c.StretchMax-1)/2+1)
}

func (c Config) planarGrid() []float64 {
	return floats.Span(make([]float64, c.Num), 1, c.StretchMax)
}

func (c Config) shearGrid() []float64 {
	return floats.Span(make([]float64, c.Num), 0, c.ShearMax)
}

// ============================================================
// Evaluation helpers
// ============================================================

// point is the result of one load step.
type point struct {
	stress, stretch2, stretch3 float64
	stable                     bool
}

type loadCase func(v float64) (point, error)

type caseSpec struct {
	on     bool
	label  string
	grid   []float64
	shear  bool
	stable bool
	run    loadCase
}

func runCases(cases []caseSpec) ([]Data, error) {
	var out []Data
	for _, c := range cases {
		if !c.on {
			continue
		}
		d, err := sweep(c.label, c.grid, c.shear, c.stable, c.run)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func sweep(label string, grid []float64, shear, withStability bool, run loadCase) (Data, error) {
	n := len(grid)
	d := Data{
		Label:    label,
		Stretch:  make([]float64, n),
		Stretch2: make([]float64, n),
		Stretch3: make([]float64, n),
		Shear:    make([]float64, n),
		Stress:   make([]float64, n),
	}
	if withStability {
		d.Stability = make([]bool, n)
	}
	for k, v := range grid {
		p, err := run(v)
		if err != nil {
			return Data{}, errors.WithMessagef(err, "%s at %g", label, v)
		}
		if shear {
			d.Stretch[k], d.Shear[k] = 1, v
		} else {
			d.Stretch[k] = v
		}
		d.Stress[k], d.Stretch2[k], d.Stretch3[k] = p.stress, p.stretch2, p.stretch3
		if withStability {
			d.Stability[k] = p.stable
		}
	}
	return d, nil
}

// deformation returns the column-major 3x3 array diag(s) with F01 = gamma.
func deformation(s [3]float64, gamma float64) *matadi.Array {
	a := matadi.Zeros(3, 3)
	for i, v := range s {
		a.Set(v, i, i)
	}
	a.Set(gamma, 0, 1)
	return a
}

// state holds P and the hessian A of one deformation gradient.
type state struct {
	P *matadi.Array
	A *matadi.Array
}

func (s state) p(i, j int) float64       { return s.P.At(i, j) }
func (s state) a(i, j, k, l int) float64 { return s.A.At(i, j, k, l) }

func evaluate(m Material, F *matadi.Array, hessian bool) (state, error) {
	x := []*matadi.Array{F}
	g, err := m.Gradient(x, matadi.Threads(1))
	if err != nil {
		return state{}, err
	}
	s := state{P: g[0]}
	if hessian {
		h, err := m.Hessian(x, matadi.Threads(1))
		if err != nil {
			return state{}, err
		}
		s.A = h[0]
	}
	return s, nil
}

// normalStiffness is the 3x3 matrix B[a][b] = A[a,a,b,b].
func (s state) normalStiffness() *mat.Dense {
	B := mat.NewDense(3, 3, nil)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			B.Set(a, b, s.a(a, a, b, b))
		}
	}
	return B
}

// stableUnderUnitLoads reports whether unit normal forces in every direction
// give positive stretch increments.
func stableUnderUnitLoads(B *mat.Dense) bool {
	var inv mat.Dense
	if err := inv.Inverse(B); err != nil {
		return false
	}
	for i := 0; i < 3; i++ {
		if inv.At(i, i) <= 0 {
			return false
		}
	}
	return true
}
