package sym

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ============================================================
// Compiled evaluator
// ============================================================

type instr struct {
	op      Op
	dst     int32
	a, b, c int32
}

type cseKey struct {
	op      Op
	a, b, c int32
}

// Function is a compiled straight-line program evaluating a list of output
// matrices from a list of input variables. It is immutable after Compile and
// safe for concurrent use.
type Function struct {
	name     string
	inSizes  []int
	outSizes []int
	template []float64 // register file with constants filled in
	code     []instr
	outRegs  [][]int32
}

// Compile lowers outputs into an instruction tape over the symbols of
// inputs. Identical sub-expressions are evaluated once. An output that
// depends on a symbol outside inputs fails with ErrFreeVariable.
func Compile(name string, inputs, outputs []*Matrix) (*Function, error) {
	f := &Function{name: name}
	regs := make(map[*Expr]int32)
	var nreg int32
	for k, x := range inputs {
		for _, e := range x.data {
			if e.op != OpSym {
				return nil, errors.Errorf("sym: %s: input %d is not a variable (entry %s)", name, k, e)
			}
			regs[e] = nreg
			nreg++
		}
		f.inSizes = append(f.inSizes, x.Numel())
	}

	var roots []*Expr
	for _, y := range outputs {
		roots = append(roots, y.data...)
		f.outSizes = append(f.outSizes, y.Numel())
	}

	consts := make(map[uint64]int32)
	seen := make(map[cseKey]int32)
	for _, n := range topoSort(roots) {
		if _, ok := regs[n]; ok {
			continue
		}
		switch n.op {
		case OpSym:
			return nil, errors.Wrapf(ErrFreeVariable, "%s: symbol %q", name, n.name)
		case OpConst:
			bits := math.Float64bits(n.val)
			r, ok := consts[bits]
			if !ok {
				r = nreg
				nreg++
				consts[bits] = r
			}
			regs[n] = r
			continue
		}
		key := cseKey{op: n.op, a: -1, b: -1, c: -1}
		slots := [3]*int32{&key.a, &key.b, &key.c}
		for i, arg := range n.args {
			*slots[i] = regs[arg]
		}
		if r, ok := seen[key]; ok {
			regs[n] = r
			continue
		}
		regs[n] = nreg
		seen[key] = nreg
		f.code = append(f.code, instr{op: n.op, dst: nreg, a: key.a, b: key.b, c: key.c})
		nreg++
	}

	f.template = make([]float64, nreg)
	for bits, r := range consts {
		f.template[r] = math.Float64frombits(bits)
	}

	for _, y := range outputs {
		rs := make([]int32, y.Numel())
		for i, e := range y.data {
			rs[i] = regs[e]
		}
		f.outRegs = append(f.outRegs, rs)
	}
	return f, nil
}

// Name is the name given to Compile.
func (f *Function) Name() string { return f.name }

// NumInputs is the number of input matrices.
func (f *Function) NumInputs() int { return len(f.inSizes) }

// NumOutputs is the number of output matrices.
func (f *Function) NumOutputs() int { return len(f.outSizes) }

// InputSize is the number of entries of input k.
func (f *Function) InputSize(k int) int { return f.inSizes[k] }

// OutputSize is the number of entries of output k.
func (f *Function) OutputSize(k int) int { return f.outSizes[k] }

// NumInstructions is the length of the tape after common sub-expression
// elimination.
func (f *Function) NumInstructions() int { return len(f.code) }

func (f *Function) newWork() []float64 { return make([]float64, len(f.template)) }

func (f *Function) run(w []float64) {
	for _, in := range f.code {
		var x, y, z float64
		x = w[in.a]
		if in.b >= 0 {
			y = w[in.b]
		}
		if in.c >= 0 {
			z = w[in.c]
		}
		w[in.dst] = evalOp(in.op, x, y, z)
	}
}

// eval runs one sample: load reads the inputs, store writes the outputs.
func (f *Function) eval(w []float64, load func(k int) []float64, store func(k int) []float64) {
	copy(w, f.template)
	off := 0
	for k, size := range f.inSizes {
		copy(w[off:off+size], load(k))
		off += size
	}
	f.run(w)
	for k, rs := range f.outRegs {
		dst := store(k)
		for i, r := range rs {
			dst[i] = w[r]
		}
	}
}

func (f *Function) checkCounts(nin, nout int) error {
	if nin != len(f.inSizes) {
		return errors.Wrapf(ErrDimension, "%s: %d inputs, want %d", f.name, nin, len(f.inSizes))
	}
	if nout != len(f.outSizes) {
		return errors.Wrapf(ErrDimension, "%s: %d outputs, want %d", f.name, nout, len(f.outSizes))
	}
	return nil
}

// Call evaluates a single sample. in[k] and out[k] hold the column-major
// entries of input and output k.
func (f *Function) Call(in, out [][]float64) error {
	if err := f.checkCounts(len(in), len(out)); err != nil {
		return err
	}
	for k, size := range f.inSizes {
		if len(in[k]) != size {
			return errors.Wrapf(ErrDimension, "%s: input %d has %d entries, want %d", f.name, k, len(in[k]), size)
		}
	}
	for k, size := range f.outSizes {
		if len(out[k]) != size {
			return errors.Wrapf(ErrDimension, "%s: output %d has %d entries, want %d", f.name, k, len(out[k]), size)
		}
	}
	f.eval(f.newWork(), func(k int) []float64 { return in[k] }, func(k int) []float64 { return out[k] })
	return nil
}

// Map evaluates n independent samples. Row r of in[k] holds sample r of input
// k and row r of out[k] receives sample r of output k. Samples are split into
// contiguous chunks over at most threads workers; results do not depend on
// the thread count.
func (f *Function) Map(n, threads int, in, out []*mat.Dense) error {
	if err := f.checkCounts(len(in), len(out)); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	check := func(kind string, k int, m *mat.Dense, size int) error {
		r, c := m.Dims()
		if r != n || c != size {
			return errors.Wrapf(ErrDimension, "%s: %s %d is %dx%d, want %dx%d", f.name, kind, k, r, c, n, size)
		}
		return nil
	}
	for k, size := range f.inSizes {
		if err := check("input", k, in[k], size); err != nil {
			return err
		}
	}
	for k, size := range f.outSizes {
		if err := check("output", k, out[k], size); err != nil {
			return err
		}
	}
	if threads < 1 {
		threads = 1
	}
	if threads > n {
		threads = n
	}
	chunk := (n + threads - 1) / threads

	var g errgroup.Group
	g.SetLimit(threads)
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			w := f.newWork()
			for r := start; r < end; r++ {
				f.eval(w,
					func(k int) []float64 { return in[k].RawRowView(r) },
					func(k int) []float64 { return out[k].RawRowView(r) },
				)
			}
			return nil
		})
	}
	return g.Wait()
}
