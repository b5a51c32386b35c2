package matadi

import "github.com/njchilds90/matadi/sym"

// Pair addresses one block of a derivative grid: output (or gradient) I
// differentiated with respect to variable J.
type Pair struct{ I, J int }

// Index records the shapes a facade works with. Inputs holds the declared
// variable shapes, Function the output shapes, Gradient the gradient (or
// jacobian grid) shapes and Hessian the upper-triangle hessian shapes. Pairs
// names the (i, j) block behind each entry of Hessian for a Material, or of
// Gradient for a MaterialTensor.
type Index struct {
	Inputs   []Shape
	Function []Shape
	Gradient []Shape
	Hessian  []Shape
	Pairs    []Pair
}

func (idx Index) clone() Index {
	cp := func(ss []Shape) []Shape {
		if ss == nil {
			return nil
		}
		out := make([]Shape, len(ss))
		for i, s := range ss {
			out[i] = s.clone()
		}
		return out
	}
	return Index{
		Inputs:   cp(idx.Inputs),
		Function: cp(idx.Function),
		Gradient: cp(idx.Gradient),
		Hessian:  cp(idx.Hessian),
		Pairs:    append([]Pair(nil), idx.Pairs...),
	}
}

// shapeOf is the shape of a symbolic matrix, collapsed to () under compress
// when made only of ones.
func shapeOf(m *sym.Matrix, compress bool) Shape {
	s := Shape{m.Rows(), m.Cols()}
	if compress && s.AllOnes() {
		return Shape{}
	}
	return s
}

func shapesOf(ms []*sym.Matrix, compress bool) []Shape {
	out := make([]Shape, len(ms))
	for i, m := range ms {
		out[i] = shapeOf(m, compress)
	}
	return out
}
