package matadi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ============================================================
// Shape
// ============================================================

// Shape lists the extents of an array, fastest varying axis first in memory.
type Shape []int

// Numel is the number of elements; the empty shape holds one.
func (s Shape) Numel() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// AllOnes reports whether every extent is one. The empty shape qualifies.
func (s Shape) AllOnes() bool {
	for _, d := range s {
		if d != 1 {
			return false
		}
	}
	return true
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func concat(shapes ...Shape) Shape {
	out := Shape{}
	for _, s := range shapes {
		out = append(out, s...)
	}
	return out
}

func (s Shape) clone() Shape { return append(Shape{}, s...) }

// ============================================================
// Array: dense column-major n-d array
// ============================================================

// Array is a dense n-dimensional array of float64 in column-major (Fortran)
// order: the first index varies fastest. Inputs to the facades are shaped
// variable shape + batch shape, so the entries of one sample are contiguous.
type Array struct {
	shape Shape
	data  []float64
}

// NewArray wraps data (column-major) without copying.
func NewArray(data []float64, shape ...int) (*Array, error) {
	s := Shape(shape).clone()
	for _, d := range s {
		if d < 0 {
			return nil, errors.Wrapf(ErrDataLength, "negative extent in %v", s)
		}
	}
	if len(data) != s.Numel() {
		return nil, errors.Wrapf(ErrDataLength, "%d values for shape %v", len(data), s)
	}
	return &Array{shape: s, data: data}, nil
}

// Zeros allocates a zero array.
func Zeros(shape ...int) *Array {
	s := Shape(shape).clone()
	return &Array{shape: s, data: make([]float64, s.Numel())}
}

// FromRowMajor copies row-major (C order) data into a new array.
func FromRowMajor(data []float64, shape ...int) (*Array, error) {
	a := Zeros(shape...)
	if len(data) != a.Len() {
		return nil, errors.Wrapf(ErrDataLength, "%d values for shape %v", len(data), a.shape)
	}
	idx := make([]int, len(shape))
	for c := range data {
		a.data[a.offset(idx)] = data[c]
		// advance the last axis first
		for ax := len(idx) - 1; ax >= 0; ax-- {
			idx[ax]++
			if idx[ax] < shape[ax] {
				break
			}
			idx[ax] = 0
		}
	}
	return a, nil
}

// Shape returns a copy of the extents.
func (a *Array) Shape() Shape { return a.shape.clone() }

// Data returns the backing slice in column-major order.
func (a *Array) Data() []float64 { return a.data }

func (a *Array) Len() int  { return len(a.data) }
func (a *Array) Rank() int { return len(a.shape) }

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("matadi: %d indices for array of shape %v", len(idx), a.shape))
	}
	off, stride := 0, 1
	for ax, i := range idx {
		if i < 0 || i >= a.shape[ax] {
			panic(fmt.Sprintf("matadi: index %v out of range for shape %v", idx, a.shape))
		}
		off += i * stride
		stride *= a.shape[ax]
	}
	return off
}

// At returns the element at idx.
func (a *Array) At(idx ...int) float64 { return a.data[a.offset(idx)] }

// Set stores v at idx.
func (a *Array) Set(v float64, idx ...int) { a.data[a.offset(idx)] = v }

// Reshape returns a view with the same data and a new shape.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	return NewArray(a.data, shape...)
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{shape: a.shape.clone(), data: append([]float64(nil), a.data...)}
}

func (a *Array) String() string {
	return fmt.Sprintf("Array%v", a.shape)
}
