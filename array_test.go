package matadi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njchilds90/matadi"
)

func TestArray_NewArray(t *testing.T) {
	a, err := matadi.NewArray([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 2, a.Rank())
	require.Equal(t, 6, a.Len())
	require.Equal(t, 3.0, a.At(0, 1))
	require.Equal(t, 2.0, a.At(1, 0))

	_, err = matadi.NewArray([]float64{1, 2}, 3)
	require.ErrorIs(t, err, matadi.ErrDataLength)
	_, err = matadi.NewArray(nil, -1)
	require.ErrorIs(t, err, matadi.ErrDataLength)
}

func TestArray_FromRowMajor(t *testing.T) {
	a, err := matadi.FromRowMajor([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 4, 2, 5, 3, 6}, a.Data())
	require.Equal(t, 2.0, a.At(0, 1))
	require.Equal(t, 4.0, a.At(1, 0))

	b, err := matadi.FromRowMajor([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 2, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 5.0, b.At(1, 0, 1))

	_, err = matadi.FromRowMajor([]float64{1}, 2)
	require.ErrorIs(t, err, matadi.ErrDataLength)
}

func TestArray_SetReshapeClone(t *testing.T) {
	a := matadi.Zeros(3, 3, 2)
	a.Set(7, 2, 1, 1)
	require.Equal(t, 7.0, a.Data()[2+3*1+9*1])

	r, err := a.Reshape(9, 2)
	require.NoError(t, err)
	r.Set(1, 0, 0)
	require.Equal(t, 1.0, a.At(0, 0, 0))

	c := a.Clone()
	c.Set(-1, 0, 0, 0)
	require.Equal(t, 1.0, a.At(0, 0, 0))

	_, err = a.Reshape(4, 4)
	require.ErrorIs(t, err, matadi.ErrDataLength)
	require.Panics(t, func() { a.At(3, 0, 0) })
	require.Panics(t, func() { a.At(0, 0) })
}

func TestShape(t *testing.T) {
	require.Equal(t, "(3,)", matadi.Shape{3}.String())
	require.Equal(t, "(3, 3, 5)", matadi.Shape{3, 3, 5}.String())
	require.Equal(t, "()", matadi.Shape{}.String())
	require.Equal(t, 1, matadi.Shape{}.Numel())
	require.True(t, matadi.Shape{1, 1}.AllOnes())
	require.False(t, matadi.Shape{1, 2}.AllOnes())
	require.True(t, matadi.Shape{2, 3}.Equal(matadi.Shape{2, 3}))
	require.Equal(t, matadi.Shape{4, 2}, matadi.Zeros(4, 2).Shape())
}
