package matadi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njchilds90/matadi"
)

// colMajor flattens a row-major table column by column.
func colMajor(rows [][]float64) []float64 {
	var out []float64
	for j := range rows[0] {
		for i := range rows {
			out = append(out, rows[i][j])
		}
	}
	return out
}

var (
	identity3 = colMajor([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	deformed3 = colMajor([][]float64{
		{1.12, 0.08, -0.03},
		{-0.05, 0.94, 0.06},
		{0.02, -0.04, 1.03},
	})
)

// batch repeats sample n times along a trailing axis. Sample k is scaled by
// 1 + k*spread so that the samples differ.
func batch(t *testing.T, sample []float64, spread float64, n int, lead ...int) *matadi.Array {
	t.Helper()
	data := make([]float64, 0, len(sample)*n)
	for k := 0; k < n; k++ {
		for _, v := range sample {
			data = append(data, v*(1+float64(k)*spread))
		}
	}
	a, err := matadi.NewArray(data, append(lead, n)...)
	require.NoError(t, err)
	return a
}

func single(t *testing.T, sample []float64, shape ...int) *matadi.Array {
	t.Helper()
	a, err := matadi.NewArray(append([]float64(nil), sample...), shape...)
	require.NoError(t, err)
	return a
}
