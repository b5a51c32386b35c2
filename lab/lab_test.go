package lab_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njchilds90/matadi"
	"github.com/njchilds90/matadi/lab"
	"github.com/njchilds90/matadi/models"
)

func neoHooke(t *testing.T, bulk float64) *matadi.Hyperelastic {
	t.Helper()
	W := models.NeoHooke(0.5)
	if bulk > 0 {
		W = models.AddVolumetric(W, models.Bulk(bulk))
	}
	m, err := matadi.NewHyperelastic(W)
	require.NoError(t, err)
	return m
}

func small() lab.Config {
	cfg := lab.DefaultConfig()
	cfg.Num = 9
	cfg.StretchMax = 2
	return cfg
}

// ============================================================
// Incompressible
// ============================================================

func TestIncompressible_NeoHooke(t *testing.T) {
	data, err := lab.NewIncompressible(neoHooke(t, 0)).Run(small())
	require.NoError(t, err)
	require.Len(t, data, 4)

	// closed-form nominal stresses with 2 C10 = 1
	want := map[string]func(l float64) float64{
		lab.Uniaxial: func(l float64) float64 { return l - 1/(l*l) },
		lab.Biaxial:  func(l float64) float64 { return l - math.Pow(l, -5) },
		lab.Planar:   func(l float64) float64 { return l - math.Pow(l, -3) },
	}
	for _, d := range data[:3] {
		require.Len(t, d.Stress, 9)
		require.Len(t, d.Stability, 9)
		for k, l := range d.Stretch {
			require.InDelta(t, want[d.Label](l), d.Stress[k], 1e-10, "%s at %g", d.Label, l)
			require.True(t, d.Stability[k], "%s at %g", d.Label, l)
		}
	}
	require.InDelta(t, 0.8, data[0].Stretch[0], 1e-12)
	require.InDelta(t, 1/math.Sqrt(2), data[0].Stretch2[8], 1e-12)
	require.InDelta(t, 1.5, data[1].Stretch[8], 1e-12)

	shear := data[3]
	require.Equal(t, lab.Shear, shear.Label)
	require.Nil(t, shear.Stability)
	for k, g := range shear.Shear {
		require.InDelta(t, g, shear.Stress[k], 1e-10)
	}
}

func TestConfig_Validation(t *testing.T) {
	l := lab.NewIncompressible(neoHooke(t, 0))
	cfg := small()
	cfg.Num = 1
	_, err := l.Run(cfg)
	require.ErrorIs(t, err, lab.ErrConfig)

	cfg = small()
	cfg.StretchMax = 0.5
	_, err = l.Run(cfg)
	require.ErrorIs(t, err, lab.ErrConfig)

	cfg = small()
	cfg.Tol = 0
	_, err = lab.NewCompressible(neoHooke(t, 10)).Run(cfg)
	require.ErrorIs(t, err, lab.ErrConfig)
}

// ============================================================
// Compressible
// ============================================================

func TestCompressible_NeoHooke(t *testing.T) {
	m := neoHooke(t, 5000)
	data, err := lab.NewCompressible(m).Run(small())
	require.NoError(t, err)
	require.Len(t, data, 4)

	for _, d := range data {
		for k := range d.Stress {
			F := [3][3]float64{{1, d.Shear[k], 0}, {0, d.Stretch2[k], 0}, {0, 0, d.Stretch3[k]}}
			F[0][0] = d.Stretch[k]
			a, err := matadi.FromRowMajor([]float64{
				F[0][0], F[0][1], F[0][2],
				F[1][0], F[1][1], F[1][2],
				F[2][0], F[2][1], F[2][2],
			}, 3, 3)
			require.NoError(t, err)
			g, err := m.Gradient([]*matadi.Array{a})
			require.NoError(t, err)

			// lateral faces are free of load
			require.InDelta(t, 0, g[0].At(2, 2), 1e-8, "%s", d.Label)
			if d.Label == lab.Uniaxial || d.Label == lab.Shear {
				require.InDelta(t, 0, g[0].At(1, 1), 1e-8, "%s", d.Label)
			}
		}
	}

	// nearly incompressible: close to the incompressible kinematics
	ux := data[0]
	for k, l := range ux.Stretch {
		require.InDelta(t, ux.Stretch2[k], ux.Stretch3[k], 1e-10)
		require.InDelta(t, 1/math.Sqrt(l), ux.Stretch2[k], 1e-3)
		require.InDelta(t, l-1/(l*l), ux.Stress[k], 1e-2)
	}
}

// stiff is a material with a constant nonzero stress and no stiffness.
type stiff struct{}

func (stiff) Gradient(x []*matadi.Array, _ ...matadi.EvalOption) ([]*matadi.Array, error) {
	P := matadi.Zeros(3, 3)
	for i := 0; i < 3; i++ {
		P.Set(1, i, i)
	}
	return []*matadi.Array{P}, nil
}

func (stiff) Hessian(x []*matadi.Array, _ ...matadi.EvalOption) ([]*matadi.Array, error) {
	return []*matadi.Array{matadi.Zeros(3, 3, 3, 3)}, nil
}

func TestCompressible_NoConvergence(t *testing.T) {
	_, err := lab.NewCompressible(stiff{}).Run(small())
	require.ErrorIs(t, err, lab.ErrNoConvergence)
}

// ============================================================
// Tools
// ============================================================

func TestHandleToolCall(t *testing.T) {
	resp := lab.HandleToolCall(lab.ToolRequest{Tool: "run_lab", Params: map[string]interface{}{
		"model":      "mooney_rivlin",
		"parameters": map[string]interface{}{"C10": 0.4, "C01": 0.1},
		"cases":      []interface{}{"uniaxial", "shear"},
		"num":        5.0,
	}})
	require.Empty(t, resp.Error)
	data, ok := resp.Result.([]lab.Data)
	require.True(t, ok)
	require.Len(t, data, 2)
	require.Equal(t, lab.Uniaxial, data[0].Label)
	require.Len(t, data[1].Stress, 5)

	resp = lab.HandleToolCall(lab.ToolRequest{Tool: "run_lab", Params: map[string]interface{}{
		"model":        "neo_hooke",
		"parameters":   map[string]interface{}{"C10": 0.5},
		"bulk":         100.0,
		"compressible": true,
		"cases":        []interface{}{"biaxial"},
		"num":          4.0,
	}})
	require.Empty(t, resp.Error)

	resp = lab.HandleToolCall(lab.ToolRequest{Tool: "stress", Params: map[string]interface{}{
		"model":      "ogden",
		"parameters": map[string]interface{}{"mu": []interface{}{1.0}, "alpha": []interface{}{2.0}},
		"F":          []interface{}{1.2, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0},
	}})
	require.Empty(t, resp.Error)
	P, ok := resp.Result.([][]float64)
	require.True(t, ok)
	require.Len(t, P, 3)

	resp = lab.HandleToolCall(lab.ToolRequest{Tool: "models"})
	require.Empty(t, resp.Error)
	require.Len(t, resp.Result, len(lab.Models()))

	for _, bad := range []lab.ToolRequest{
		{Tool: "nope"},
		{Tool: "run_lab", Params: map[string]interface{}{"model": "unknown"}},
		{Tool: "run_lab", Params: map[string]interface{}{"model": "neo_hooke", "parameters": map[string]interface{}{}}},
		{Tool: "run_lab", Params: map[string]interface{}{
			"model": "neo_hooke", "parameters": map[string]interface{}{"C10": 0.5}, "cases": []interface{}{"torsion"},
		}},
		{Tool: "stress", Params: map[string]interface{}{
			"model": "neo_hooke", "parameters": map[string]interface{}{"C10": 0.5}, "F": []interface{}{1.0},
		}},
	} {
		require.NotEmpty(t, lab.HandleToolCall(bad).Error, "%+v", bad)
	}
}

func TestToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(lab.ToolSpec()), &spec))
	var names []string
	for _, tool := range spec.Tools {
		names = append(names, tool.Name)
	}
	require.Equal(t, []string{"models", "stress", "run_lab", "tool_spec"}, names)
}
