package lab

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/njchilds90/matadi"
	"github.com/njchilds90/matadi/models"
)

// ============================================================
// Model registry
// ============================================================

// params are the JSON parameters of a tool call.
type params map[string]interface{}

func (p params) float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing param: %s", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("param %s must be a number", key)
	}
	return f, nil
}

func (p params) floatOr(key string, def float64) (float64, error) {
	if _, ok := p[key]; !ok {
		return def, nil
	}
	return p.float(key)
}

func (p params) floats(key string) ([]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be array", key)
	}
	out := make([]float64, len(raw))
	for i, r := range raw {
		f, ok := r.(float64)
		if !ok {
			return nil, fmt.Errorf("param %s[%d] must be a number", key, i)
		}
		out[i] = f
	}
	return out, nil
}

func (p params) bool(key string) (bool, error) {
	v, ok := p[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("param %s must be a boolean", key)
	}
	return b, nil
}

func (p params) object(key string) (params, error) {
	v, ok := p[key]
	if !ok {
		return params{}, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be an object", key)
	}
	return params(m), nil
}

// scalars reads the named numbers in order.
func (p params) scalars(keys ...string) ([]float64, error) {
	out := make([]float64, len(keys))
	for i, k := range keys {
		v, err := p.float(k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type modelEntry struct {
	description string
	params      []string
	build       func(p params) (models.Energy, error)
}

func fixed(description string, build func(c []float64) models.Energy, keys ...string) modelEntry {
	return modelEntry{
		description: description,
		params:      keys,
		build: func(p params) (models.Energy, error) {
			c, err := p.scalars(keys...)
			if err != nil {
				return nil, err
			}
			return build(c), nil
		},
	}
}

var registry = map[string]modelEntry{
	"linear_elastic": fixed("Linear elastic (small strain)", func(c []float64) models.Energy {
		return models.LinearElastic(c[0], c[1])
	}, "mu", "lambda"),
	"saint_venant_kirchhoff": fixed("Saint Venant-Kirchhoff", func(c []float64) models.Energy {
		return models.SaintVenantKirchhoff(c[0], c[1])
	}, "mu", "lambda"),
	"neo_hooke": fixed("Neo-Hooke", func(c []float64) models.Energy {
		return models.NeoHooke(c[0])
	}, "C10"),
	"mooney_rivlin": fixed("Mooney-Rivlin", func(c []float64) models.Energy {
		return models.MooneyRivlin(c[0], c[1])
	}, "C10", "C01"),
	"yeoh": fixed("Yeoh", func(c []float64) models.Energy {
		return models.Yeoh(c[0], c[1], c[2])
	}, "C10", "C20", "C30"),
	"third_order_deformation": fixed("Third order deformation", func(c []float64) models.Energy {
		return models.ThirdOrderDeformation(c[0], c[1], c[2], c[3], c[4])
	}, "C10", "C01", "C11", "C20", "C30"),
	"arruda_boyce": fixed("Arruda-Boyce", func(c []float64) models.Energy {
		return models.ArrudaBoyce(c[0], c[1])
	}, "C1", "limit"),
	"extended_tube": fixed("Extended tube", func(c []float64) models.Energy {
		return models.ExtendedTube(c[0], c[1], c[2], c[3])
	}, "Gc", "delta", "Ge", "beta"),
	"van_der_waals": fixed("Van der Waals", func(c []float64) models.Energy {
		return models.VanDerWaals(c[0], c[1], c[2], c[3])
	}, "mu", "limit", "a", "beta"),
	"ogden": {
		description: "Ogden (mu and alpha are arrays of equal length)",
		params:      []string{"mu", "alpha"},
		build: func(p params) (models.Energy, error) {
			mu, err := p.floats("mu")
			if err != nil {
				return nil, err
			}
			alpha, err := p.floats("alpha")
			if err != nil {
				return nil, err
			}
			if len(mu) != len(alpha) || len(mu) == 0 {
				return nil, fmt.Errorf("ogden: %d mu for %d alpha", len(mu), len(alpha))
			}
			return models.Ogden(mu, alpha), nil
		},
	},
}

// Models returns the registered model names in sorted order.
func Models() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns the hyperelastic material of a registered model. A positive
// bulk modulus adds the volumetric energy.
func Build(name string, p map[string]interface{}, bulk float64) (*matadi.Hyperelastic, error) {
	entry, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	W, err := entry.build(params(p))
	if err != nil {
		return nil, err
	}
	if bulk > 0 {
		W = models.AddVolumetric(W, models.Bulk(bulk))
	}
	return matadi.NewHyperelastic(W)
}

// ============================================================
// Tool interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	p := params(req.Params)
	if p == nil {
		p = params{}
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	getMaterial := func() (*matadi.Hyperelastic, string, error) {
		v, ok := p["model"]
		if !ok {
			return nil, "", fmt.Errorf("missing param: model")
		}
		name, ok := v.(string)
		if !ok {
			return nil, "", fmt.Errorf("param model must be a string")
		}
		mp, err := p.object("parameters")
		if err != nil {
			return nil, "", err
		}
		bulk, err := p.floatOr("bulk", 0)
		if err != nil {
			return nil, "", err
		}
		m, err := Build(name, mp, bulk)
		return m, name, err
	}

	switch req.Tool {
	case "models":
		out := make([]map[string]interface{}, 0, len(registry))
		for _, name := range Models() {
			e := registry[name]
			out = append(out, map[string]interface{}{
				"name": name, "description": e.description, "params": e.params,
			})
		}
		return ToolResponse{Result: out}

	case "stress":
		m, name, err := getMaterial()
		if err != nil {
			return fail(err)
		}
		F, err := p.floats("F")
		if err != nil {
			return fail(err)
		}
		a, err := matadi.FromRowMajor(F, 3, 3)
		if err != nil {
			return fail(err)
		}
		g, err := m.Gradient([]*matadi.Array{a}, matadi.Threads(1))
		if err != nil {
			return fail(err)
		}
		rows := make([][]float64, 3)
		for i := range rows {
			rows[i] = []float64{g[0].At(i, 0), g[0].At(i, 1), g[0].At(i, 2)}
		}
		return ToolResponse{Result: rows, String: fmt.Sprintf("first Piola-Kirchhoff stress of %s", name)}

	case "run_lab":
		m, name, err := getMaterial()
		if err != nil {
			return fail(err)
		}
		cfg, err := labConfig(p)
		if err != nil {
			return fail(err)
		}
		compressible, err := p.bool("compressible")
		if err != nil {
			return fail(err)
		}
		var data []Data
		if compressible {
			data, err = NewCompressible(m).Run(cfg)
		} else {
			data, err = NewIncompressible(m).Run(cfg)
		}
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: data, String: fmt.Sprintf("%d load cases of %s", len(data), name)}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func labConfig(p params) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if cfg.StretchMin, err = p.floatOr("stretch_min", cfg.StretchMin); err != nil {
		return cfg, err
	}
	if cfg.StretchMax, err = p.floatOr("stretch_max", cfg.StretchMax); err != nil {
		return cfg, err
	}
	if cfg.ShearMax, err = p.floatOr("shear_max", cfg.ShearMax); err != nil {
		return cfg, err
	}
	num, err := p.floatOr("num", float64(cfg.Num))
	if err != nil {
		return cfg, err
	}
	cfg.Num = int(num)
	if _, ok := p["cases"]; ok {
		v, ok := p["cases"].([]interface{})
		if !ok {
			return cfg, fmt.Errorf("param cases must be array")
		}
		cfg.Uniaxial, cfg.Biaxial, cfg.Planar, cfg.Shear = false, false, false, false
		for i, c := range v {
			switch c {
			case Uniaxial:
				cfg.Uniaxial = true
			case Biaxial:
				cfg.Biaxial = true
			case Planar:
				cfg.Planar = true
			case Shear:
				cfg.Shear = true
			default:
				return cfg, fmt.Errorf("param cases[%d]: unknown load case %v", i, c)
			}
		}
	}
	return cfg, nil
}

// ToolSpec returns the JSON schema of the tools.
func ToolSpec() string {
	model := map[string]string{"model": "string", "parameters": "object", "bulk": "number"}
	with := func(extra map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range model {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}
	tools := []map[string]interface{}{
		ts("models", "List the registered material models and their parameters", []string{}, map[string]string{}),
		ts("stress", "First Piola-Kirchhoff stress of a model at F (row-major 3x3)", []string{"model", "parameters", "F"},
			with(map[string]string{"F": "array"})),
		ts("run_lab", "Run uniaxial, biaxial, planar and shear load cases. Set compressible and bulk for the compressible lab",
			[]string{"model", "parameters"},
			with(map[string]string{
				"compressible": "boolean", "cases": "array", "num": "integer",
				"stretch_min": "number", "stretch_max": "number", "shear_max": "number",
			})),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
