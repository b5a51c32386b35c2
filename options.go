package matadi

import (
	"fmt"
	"runtime"
)

// DefaultEpsilon is the perturbation applied by Modify unless Epsilon says
// otherwise.
const DefaultEpsilon = 1e-5

// ============================================================
// Construction options
// ============================================================

// Option configures a facade at construction.
type Option func(*config)

type config struct {
	compress  bool
	statevars int
	triu      bool
}

func gatherOptions(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithCompress collapses every variable and output shape made only of ones,
// such as the 1x1 shape of a scalar variable, to the empty shape. Input
// arrays then carry no leading axes for those variables and results carry
// none either.
func WithCompress() Option {
	return func(c *config) { c.compress = true }
}

// WithStateVars excludes the last n variables from differentiation. Their
// outputs are passed through by MaterialTensor.Function. Panics if n < 0.
func WithStateVars(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("matadi: WithStateVars(%d)", n))
	}
	return func(c *config) { c.statevars = n }
}

// WithTriu restricts the jacobian grid of a MaterialTensor to pairs (i, j)
// with j >= i.
func WithTriu() Option {
	return func(c *config) { c.triu = true }
}

// ============================================================
// Evaluation options
// ============================================================

// EvalOption configures a single evaluation call.
type EvalOption func(*evalConfig)

type evalConfig struct {
	threads int
	modify  []bool
	eps     float64
}

func gatherEvalOptions(opts []EvalOption) evalConfig {
	c := evalConfig{eps: DefaultEpsilon}
	for _, o := range opts {
		o(&c)
	}
	if c.threads < 1 {
		c.threads = runtime.NumCPU()
	}
	return c
}

// Threads sets the number of workers for the batch. Zero or negative values
// select all logical CPUs, resolved at the call. One disables the parallel
// path.
func Threads(n int) EvalOption {
	return func(c *evalConfig) { c.threads = n }
}

// Modify perturbs input k, when flags[k] is set, by +eps at [0,0] and -eps at
// [1,1] of every sample before evaluation. The caller's arrays are not
// changed.
func Modify(flags ...bool) EvalOption {
	return func(c *evalConfig) { c.modify = flags }
}

// Epsilon sets the perturbation used by Modify.
func Epsilon(eps float64) EvalOption {
	return func(c *evalConfig) { c.eps = eps }
}
