package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig configures the Glorot uniform initialization algorithm
type GlorotUConfig struct{ Gain float64 }

// NewGlorotU returns a new Glorot uniform weight initializer
func NewGlorotU(gain float64) *InitWFn { return New(GlorotUConfig{gain}) }

// Type returns the type of initializer described by the configuration
func (g GlorotUConfig) Type() Type { return GlorotU }

// Create returns the initializer as a Gorgonia InitWFn
func (g GlorotUConfig) Create() G.InitWFn { return G.GlorotU(g.Gain) }

// GlorotNConfig configures the Glorot normal initialization algorithm
type GlorotNConfig struct{ Gain float64 }

// NewGlorotN returns a new Glorot normal weight initializer
func NewGlorotN(gain float64) *InitWFn { return New(GlorotNConfig{gain}) }

// Type returns the type of initializer described by the configuration
func (g GlorotNConfig) Type() Type { return GlorotN }

// Create returns the initializer as a Gorgonia InitWFn
func (g GlorotNConfig) Create() G.InitWFn { return G.GlorotN(g.Gain) }

// HeUConfig configures the He uniform initialization algorithm
type HeUConfig struct{ Gain float64 }

// NewHeU returns a new He uniform weight initializer
func NewHeU(gain float64) *InitWFn { return New(HeUConfig{gain}) }

// Type returns the type of initializer described by the configuration
func (h HeUConfig) Type() Type { return HeU }

// Create returns the initializer as a Gorgonia InitWFn
func (h HeUConfig) Create() G.InitWFn { return G.HeU(h.Gain) }

// HeNConfig configures the He normal initialization algorithm
type HeNConfig struct{ Gain float64 }

// NewHeN returns a new He normal weight initializer
func NewHeN(gain float64) *InitWFn { return New(HeNConfig{gain}) }

// Type returns the type of initializer described by the configuration
func (h HeNConfig) Type() Type { return HeN }

// Create returns the initializer as a Gorgonia InitWFn
func (h HeNConfig) Create() G.InitWFn { return G.HeN(h.Gain) }

// UniformConfig configures an initializer drawing weights uniformly
// from [Low, High)
type UniformConfig struct{ Low, High float64 }

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64) *InitWFn {
	return New(UniformConfig{Low: low, High: high})
}

// Type returns the type of initializer described by the configuration
func (u UniformConfig) Type() Type { return Uniform }

// Create returns the initializer as a Gorgonia InitWFn
func (u UniformConfig) Create() G.InitWFn { return G.Uniform(u.Low, u.High) }

// GaussianConfig configures an initializer drawing weights from a
// normal distribution
type GaussianConfig struct{ Mean, StdDev float64 }

// NewGaussian returns a new gaussian weight initializer
func NewGaussian(mean, stddev float64) *InitWFn {
	return New(GaussianConfig{Mean: mean, StdDev: stddev})
}

// Type returns the type of initializer described by the configuration
func (g GaussianConfig) Type() Type { return Gaussian }

// Create returns the initializer as a Gorgonia InitWFn
func (g GaussianConfig) Create() G.InitWFn { return G.Gaussian(g.Mean, g.StdDev) }

// ConstantConfig configures an initializer setting every weight to
// Value. Networks initialized this way are deterministic, which is
// mostly useful in tests.
type ConstantConfig struct{ Value float64 }

// NewConstant returns a new constant weight initializer
func NewConstant(value float64) *InitWFn { return New(ConstantConfig{value}) }

// Type returns the type of initializer described by the configuration
func (c ConstantConfig) Type() Type { return Constant }

// Create returns the initializer as a Gorgonia InitWFn
func (c ConstantConfig) Create() G.InitWFn { return G.ValuesOf(c.Value) }

// ZeroesConfig configures an initializer setting every weight to 0
type ZeroesConfig struct{}

// NewZeroes returns a new zero weight initializer
func NewZeroes() *InitWFn { return New(ZeroesConfig{}) }

// Type returns the type of initializer described by the configuration
func (z ZeroesConfig) Type() Type { return Zeroes }

// Create returns the initializer as a Gorgonia InitWFn
func (z ZeroesConfig) Create() G.InitWFn { return G.Zeroes() }
