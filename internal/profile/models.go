package profile

// Constants are the physical constants the calculation depends on. They are
// passed explicitly rather than read from package globals so tests can pin
// them against hand-computed expectations.
type Constants struct {
	// Epsilon0 is the permittivity of free space in F/m.
	Epsilon0 float64
	// ElementaryCharge is the elementary charge in C.
	ElementaryCharge float64
}

// DefaultConstants returns the SI values used in production runs.
func DefaultConstants() Constants {
	return Constants{
		Epsilon0:         8.854e-12,
		ElementaryCharge: 1.602e-19,
	}
}

// Options tunes the numeric policy of the calculation.
type Options struct {
	Constants Constants
	// InfSentinel is the finite magnitude substituted for ±Inf values
	// produced by degenerate capacitance steps. Accepted range in the
	// field is 1e10 to 1e20.
	InfSentinel float64
}

// DefaultInfSentinel matches the magnitude the measurement software has
// always used for non-finite replacement.
const DefaultInfSentinel = 1e20

// DefaultOptions returns the production numeric policy.
func DefaultOptions() Options {
	return Options{
		Constants:   DefaultConstants(),
		InfSentinel: DefaultInfSentinel,
	}
}

// Profile holds the depth-resolved carrier densities derived from one sweep
// table. All four sequences have exactly one entry per input row, in sweep
// order. Depths are in nm, densities in cm⁻³, sheet densities in cm⁻².
type Profile struct {
	Voltages []float64

	DepthForward  []float64
	DepthBackward []float64

	DensityForward  []float64
	DensityBackward []float64

	// SheetDensityForward and SheetDensityBackward are the trapezoidal
	// path integrals of density over depth along the sweep order. Both
	// are reported as non-negative magnitudes.
	SheetDensityForward  float64
	SheetDensityBackward float64
}

// Len returns the number of profile rows.
func (p *Profile) Len() int { return len(p.Voltages) }
