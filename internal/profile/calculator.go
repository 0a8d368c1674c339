package profile

import (
	"math"

	"github.com/user/cv_profiler_go/internal/parser"
)

// Compute maps one sweep table to a depth/density Profile.
//
// For each sweep direction the local dV/dC is formed as the ratio of two
// index-based gradients rather than from raw per-step deltas; a small ΔC at
// one step then degrades into a NaN or ±Inf at that index only, and the
// sanitize pass (NaN→0, ±Inf→±sentinel) keeps it from poisoning the rest of
// the profile or the integral. Density follows
// N = (C³ / (ε₀·εr·A²·q))·(dV/dC), reported as |N| in cm⁻³; depth follows
// Z = (ε₀·εr·A)/C in nm. Division by a zero capacitance is not guarded
// separately, so the same sanitize pass is applied to the depth and density
// sequences as well.
//
// The sheet density is the trapezoidal integral of N over Z taken along the
// sweep order. A non-monotonic Z makes this a path integral, which is the
// behavior the source data ordering calls for; callers wanting a sorted
// integral must pre-sort the table.
func Compute(table *parser.SweepTable, areaM2, epsilonR float64, opts Options) *Profile {
	voltage := table.Voltages()

	p := &Profile{Voltages: voltage}
	p.DepthForward, p.DensityForward, p.SheetDensityForward =
		computeDirection(voltage, table.ForwardCapacitances(), areaM2, epsilonR, opts)
	p.DepthBackward, p.DensityBackward, p.SheetDensityBackward =
		computeDirection(voltage, table.BackwardCapacitances(), areaM2, epsilonR, opts)
	return p
}

func computeDirection(voltage, capacitance []float64, areaM2, epsilonR float64, opts Options) (depth, density []float64, sheet float64) {
	c := opts.Constants
	n := len(voltage)

	dV := gradient(voltage)
	dC := gradient(capacitance)

	depth = make([]float64, n)
	density = make([]float64, n)
	for i := 0; i < n; i++ {
		dVdC := sanitize(dV[i]/dC[i], opts.InfSentinel)

		cap3 := capacitance[i] * capacitance[i] * capacitance[i]
		nRaw := cap3 / (c.Epsilon0 * epsilonR * areaM2 * areaM2 * c.ElementaryCharge) * dVdC
		// 1e-6 converts m⁻³ to the conventional cm⁻³; sweep direction
		// carries no sign information, so the magnitude is reported.
		density[i] = sanitize(math.Abs(nRaw*1e-6), opts.InfSentinel)

		depth[i] = sanitize(c.Epsilon0*epsilonR*areaM2/capacitance[i]*1e9, opts.InfSentinel)
	}

	sheet = math.Abs(trapezoid(depth, density))
	return depth, density, sheet
}

// gradient computes the discrete derivative of ys with respect to index:
// central differences in the interior, one-sided at the boundaries. A
// single-sample input has no defined slope and yields [0].
func gradient(ys []float64) []float64 {
	n := len(ys)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = ys[1] - ys[0]
	out[n-1] = ys[n-1] - ys[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (ys[i+1] - ys[i-1]) / 2
	}
	return out
}

// sanitize replaces NaN with 0 and ±Inf with the configured finite
// sentinel.
func sanitize(v, infSentinel float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return infSentinel
	case math.IsInf(v, -1):
		return -infSentinel
	default:
		return v
	}
}

// trapezoid integrates ys over xs in the order given. gonum's
// integrate.Trapezoidal insists on sorted abscissae, which the sweep-ordered
// depth sequence does not guarantee, so the quadrature is spelled out here.
func trapezoid(xs, ys []float64) float64 {
	var sum float64
	for i := 1; i < len(xs); i++ {
		sum += (xs[i] - xs[i-1]) * (ys[i] + ys[i-1]) / 2
	}
	return sum
}
