// Package tolerance implements the adaptive tolerance manager: it derives a
// tolerance from wall thickness and the requesting context instead of a
// one-size-fits-all constant. The other packages of this module do not call
// it; they take an explicit tolerance argument.
package tolerance

import "math"

// Context identifies which operation is requesting a tolerance, since each
// context carries its own multiplier.
type Context string

const (
	ContextVertexMerge Context = "vertex_merge"
	ContextOffset      Context = "offset"
	ContextBoolean     Context = "boolean"
	ContextHealing     Context = "healing"
)

var contextMultiplier = map[Context]float64{
	ContextVertexMerge: 1.0,
	ContextOffset:      1.5,
	ContextBoolean:     2.0,
	ContextHealing:     1.0,
}

const (
	minRatio = 1e-4
	maxRatio = 1e-2
	baseRatio = 1e-3
)

// Manager computes tolerances from thickness, context, angle and precision.
// It holds only immutable configuration (the min/max ratio bounds), so a
// single Manager is safe to share across concurrent engine invocations.
type Manager struct {
	MinRatio float64
	MaxRatio float64
}

// NewManager returns a Manager using the default min/max ratio bounds.
func NewManager() *Manager {
	return &Manager{MinRatio: minRatio, MaxRatio: maxRatio}
}

// Tolerance returns the tolerance for the given thickness/context/angle/
// precision combination, per the base rule, bounds clamp, context modifier,
// angle modifier and precision modifier, applied in that order.
func (m *Manager) Tolerance(thickness float64, ctx Context, angleDegrees, localPrecision float64) float64 {
	base := thickness * baseRatio
	lo := thickness * m.MinRatio
	hi := thickness * m.MaxRatio
	if base < lo {
		base = lo
	} else if base > hi {
		base = hi
	}

	t := base * contextMultiplier[ctx]

	if angleDegrees < 30 {
		t *= 1 + (30-angleDegrees)/30
	}

	precision := localPrecision
	if precision < 0.1 {
		precision = 0.1
	}
	t *= precision

	return t
}

// Confidence returns the UI-facing confidence score for a tolerance value
// that was derived from base: 1 - |log10(tolerance/base)| / 2,
// clamped to [0,1].
func Confidence(computedTolerance, base float64) float64 {
	if computedTolerance <= 0 || base <= 0 {
		return 0
	}
	c := 1 - math.Abs(math.Log10(computedTolerance/base))/2
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Base returns thickness * 0.1%, the reference value Confidence compares
// against.
func Base(thickness float64) float64 {
	return thickness * baseRatio
}
