package scene

import (
	"strings"

	"github.com/matzehuels/lineage/pkg/errors"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// CubicInOut accelerates then decelerates.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// ParseEasing returns the easing with the given name.
func ParseEasing(name string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cubic", "cubic-in-out":
		return CubicInOut, nil
	case "linear":
		return Linear, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown easing %q (want cubic-in-out or linear)", name)
	}
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
