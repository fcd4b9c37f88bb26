package adaptive

import (
	"fmt"
	"math"
)

const (
	defaultWeight        = 1.0
	defaultMinWeight     = 0.1
	defaultMaxWeight     = 10.0
	defaultCorrectFactor = 0.8
	defaultWrongFactor   = 1.5
)

// Policy controls how answers move an item's weight.
type Policy struct {
	DefaultWeight float64
	MinWeight     float64
	MaxWeight     float64
	CorrectFactor float64
	WrongFactor   float64
}

// DefaultPolicy returns the stock reinforcement policy.
func DefaultPolicy() Policy {
	return Policy{
		DefaultWeight: defaultWeight,
		MinWeight:     defaultMinWeight,
		MaxWeight:     defaultMaxWeight,
		CorrectFactor: defaultCorrectFactor,
		WrongFactor:   defaultWrongFactor,
	}
}

// Validate reports whether the policy keeps every weight positive and bounded
// and moves weights strictly in the expected direction.
func (p Policy) Validate() error {
	for name, v := range map[string]float64{
		"default weight": p.DefaultWeight,
		"min weight":     p.MinWeight,
		"max weight":     p.MaxWeight,
		"correct factor": p.CorrectFactor,
		"wrong factor":   p.WrongFactor,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite: %w", name, ErrInvalidPolicy)
		}
	}
	if p.MinWeight <= 0 {
		return fmt.Errorf("min weight must be > 0: %w", ErrInvalidPolicy)
	}
	if p.MaxWeight < p.MinWeight {
		return fmt.Errorf("max weight must be >= min weight: %w", ErrInvalidPolicy)
	}
	if p.DefaultWeight < p.MinWeight || p.DefaultWeight > p.MaxWeight {
		return fmt.Errorf("default weight must be between min and max weight: %w", ErrInvalidPolicy)
	}
	if p.CorrectFactor <= 0 || p.CorrectFactor >= 1 {
		return fmt.Errorf("correct factor must be in (0, 1): %w", ErrInvalidPolicy)
	}
	if p.WrongFactor <= 1 {
		return fmt.Errorf("wrong factor must be > 1: %w", ErrInvalidPolicy)
	}
	return nil
}

func (p Policy) next(weight float64, correct bool) float64 {
	if correct {
		return p.clamp(weight * p.CorrectFactor)
	}
	return p.clamp(weight * p.WrongFactor)
}

func (p Policy) clamp(weight float64) float64 {
	if math.IsNaN(weight) {
		return p.DefaultWeight
	}
	if weight < p.MinWeight {
		return p.MinWeight
	}
	if weight > p.MaxWeight {
		return p.MaxWeight
	}
	return weight
}
