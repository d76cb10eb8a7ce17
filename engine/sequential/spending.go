// Package sequential implements group-sequential testing support: the
// Pocock and O'Brien-Fleming per-stage threshold tables, a simulated
// multi-stage sequential test, the cumulative Type-I-error cost of naive
// repeated peeking, and normal-approximation power and sample-size
// calculators.
package sequential

import (
	"statbook/internal/errors"
)

// Per-stage two-sided significance thresholds at overall alpha = 0.05.
// These are the tabulated values the lessons display; each schedule spends
// the full 0.05 across its stages regardless of where the test stops.
var pocockThresholds = map[int][]float64{
	2: {0.0294, 0.0294},
	3: {0.0221, 0.0221, 0.0221},
	4: {0.0182, 0.0182, 0.0182, 0.0182},
}

var obrienFlemingThresholds = map[int][]float64{
	2: {0.0052, 0.0480},
	3: {0.0005, 0.0141, 0.0451},
	4: {0.0001, 0.0042, 0.0194, 0.0430},
}

// PocockThresholds returns the Pocock schedule for 2-4 stages: the same
// corrected threshold at every look.
func PocockThresholds(stages int) ([]float64, error) {
	t, ok := pocockThresholds[stages]
	if !ok {
		return nil, errors.InvalidConfig("pocock thresholds are tabulated for 2-4 stages")
	}
	return append([]float64(nil), t...), nil
}

// OBrienFlemingThresholds returns the O'Brien-Fleming schedule for 2-4
// stages: very strict early looks, near-nominal final look.
func OBrienFlemingThresholds(stages int) ([]float64, error) {
	t, ok := obrienFlemingThresholds[stages]
	if !ok {
		return nil, errors.InvalidConfig("o'brien-fleming thresholds are tabulated for 2-4 stages")
	}
	return append([]float64(nil), t...), nil
}
