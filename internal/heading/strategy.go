// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package heading turns an orientation sample into a single heading in
// degrees. Several correction formulas are kept side by side; they are
// independent experiments, not stages of one pipeline, and the caller picks
// one per frame.
package heading

import (
	"fmt"

	"github.com/relabs-tech/view360/internal/orientation"
	"github.com/relabs-tech/view360/internal/projection"
)

// Strategy selects a correction formula. The numeric values match the
// selector index shown in the UI.
type Strategy int

const (
	Raw Strategy = iota
	TiltByProjection
	YawRollSum
	QuaternionTiltCompensation
	YawNormalized
	ElevationGated
)

var strategyNames = [...]string{
	"raw",
	"tilt_by_projection",
	"yaw_roll_sum",
	"quaternion_tilt",
	"yaw_normalized",
	"elevation_gated",
}

func (s Strategy) String() string {
	if s >= 0 && int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Valid reports whether s names a known formula.
func (s Strategy) Valid() bool {
	return s >= 0 && int(s) < len(strategyNames)
}

// StrategyFromIndex maps a UI selector index onto a strategy.
func StrategyFromIndex(i int) (Strategy, bool) {
	s := Strategy(i)
	return s, s.Valid()
}

// ParseStrategy accepts either a strategy name or its index.
func ParseStrategy(v string) (Strategy, error) {
	for i, name := range strategyNames {
		if v == name {
			return Strategy(i), nil
		}
	}
	var i int
	if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
		if s, ok := StrategyFromIndex(i); ok {
			return s, nil
		}
	}
	return Raw, fmt.Errorf("unknown heading strategy %q", v)
}

// Strategies lists every strategy in selector order.
func Strategies() []Strategy {
	out := make([]Strategy, len(strategyNames))
	for i := range out {
		out[i] = Strategy(i)
	}
	return out
}

type corrector func(s orientation.Sample, viewport projection.Size) (float64, bool)

var correctors = [...]corrector{
	Raw:                        raw,
	TiltByProjection:           tiltByProjection,
	YawRollSum:                 yawRollSum,
	QuaternionTiltCompensation: quaternionTilt,
	YawNormalized:              yawNormalized,
	ElevationGated:             elevationGated,
}

// Corrected returns the heading in degrees for the sample under the given
// strategy. ok is false when an input the formula needs has not been
// reported, or the formula has no answer for it.
func Corrected(s orientation.Sample, strategy Strategy, viewport projection.Size) (deg float64, ok bool) {
	if !strategy.Valid() {
		return 0, false
	}
	return correctors[strategy](s, viewport)
}
