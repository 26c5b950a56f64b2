// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package angle holds the small degree/radian helpers shared by the heading
// and projection code. Nothing here normalizes unless the name says so.
package angle

import "math"

// ToDegrees converts radians to degrees.
func ToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// ClockwiseRotation turns a counter-clockwise angle in radians into a
// clockwise rotation in degrees: 360 - deg(rad).
//
// The result is only reduced when it is strictly greater than 360, so
// ClockwiseRotation(0) is 360, not 0.
func ClockwiseRotation(rad float64) float64 {
	deg := 360 - ToDegrees(rad)
	if deg > 360 {
		deg = math.Mod(deg, 360)
	}
	return deg
}

// RoundUpTo rounds v up to the next multiple of n.
func RoundUpTo(v, n float64) float64 {
	return math.Ceil(v/n) * n
}

// RoundToNearest returns round(((v + n/2) / n) * n).
//
// Note the division and multiplication cancel, so this is round(v + n/2)
// rather than snapping to a multiple of n. Callers that want a multiple
// should use RoundUpTo.
func RoundToNearest(v, n float64) float64 {
	return math.Round(((v + n/2) / n) * n)
}
