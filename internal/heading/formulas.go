// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package heading

import (
	"math"

	"github.com/relabs-tech/view360/internal/angle"
	"github.com/relabs-tech/view360/internal/orientation"
	"github.com/relabs-tech/view360/internal/projection"
)

// Perspective used to unproject the viewport centre.
const (
	fieldOfViewDeg = 45.0
	nearPlane      = 0.1
	farPlane       = 100.0
)

// elevationGateDeg is the elevation from which the camera is considered to
// look over the top and the heading flips by 180°.
const elevationGateDeg = 45.0

func raw(s orientation.Sample, _ projection.Size) (float64, bool) {
	return s.Heading.Get()
}

// tiltByProjection unprojects the centre of the viewport through a
// perspective camera rotated by the attitude and takes the bearing of the
// resulting world point.
func tiltByProjection(s orientation.Sample, vp projection.Size) (float64, bool) {
	att, ok := s.Attitude.Get()
	if !ok {
		return 0, false
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return 0, false
	}

	proj := perspective(angle.ToRadians(fieldOfViewDeg), vp.Width/vp.Height, nearPlane, farPlane)
	view := rotationView(att.RotationMatrix())

	p, ok := unproject(
		[3]float64{vp.Width / 2, vp.Height / 2, 0},
		view, proj,
		[4]float64{0, 0, vp.Width, vp.Height},
	)
	if !ok {
		return 0, false
	}
	return angle.ToDegrees(math.Atan2(-p[1], p[0])), true
}

// yawRollSum adds yaw and roll. When both are negative the sum is taken
// from 360 so that two large negative angles do not jump across ±180.
func yawRollSum(s orientation.Sample, _ projection.Size) (float64, bool) {
	att, ok := s.Attitude.Get()
	if !ok {
		return 0, false
	}
	yaw := angle.ToDegrees(att.Yaw)
	roll := angle.ToDegrees(att.Roll)
	if yaw < 0 && roll < 0 {
		return 360 - (-(yaw + roll)), true
	}
	return yaw + roll, true
}

// quaternionTilt adds the quaternion tilt asin(2(xz - wy)) to the
// magnetic heading.
func quaternionTilt(s orientation.Sample, _ projection.Size) (float64, bool) {
	att, ok := s.Attitude.Get()
	if !ok {
		return 0, false
	}
	h, ok := s.Heading.Get()
	if !ok {
		return 0, false
	}
	q := att.Quaternion
	tilt := angle.ToDegrees(math.Asin(2 * (q.X*q.Z - q.W*q.Y)))
	if math.IsNaN(tilt) {
		return 0, false
	}
	return h + tilt, true
}

// yawNormalized rounds yaw to whole degrees in [0, 360).
func yawNormalized(s orientation.Sample, _ projection.Size) (float64, bool) {
	att, ok := s.Attitude.Get()
	if !ok {
		return 0, false
	}
	deg := math.Round(angle.ToDegrees(att.Yaw))
	if deg < 0 {
		deg += 360
	}
	return deg, true
}

func elevationGated(s orientation.Sample, _ projection.Size) (float64, bool) {
	e, ok := ElevationDegrees(s)
	if !ok {
		return 0, false
	}
	h, ok := s.Heading.Get()
	if !ok {
		return 0, false
	}
	if e >= elevationGateDeg {
		return 180 + h, true
	}
	return h, true
}

// PitchDegrees is the quaternion pitch
// atan2(2(xw + yz), 1 - 2x² - 2z²) in degrees.
func PitchDegrees(s orientation.Sample) (float64, bool) {
	att, ok := s.Attitude.Get()
	if !ok {
		return 0, false
	}
	q := att.Quaternion
	return angle.ToDegrees(math.Atan2(2*(q.X*q.W+q.Y*q.Z), 1-2*q.X*q.X-2*q.Z*q.Z)), true
}

// ElevationDegrees is the camera elevation derived from the quaternion
// pitch: e = 90 - pitch, folded modulo 180 when |e| > 180, then negated.
func ElevationDegrees(s orientation.Sample) (float64, bool) {
	pitch, ok := PitchDegrees(s)
	if !ok {
		return 0, false
	}
	e := 90 - pitch
	if math.Abs(e) > 180 {
		e = math.Mod(e, 180)
	}
	return -e, true
}
