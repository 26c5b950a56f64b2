// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
)

// Quaternion is a unit rotation quaternion.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Identity is the no-rotation quaternion.
var Identity = Quaternion{W: 1}

// Mul returns q*r (apply r first, then q).
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Conjugate is the inverse of a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Normalize scales q to unit length. The zero quaternion becomes Identity.
func (q Quaternion) Normalize() Quaternion {
	n := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if n == 0 {
		return Identity
	}
	return Quaternion{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// Attitude is a device orientation snapshot. Euler angles are in radians and
// follow the yaw(Z) -> pitch(X) -> roll(Y) order used by phone motion APIs.
type Attitude struct {
	Quaternion Quaternion `json:"quaternion"`
	Pitch      float64    `json:"pitch"`
	Roll       float64    `json:"roll"`
	Yaw        float64    `json:"yaw"`
}

// AttitudeFromQuaternion derives the Euler angles from q.
//
//	pitch = asin(2(wx + yz))
//	roll  = atan2(2(wy - xz), 1 - 2(x² + y²))
//	yaw   = atan2(2(wz - xy), 1 - 2(x² + z²))
func AttitudeFromQuaternion(q Quaternion) Attitude {
	sp := 2 * (q.W*q.X + q.Y*q.Z)
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}
	return Attitude{
		Quaternion: q,
		Pitch:      math.Asin(sp),
		Roll:       math.Atan2(2*(q.W*q.Y-q.X*q.Z), 1-2*(q.X*q.X+q.Y*q.Y)),
		Yaw:        math.Atan2(2*(q.W*q.Z-q.X*q.Y), 1-2*(q.X*q.X+q.Z*q.Z)),
	}
}

// AttitudeFromEuler builds an attitude from radians, composing
// yaw about Z, then pitch about X, then roll about Y.
func AttitudeFromEuler(pitch, roll, yaw float64) Attitude {
	qz := Quaternion{Z: math.Sin(yaw / 2), W: math.Cos(yaw / 2)}
	qx := Quaternion{X: math.Sin(pitch / 2), W: math.Cos(pitch / 2)}
	qy := Quaternion{Y: math.Sin(roll / 2), W: math.Cos(roll / 2)}
	return AttitudeFromQuaternion(qz.Mul(qx).Mul(qy))
}

// RotationMatrix returns the row-major 3x3 rotation for the attitude,
// mapping device coordinates into the reference frame.
func (a Attitude) RotationMatrix() [3][3]float64 {
	q := a.Quaternion
	return [3][3]float64{
		{1 - 2*(q.Y*q.Y+q.Z*q.Z), 2 * (q.X*q.Y - q.W*q.Z), 2 * (q.X*q.Z + q.W*q.Y)},
		{2 * (q.X*q.Y + q.W*q.Z), 1 - 2*(q.X*q.X+q.Z*q.Z), 2 * (q.Y*q.Z - q.W*q.X)},
		{2 * (q.X*q.Z - q.W*q.Y), 2 * (q.Y*q.Z + q.W*q.X), 1 - 2*(q.X*q.X+q.Y*q.Y)},
	}
}

// MultiplyByInverse expresses a relative to ref: ref⁻¹ * a.
func (a Attitude) MultiplyByInverse(ref Attitude) Attitude {
	rel := ref.Quaternion.Normalize().Conjugate().Mul(a.Quaternion.Normalize())
	return AttitudeFromQuaternion(rel.Normalize())
}

// Vector3 is an acceleration sample in device coordinates, in g.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DeviceOrientation is the coarse physical orientation of the device.
type DeviceOrientation int

const (
	OrientationUnknown DeviceOrientation = iota
	OrientationPortrait
	OrientationPortraitUpsideDown
	OrientationLandscapeLeft
	OrientationLandscapeRight
	OrientationFaceUp
	OrientationFaceDown
)

var orientationNames = [...]string{
	"unknown", "portrait", "portrait_upside_down",
	"landscape_left", "landscape_right", "face_up", "face_down",
}

func (o DeviceOrientation) String() string {
	if o >= 0 && int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return "unknown"
}

// ClassifyAcceleration picks the orientation from the axis gravity dominates.
// Device axes: X to the right, Y up the screen, Z out of the screen.
// Ties prefer X, then Y.
func ClassifyAcceleration(v Vector3) DeviceOrientation {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	if ax == 0 && ay == 0 && az == 0 {
		return OrientationUnknown
	}
	switch {
	case ax >= ay && ax >= az:
		if v.X < 0 {
			return OrientationLandscapeLeft
		}
		return OrientationLandscapeRight
	case ay >= az:
		if v.Y < 0 {
			return OrientationPortrait
		}
		return OrientationPortraitUpsideDown
	default:
		if v.Z < 0 {
			return OrientationFaceUp
		}
		return OrientationFaceDown
	}
}

// GravityInDevice returns the unit gravity vector seen by the device for the
// given attitude, assuming the reference frame Z axis points up.
func GravityInDevice(a Attitude) Vector3 {
	m := a.RotationMatrix()
	// Device coordinates of reference -Z: transpose(R) * (0,0,-1).
	return Vector3{X: -m[2][0], Y: -m[2][1], Z: -m[2][2]}
}

// Reading is one delivery from a sensor stream. Nil fields were not part of
// this delivery.
type Reading struct {
	Attitude     *Attitude `json:"attitude,omitempty"`
	Heading      *float64  `json:"heading,omitempty"`
	Acceleration *Vector3  `json:"acceleration,omitempty"`
}

// Source is anything that can provide sensor readings over time.
type Source interface {
	Next() (Reading, error)
}
