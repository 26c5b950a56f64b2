// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

// FieldState tells apart a sensor that never reported from one whose latest
// report was empty.
type FieldState int

const (
	// Absent: no report has arrived yet.
	Absent FieldState = iota
	// Stale: the latest report carried no value; any earlier value is kept.
	Stale
	// Fresh: the latest report carried a value.
	Fresh
)

func (s FieldState) String() string {
	switch s {
	case Stale:
		return "stale"
	case Fresh:
		return "fresh"
	default:
		return "absent"
	}
}

// Field holds the latest value of one sensor channel.
type Field[T any] struct {
	value T
	has   bool
	state FieldState
}

// Set stores a reported value.
func (f *Field[T]) Set(v T) {
	f.value = v
	f.has = true
	f.state = Fresh
}

// Clear records an empty report. The previous value, if any, stays readable.
func (f *Field[T]) Clear() {
	f.state = Stale
}

// Get returns the held value. ok is false until a value has been reported.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.has
}

func (f Field[T]) State() FieldState {
	return f.state
}

// Sample combines the latest attitude, magnetic heading (degrees) and
// acceleration. The zero value has every field Absent.
type Sample struct {
	Attitude     Field[Attitude]
	Heading      Field[float64]
	Acceleration Field[Vector3]
}

// Apply folds a reading into the sample. Nil fields leave the sample as is.
func (s *Sample) Apply(r Reading) {
	if r.Attitude != nil {
		s.Attitude.Set(*r.Attitude)
	}
	if r.Heading != nil {
		s.Heading.Set(*r.Heading)
	}
	if r.Acceleration != nil {
		s.Acceleration.Set(*r.Acceleration)
	}
}

// Orientation classifies the latest acceleration. Without acceleration it
// falls back to gravity derived from the attitude.
func (s Sample) Orientation() DeviceOrientation {
	if v, ok := s.Acceleration.Get(); ok {
		return ClassifyAcceleration(v)
	}
	if a, ok := s.Attitude.Get(); ok {
		return ClassifyAcceleration(GravityInDevice(a))
	}
	return OrientationUnknown
}
