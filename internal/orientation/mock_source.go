// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock sensor source that sweeps the device slowly
// around the horizon while held upright, with a little pitch/roll wobble.
func NewMockSource() Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Next() (Reading, error) {
	elapsed := m.now().Sub(m.start).Seconds()

	yawDeg := math.Mod(elapsed*30, 360)
	pitch := (80 + 5*math.Cos(elapsed*0.7)) * math.Pi / 180
	roll := 3 * math.Sin(elapsed) * math.Pi / 180
	// Compass heading grows clockwise, yaw counter-clockwise.
	yaw := -yawDeg * math.Pi / 180

	att := AttitudeFromEuler(pitch, roll, yaw)
	heading := yawDeg
	acc := GravityInDevice(att)

	return Reading{
		Attitude:     &att,
		Heading:      &heading,
		Acceleration: &acc,
	}, nil
}
