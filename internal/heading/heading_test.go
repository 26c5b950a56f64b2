package heading

import (
	"math"
	"testing"

	"github.com/relabs-tech/view360/internal/angle"
	"github.com/relabs-tech/view360/internal/orientation"
	"github.com/relabs-tech/view360/internal/projection"
)

var portrait = projection.Size{Width: 320, Height: 480}

func sampleWith(att *orientation.Attitude, heading *float64) orientation.Sample {
	var s orientation.Sample
	s.Apply(orientation.Reading{Attitude: att, Heading: heading})
	return s
}

func eulerDeg(pitch, roll, yaw float64) *orientation.Attitude {
	a := orientation.AttitudeFromEuler(angle.ToRadians(pitch), angle.ToRadians(roll), angle.ToRadians(yaw))
	return &a
}

func ptr(v float64) *float64 { return &v }

func TestStrategyFromIndex(t *testing.T) {
	for i, want := range Strategies() {
		got, ok := StrategyFromIndex(i)
		if !ok || got != want {
			t.Fatalf("index %d: got=%v ok=%v want=%v", i, got, ok, want)
		}
	}
	if _, ok := StrategyFromIndex(6); ok {
		t.Fatalf("index 6 should be rejected")
	}
	if _, ok := StrategyFromIndex(-1); ok {
		t.Fatalf("index -1 should be rejected")
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy("yaw_roll_sum"); err != nil || s != YawRollSum {
		t.Fatalf("by name: got=%v err=%v", s, err)
	}
	if s, err := ParseStrategy("5"); err != nil || s != ElevationGated {
		t.Fatalf("by index: got=%v err=%v", s, err)
	}
	if _, err := ParseStrategy("compass"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEmptySampleIsUnavailableForEveryStrategy(t *testing.T) {
	var s orientation.Sample
	for _, st := range Strategies() {
		if _, ok := Corrected(s, st, portrait); ok {
			t.Fatalf("%v: expected unavailable on empty sample", st)
		}
	}
	if _, ok := Corrected(s, Strategy(42), portrait); ok {
		t.Fatalf("unknown strategy should be unavailable")
	}
}

func TestRaw(t *testing.T) {
	got, ok := Corrected(sampleWith(nil, ptr(123.4)), Raw, portrait)
	if !ok || got != 123.4 {
		t.Fatalf("got=%v ok=%v want 123.4", got, ok)
	}
}

func TestYawRollSum(t *testing.T) {
	tests := []struct {
		name      string
		yaw, roll float64
		want      float64
	}{
		{"both negative", -170, -20, 170},
		{"mixed sign", -10, 20, 10},
		{"both positive", 10, 20, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := orientation.Attitude{Yaw: angle.ToRadians(tt.yaw), Roll: angle.ToRadians(tt.roll)}
			got, ok := Corrected(sampleWith(&att, nil), YawRollSum, portrait)
			if !ok || math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("got=%v ok=%v want=%v", got, ok, tt.want)
			}
		})
	}
}

func TestQuaternionTilt(t *testing.T) {
	id := orientation.AttitudeFromQuaternion(orientation.Identity)
	got, ok := Corrected(sampleWith(&id, ptr(45)), QuaternionTiltCompensation, portrait)
	if !ok || got != 45 {
		t.Fatalf("identity: got=%v ok=%v want exactly 45", got, ok)
	}

	// Roll of 30° about Y gives asin(-2wy) = -30°.
	got, ok = Corrected(sampleWith(eulerDeg(0, 30, 0), ptr(100)), QuaternionTiltCompensation, portrait)
	if !ok || math.Abs(got-70) > 1e-9 {
		t.Fatalf("rolled: got=%v ok=%v want 70", got, ok)
	}

	if _, ok := Corrected(sampleWith(&id, nil), QuaternionTiltCompensation, portrait); ok {
		t.Fatalf("missing heading should be unavailable")
	}
}

func TestYawNormalized(t *testing.T) {
	tests := []struct {
		yaw  float64
		want float64
	}{
		{0, 0},
		{44.6, 45},
		{-0.6, 359},
		{-90, 270},
		{180, 180},
	}
	for _, tt := range tests {
		att := orientation.Attitude{Yaw: angle.ToRadians(tt.yaw)}
		got, ok := Corrected(sampleWith(&att, nil), YawNormalized, portrait)
		if !ok || got != tt.want {
			t.Fatalf("yaw=%v got=%v ok=%v want=%v", tt.yaw, got, ok, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Fatalf("yaw=%v out of range: %v", tt.yaw, got)
		}
	}
}

func TestElevationDegrees(t *testing.T) {
	// Flat: quaternion pitch 0, elevation 90, negated.
	if e, ok := ElevationDegrees(sampleWith(eulerDeg(0, 0, 0), nil)); !ok || math.Abs(e+90) > 1e-9 {
		t.Fatalf("flat: e=%v ok=%v want -90", e, ok)
	}
	// Upright: pitch 90, elevation 0.
	if e, ok := ElevationDegrees(sampleWith(eulerDeg(90, 0, 0), nil)); !ok || math.Abs(e) > 1e-9 {
		t.Fatalf("upright: e=%v ok=%v want 0", e, ok)
	}
	// Pitch -120 gives 210, folded to 30, negated.
	if e, ok := ElevationDegrees(sampleWith(eulerDeg(-120, 0, 0), nil)); !ok || math.Abs(e+30) > 1e-6 {
		t.Fatalf("tipped: e=%v ok=%v want -30", e, ok)
	}
	if _, ok := ElevationDegrees(orientation.Sample{}); ok {
		t.Fatalf("expected unavailable")
	}
}

func TestElevationGated(t *testing.T) {
	// Upright phone: elevation 0, heading passes through.
	got, ok := Corrected(sampleWith(eulerDeg(90, 0, 0), ptr(30)), ElevationGated, portrait)
	if !ok || got != 30 {
		t.Fatalf("upright: got=%v ok=%v want 30", got, ok)
	}
	// Pitch 150 → elevation -60 → negated 60, over the gate.
	q := orientation.Quaternion{X: math.Sin(angle.ToRadians(150) / 2), W: math.Cos(angle.ToRadians(150) / 2)}
	att := orientation.AttitudeFromQuaternion(q)
	got, ok = Corrected(sampleWith(&att, ptr(30)), ElevationGated, portrait)
	if !ok || got != 210 {
		t.Fatalf("over the top: got=%v ok=%v want 210", got, ok)
	}
}

func TestTiltByProjection(t *testing.T) {
	tests := []struct {
		name string
		yaw  float64
		want float64
	}{
		{"facing reference", 0, -90},
		{"turned 30", 30, -120},
		{"turned -90", -90, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Corrected(sampleWith(eulerDeg(90, 0, tt.yaw), nil), TiltByProjection, portrait)
			if !ok || math.Abs(got-tt.want) > 1e-6 {
				t.Fatalf("got=%v ok=%v want=%v", got, ok, tt.want)
			}
		})
	}

	if _, ok := Corrected(sampleWith(eulerDeg(90, 0, 0), nil), TiltByProjection, projection.Size{Width: 320}); ok {
		t.Fatalf("zero height viewport should be unavailable")
	}
}

func TestInvertSingular(t *testing.T) {
	if _, ok := (mat4{}).invert(); ok {
		t.Fatalf("zero matrix inverted")
	}
	m := mat4{{2, 0, 0, 1}, {0, 4, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	inv, ok := m.invert()
	if !ok {
		t.Fatalf("invertible matrix rejected")
	}
	id := m.mul(inv)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(id[i][j]-want) > 1e-12 {
				t.Fatalf("m*inv[%d][%d]=%v", i, j, id[i][j])
			}
		}
	}
}
