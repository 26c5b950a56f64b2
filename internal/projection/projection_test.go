package projection

import (
	"math"
	"testing"

	"github.com/relabs-tech/view360/internal/angle"
)

func TestBandRadius(t *testing.T) {
	b := DefaultBand()
	if math.Abs(b.Circumference()-Circumference) > 1e-9 {
		t.Fatalf("circumference=%v want %v", b.Circumference(), Circumference)
	}
	if got := PixelOffset(2*math.Pi, b.Radius); math.Abs(got-Circumference) > 1e-9 {
		t.Fatalf("full turn offset=%v want %v", got, Circumference)
	}
}

func TestIsVisible(t *testing.T) {
	view := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	tests := []struct {
		name string
		c    Rect
		want bool
	}{
		{"overlaps right edge", Rect{X: 90, Y: 10, Width: 20, Height: 20}, true},
		{"fully outside", Rect{X: 150, Y: 10, Width: 20, Height: 20}, false},
		{"touching right edge", Rect{X: 100, Y: 10, Width: 20, Height: 20}, false},
		{"touching left edge", Rect{X: -20, Y: 10, Width: 20, Height: 20}, false},
		{"below", Rect{X: 10, Y: 50, Width: 20, Height: 20}, false},
		{"contains viewport", Rect{X: -10, Y: -10, Width: 200, Height: 200}, true},
		{"empty", Rect{X: 10, Y: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.c, view); got != tt.want {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestRelativePosition(t *testing.T) {
	view := Rect{X: 500, Width: 320, Height: 480}
	c := Rect{X: 520, Y: 10, Width: 25, Height: 25}
	got := RelativePosition(c, view)
	if got.X != 20 || got.Y != 10 || got.Width != 25 || got.Height != 25 {
		t.Fatalf("got=%+v want x=20 y=10 25x25", got)
	}
}

func TestComponentRectCentred(t *testing.T) {
	r := ComponentRect(1, 100, Size{Width: 20, Height: 10}, 60)
	if r.X != 90 || r.Y != 25 || r.Width != 20 || r.Height != 10 {
		t.Fatalf("got=%+v", r)
	}
}

func TestViewportRectNotWrapped(t *testing.T) {
	b := DefaultBand()
	r := ViewportRect(370, b.Radius, Size{Width: 320, Height: 480})
	want := Circumference * 370 / 360
	if math.Abs(r.X-want) > 1e-9 {
		t.Fatalf("x=%v want %v", r.X, want)
	}
}

func TestComponentCentredWhenFacingIt(t *testing.T) {
	b := DefaultBand()
	size := Size{Width: 25, Height: 25}
	vp := Size{Width: 320, Height: 480}

	c := ComponentRect(angle.ToRadians(45), b.Radius, size, vp.Height)
	view := ViewportRect(45, b.Radius, vp)
	if !IsVisible(c, view) {
		t.Fatalf("component facing viewer not visible: c=%+v view=%+v", c, view)
	}
	rel := RelativePosition(c, view)
	if math.Abs(rel.X-(-size.Width/2)) > 1e-9 {
		t.Fatalf("relative x=%v want %v", rel.X, -size.Width/2)
	}
}

func TestLayout(t *testing.T) {
	l := NewLayout(DefaultBand())
	l.SetViewport(Size{Width: 100, Height: 200})

	east := l.Append(Component{Name: "east", Angle: angle.ToRadians(90), Color: "yellow", Size: Size{Width: 20, Height: 20}})
	west := l.Append(Component{Name: "west", Angle: angle.ToRadians(270), Color: "red", Size: Size{Width: 20, Height: 20}})
	if east != 0 || west != 1 || l.Len() != 2 {
		t.Fatalf("indexes east=%d west=%d len=%d", east, west, l.Len())
	}

	placed := l.Placed()
	if placed[0].Bounds.Y != 90 {
		t.Fatalf("y=%v want 90", placed[0].Bounds.Y)
	}

	// East sits at x=250 on the band; a viewer at 80° spans [222.2, 322.2).
	view, vis := l.Visible(80)
	if len(vis) != 1 || vis[0].Component.Name != "east" {
		t.Fatalf("visible=%+v view=%+v", vis, view)
	}
	if math.Abs(vis[0].Bounds.X-(240-view.X)) > 1e-9 {
		t.Fatalf("relative x=%v", vis[0].Bounds.X)
	}

	if _, vis := l.Visible(180); len(vis) != 0 {
		t.Fatalf("expected nothing visible at 180, got %+v", vis)
	}

	// Resizing recomputes the vertical placement of every component.
	l.SetViewport(Size{Width: 100, Height: 400})
	for _, p := range l.Placed() {
		if p.Bounds.Y != 190 {
			t.Fatalf("%s y=%v want 190", p.Component.Name, p.Bounds.Y)
		}
	}
}
