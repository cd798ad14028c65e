package geo

import (
	"math"
	"testing"

	"github.com/twpayne/go-geom"
)

// square returns a country covering [x0,x1]×[y0,y1] in lon/lat.
func square(name string, x0, y0, x1, y1 float64) Country {
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}},
	})
	return Country{Name: name, Geometry: poly}
}

func TestContains(t *testing.T) {
	c := square("Boxland", 0, 0, 10, 10)

	tests := []struct {
		name     string
		lon, lat float64
		inside   bool
	}{
		{"center", 5, 5, true},
		{"outside east", 15, 5, false},
		{"outside north", 5, 15, false},
		{"far away", -40, -40, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.lon, tt.lat); got != tt.inside {
				t.Errorf("Contains(%v, %v) = %v, expected %v", tt.lon, tt.lat, got, tt.inside)
			}
		})
	}
}

func TestContainsHole(t *testing.T) {
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	})
	c := Country{Name: "Ringland", Geometry: poly}

	if !c.Contains(2, 2) {
		t.Error("point in shell outside hole should be inside")
	}
	if c.Contains(5, 5) {
		t.Error("point inside hole should be outside")
	}
}

func TestOverlapFraction(t *testing.T) {
	c := square("Boxland", 0, 0, 10, 10)

	tests := []struct {
		name       string
		lat, lon   float64
		dLat, dLon float64
		expected   float64
		tolerance  float64
	}{
		{"fully inside", 5, 5, 1, 1, 1.0, 0},
		{"fully outside", 5, 20, 1, 1, 0.0, 0},
		{"half covered at east edge", 5, 10, 1, 1, 0.5, 0.06},
		{"quarter covered at corner", 10, 10, 1, 1, 0.25, 0.06},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapFraction(&c, tt.lat, tt.lon, tt.dLat, tt.dLon, 8)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("OverlapFraction = %v, expected %v ± %v", got, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestOverlapFractionDegradesToPointInPolygon(t *testing.T) {
	c := square("Boxland", 0, 0, 10, 10)

	if got := OverlapFraction(&c, 5, 5, 1, 1, 1); got != 1 {
		t.Errorf("samples=1 inside cell = %v, expected 1", got)
	}
	if got := OverlapFraction(&c, 5, 10.4, 1, 1, 1); got != 0 {
		t.Errorf("samples=1 center-outside cell = %v, expected 0", got)
	}
}
