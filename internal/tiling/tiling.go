package tiling

import (
	"fmt"
	"math"

	"cafe-finder/internal/models"
)

// Epsilon lets the boundary row and column survive floating point drift.
const Epsilon = 1e-6

// Grid describes how a bounding box is cut into overlapping circles.
type Grid struct {
	Radius  float64
	LatStep float64
	LngStep float64
}

// DefaultGrid uses 3km circles spaced roughly 3km apart at Waterloo's latitude.
var DefaultGrid = Grid{
	Radius:  3000,
	LatStep: 0.027,
	LngStep: 0.036,
}

// Validate reports whether the grid can be walked without looping forever.
func (g Grid) Validate() error {
	if g.Radius <= 0 {
		return fmt.Errorf("tiling: radius must be positive, got %f", g.Radius)
	}
	if g.LatStep <= 0 || g.LngStep <= 0 {
		return fmt.Errorf("tiling: steps must be positive, got lat=%f lng=%f", g.LatStep, g.LngStep)
	}
	return nil
}

// Generate returns the search areas covering bounds, south to north and west
// to east, with longitude varying fastest. The starting area (south, west) is
// always present, even for degenerate bounds.
func Generate(bounds models.Bounds, grid Grid) ([]models.SearchArea, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	rows := steps(bounds.South, bounds.North, grid.LatStep)
	cols := steps(bounds.West, bounds.East, grid.LngStep)

	areas := make([]models.SearchArea, 0, rows*cols)
	for i := 0; i < rows; i++ {
		lat := bounds.South + float64(i)*grid.LatStep
		for j := 0; j < cols; j++ {
			areas = append(areas, models.SearchArea{
				Center: models.LatLng{
					Latitude:  lat,
					Longitude: bounds.West + float64(j)*grid.LngStep,
				},
				Radius: grid.Radius,
			})
		}
	}

	return areas, nil
}

// steps counts the positions from..to inclusive, never fewer than one.
func steps(from, to, step float64) int {
	n := int(math.Floor((to-from+Epsilon)/step)) + 1
	if n < 1 {
		return 1
	}
	return n
}
