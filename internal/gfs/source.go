// Package gfs talks to the external GFS grid source. The source is opaque to
// the pipeline: given a date, cycle and forecast hour it yields wind
// components on a fixed lat/lon grid. GRIB decoding happens behind the
// endpoint, not here.
package gfs

import "context"

// GridPoint is one grid cell's wind components for a single forecast hour.
// Components are nil where the source had no value.
type GridPoint struct {
	Lat   float64
	Lon   float64
	UWind *float64
	VWind *float64
}

// GridSource yields the wind-component grid for one forecast hour of a cycle.
type GridSource interface {
	FetchGrid(ctx context.Context, date, cycle string, forecastHour int) ([]GridPoint, error)
}
