package pipeline

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/windatlas/windatlas/internal/constants"
	"github.com/windatlas/windatlas/internal/database"
)

// Raster is a regular lat/lon lattice of averaged wind power density. Cells
// with no non-null contributing samples hold NaN (undefined, not zero).
// Rasters are transient: they are consumed by country extraction and
// rendering and never persisted as rows.
type Raster struct {
	// Day is the forecast day this raster covers ("2006-01-02"), or empty
	// for a full-window raster.
	Day    string
	Lats   []float64   // ascending
	Lons   []float64   // ascending
	Values [][]float64 // [lat index][lon index]
}

// Defined reports whether cell (i, j) has a value.
func (r *Raster) Defined(i, j int) bool {
	return !math.IsNaN(r.Values[i][j])
}

// CellSize returns the grid spacing, taken from the first axis steps. A
// single-row or single-column raster falls back to the native GFS 0.25°.
func (r *Raster) CellSize() (dLat, dLon float64) {
	dLat, dLon = 0.25, 0.25
	if len(r.Lats) > 1 {
		dLat = r.Lats[1] - r.Lats[0]
	}
	if len(r.Lons) > 1 {
		dLon = r.Lons[1] - r.Lons[0]
	}
	return dLat, dLon
}

// gridCell keys the group-by-cell stage of rasterization.
type gridCell struct {
	lat, lon float64
}

// rasterize groups samples by grid cell and averages the non-null power
// densities per cell.
func rasterize(samples []database.ForecastSample) *Raster {
	grouped := make(map[gridCell][]float64)
	latSet := make(map[float64]struct{})
	lonSet := make(map[float64]struct{})

	for _, s := range samples {
		latSet[s.Lat] = struct{}{}
		lonSet[s.Lon] = struct{}{}
		if s.WindPowerDensity == nil || math.IsNaN(*s.WindPowerDensity) {
			continue
		}
		key := gridCell{lat: s.Lat, lon: s.Lon}
		grouped[key] = append(grouped[key], *s.WindPowerDensity)
	}

	raster := &Raster{
		Lats: sortedKeys(latSet),
		Lons: sortedKeys(lonSet),
	}

	raster.Values = make([][]float64, len(raster.Lats))
	for i, lat := range raster.Lats {
		raster.Values[i] = make([]float64, len(raster.Lons))
		for j, lon := range raster.Lons {
			values := grouped[gridCell{lat: lat, lon: lon}]
			if len(values) == 0 {
				raster.Values[i][j] = math.NaN()
				continue
			}
			raster.Values[i][j] = stat.Mean(values, nil)
		}
	}

	return raster
}

func sortedKeys(set map[float64]struct{}) []float64 {
	keys := make([]float64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}

// BuildRaster averages all samples of a cycle into one full-window raster.
func BuildRaster(samples []database.ForecastSample) *Raster {
	return rasterize(samples)
}

// BuildDailyRasters buckets samples by forecast day (run date plus forecast
// hour) and builds one raster per day, in day order.
func BuildDailyRasters(samples []database.ForecastSample, runDate time.Time) []*Raster {
	byDay := make(map[string][]database.ForecastSample)
	for _, s := range samples {
		day := runDate.Add(time.Duration(s.ForecastHour) * time.Hour).Format("2006-01-02")
		byDay[day] = append(byDay[day], s)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	rasters := make([]*Raster, 0, len(days))
	for _, day := range days {
		raster := rasterize(byDay[day])
		raster.Day = day
		rasters = append(rasters, raster)
	}

	return rasters
}

// HourlyAverage is one point of the read-time hourly global-average series.
type HourlyAverage struct {
	ForecastHour int     `json:"forecast_hour"`
	AvgWPD       float64 `json:"avg_wind_power_density"`
	SampleCount  int     `json:"sample_count"`
}

// HourlyGlobalAverage groups samples by forecast hour and averages the
// non-null power densities. This is a derived view computed on read, never
// stored. Hours whose samples are all null are omitted.
func HourlyGlobalAverage(samples []database.ForecastSample) []HourlyAverage {
	grouped := make(map[int][]float64)
	for _, s := range samples {
		if s.WindPowerDensity == nil || math.IsNaN(*s.WindPowerDensity) {
			continue
		}
		grouped[s.ForecastHour] = append(grouped[s.ForecastHour], *s.WindPowerDensity)
	}

	hours := make([]int, 0, len(grouped))
	for h := range grouped {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	series := make([]HourlyAverage, 0, len(hours))
	for _, h := range hours {
		series = append(series, HourlyAverage{
			ForecastHour: h,
			AvgWPD:       stat.Mean(grouped[h], nil),
			SampleCount:  len(grouped[h]),
		})
	}
	return series
}

// parseRunDate parses a store-format forecast date.
func parseRunDate(date string) (time.Time, error) {
	return time.Parse(constants.DateLayout, date)
}
