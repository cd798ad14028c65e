package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/windatlas/windatlas/internal/constants"
	"github.com/windatlas/windatlas/internal/database"
	"github.com/windatlas/windatlas/internal/gfs"
	"github.com/windatlas/windatlas/internal/log"
	"github.com/windatlas/windatlas/internal/wpd"
)

// Extractor pulls raw grid data for one (date, cycle) from the external
// source, derives wind power density per grid point, and upserts the rows
// into the forecast store. Idempotence under re-runs is the stage's primary
// correctness property: the upsert targets the 5-tuple key, so a repeated
// extraction converges instead of duplicating.
type Extractor struct {
	store  *database.Store
	source gfs.GridSource
	hours  []int
}

// NewExtractor creates an extraction stage over the given store and source.
func NewExtractor(store *database.Store, source gfs.GridSource) *Extractor {
	return &Extractor{
		store:  store,
		source: source,
		hours:  constants.ForecastHours(),
	}
}

// validateCycle rejects malformed (date, cycle) requests before any I/O.
func validateCycle(date, cycle string) error {
	if !constants.ValidCycle(cycle) {
		return fmt.Errorf("%w: cycle %q not in {00,06,12,18}", ErrStaleConfiguration, cycle)
	}
	parsed, err := time.Parse(constants.DateLayout, date)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q: %v", ErrStaleConfiguration, date, err)
	}
	if parsed.After(time.Now().UTC().Truncate(24 * time.Hour)) {
		return fmt.Errorf("%w: date %s is in the future", ErrStaleConfiguration, date)
	}
	return nil
}

// Extract runs the extraction stage for one (date, cycle) and returns the
// number of rows written. Individual forecast-hour fetch failures are logged
// and skipped; a cycle with no fetchable hours at all fails with
// ErrSourceUnavailable.
func (e *Extractor) Extract(ctx context.Context, date, cycle string) (int, error) {
	if err := validateCycle(date, cycle); err != nil {
		return 0, err
	}

	var rows []database.ForecastSample
	var hoursFetched int
	var lastErr error

	for _, hour := range e.hours {
		grid, err := e.source.FetchGrid(ctx, date, cycle, hour)
		if err != nil {
			log.Warnf("skipping forecast hour %d for %s/%s: %v", hour, date, cycle, err)
			lastErr = err
			continue
		}
		hoursFetched++

		for _, point := range grid {
			rows = append(rows, database.ForecastSample{
				ForecastDate:     date,
				Cycle:            cycle,
				Lat:              point.Lat,
				Lon:              point.Lon,
				ForecastHour:     hour,
				UWind100m:        point.UWind,
				VWind100m:        point.VWind,
				WindPowerDensity: wpd.PowerDensity(point.UWind, point.VWind),
			})
		}
	}

	if hoursFetched == 0 {
		if lastErr != nil {
			return 0, fmt.Errorf("%w: %s/%s: %v", ErrSourceUnavailable, date, cycle, lastErr)
		}
		return 0, fmt.Errorf("%w: %s/%s", ErrSourceUnavailable, date, cycle)
	}

	n, err := e.store.UpsertSamples(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	log.Infow("extraction complete",
		"date", date,
		"cycle", cycle,
		"hours", hoursFetched,
		"rows", n,
	)
	return n, nil
}
