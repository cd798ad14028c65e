package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/windatlas/windatlas/internal/database"
	"github.com/windatlas/windatlas/internal/geo"
	"github.com/windatlas/windatlas/internal/log"
)

// overlapSamples is the supersampling factor for cell/polygon overlap
// weighting. 4 gives a 16-point sub-lattice per cell, enough that country
// means are stable against cell-size vs country-size bias.
const overlapSamples = 4

// MapRenderer renders daily rasters with a country overlay into an image
// artifact. The rendering backend is an external collaborator.
type MapRenderer interface {
	RenderMap(rasters []*Raster, countries []geo.Country, path string) error
}

// Aggregator reads a cycle's samples back from the store, builds raster
// snapshots, renders the map artifact, and replaces the cycle's country
// rankings with a freshly computed set.
type Aggregator struct {
	store       *database.Store
	countries   []geo.Country
	renderer    MapRenderer
	artifactDir string
}

// NewAggregator creates an aggregation stage. Country order is preserved from
// the boundary dataset; it is the ranking tie-break.
func NewAggregator(store *database.Store, countries []geo.Country, renderer MapRenderer, artifactDir string) *Aggregator {
	if artifactDir == "" {
		artifactDir = "plots"
	}
	return &Aggregator{
		store:       store,
		countries:   countries,
		renderer:    renderer,
		artifactDir: artifactDir,
	}
}

// countryMean is one country's overlap-weighted mean over the raster.
type countryMean struct {
	name    string
	isoCode string
	mean    float64
}

// Aggregate runs the aggregation stage for one (date, cycle) and returns the
// number of ranked countries.
func (a *Aggregator) Aggregate(ctx context.Context, date, cycle string) (int, error) {
	if err := validateCycle(date, cycle); err != nil {
		return 0, err
	}

	samples, err := a.store.GetSamples(ctx, date, cycle)
	if err != nil {
		return 0, fmt.Errorf("error loading samples for %s/%s: %w", date, cycle, err)
	}
	if len(samples) == 0 {
		return 0, fmt.Errorf("%w: %s/%s", ErrNoDataFound, date, cycle)
	}

	runDate, err := parseRunDate(date)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid date %q: %v", ErrStaleConfiguration, date, err)
	}

	full := BuildRaster(samples)
	daily := BuildDailyRasters(samples, runDate)

	if err := os.MkdirAll(a.artifactDir, 0o755); err != nil {
		return 0, fmt.Errorf("error creating artifact directory: %w", err)
	}

	mapPath := filepath.Join(a.artifactDir, fmt.Sprintf("wpd_map_%s_%s.png", date, cycle))
	if err := a.renderer.RenderMap(daily, a.countries, mapPath); err != nil {
		return 0, fmt.Errorf("error rendering map artifact: %w", err)
	}
	log.Infof("rendered wind power density map to %s", mapPath)

	means := a.countryMeans(full)

	// Descending by mean; the stable sort keeps boundary-dataset order as
	// the deterministic tie-break.
	sort.SliceStable(means, func(i, j int) bool {
		return means[i].mean > means[j].mean
	})

	rankings := make([]database.CountryRanking, len(means))
	for i, m := range means {
		rankings[i] = database.CountryRanking{
			ForecastDate:        date,
			Cycle:               cycle,
			Country:             m.name,
			ISOCode:             m.isoCode,
			AvgWindPowerDensity: m.mean,
			Rank:                i + 1,
		}
	}

	if err := a.store.ReplaceRankings(ctx, date, cycle, rankings); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	csvPath := filepath.Join(a.artifactDir, fmt.Sprintf("country_rankings_%s_%s.csv", date, cycle))
	if err := writeRankingsCSV(csvPath, rankings); err != nil {
		return 0, fmt.Errorf("error writing rankings export: %w", err)
	}

	log.Infow("aggregation complete",
		"date", date,
		"cycle", cycle,
		"countries", len(rankings),
	)
	return len(rankings), nil
}

// countryMeans computes each country's overlap-weighted mean of defined
// raster cells. Countries with no overlapping defined cells are excluded
// rather than ranked at zero.
func (a *Aggregator) countryMeans(raster *Raster) []countryMean {
	dLat, dLon := raster.CellSize()

	var means []countryMean
	for idx := range a.countries {
		country := &a.countries[idx]

		var values, weights []float64
		for i, lat := range raster.Lats {
			for j, lon := range raster.Lons {
				if !raster.Defined(i, j) {
					continue
				}
				w := geo.OverlapFraction(country, lat, lon, dLat, dLon, overlapSamples)
				if w == 0 {
					continue
				}
				values = append(values, raster.Values[i][j])
				weights = append(weights, w)
			}
		}
		if len(values) == 0 {
			continue
		}

		means = append(means, countryMean{
			name:    country.Name,
			isoCode: country.ISOCode,
			mean:    stat.Mean(values, weights),
		})
	}

	return means
}

// writeRankingsCSV exports a cycle's rankings; date and cycle live in the
// filename, so the columns mirror country_rankings without them.
func writeRankingsCSV(path string, rankings []database.CountryRanking) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"country", "iso_code", "avg_wind_power_density", "rank"}); err != nil {
		return err
	}
	for _, r := range rankings {
		record := []string{
			r.Country,
			r.ISOCode,
			strconv.FormatFloat(r.AvgWindPowerDensity, 'f', 4, 64),
			strconv.Itoa(r.Rank),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
