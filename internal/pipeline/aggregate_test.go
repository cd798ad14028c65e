package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/twpayne/go-geom"

	"github.com/windatlas/windatlas/internal/database"
	"github.com/windatlas/windatlas/internal/geo"
)

// stubRenderer records render calls and writes a placeholder artifact.
type stubRenderer struct {
	calls int
	path  string
}

func (r *stubRenderer) RenderMap(rasters []*Raster, countries []geo.Country, path string) error {
	r.calls++
	r.path = path
	return os.WriteFile(path, []byte("png"), 0o644)
}

func squareCountry(name, iso string, lonMin, latMin, lonMax, latMax float64) geo.Country {
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{lonMin, latMin}, {lonMax, latMin}, {lonMax, latMax}, {lonMin, latMax}, {lonMin, latMin}},
	})
	return geo.Country{Name: name, ISOCode: iso, Geometry: poly}
}

func testCountries() []geo.Country {
	// Alpland sits around grid point (47, 10), Seaside around (55, 6).
	return []geo.Country{
		squareCountry("Alpland", "ALP", 8.5, 45.5, 11.5, 48.5),
		squareCountry("Seaside", "SEA", 4.5, 53.5, 7.5, 56.5),
	}
}

func seedTwoCellCycle(t *testing.T, store *database.Store) {
	t.Helper()
	rows := []database.ForecastSample{
		{ForecastDate: "20250807", Cycle: "12", Lat: 47.0, Lon: 10.0, ForecastHour: 0, WindPowerDensity: f64(100)},
		{ForecastDate: "20250807", Cycle: "12", Lat: 55.0, Lon: 6.0, ForecastHour: 0, WindPowerDensity: f64(300)},
	}
	if _, err := store.UpsertSamples(context.Background(), rows); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestAggregateRanksCountries(t *testing.T) {
	store := newTestStore(t)
	seedTwoCellCycle(t, store)

	renderer := &stubRenderer{}
	dir := t.TempDir()
	agg := NewAggregator(store, testCountries(), renderer, dir)

	n, err := agg.Aggregate(context.Background(), "20250807", "12")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if n != 2 {
		t.Fatalf("Aggregate ranked %d countries, expected 2", n)
	}
	if renderer.calls != 1 {
		t.Errorf("renderer called %d times, expected 1", renderer.calls)
	}

	rankings, err := store.GetRankings(context.Background(), "20250807", "12")
	if err != nil {
		t.Fatalf("GetRankings: %v", err)
	}
	if len(rankings) != 2 {
		t.Fatalf("store holds %d rankings, expected 2", len(rankings))
	}

	if rankings[0].Country != "Seaside" || rankings[0].Rank != 1 {
		t.Errorf("rank 1 = %s (%d), expected Seaside (1)", rankings[0].Country, rankings[0].Rank)
	}
	if rankings[1].Country != "Alpland" || rankings[1].Rank != 2 {
		t.Errorf("rank 2 = %s (%d), expected Alpland (2)", rankings[1].Country, rankings[1].Rank)
	}

	// Each country covers exactly one defined cell, so its mean is that
	// cell's value.
	if got := rankings[0].AvgWindPowerDensity; got != 300 {
		t.Errorf("Seaside avg = %v, expected 300", got)
	}
	if got := rankings[1].AvgWindPowerDensity; got != 100 {
		t.Errorf("Alpland avg = %v, expected 100", got)
	}

	// CSV export sits next to the map artifact.
	csvPath := filepath.Join(dir, "country_rankings_20250807_12.csv")
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("rankings export missing: %v", err)
	}
	if want := filepath.Join(dir, "wpd_map_20250807_12.png"); renderer.path != want {
		t.Errorf("map artifact path = %q, expected %q", renderer.path, want)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	store := newTestStore(t)
	seedTwoCellCycle(t, store)
	agg := NewAggregator(store, testCountries(), &stubRenderer{}, t.TempDir())

	first, err := agg.Aggregate(context.Background(), "20250807", "12")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	second, err := agg.Aggregate(context.Background(), "20250807", "12")
	if err != nil {
		t.Fatalf("Aggregate (rerun): %v", err)
	}
	if first != second {
		t.Fatalf("ranking counts differ across re-runs: %d then %d", first, second)
	}

	rankings, err := store.GetRankings(context.Background(), "20250807", "12")
	if err != nil {
		t.Fatalf("GetRankings: %v", err)
	}
	if len(rankings) != first {
		t.Errorf("store holds %d rankings after re-run, expected %d", len(rankings), first)
	}
	ranks := map[int]bool{}
	for _, r := range rankings {
		if ranks[r.Rank] {
			t.Errorf("duplicate rank %d after re-run", r.Rank)
		}
		ranks[r.Rank] = true
	}
	for want := 1; want <= len(rankings); want++ {
		if !ranks[want] {
			t.Errorf("rank %d missing; ranks are not dense 1..N", want)
		}
	}
}

func TestAggregateNoDataFound(t *testing.T) {
	store := newTestStore(t)
	agg := NewAggregator(store, testCountries(), &stubRenderer{}, t.TempDir())

	n, err := agg.Aggregate(context.Background(), "20250807", "00")
	if !errors.Is(err, ErrNoDataFound) {
		t.Fatalf("Aggregate error = %v, expected ErrNoDataFound", err)
	}
	if n != 0 {
		t.Errorf("Aggregate returned %d on empty cycle", n)
	}

	rankings, err := store.GetRankings(context.Background(), "20250807", "00")
	if err != nil {
		t.Fatalf("GetRankings: %v", err)
	}
	if len(rankings) != 0 {
		t.Errorf("aggregation wrote %d rankings despite NoDataFound", len(rankings))
	}
}

func TestAggregateExcludesCountriesWithoutCoverage(t *testing.T) {
	store := newTestStore(t)
	seedTwoCellCycle(t, store)

	countries := append(testCountries(), squareCountry("Farland", "FAR", 100, -20, 110, -10))
	agg := NewAggregator(store, countries, &stubRenderer{}, t.TempDir())

	n, err := agg.Aggregate(context.Background(), "20250807", "12")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if n != 2 {
		t.Errorf("Aggregate ranked %d countries, expected Farland excluded (2)", n)
	}
}
