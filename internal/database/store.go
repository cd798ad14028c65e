package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store exposes the forecast-store operations shared by the pipeline stages
// and the serving layer. The store exclusively owns the gfs_forecasts and
// country_rankings tables; everything else works on transient query results.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on top of an open database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// sampleKeyColumns is the 5-tuple key of gfs_forecasts.
var sampleKeyColumns = []clause.Column{
	{Name: "forecast_date"},
	{Name: "cycle"},
	{Name: "lat"},
	{Name: "lon"},
	{Name: "forecast_hour"},
}

// UpsertSamples inserts forecast samples, replacing the value columns of any
// row that already exists for the same key. Re-running extraction for a cycle
// therefore converges to the same row set instead of accumulating duplicates.
func (s *Store) UpsertSamples(ctx context.Context, samples []ForecastSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   sampleKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"u_wind_100m", "v_wind_100m", "wind_power_density"}),
	}).CreateInBatches(samples, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("error upserting forecast samples: %w", res.Error)
	}

	return len(samples), nil
}

// GetSamples returns all forecast samples for one (date, cycle), ordered by
// forecast hour and grid position.
func (s *Store) GetSamples(ctx context.Context, date, cycle string) ([]ForecastSample, error) {
	var samples []ForecastSample
	err := s.db.WithContext(ctx).
		Where("forecast_date = ? AND cycle = ?", date, cycle).
		Order("forecast_hour ASC, lat ASC, lon ASC").
		Find(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("error querying forecast samples: %w", err)
	}
	return samples, nil
}

// ListDates returns the distinct forecast dates present in the store, most
// recent first.
func (s *Store) ListDates(ctx context.Context) ([]string, error) {
	var dates []string
	err := s.db.WithContext(ctx).
		Model(&ForecastSample{}).
		Distinct("forecast_date").
		Order("forecast_date DESC").
		Pluck("forecast_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("error listing forecast dates: %w", err)
	}
	return dates, nil
}

// ListCycles returns the cycles present for one forecast date, in issuance
// order.
func (s *Store) ListCycles(ctx context.Context, date string) ([]string, error) {
	var cycles []string
	err := s.db.WithContext(ctx).
		Model(&ForecastSample{}).
		Where("forecast_date = ?", date).
		Distinct("cycle").
		Order("cycle ASC").
		Pluck("cycle", &cycles).Error
	if err != nil {
		return nil, fmt.Errorf("error listing cycles for %s: %w", date, err)
	}
	return cycles, nil
}

// ReplaceRankings atomically replaces the country rankings for one (date,
// cycle) with a freshly computed set. Readers either see the previous set or
// the new one; a failure mid-transaction rolls back to the previous set, so
// the table never mixes rankings from two raster snapshots of the same cycle.
func (s *Store) ReplaceRankings(ctx context.Context, date, cycle string, rankings []CountryRanking) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("forecast_date = ? AND cycle = ?", date, cycle).
			Delete(&CountryRanking{}).Error; err != nil {
			return err
		}
		if len(rankings) == 0 {
			return nil
		}
		return tx.Create(&rankings).Error
	})
	if err != nil {
		return fmt.Errorf("error replacing rankings for %s/%s: %w", date, cycle, err)
	}
	return nil
}

// GetRankings returns the country rankings for one (date, cycle), best rank
// first.
func (s *Store) GetRankings(ctx context.Context, date, cycle string) ([]CountryRanking, error) {
	var rankings []CountryRanking
	err := s.db.WithContext(ctx).
		Where("forecast_date = ? AND cycle = ?", date, cycle).
		Order("rank ASC").
		Find(&rankings).Error
	if err != nil {
		return nil, fmt.Errorf("error querying rankings: %w", err)
	}
	return rankings, nil
}
