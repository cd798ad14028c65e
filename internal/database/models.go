package database

import (
	"time"
)

// ForecastSample is one derived wind-power-density value for a single grid
// point and forecast hour of one GFS cycle. Rows are uniquely identified by
// (forecast_date, cycle, lat, lon, forecast_hour); re-extraction of a cycle
// upserts on that key, so the table never accumulates duplicates.
type ForecastSample struct {
	ID           uint    `gorm:"primaryKey;autoIncrement;column:id"`
	ForecastDate string  `gorm:"column:forecast_date;not null;uniqueIndex:idx_forecast_key"`
	Cycle        string  `gorm:"column:cycle;not null;uniqueIndex:idx_forecast_key"`
	Lat          float64 `gorm:"column:lat;uniqueIndex:idx_forecast_key"`
	Lon          float64 `gorm:"column:lon;uniqueIndex:idx_forecast_key"`
	ForecastHour int     `gorm:"column:forecast_hour;uniqueIndex:idx_forecast_key"`

	// Raw 100m wind components and the derived metric. All three are NULL
	// when the source grid had no value at this point; NULLs are excluded
	// from every downstream average.
	UWind100m        *float64 `gorm:"column:u_wind_100m"`
	VWind100m        *float64 `gorm:"column:v_wind_100m"`
	WindPowerDensity *float64 `gorm:"column:wind_power_density"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName specifies the table name for ForecastSample
func (ForecastSample) TableName() string {
	return "gfs_forecasts"
}

// CountryRanking is one country's aggregated wind power density for one
// forecast cycle. The set of rows for a (forecast_date, cycle) is always
// written as a whole (delete-then-insert), so ranks are dense 1..N and never
// mix raster snapshots.
type CountryRanking struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement;column:id"`
	ForecastDate        string    `gorm:"column:forecast_date;not null;index:idx_ranking_cycle"`
	Cycle               string    `gorm:"column:cycle;not null;index:idx_ranking_cycle"`
	Country             string    `gorm:"column:country;not null"`
	ISOCode             string    `gorm:"column:iso_code"`
	AvgWindPowerDensity float64   `gorm:"column:avg_wind_power_density"`
	Rank                int       `gorm:"column:rank"`
	CreatedAt           time.Time `gorm:"column:created_at"`
}

// TableName specifies the table name for CountryRanking
func (CountryRanking) TableName() string {
	return "country_rankings"
}
