package restserver

import "github.com/windatlas/windatlas/internal/database"

// ForecastSampleResponse is the JSON shape of one forecast sample.
type ForecastSampleResponse struct {
	ForecastDate     string   `json:"forecast_date"`
	Cycle            string   `json:"cycle"`
	Lat              float64  `json:"lat"`
	Lon              float64  `json:"lon"`
	ForecastHour     int      `json:"forecast_hour"`
	WindPowerDensity *float64 `json:"wind_power_density"`
}

// CountryRankingResponse is the JSON shape of one ranking row.
type CountryRankingResponse struct {
	ForecastDate        string  `json:"forecast_date"`
	Cycle               string  `json:"cycle"`
	Country             string  `json:"country"`
	ISOCode             string  `json:"iso_code,omitempty"`
	AvgWindPowerDensity float64 `json:"avg_wind_power_density"`
	Rank                int     `json:"rank"`
}

func transformSamples(samples []database.ForecastSample) []ForecastSampleResponse {
	out := make([]ForecastSampleResponse, len(samples))
	for i, s := range samples {
		out[i] = ForecastSampleResponse{
			ForecastDate:     s.ForecastDate,
			Cycle:            s.Cycle,
			Lat:              s.Lat,
			Lon:              s.Lon,
			ForecastHour:     s.ForecastHour,
			WindPowerDensity: s.WindPowerDensity,
		}
	}
	return out
}

func transformRankings(rankings []database.CountryRanking) []CountryRankingResponse {
	out := make([]CountryRankingResponse, len(rankings))
	for i, r := range rankings {
		out[i] = CountryRankingResponse{
			ForecastDate:        r.ForecastDate,
			Cycle:               r.Cycle,
			Country:             r.Country,
			ISOCode:             r.ISOCode,
			AvgWindPowerDensity: r.AvgWindPowerDensity,
			Rank:                r.Rank,
		}
	}
	return out
}
