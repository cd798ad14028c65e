package gfs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/windatlas/windatlas/pkg/config"
)

const defaultTimeout = 300 * time.Second

// Client fetches grid subsets from an HTTP grid endpoint (a NOMADS-backed
// service that filters GRIB output to the requested region and variables and
// returns it as JSON).
type Client struct {
	httpClient *http.Client
	endpoint   string
	region     config.RegionData
}

// NewClient creates a grid source client from the source configuration.
func NewClient(cfg config.SourceData) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		region:     cfg.Region,
	}
}

// gridPointResponse mirrors the endpoint's per-point JSON schema. The wind
// components are pointers so that missing values survive decoding as nil.
type gridPointResponse struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	UWind100m *float64 `json:"u_wind_100m"`
	VWind100m *float64 `json:"v_wind_100m"`
}

// FetchGrid retrieves the wind-component grid for one forecast hour.
func (c *Client) FetchGrid(ctx context.Context, date, cycle string, forecastHour int) ([]GridPoint, error) {
	query := url.Values{}
	query.Set("date", date)
	query.Set("cycle", cycle)
	query.Set("fhour", strconv.Itoa(forecastHour))
	query.Set("lat_min", strconv.FormatFloat(c.region.LatMin, 'f', -1, 64))
	query.Set("lat_max", strconv.FormatFloat(c.region.LatMax, 'f', -1, 64))
	query.Set("lon_min", strconv.FormatFloat(c.region.LonMin, 'f', -1, 64))
	query.Set("lon_max", strconv.FormatFloat(c.region.LonMax, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building grid request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching grid for %s/%s f%03d: %w", date, cycle, forecastHour, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("grid source returned HTTP %d for %s/%s f%03d", resp.StatusCode, date, cycle, forecastHour)
	}

	var points []gridPointResponse
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, fmt.Errorf("error decoding grid response: %w", err)
	}

	grid := make([]GridPoint, len(points))
	for i, p := range points {
		grid[i] = GridPoint{
			Lat:   p.Lat,
			Lon:   p.Lon,
			UWind: p.UWind100m,
			VWind: p.VWind100m,
		}
	}

	return grid, nil
}
