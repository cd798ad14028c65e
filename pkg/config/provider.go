package config

import "time"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Database  DatabaseData  `json:"database"`
	Source    SourceData    `json:"source"`
	Countries CountriesData `json:"countries"`
	Artifacts ArtifactsData `json:"artifacts,omitempty"`
	Scheduler SchedulerData `json:"scheduler,omitempty"`
	REST      RESTData      `json:"rest,omitempty"`
}

// DatabaseData holds the configuration for the embedded forecast store
type DatabaseData struct {
	Path string `json:"path"`
}

// SourceData holds the configuration for the external grid source
type SourceData struct {
	Endpoint string        `json:"endpoint"`
	Timeout  time.Duration `json:"timeout,omitempty"`
	Region   RegionData    `json:"region,omitempty"`
}

// RegionData bounds the extracted grid subset. The defaults cover Europe,
// matching the region the rankings are computed for.
type RegionData struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// CountriesData holds the configuration for the country-boundary dataset
type CountriesData struct {
	GeoJSONPath string `json:"geojson_path"`
}

// ArtifactsData holds the configuration for rendered map and CSV outputs
type ArtifactsData struct {
	Dir string `json:"dir,omitempty"`
}

// SchedulerData holds the configuration for the periodic pipeline loop
type SchedulerData struct {
	IntervalHours int `json:"interval_hours,omitempty"`
}

// RESTData holds the configuration for the query-serving HTTP server
type RESTData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}
