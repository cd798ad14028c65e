package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Database struct {
			Path string `yaml:"path"`
		} `yaml:"database"`
		Source struct {
			Endpoint string `yaml:"endpoint"`
			Timeout  string `yaml:"timeout,omitempty"`
			Region   struct {
				LatMin float64 `yaml:"lat_min"`
				LatMax float64 `yaml:"lat_max"`
				LonMin float64 `yaml:"lon_min"`
				LonMax float64 `yaml:"lon_max"`
			} `yaml:"region,omitempty"`
		} `yaml:"source"`
		Countries struct {
			GeoJSONPath string `yaml:"geojson_path"`
		} `yaml:"countries"`
		Artifacts struct {
			Dir string `yaml:"dir,omitempty"`
		} `yaml:"artifacts,omitempty"`
		Scheduler struct {
			IntervalHours int `yaml:"interval_hours,omitempty"`
		} `yaml:"scheduler,omitempty"`
		REST struct {
			ListenAddr string `yaml:"listen_addr,omitempty"`
			Port       int    `yaml:"port,omitempty"`
		} `yaml:"rest,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Database: DatabaseData{Path: yamlConfig.Database.Path},
		Source: SourceData{
			Endpoint: yamlConfig.Source.Endpoint,
			Region: RegionData{
				LatMin: yamlConfig.Source.Region.LatMin,
				LatMax: yamlConfig.Source.Region.LatMax,
				LonMin: yamlConfig.Source.Region.LonMin,
				LonMax: yamlConfig.Source.Region.LonMax,
			},
		},
		Countries: CountriesData{GeoJSONPath: yamlConfig.Countries.GeoJSONPath},
		Artifacts: ArtifactsData{Dir: yamlConfig.Artifacts.Dir},
		Scheduler: SchedulerData{IntervalHours: yamlConfig.Scheduler.IntervalHours},
		REST: RESTData{
			ListenAddr: yamlConfig.REST.ListenAddr,
			Port:       yamlConfig.REST.Port,
		},
	}

	if yamlConfig.Source.Timeout != "" {
		timeout, err := time.ParseDuration(yamlConfig.Source.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid source.timeout: %w", err)
		}
		config.Source.Timeout = timeout
	}

	return config, nil
}
