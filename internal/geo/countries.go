// Package geo loads the country-boundary reference dataset and answers the
// spatial questions the aggregation stage asks of it.
package geo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
)

// Country is one named boundary polygon from the reference dataset.
// Geometry is a Polygon or MultiPolygon in WGS84 lon/lat order.
type Country struct {
	Name     string
	ISOCode  string
	Geometry geom.T
}

// LoadCountries reads a GeoJSON FeatureCollection of country boundaries.
// Feature order is preserved: it is the documented tie-break for rankings.
func LoadCountries(path string) ([]Country, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading country boundaries: %w", err)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("error decoding country boundaries: %w", err)
	}

	countries := make([]Country, 0, len(fc.Features))
	for _, feature := range fc.Features {
		switch feature.Geometry.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
		default:
			continue
		}
		countries = append(countries, Country{
			Name:     stringProperty(feature.Properties, "name", "NAME", "ADMIN"),
			ISOCode:  stringProperty(feature.Properties, "iso_a3", "ISO_A3"),
			Geometry: feature.Geometry,
		})
	}

	if len(countries) == 0 {
		return nil, fmt.Errorf("no polygon features found in %s", path)
	}

	return countries, nil
}

func stringProperty(props map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Contains reports whether the point (lon, lat) falls inside the country.
func (c *Country) Contains(lon, lat float64) bool {
	point := geom.Coord{lon, lat}
	switch g := c.Geometry.(type) {
	case *geom.Polygon:
		return polygonContains(g, point)
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			if polygonContains(g.Polygon(i), point) {
				return true
			}
		}
	}
	return false
}

// polygonContains tests the exterior ring and carves out holes.
func polygonContains(p *geom.Polygon, point geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}
	if !xy.IsPointInRing(p.Layout(), point, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(p.Layout(), point, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of the country geometry.
func (c *Country) Bounds() *geom.Bounds {
	return c.Geometry.Bounds()
}
