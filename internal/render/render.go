// Package render draws raster snapshots as map artifacts. It implements the
// pipeline's rendering-collaborator interface with gonum/plot: one heatmap
// panel per forecast day, country boundaries drawn on top.
package render

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/twpayne/go-geom"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/windatlas/windatlas/internal/geo"
	"github.com/windatlas/windatlas/internal/pipeline"
)

const (
	panelWidth  = 6 * vg.Inch
	panelHeight = 5 * vg.Inch
)

// Renderer renders wind-power-density rasters to PNG files.
type Renderer struct {
	paletteColors int
}

// New creates a map renderer.
func New() *Renderer {
	return &Renderer{paletteColors: 16}
}

// rasterGrid adapts a pipeline raster to plotter.GridXYZ. Rows are latitudes,
// columns longitudes.
type rasterGrid struct {
	raster *pipeline.Raster
}

func (g rasterGrid) Dims() (c, r int)   { return len(g.raster.Lons), len(g.raster.Lats) }
func (g rasterGrid) Z(c, r int) float64 { return g.raster.Values[r][c] }
func (g rasterGrid) X(c int) float64    { return g.raster.Lons[c] }
func (g rasterGrid) Y(r int) float64    { return g.raster.Lats[r] }

// RenderMap renders one heatmap panel per daily raster, overlays the country
// boundaries, and writes the tiled result to path.
func (r *Renderer) RenderMap(rasters []*pipeline.Raster, countries []geo.Country, path string) error {
	if len(rasters) == 0 {
		return fmt.Errorf("no rasters to render")
	}

	zMin, zMax := valueRange(rasters)

	panels := make([][]*plot.Plot, 1)
	panels[0] = make([]*plot.Plot, len(rasters))
	for i, raster := range rasters {
		p := plot.New()
		if raster.Day != "" {
			p.Title.Text = "Forecast day " + raster.Day
		} else {
			p.Title.Text = "Wind power density"
		}
		p.X.Label.Text = "Longitude"
		p.Y.Label.Text = "Latitude"

		heatmap := plotter.NewHeatMap(rasterGrid{raster: raster}, palette.Heat(r.paletteColors, 1))
		// Shared scale across panels; NaN cells would otherwise poison the
		// per-panel autoscale.
		heatmap.Min = zMin
		heatmap.Max = zMax
		p.Add(heatmap)

		if err := addBoundaries(p, countries); err != nil {
			return err
		}

		panels[0][i] = p
	}

	img := vgimg.New(vg.Length(len(rasters))*panelWidth, panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(rasters),
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}

	canvases := plot.Align(panels, tiles, dc)
	for i, p := range panels[0] {
		p.Draw(canvases[0][i])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating map artifact: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("error encoding map artifact: %w", err)
	}

	return nil
}

// valueRange scans all rasters for the defined-value range.
func valueRange(rasters []*pipeline.Raster) (zMin, zMax float64) {
	zMin, zMax = math.Inf(1), math.Inf(-1)
	for _, raster := range rasters {
		for i := range raster.Lats {
			for j := range raster.Lons {
				v := raster.Values[i][j]
				if math.IsNaN(v) {
					continue
				}
				zMin = math.Min(zMin, v)
				zMax = math.Max(zMax, v)
			}
		}
	}
	if math.IsInf(zMin, 1) {
		zMin, zMax = 0, 1
	}
	return zMin, zMax
}

// addBoundaries draws each country's rings as thin outlines.
func addBoundaries(p *plot.Plot, countries []geo.Country) error {
	for i := range countries {
		switch g := countries[i].Geometry.(type) {
		case *geom.Polygon:
			if err := addPolygonOutline(p, g); err != nil {
				return err
			}
		case *geom.MultiPolygon:
			for k := 0; k < g.NumPolygons(); k++ {
				if err := addPolygonOutline(p, g.Polygon(k)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func addPolygonOutline(p *plot.Plot, poly *geom.Polygon) error {
	for k := 0; k < poly.NumLinearRings(); k++ {
		flat := poly.LinearRing(k).FlatCoords()
		stride := poly.Layout().Stride()

		xys := make(plotter.XYs, 0, len(flat)/stride)
		for i := 0; i+1 < len(flat); i += stride {
			xys = append(xys, plotter.XY{X: flat[i], Y: flat[i+1]})
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("error building boundary outline: %w", err)
		}
		line.LineStyle.Width = vg.Points(0.5)
		line.LineStyle.Color = color.Gray{Y: 64}
		p.Add(line)
	}
	return nil
}
