package geo

// OverlapFraction approximates the fraction of a raster cell covered by a
// country. The cell is centered at (lat, lon) with extent dLat × dLon and is
// sampled on a samples × samples sub-lattice; the returned weight is the
// share of sub-points inside the country polygon. With samples=1 this
// degrades to plain point-in-polygon on the cell center.
func OverlapFraction(c *Country, lat, lon, dLat, dLon float64, samples int) float64 {
	if samples < 1 {
		samples = 1
	}

	// Cheap reject on bounding boxes before any ring test.
	bounds := c.Bounds()
	if lon+dLon/2 < bounds.Min(0) || lon-dLon/2 > bounds.Max(0) ||
		lat+dLat/2 < bounds.Min(1) || lat-dLat/2 > bounds.Max(1) {
		return 0
	}

	inside := 0
	for i := 0; i < samples; i++ {
		subLat := lat + (-0.5+(float64(i)+0.5)/float64(samples))*dLat
		for j := 0; j < samples; j++ {
			subLon := lon + (-0.5+(float64(j)+0.5)/float64(samples))*dLon
			if c.Contains(subLon, subLat) {
				inside++
			}
		}
	}

	return float64(inside) / float64(samples*samples)
}
