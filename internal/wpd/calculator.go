// Package wpd derives wind power density from forecast wind components.
package wpd

import "math"

// AirDensity is the standard-conditions air density in kg/m³ used for all
// power-density calculations.
const AirDensity = 1.225

// Speed returns the wind speed magnitude for a u/v component pair, or nil if
// either component is missing or NaN.
func Speed(u, v *float64) *float64 {
	if u == nil || v == nil || math.IsNaN(*u) || math.IsNaN(*v) {
		return nil
	}
	s := math.Sqrt(*u**u + *v**v)
	return &s
}

// PowerDensity returns the wind power density in W/m² for a u/v component
// pair: ½ · ρ · v³. Missing or NaN inputs yield nil, never an error; nil
// values propagate through the pipeline and are excluded from all averages.
func PowerDensity(u, v *float64) *float64 {
	speed := Speed(u, v)
	if speed == nil {
		return nil
	}
	w := 0.5 * AirDensity * math.Pow(*speed, 3)
	return &w
}
