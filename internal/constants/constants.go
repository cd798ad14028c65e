// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

// DateLayout is the layout of forecast dates as they appear in the store,
// in artifact filenames, and on the CLI.
const DateLayout = "20060102"

// Cycles enumerates the four daily GFS synoptic cycles, in issuance order.
var Cycles = []string{"00", "06", "12", "18"}

// ValidCycle reports whether c is one of the four synoptic cycles.
func ValidCycle(c string) bool {
	for _, known := range Cycles {
		if c == known {
			return true
		}
	}
	return false
}

// ForecastHours returns the forecast-hour sequence extracted for every cycle:
// 0 through 72 in 3-hour steps.
func ForecastHours() []int {
	hours := make([]int, 0, 25)
	for h := 0; h <= 72; h += 3 {
		hours = append(hours, h)
	}
	return hours
}
