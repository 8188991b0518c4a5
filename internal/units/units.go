// Package units provides shared conversion constants and formatting for
// the simulator's length and capacitance quantities.
package units

import "fmt"

// Conversion constants. Input displacement files carry meters, the
// geometry pipeline works in millimeters, and capacitance is accumulated
// in Farads but reported in picofarads.
const (
	MillimetersPerMeter             = 1000.0
	MetersPerMillimeter             = 1e-3
	SquareMetersPerSquareMillimeter = 1e-6
	PicofaradsPerFarad              = 1e12
)

// MetersToMillimeters converts an ingested coordinate to millimeters.
func MetersToMillimeters(m float64) float64 {
	return m * MillimetersPerMeter
}

// MillimetersToMeters converts a geometric distance back to meters.
func MillimetersToMeters(mm float64) float64 {
	return mm * MetersPerMillimeter
}

// FaradsToPicofarads converts a capacitance for reporting.
func FaradsToPicofarads(f float64) float64 {
	return f * PicofaradsPerFarad
}

// FormatPicofarads renders a capacitance in Farads as the fixed
// five-decimal picofarad string used in the results file.
func FormatPicofarads(farads float64) string {
	return fmt.Sprintf("%.5f", FaradsToPicofarads(farads))
}
