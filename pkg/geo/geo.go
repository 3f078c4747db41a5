// Package geo provides unit conversions and great-circle distance
// calculations for aircraft position data.
//
// All positions use the WGS84 coordinate system (same as GPS).
package geo

import "math"

// Constants for geodesy calculations
const (
	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// RadiansToDegrees converts radians to degrees
	RadiansToDegrees = 180.0 / math.Pi

	// EarthRadiusMeters is the Earth's mean radius in meters (WGS84)
	EarthRadiusMeters = 6371000.0

	// FeetToMetersRatio converts feet to meters
	FeetToMetersRatio = 0.3048

	// KnotsToMetersPerSecondRatio converts knots to meters per second
	KnotsToMetersPerSecondRatio = 0.514444444
)

// FeetToMeters converts an altitude in feet to meters.
func FeetToMeters(ft float64) float64 {
	return ft * FeetToMetersRatio
}

// KnotsToMetersPerSecond converts a speed in knots to meters per second.
func KnotsToMetersPerSecond(kts float64) float64 {
	return kts * KnotsToMetersPerSecondRatio
}

// DistanceMeters calculates the great-circle distance between two points.
// Uses the Haversine formula for accuracy over short and long distances.
// Returns distance in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * DegreesToRadians
	lat2Rad := lat2 * DegreesToRadians

	dLat := (lat2 - lat1) * DegreesToRadians
	dLon := (lon2 - lon1) * DegreesToRadians

	// Haversine formula
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Bearing calculates the initial bearing (forward azimuth) from one point
// to another along a great circle.
// Returns bearing in degrees (0-360), where 0/360 = North, 90 = East.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * DegreesToRadians
	lat2Rad := lat2 * DegreesToRadians
	dLon := (lon2 - lon1) * DegreesToRadians

	y := math.Sin(dLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLon)
	bearing := math.Atan2(y, x) * RadiansToDegrees

	// Normalize to 0-360
	if bearing < 0 {
		bearing += 360
	}

	return bearing
}
