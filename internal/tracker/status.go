package tracker

// FlyingSpeedThresholdMPS is the ground speed above which a sample is
// classified as flying, in meters per second (~97 knots). Feed noise
// near the boundary is expected, so this is tunable in one place.
const FlyingSpeedThresholdMPS = 50.0

// Classify maps a ground speed in meters per second to a ground/flying
// status. Pure and total.
func Classify(groundSpeedMPS float64) Status {
	if groundSpeedMPS > FlyingSpeedThresholdMPS {
		return StatusFlying
	}
	return StatusGround
}
