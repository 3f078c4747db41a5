package tracker

import "testing"

// TestClassify tests the ground/flying classification threshold.
func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		speedMPS float64
		expected Status
	}{
		{"Parked", 0, StatusGround},
		{"Taxiing", 10, StatusGround},
		{"Just below threshold", 49.9, StatusGround},
		{"At threshold", 50.0, StatusGround},
		{"Just above threshold", 50.1, StatusFlying},
		{"Cruise", 230, StatusFlying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.speedMPS)
			if got != tt.expected {
				t.Errorf("Classify(%v) = %v, want %v", tt.speedMPS, got, tt.expected)
			}
		})
	}
}
