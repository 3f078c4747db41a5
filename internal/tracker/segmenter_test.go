package tracker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func addSample(store *fakePositionStore, aircraftID int64, ts time.Time, status Status) int64 {
	id, _ := store.Insert(context.Background(), PositionSample{
		AircraftID: aircraftID,
		Status:     status,
		Timestamp:  ts,
	})
	return id
}

func newSegmenterFixture() (*Segmenter, *fakePositionStore, *fakeTripStore) {
	positions := &fakePositionStore{}
	trips := &fakeTripStore{}
	return NewSegmenter(positions, trips, NewAircraftLocks()), positions, trips
}

// TestSegmentCompleteCycle tests the end-to-end ground→flight→ground scenario.
func TestSegmentCompleteCycle(t *testing.T) {
	segmenter, positions, trips := newSegmenterFixture()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t0 := addSample(positions, 1, base, StatusGround)
	addSample(positions, 1, base.Add(2*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(4*time.Minute), StatusFlying)
	t3 := addSample(positions, 1, base.Add(6*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(8*time.Minute), StatusGround)

	trip, err := segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip == nil {
		t.Fatal("Expected a trip to be emitted")
	}

	if trip.OriginPositionID != t0 {
		t.Errorf("Expected origin %d, got %d", t0, trip.OriginPositionID)
	}
	if trip.DestinationPositionID != t3 {
		t.Errorf("Expected destination %d, got %d", t3, trip.DestinationPositionID)
	}
	if !trip.Timestamp.Equal(base) {
		t.Errorf("Expected trip timestamp %v, got %v", base, trip.Timestamp)
	}
	if len(trips.trips) != 1 {
		t.Fatalf("Expected 1 stored trip, got %d", len(trips.trips))
	}

	// Every sample in the batch becomes processed, including the one
	// after the destination.
	if got := positions.processedCount(); got != 5 {
		t.Errorf("Expected 5 processed samples, got %d", got)
	}
}

// TestSegmentOriginIsLastGroundBeforeDeparture tests origin selection
// when several ground samples precede the departure.
func TestSegmentOriginIsLastGroundBeforeDeparture(t *testing.T) {
	segmenter, positions, _ := newSegmenterFixture()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	addSample(positions, 1, base, StatusGround)
	addSample(positions, 1, base.Add(1*time.Minute), StatusGround)
	origin := addSample(positions, 1, base.Add(2*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(3*time.Minute), StatusFlying)
	dest := addSample(positions, 1, base.Add(5*time.Minute), StatusGround)

	trip, err := segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip == nil {
		t.Fatal("Expected a trip to be emitted")
	}
	if trip.OriginPositionID != origin {
		t.Errorf("Expected origin %d, got %d", origin, trip.OriginPositionID)
	}
	if trip.DestinationPositionID != dest {
		t.Errorf("Expected destination %d, got %d", dest, trip.DestinationPositionID)
	}
	if !trip.Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("Expected trip timestamp of origin sample, got %v", trip.Timestamp)
	}
}

// TestSegmentNotStartingOnGround tests the aborted branch: a batch with
// no known-ground baseline is discarded entirely.
func TestSegmentNotStartingOnGround(t *testing.T) {
	segmenter, positions, trips := newSegmenterFixture()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	addSample(positions, 1, base, StatusFlying)
	addSample(positions, 1, base.Add(1*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(2*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(3*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(4*time.Minute), StatusGround)

	trip, err := segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip != nil {
		t.Fatal("Expected no trip from a mid-flight baseline")
	}
	if len(trips.trips) != 0 {
		t.Errorf("Expected no stored trips, got %d", len(trips.trips))
	}
	if got := positions.processedCount(); got != 5 {
		t.Errorf("Expected the whole batch discarded (5 processed), got %d", got)
	}
}

// TestSegmentStillInFlight tests that an unfinished flight leaves the
// tail unprocessed for a later run.
func TestSegmentStillInFlight(t *testing.T) {
	segmenter, positions, trips := newSegmenterFixture()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	addSample(positions, 1, base, StatusGround)
	addSample(positions, 1, base.Add(1*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(2*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(3*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(4*time.Minute), StatusFlying)

	trip, err := segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip != nil {
		t.Fatal("Expected no trip while still in flight")
	}
	if len(trips.trips) != 0 {
		t.Errorf("Expected no stored trips, got %d", len(trips.trips))
	}
	if got := positions.processedCount(); got != 0 {
		t.Errorf("Expected no samples marked, got %d", got)
	}
	if len(positions.markCalls) != 0 {
		t.Errorf("Expected no mark-processed calls, got %d", len(positions.markCalls))
	}

	// Landing arrives later: the next run completes the same flight.
	dest := addSample(positions, 1, base.Add(6*time.Minute), StatusGround)
	trip, err = segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip == nil {
		t.Fatal("Expected the resumed flight to complete")
	}
	if trip.DestinationPositionID != dest {
		t.Errorf("Expected destination %d, got %d", dest, trip.DestinationPositionID)
	}
}

// TestSegmentTooFewSamples tests the minimum-evidence guard.
func TestSegmentTooFewSamples(t *testing.T) {
	segmenter, positions, trips := newSegmenterFixture()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	addSample(positions, 1, base, StatusGround)
	addSample(positions, 1, base.Add(1*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(2*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(3*time.Minute), StatusGround)

	trip, err := segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip != nil {
		t.Fatal("Expected no trip below the sample minimum")
	}
	if len(trips.trips) != 0 || len(positions.markCalls) != 0 {
		t.Error("Expected no store mutation below the sample minimum")
	}
}

// TestSegmentDiscardsFollowOnFlight tests that evidence of a second
// flight inside the same batch is consumed along with the trip.
func TestSegmentDiscardsFollowOnFlight(t *testing.T) {
	segmenter, positions, trips := newSegmenterFixture()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	addSample(positions, 1, base, StatusGround)
	addSample(positions, 1, base.Add(1*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(2*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(3*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(4*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(5*time.Minute), StatusFlying)

	trip, err := segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip == nil {
		t.Fatal("Expected a trip to be emitted")
	}
	if len(trips.trips) != 1 {
		t.Fatalf("Expected 1 stored trip, got %d", len(trips.trips))
	}

	// The departure of the second flight is gone with the batch.
	if got := positions.processedCount(); got != 6 {
		t.Errorf("Expected all 6 samples processed, got %d", got)
	}

	trip, err = segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip != nil {
		t.Error("Expected nothing left to segment")
	}
}

// TestSegmentTripStoreFailureLeavesBatchUnprocessed tests that a failed
// trip write leaves every sample unprocessed so a retry can emit the
// same trip.
func TestSegmentTripStoreFailureLeavesBatchUnprocessed(t *testing.T) {
	segmenter, positions, trips := newSegmenterFixture()
	trips.insertErr = errors.New("connection reset")
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	addSample(positions, 1, base, StatusGround)
	addSample(positions, 1, base.Add(2*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(4*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(6*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(8*time.Minute), StatusGround)

	trip, err := segmenter.Segment(ctx, 1)
	if err == nil {
		t.Fatal("Expected the trip write failure to surface")
	}
	if trip != nil {
		t.Error("Expected no trip on a failed write")
	}
	if got := positions.processedCount(); got != 0 {
		t.Errorf("Expected no samples marked, got %d", got)
	}
	if len(positions.markCalls) != 0 {
		t.Errorf("Expected no mark-processed calls, got %d", len(positions.markCalls))
	}

	// With the store healthy again, the same batch completes.
	trips.insertErr = nil
	trip, err = segmenter.Segment(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if trip == nil {
		t.Fatal("Expected the retried run to emit the trip")
	}
	if got := positions.processedCount(); got != 5 {
		t.Errorf("Expected 5 processed samples, got %d", got)
	}
}

// TestSegmentOnlyTouchesOwnAircraft tests that marking is scoped to the
// queried aircraft's samples.
func TestSegmentOnlyTouchesOwnAircraft(t *testing.T) {
	segmenter, positions, _ := newSegmenterFixture()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	addSample(positions, 1, base, StatusGround)
	addSample(positions, 1, base.Add(1*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(2*time.Minute), StatusFlying)
	addSample(positions, 1, base.Add(3*time.Minute), StatusGround)
	addSample(positions, 1, base.Add(4*time.Minute), StatusGround)

	other := addSample(positions, 2, base, StatusGround)

	if _, err := segmenter.Segment(ctx, 1); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	unprocessed, _ := positions.Unprocessed(ctx, 2)
	if len(unprocessed) != 1 || unprocessed[0].ID != other {
		t.Error("Expected the other aircraft's sample to stay unprocessed")
	}
}
