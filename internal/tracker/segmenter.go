package tracker

import (
	"context"
	"fmt"
)

// MinSegmentSamples is the minimum number of unprocessed samples needed
// before a segmentation run will draw any conclusion. Below this there
// is too little evidence to segment reliably.
const MinSegmentSamples = 5

// segmentState is the state of the segmentation machine while scanning
// an aircraft's unprocessed sample sequence in timestamp order.
type segmentState int

const (
	stateReset segmentState = iota
	stateAwaitingDeparture
	stateInFlight
	stateLanded
)

// Segmenter derives trips from the unprocessed tail of an aircraft's
// position trail. Each run consumes the tail once and emits at most
// one trip.
type Segmenter struct {
	positions PositionStore
	trips     TripStore
	locks     *AircraftLocks
}

// NewSegmenter creates a segmenter with explicit dependencies.
func NewSegmenter(positions PositionStore, trips TripStore, locks *AircraftLocks) *Segmenter {
	return &Segmenter{
		positions: positions,
		trips:     trips,
		locks:     locks,
	}
}

// Segment examines the aircraft's unprocessed samples in timestamp
// order and emits a trip when a complete ground→flight→ground cycle is
// present. Returns the emitted trip, or nil when the run deferred.
//
// Behavior over the ordered sequence:
//   - Fewer than MinSegmentSamples samples: no-op, nothing mutated.
//   - First sample not on the ground: the sequence has no known-ground
//     baseline; the whole batch is marked processed and discarded.
//   - Departure found (first flying sample): the origin is the last
//     ground sample before it.
//   - Landing found (first ground sample after the flying run): that
//     sample is the destination; a trip is stored and every sample in
//     the batch is marked processed, including any after the
//     destination.
//   - Batch ends while still in flight: nothing is marked, so the next
//     run resumes the same flight with more samples appended.
//
// The aircraft's lock is held for the whole run, and processed-marking
// is scoped to exactly the ids read at the start, so samples appended
// by a concurrent poll are never swept up.
func (s *Segmenter) Segment(ctx context.Context, aircraftID int64) (*Trip, error) {
	unlock := s.locks.Lock(aircraftID)
	defer unlock()

	samples, err := s.positions.Unprocessed(ctx, aircraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unprocessed positions: %w", err)
	}

	if len(samples) < MinSegmentSamples {
		return nil, nil
	}

	// Snapshot of the ids this run owns.
	batchIDs := make([]int64, len(samples))
	for i := range samples {
		batchIDs[i] = samples[i].ID
	}

	state := stateReset
	var origin, destination *PositionSample
	var previous *PositionSample

	for i := range samples {
		sample := &samples[i]

		switch state {
		case stateReset:
			if sample.Status != StatusGround {
				// No known-ground baseline: discard the malformed
				// prefix so it is never reconsidered.
				log.Info(fmt.Sprintf("aircraft %d did not start on the ground, discarding %d samples",
					aircraftID, len(batchIDs)))
				if err := s.positions.MarkProcessed(ctx, batchIDs); err != nil {
					return nil, fmt.Errorf("failed to mark aborted batch processed: %w", err)
				}
				return nil, nil
			}
			state = stateAwaitingDeparture

		case stateAwaitingDeparture:
			if sample.Status == StatusFlying {
				// The last confirmed ground position before departure.
				origin = previous
				state = stateInFlight
			}

		case stateInFlight:
			if sample.Status == StatusGround {
				destination = sample
				state = stateLanded
			}
		}

		if state == stateLanded {
			break
		}
		previous = sample
	}

	if state != stateLanded {
		// Still mid-flight (or never departed): leave the tail
		// unprocessed so a future run can resume from the same
		// departure point.
		return nil, nil
	}

	trip := Trip{
		AircraftID:            aircraftID,
		OriginPositionID:      origin.ID,
		DestinationPositionID: destination.ID,
		Timestamp:             origin.Timestamp,
	}

	tripID, err := s.trips.Insert(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("failed to store trip: %w", err)
	}
	trip.ID = tripID

	// Consume the whole batch, including samples after the
	// destination. Partial evidence of a follow-on flight inside the
	// same batch is discarded rather than retried.
	if err := s.positions.MarkProcessed(ctx, batchIDs); err != nil {
		return nil, fmt.Errorf("failed to mark batch processed: %w", err)
	}

	log.Info(fmt.Sprintf("trip %d recorded for aircraft %d: position %d -> %d",
		trip.ID, aircraftID, trip.OriginPositionID, trip.DestinationPositionID))

	return &trip, nil
}
