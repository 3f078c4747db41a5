package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/dhawton/log4g"

	"github.com/unklstewy/flightlog/pkg/feed"
	"github.com/unklstewy/flightlog/pkg/geo"
)

var log = log4g.Category("tracker")

const (
	// DefaultFoundDelay is the poll delay after a stored or duplicate
	// position: the aircraft is active, poll again soon.
	DefaultFoundDelay = 2 * time.Minute

	// DefaultNoResponseDelay is the poll delay after a feed failure,
	// an empty response, or a malformed track.
	DefaultNoResponseDelay = 10 * time.Minute

	// DuplicateWindow is the timestamp tolerance below which a fetched
	// position is considered a re-read of the last stored sample.
	DuplicateWindow = time.Second
)

// Outcome is the result of one poll cycle.
type Outcome int

const (
	// OutcomeStored means a new position sample was persisted
	OutcomeStored Outcome = iota

	// OutcomeSkipped means the feed had nothing new (no active track,
	// or a duplicate of the last stored sample)
	OutcomeSkipped

	// OutcomeFailed means the feed call or the persist step failed
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// SegmentRunner runs a trip segmentation pass for one aircraft.
type SegmentRunner interface {
	Segment(ctx context.Context, aircraftID int64) (*Trip, error)
}

// PollerConfig contains the adaptive poll cadence.
type PollerConfig struct {
	FoundDelay      time.Duration
	NoResponseDelay time.Duration
}

// Poller performs one fetch-classify-persist-reschedule cycle per
// aircraft per invocation. Polling is driven by repeated
// self-scheduling rather than a loop: each invocation requests the
// next one as its final step, so exactly one pending poll job exists
// per aircraft and chains for different aircraft run independently.
type Poller struct {
	aircraft  AircraftStore
	positions PositionStore
	source    feed.Source
	resolver  *AirportResolver
	segmenter SegmentRunner
	sched     Scheduler
	locks     *AircraftLocks

	foundDelay      time.Duration
	noResponseDelay time.Duration
}

// NewPoller creates a poller with explicit dependencies.
func NewPoller(
	aircraft AircraftStore,
	positions PositionStore,
	source feed.Source,
	resolver *AirportResolver,
	segmenter SegmentRunner,
	sched Scheduler,
	locks *AircraftLocks,
	cfg PollerConfig,
) *Poller {
	if cfg.FoundDelay == 0 {
		cfg.FoundDelay = DefaultFoundDelay
	}
	if cfg.NoResponseDelay == 0 {
		cfg.NoResponseDelay = DefaultNoResponseDelay
	}

	return &Poller{
		aircraft:        aircraft,
		positions:       positions,
		source:          source,
		resolver:        resolver,
		segmenter:       segmenter,
		sched:           sched,
		locks:           locks,
		foundDelay:      cfg.FoundDelay,
		noResponseDelay: cfg.NoResponseDelay,
	}
}

// PollAll schedules one immediate poll per known aircraft. Each poll
// schedules its own successor, so this only needs to run once at
// startup; thereafter every chain is self-sustaining.
func (p *Poller) PollAll(ctx context.Context) error {
	ids, err := p.aircraft.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list aircraft: %w", err)
	}

	log.Info(fmt.Sprintf("scheduling initial polls for %d aircraft", len(ids)))
	for _, id := range ids {
		id := id
		p.sched.Schedule(pollJobName(id), 0, func(ctx context.Context) {
			p.Poll(ctx, id)
		})
	}

	return nil
}

// Poll runs one poll cycle for an aircraft and always schedules the
// next one: after foundDelay when a position was stored or
// deduplicated, after noResponseDelay on every failure or empty path.
// When the just-stored sample is ground-classified it additionally
// schedules an immediate segmentation run. The trigger is tied
// strictly to the sample actually stored in this cycle; skipped and
// failed cycles never trigger segmentation.
func (p *Poller) Poll(ctx context.Context, aircraftID int64) Outcome {
	outcome, delay, storedGround := p.pollOnce(ctx, aircraftID)

	p.sched.Schedule(pollJobName(aircraftID), delay, func(ctx context.Context) {
		p.Poll(ctx, aircraftID)
	})

	if storedGround {
		p.sched.Schedule(segmentJobName(aircraftID), 0, func(ctx context.Context) {
			if _, err := p.segmenter.Segment(ctx, aircraftID); err != nil {
				log.Error(fmt.Sprintf("segmentation failed for aircraft %d: %v", aircraftID, err))
			}
		})
	}

	return outcome
}

// pollOnce performs the fetch-classify-persist part of a cycle and
// reports the outcome, the delay before the next poll, and whether a
// ground sample was stored. It never panics and never returns an
// error: every failure degrades to a reschedulable outcome so a single
// bad cycle cannot stop future polling of the aircraft.
func (p *Poller) pollOnce(ctx context.Context, aircraftID int64) (Outcome, time.Duration, bool) {
	ac, err := p.aircraft.Get(ctx, aircraftID)
	if err != nil {
		log.Error(fmt.Sprintf("failed to load aircraft %d: %v", aircraftID, err))
		return OutcomeFailed, p.noResponseDelay, false
	}
	if ac == nil {
		log.Error(fmt.Sprintf("unknown aircraft %d", aircraftID))
		return OutcomeFailed, p.noResponseDelay, false
	}

	last, err := p.positions.Latest(ctx, aircraftID)
	if err != nil {
		log.Error(fmt.Sprintf("failed to load latest position for %s: %v", ac.Registration, err))
		return OutcomeFailed, p.noResponseDelay, false
	}

	snapshot, err := p.source.ByRegistration(ctx, ac.Registration)
	if err != nil {
		// Transient feed errors (transport, timeout, non-2xx) are
		// expected; the chain retries after the no-response delay.
		log.Error(fmt.Sprintf("feed fetch failed for %s: %v", ac.Registration, err))
		return OutcomeFailed, p.noResponseDelay, false
	}

	if len(snapshot.Tracks) == 0 {
		log.Debug(fmt.Sprintf("no active track for %s", ac.Registration))
		return OutcomeSkipped, p.noResponseDelay, false
	}

	sample, err := extractSample(aircraftID, snapshot)
	if err != nil {
		// Data-shape error: drop this sample, keep the chain alive.
		log.Error(fmt.Sprintf("malformed track for %s: %v", ac.Registration, err))
		return OutcomeFailed, p.noResponseDelay, false
	}

	// Deduplicate against the last stored sample.
	if last != nil && absDuration(sample.Timestamp.Sub(last.Timestamp)) < DuplicateWindow {
		log.Debug(fmt.Sprintf("duplicate position for %s at %v", ac.Registration, sample.Timestamp))
		return OutcomeSkipped, p.foundDelay, false
	}

	sample.Status = Classify(sample.GroundSpeedMPS)
	if sample.Status == StatusGround {
		airportID, ok, err := p.resolver.Resolve(ctx, sample.Latitude, sample.Longitude, sample.AltitudeM)
		if err != nil {
			log.Error(fmt.Sprintf("airport resolution failed for %s: %v", ac.Registration, err))
			return OutcomeFailed, p.noResponseDelay, false
		}
		if ok {
			sample.AirportID = airportID
		}
	}

	// Hold the aircraft's lock across the insert so a concurrent
	// segmentation run sees either all of this sample or none of it.
	unlock := p.locks.Lock(aircraftID)
	id, err := p.positions.Insert(ctx, *sample)
	unlock()
	if err != nil {
		// The write failed but the chain must stay schedulable.
		log.Error(fmt.Sprintf("failed to store position for %s: %v", ac.Registration, err))
		return OutcomeFailed, p.noResponseDelay, false
	}

	log.Debug(fmt.Sprintf("stored position %d for %s (%s)", id, ac.Registration, sample.Status))
	return OutcomeStored, p.foundDelay, sample.Status == StatusGround
}

// extractSample converts the first track of a feed snapshot into a
// position sample. The sample timestamp is the feed server time minus
// the age of the last position message. Returns an error on any
// missing or malformed field.
func extractSample(aircraftID int64, snapshot *feed.Snapshot) (*PositionSample, error) {
	track := &snapshot.Tracks[0]

	if track.Lat == nil || track.Lon == nil {
		return nil, fmt.Errorf("track missing position")
	}
	if track.SeenPos == nil {
		return nil, fmt.Errorf("track missing seen_pos")
	}
	if track.Gs == nil {
		return nil, fmt.Errorf("track missing ground speed")
	}

	altitudeFt, ok := track.AltitudeFeet()
	if !ok {
		return nil, fmt.Errorf("track has unparseable altitude %v", track.AltBaro)
	}

	heading, ok := track.HeadingDegrees()
	if !ok {
		return nil, fmt.Errorf("track missing heading")
	}

	timestamp := time.UnixMilli(snapshot.Now - int64(*track.SeenPos*1000.0)).UTC()

	return &PositionSample{
		AircraftID:     aircraftID,
		Latitude:       *track.Lat,
		Longitude:      *track.Lon,
		AltitudeM:      geo.FeetToMeters(altitudeFt),
		HeadingDeg:     heading,
		GroundSpeedMPS: geo.KnotsToMetersPerSecond(*track.Gs),
		Timestamp:      timestamp,
	}, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func pollJobName(aircraftID int64) string {
	return fmt.Sprintf("poll-aircraft-%d", aircraftID)
}

func segmentJobName(aircraftID int64) string {
	return fmt.Sprintf("segment-aircraft-%d", aircraftID)
}
