package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/unklstewy/flightlog/pkg/feed"
)

// Shared in-memory fakes for poller and segmenter tests.

type fakeAircraftStore struct {
	aircraft map[int64]*Aircraft
}

func (f *fakeAircraftStore) Get(ctx context.Context, id int64) (*Aircraft, error) {
	return f.aircraft[id], nil
}

func (f *fakeAircraftStore) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for id := range f.aircraft {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakePositionStore struct {
	mu        sync.Mutex
	samples   []PositionSample
	nextID    int64
	insertErr error
	markCalls [][]int64
}

func (f *fakePositionStore) Insert(ctx context.Context, sample PositionSample) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return 0, f.insertErr
	}

	f.nextID++
	sample.ID = f.nextID
	f.samples = append(f.samples, sample)
	return sample.ID, nil
}

func (f *fakePositionStore) Latest(ctx context.Context, aircraftID int64) (*PositionSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *PositionSample
	for i := range f.samples {
		s := &f.samples[i]
		if s.AircraftID != aircraftID {
			continue
		}
		if latest == nil || s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakePositionStore) Unprocessed(ctx context.Context, aircraftID int64) ([]PositionSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []PositionSample
	for _, s := range f.samples {
		if s.AircraftID == aircraftID && !s.Processed {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakePositionStore) MarkProcessed(ctx context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markCalls = append(f.markCalls, ids)
	marked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	for i := range f.samples {
		if marked[f.samples[i].ID] {
			f.samples[i].Processed = true
		}
	}
	return nil
}

func (f *fakePositionStore) processedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, s := range f.samples {
		if s.Processed {
			n++
		}
	}
	return n
}

type fakeTripStore struct {
	mu        sync.Mutex
	trips     []Trip
	insertErr error
}

func (f *fakeTripStore) Insert(ctx context.Context, trip Trip) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return 0, f.insertErr
	}

	trip.ID = int64(len(f.trips) + 1)
	f.trips = append(f.trips, trip)
	return trip.ID, nil
}

type fakeCatalog struct {
	airports []Airport
}

func (f *fakeCatalog) FindWithinBox(ctx context.Context, latMin, latMax, lonMin, lonMax float64) ([]Airport, error) {
	var out []Airport
	for _, a := range f.airports {
		if a.Latitude >= latMin && a.Latitude <= latMax &&
			a.Longitude >= lonMin && a.Longitude <= lonMax {
			out = append(out, a)
		}
	}
	return out, nil
}

type scheduledJob struct {
	name  string
	delay time.Duration
	fn    func(context.Context)
}

// fakeScheduler records scheduled jobs without running them.
type fakeScheduler struct {
	mu   sync.Mutex
	jobs []scheduledJob
}

func (f *fakeScheduler) Schedule(name string, delay time.Duration, fn func(context.Context)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, scheduledJob{name: name, delay: delay, fn: fn})
}

func (f *fakeScheduler) scheduled() []scheduledJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scheduledJob(nil), f.jobs...)
}

type fakeFeed struct {
	snapshot *feed.Snapshot
	err      error
	calls    int
}

func (f *fakeFeed) ByRegistration(ctx context.Context, registration string) (*feed.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func (f *fakeFeed) Close() error { return nil }

type recordingSegmenter struct {
	mu    sync.Mutex
	calls []int64
}

func (r *recordingSegmenter) Segment(ctx context.Context, aircraftID int64) (*Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, aircraftID)
	return nil, nil
}

func floatPtr(v float64) *float64 { return &v }
