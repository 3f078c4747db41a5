// Package scheduler runs named one-shot jobs on a fixed worker pool at
// or after a requested time.
//
// Jobs are independent units of work: fire-and-forget, at-most-once.
// Stopping the scheduler drops jobs still waiting on their timers and
// lets in-flight jobs finish on their own.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dhawton/log4g"
)

var log = log4g.Category("scheduler")

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 8

type job struct {
	name string
	fn   func(context.Context)
}

// Scheduler dispatches one-shot delayed jobs to a worker pool.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	jobs   chan job
	wg     sync.WaitGroup

	// mu orders timer registration against Stop: once stopped is set no
	// new timers register, so the timers counter only drains under Wait.
	mu      sync.Mutex
	stopped bool
	timers  sync.WaitGroup
}

// New creates a scheduler and starts its workers.
func New(workers int) *Scheduler {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(chan job),
	}

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	return s
}

// Schedule enqueues fn to run once, at or after now plus delay.
// A zero delay hands the job to the pool immediately. Jobs whose timer
// has not fired when the scheduler stops are dropped, and scheduling
// against a stopped scheduler is a silent no-op; in-flight jobs may
// race Stop with their final reschedule.
func (s *Scheduler) Schedule(name string, delay time.Duration, fn func(context.Context)) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.timers.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.timers.Done()

		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-s.ctx.Done():
				return
			case <-timer.C:
			}
		}

		select {
		case <-s.ctx.Done():
		case s.jobs <- job{name: name, fn: fn}:
		}
	}()
}

// Stop stops dispatching new jobs and waits for in-flight ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.timers.Wait()
	s.wg.Wait()
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case j := <-s.jobs:
			s.run(j)
		}
	}
}

// run executes one job with panic containment; a panicking job must not
// take down its worker.
func (s *Scheduler) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Sprintf("PANIC in job %s: %v", j.name, r))
		}
	}()

	j.fn(s.ctx)
}
