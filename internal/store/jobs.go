package store

import (
	"context"
	"sync"
	"time"

	"avatargen/internal/avatar"
	"avatargen/internal/infra"
	"avatargen/internal/midjourney"
)

// Job holds everything needed to act on a finished generation later,
// primarily the message id and the upscale option list. Fields are write
// once: a job is stored fully formed and never mutated.
type Job struct {
	Key       string
	MessageID string
	Flags     int
	Options   []midjourney.Option
	Request   avatar.GenerationRequest
	Prompt    string
	ImageURL  string
	Seed      string
	CreatedAt time.Time
}

// JobStore is the process-lifetime job map. Unlike the Node original, which
// leaned on the event loop to serialize access, Go handlers run concurrently,
// so the map is guarded by a mutex.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewJobStore creates an empty store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]Job)}
}

// Put records a job under its key.
func (s *JobStore) Put(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Key] = job
}

// Get returns the job for a key, if present.
func (s *JobStore) Get(key string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[key]
	return job, ok
}

// Len reports the number of stored jobs.
func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Sweep evicts every job older than lifetime and reports how many were
// removed.
func (s *JobStore) Sweep(now time.Time, lifetime time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, job := range s.jobs {
		if now.Sub(job.CreatedAt) > lifetime {
			delete(s.jobs, key)
			removed++
		}
	}
	return removed
}

// Janitor sweeps the store on a fixed period until the context is cancelled.
// Run it as a goroutine from main.
func (s *JobStore) Janitor(ctx context.Context, interval, lifetime time.Duration, logger infra.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.Sweep(now, lifetime); removed > 0 {
				logger.Info().Int("removed", removed).Msg("janitor: evicted expired jobs")
			}
		}
	}
}
