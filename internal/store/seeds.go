package store

import (
	"sort"
	"sync"
	"time"

	"avatargen/internal/avatar"
)

// SeedRecord is a recovered seed together with the request that produced it.
// Records are append-only and survive for the process lifetime; the janitor
// never touches them.
type SeedRecord struct {
	JobKey    string
	Seed      string
	Request   avatar.GenerationRequest
	ImageURL  string
	CreatedAt time.Time
}

// SeedHistory is the process-lifetime seed log.
type SeedHistory struct {
	mu      sync.RWMutex
	records map[string]SeedRecord
}

// NewSeedHistory creates an empty history.
func NewSeedHistory() *SeedHistory {
	return &SeedHistory{records: make(map[string]SeedRecord)}
}

// Add appends a record keyed by its job key.
func (h *SeedHistory) Add(rec SeedRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records[rec.JobKey] = rec
}

// Get returns the record for a job key, if present.
func (h *SeedHistory) Get(jobKey string) (SeedRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rec, ok := h.records[jobKey]
	return rec, ok
}

// Len reports the number of recorded seeds.
func (h *SeedHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// List returns all records sorted newest first. Ties fall back to the job
// key so the order is deterministic.
func (h *SeedHistory) List() []SeedRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	records := make([]SeedRecord, 0, len(h.records))
	for _, rec := range h.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].JobKey < records[j].JobKey
	})
	return records
}
