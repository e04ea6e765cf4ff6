package store

import (
	"testing"
	"time"

	"avatargen/internal/midjourney"
)

func TestJobStorePutGet(t *testing.T) {
	s := NewJobStore()
	job := Job{
		Key:       "key-1",
		MessageID: "msg-1",
		Options:   []midjourney.Option{{Label: "U1", Custom: "MJ::U1"}},
		Prompt:    "a prompt",
		ImageURL:  "https://cdn.example.com/collage.png",
		CreatedAt: time.Now(),
	}
	s.Put(job)

	got, ok := s.Get("key-1")
	if !ok {
		t.Fatal("job not found")
	}
	if got.MessageID != "msg-1" || got.Prompt != "a prompt" {
		t.Fatalf("unexpected job: %+v", got)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("lookup of unknown key succeeded")
	}
}

func TestJobStoreSweepEvictsExpired(t *testing.T) {
	s := NewJobStore()
	now := time.Now()
	s.Put(Job{Key: "old", CreatedAt: now.Add(-25 * time.Hour)})
	s.Put(Job{Key: "fresh", CreatedAt: now.Add(-23 * time.Hour)})

	removed := s.Sweep(now, 24*time.Hour)
	if removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}
	if _, ok := s.Get("old"); ok {
		t.Fatal("expired job survived the sweep")
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Fatal("fresh job was evicted")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestJobStoreSweepExactLifetimeKept(t *testing.T) {
	s := NewJobStore()
	now := time.Now()
	s.Put(Job{Key: "edge", CreatedAt: now.Add(-24 * time.Hour)})

	if removed := s.Sweep(now, 24*time.Hour); removed != 0 {
		t.Fatalf("Sweep removed %d, want 0: only strictly older entries expire", removed)
	}
}
