package snapshot

import (
	"testing"
	"time"

	"sptr/internal/audit"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	s, err := Open("sptr-test")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return s
}

func TestPutGetRoundtrip(t *testing.T) {
	s := openTestStore(t)

	in := &Payload{
		Scenario:   "shared-fanout",
		Iterations: 100,
		Parallel:   2,
		SavedAt:    time.Now(),
		Stats:      audit.Stats{Allocs: 100, Frees: 100, Retains: 800, Releases: 800},
	}
	if err := s.Put("shared-fanout", in); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	var out Payload
	ok, err := s.Get("shared-fanout", &out)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if out.Scenario != in.Scenario || out.Stats != in.Stats || out.Iterations != in.Iterations {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", out, *in)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	var out Payload
	ok, err := s.Get("absent", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("missing payload must be a clean miss")
	}
}

func TestStaleSchemaIsAMiss(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put("old", &Payload{Scenario: "mixed"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// Rewrite with a bumped schema to simulate a stale on-disk format.
	var tampered Payload
	if ok, err := s.Get("old", &tampered); err != nil || !ok {
		t.Fatalf("setup get failed: ok=%v err=%v", ok, err)
	}
	tampered.Schema = schemaVersion + 1
	if err := s.putRaw("old", &tampered); err != nil {
		t.Fatalf("raw put failed: %v", err)
	}

	var out Payload
	ok, err := s.Get("old", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("stale schema must be a miss")
	}
}

func TestLatestAndList(t *testing.T) {
	s := openTestStore(t)

	names, err := s.List()
	if err != nil || len(names) != 0 {
		t.Fatalf("expected empty store, got %v (%v)", names, err)
	}
	if _, ok, err := s.Latest(); err != nil || ok {
		t.Fatalf("expected no latest in empty store, ok=%v err=%v", ok, err)
	}

	if err := s.Put("first", &Payload{Scenario: "mixed"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := s.Put("second", &Payload{Scenario: "mixed"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	names, err = s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Fatalf("unexpected names: %v", names)
	}

	latest, ok, err := s.Latest()
	if err != nil || !ok {
		t.Fatalf("latest failed: ok=%v err=%v", ok, err)
	}
	if latest != "second" {
		t.Fatalf("latest = %q, want %q", latest, "second")
	}
}

func TestDropAll(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put("doomed", &Payload{Scenario: "mixed"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.DropAll(); err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	var out Payload
	if ok, _ := s.Get("doomed", &out); ok {
		t.Fatal("payload survived DropAll")
	}
}
