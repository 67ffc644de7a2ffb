package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "jobs", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecord_FillsIDAndTime(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	job, err := s.Record(ctx, Job{Source: "area.kmz", Kind: "kmz", Format: "csv", Status: StatusOK, Placemarks: 3, Rows: 3, Columns: 7})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", job.ID, err)
	}
	if job.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	jobs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("len(jobs) = %d, want 1", len(jobs))
	}
	got := jobs[0]
	if got.ID != job.ID || got.Source != "area.kmz" || got.Rows != 3 || got.Columns != 7 {
		t.Errorf("Recent()[0] = %+v", got)
	}
}

func TestRecent_NewestFirstAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.kml", "b.kml", "c.kml"} {
		_, err := s.Record(ctx, Job{Source: name, Kind: "kml", Status: StatusOK, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("Record(%s): %v", name, err)
		}
	}
	if _, err := s.Record(ctx, Job{Source: "d.kmz", Kind: "kmz", Status: StatusFailed, Error: "no placemarks", CreatedAt: base.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	jobs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("len(jobs) = %d, want 2", len(jobs))
	}
	if jobs[0].Source != "d.kmz" || jobs[0].Status != StatusFailed || jobs[0].Error != "no placemarks" {
		t.Errorf("jobs[0] = %+v", jobs[0])
	}
	if jobs[1].Source != "c.kml" {
		t.Errorf("jobs[1].Source = %q, want c.kml", jobs[1].Source)
	}
	if !jobs[0].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("CreatedAt = %v, want %v", jobs[0].CreatedAt, base.Add(time.Hour))
	}
}

func TestRecent_Empty(t *testing.T) {
	s := openTestStore(t)
	jobs, err := s.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("len(jobs) = %d, want 0", len(jobs))
	}
}
