package scheduler

import (
	"errors"
	"testing"
)

type fakeStore struct {
	sessions int
	idle     int
}

func (f *fakeStore) Sweep() int {
	removed := f.idle
	f.sessions -= f.idle
	f.idle = 0
	return removed
}

func (f *fakeStore) Len() int { return f.sessions }

type fakeGauge struct {
	value int
	calls int
}

func (g *fakeGauge) SetActiveSessions(n int) {
	g.value = n
	g.calls++
}

func TestSweepSessions(t *testing.T) {
	store := &fakeStore{sessions: 5, idle: 2}
	gauge := &fakeGauge{}

	SweepSessions(store, gauge)

	if store.sessions != 3 {
		t.Fatalf("expected 3 sessions left, got %d", store.sessions)
	}
	if gauge.calls != 1 || gauge.value != 3 {
		t.Fatalf("gauge not updated: %+v", gauge)
	}

	SweepSessions(store, nil)
}

func TestAddJobValidation(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	svc.Start()
	t.Cleanup(func() {
		_ = svc.Stop()
	})

	if _, err := svc.AddJob("", "*/5 * * * *", func() {}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := svc.AddJob("job", " ", func() {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := svc.AddJob("job", "not a cron", func() {}); err == nil {
		t.Fatal("expected invalid cron expression to fail")
	}
	job, err := svc.RegisterSessionSweep("*/5 * * * *", &fakeStore{}, nil)
	if err != nil {
		t.Fatalf("register sweep: %v", err)
	}
	if job.Name() != "visitor_session_sweep" {
		t.Fatalf("job name = %q", job.Name())
	}
}

func TestNilServiceReturnsNotInitialized(t *testing.T) {
	var svc *Service
	if _, err := svc.AddJob("job", "* * * * *", func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := svc.Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
