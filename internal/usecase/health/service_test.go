package health

import (
	"context"
	"errors"
	"testing"
)

type stubCheck struct{ err error }

func (s stubCheck) Ping(context.Context) error        { return s.err }
func (s stubCheck) HealthCheck(context.Context) error { return s.err }

func TestCheck_NothingConfigured(t *testing.T) {
	report := New(nil, nil).Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
	if len(report.Checks) != 0 {
		t.Errorf("expected no checks, got %v", report.Checks)
	}
}

func TestCheck_AllHealthy(t *testing.T) {
	report := New(stubCheck{}, stubCheck{}).Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
	if report.Checks["database"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
}

func TestCheck_DegradedOnFailure(t *testing.T) {
	report := New(stubCheck{err: errors.New("down")}, stubCheck{}).Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("database check = %q, want error", report.Checks["database"])
	}
	if report.Checks["embedding"] != CheckOK {
		t.Errorf("embedding check = %q, want ok", report.Checks["embedding"])
	}
}
