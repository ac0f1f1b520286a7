package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pingwatch/pingwatch/internal/domain"
	"github.com/pingwatch/pingwatch/internal/flagstore/memory"
	"github.com/pingwatch/pingwatch/internal/reconcile"
	"github.com/pingwatch/pingwatch/internal/source"
)

// ---- test helpers ----

type fakeProber struct {
	results map[string]domain.ProbeResult
	calls   int
}

func (f *fakeProber) Probe(_ context.Context, target string) domain.ProbeResult {
	f.calls++
	if r, ok := f.results[target]; ok {
		return r
	}
	return domain.ProbeResult{Reachable: true, StatusCode: 200}
}

type flakyFlags struct {
	inner  *memory.Store
	failOn string
}

func (f *flakyFlags) State(ctx context.Context, key string) (domain.FlagState, error) {
	if key == f.failOn {
		return domain.FlagUnknown, errors.New("flag store blew up")
	}
	return f.inner.State(ctx, key)
}

func (f *flakyFlags) Create(ctx context.Context, key string, at time.Time) error {
	return f.inner.Create(ctx, key, at)
}

func (f *flakyFlags) Delete(ctx context.Context, key string) error {
	return f.inner.Delete(ctx, key)
}

type countingNotifier struct{ n int }

func (c *countingNotifier) Publish(ctx context.Context, subject, body string) error {
	c.n++
	return nil
}

// ---- tests ----

func TestRun_ReportFollowsListOrder(t *testing.T) {
	prober := &fakeProber{results: map[string]domain.ProbeResult{
		"https://b.example": {Reachable: false, StatusCode: 500, Err: "500 Internal Server Error"},
	}}
	nt := &countingNotifier{}
	r := New(zap.NewNop(), source.Static{"https://a.example", "https://b.example", "https://c.example"},
		prober, reconcile.New(memory.New(), nt))

	report := r.Run(context.Background())

	if !report.OK {
		t.Fatalf("want ok run, got %+v", report)
	}
	if len(report.Results) != 3 {
		t.Fatalf("want 3 records, got %d", len(report.Results))
	}
	for i, want := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		if report.Results[i].URL != want {
			t.Fatalf("record %d: want %s, got %s", i, want, report.Results[i].URL)
		}
	}
	if report.Results[1].Action != domain.ActionRaise || nt.n != 1 {
		t.Fatalf("want one raise for b.example, got action=%v notifications=%d",
			report.Results[1].Action, nt.n)
	}
}

func TestRun_MissingDestinationFailsBeforeAnyWork(t *testing.T) {
	prober := &fakeProber{}
	r := New(zap.NewNop(), source.Static{"https://a.example"}, prober,
		reconcile.New(memory.New(), nil))

	report := r.Run(context.Background())

	if report.OK {
		t.Fatal("run must not start without a notification destination")
	}
	if !strings.Contains(report.Message, "notification destination") {
		t.Fatalf("message should explain the precondition, got %q", report.Message)
	}
	if prober.calls != 0 {
		t.Fatalf("no target may be probed, got %d probes", prober.calls)
	}
	if report.StatusCode() != 500 {
		t.Fatalf("want 500, got %d", report.StatusCode())
	}
}

func TestRun_SourceErrorIsConfigurationError(t *testing.T) {
	prober := &fakeProber{}
	r := New(zap.NewNop(), source.Static{}, prober,
		reconcile.New(memory.New(), &countingNotifier{}))

	report := r.Run(context.Background())

	if report.OK || prober.calls != 0 {
		t.Fatalf("want aborted run with zero probes, got %+v probes=%d", report, prober.calls)
	}
	if !strings.Contains(report.Message, "configuration error") {
		t.Fatalf("unexpected message %q", report.Message)
	}
}

func TestRun_OneBadTargetDoesNotStopTheRest(t *testing.T) {
	flags := &flakyFlags{inner: memory.New(), failOn: "b.example"}
	prober := &fakeProber{}
	nt := &countingNotifier{}
	r := New(zap.NewNop(), source.Static{"a.example", "b.example", "c.example"},
		prober, reconcile.New(flags, nt))

	report := r.Run(context.Background())

	if !report.OK {
		t.Fatalf("per-target failure must not fail the run: %+v", report)
	}
	if len(report.Results) != 3 {
		t.Fatalf("want all targets evaluated, got %d", len(report.Results))
	}
	if report.Results[1].Err == "" {
		t.Fatal("failing target should carry its error")
	}
	if report.Results[0].Err != "" || report.Results[2].Err != "" {
		t.Fatalf("healthy targets must stay clean: %+v", report.Results)
	}
}
