package memory

import (
	"context"
	"testing"
	"time"

	"github.com/pingwatch/pingwatch/internal/domain"
)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	st, err := s.State(ctx, "example.com")
	if err != nil || st != domain.FlagAbsent {
		t.Fatalf("want absent, got %v err=%v", st, err)
	}

	at := time.Unix(1_756_000_000, 0)
	if err := s.Create(ctx, "example.com", at); err != nil {
		t.Fatal(err)
	}
	st, _ = s.State(ctx, "example.com")
	if st != domain.FlagPresent {
		t.Fatalf("want present, got %v", st)
	}

	f, ok := s.Get("example.com")
	if !ok || f.Status != "down" || f.Timestamp != at.Unix() {
		t.Fatalf("unexpected stored flag: %+v ok=%v", f, ok)
	}

	if err := s.Delete(ctx, "example.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "example.com"); err != nil {
		t.Fatalf("repeat delete should be a no-op: %v", err)
	}
	st, _ = s.State(ctx, "example.com")
	if st != domain.FlagAbsent {
		t.Fatalf("want absent after delete, got %v", st)
	}
}
