package wellness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

func newTestLog(t *testing.T) (*Log, *recordstore.JSONFile[Checkin]) {
	t.Helper()

	store, err := recordstore.NewJSONFile[Checkin](filepath.Join(t.TempDir(), "records", "wellness_log.json"))
	if err != nil {
		t.Fatalf("NewJSONFile() error = %v", err)
	}
	l, err := NewLog(store, WithClock(func() time.Time {
		return time.Date(2026, 5, 2, 8, 30, 15, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}
	return l, store
}

func TestSplitObjectives(t *testing.T) {
	t.Parallel()

	got := SplitObjectives(" walk 10 mins, , reply to emails ,read")
	want := []string{"walk 10 mins", "reply to emails", "read"}
	if !slices.Equal(got, want) {
		t.Fatalf("SplitObjectives() = %q, want %q", got, want)
	}
	if got := SplitObjectives(""); len(got) != 0 {
		t.Fatalf("SplitObjectives(\"\") = %q, want empty", got)
	}
}

func TestPastReferenceFirstCheckin(t *testing.T) {
	t.Parallel()

	l, _ := newTestLog(t)
	if got := l.PastReference(context.Background()); got != FirstCheckinReference {
		t.Fatalf("PastReference() = %q", got)
	}
}

func TestRecordAppendsAndReferencesLastEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l, store := newTestLog(t)

	if _, err := l.Record(ctx, "5/10, tired", "sleep early", "Low energy day."); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	entry, err := l.Record(ctx, "7/10, motivated", "walk, finish email", "Good energy.")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if entry.Date != "2026-05-02" || entry.Time != "08:30:15" {
		t.Fatalf("entry timestamp = %s %s", entry.Date, entry.Time)
	}

	all, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("stored %d entries, want 2", len(all))
	}

	want := "Last time on 2026-05-02, you felt 7/10, motivated. You aimed for: walk, finish email. How's that going, or how does today feel?"
	if got := l.PastReference(ctx); got != want {
		t.Fatalf("PastReference() = %q, want %q", got, want)
	}
}

func TestRecordRequiresMood(t *testing.T) {
	t.Parallel()

	l, _ := newTestLog(t)
	if _, err := l.Record(context.Background(), "  ", "x", "y"); !errors.Is(err, ErrEmptyMood) {
		t.Fatalf("Record() error = %v, want ErrEmptyMood", err)
	}
}

type flakyStore struct {
	entries []Checkin
	loadErr error
	saves   int
}

func (f *flakyStore) Load(context.Context) ([]Checkin, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]Checkin(nil), f.entries...), nil
}

func (f *flakyStore) Save(_ context.Context, records []Checkin) error {
	f.saves++
	f.entries = append([]Checkin(nil), records...)
	return nil
}

func TestRecordKeepsHistoryWhenLoadFails(t *testing.T) {
	t.Parallel()

	store := &flakyStore{
		entries: []Checkin{{Date: "2026-04-29"}, {Date: "2026-04-30"}, {Date: "2026-05-01"}},
		loadErr: fmt.Errorf("%w: select wellness_log: connection reset", recordstore.ErrPersistence),
	}
	l, err := NewLog(store)
	if err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}

	if _, err := l.Record(context.Background(), "6/10", "walk", "ok"); !errors.Is(err, recordstore.ErrPersistence) {
		t.Fatalf("Record() error = %v, want ErrPersistence", err)
	}
	if store.saves != 0 || len(store.entries) != 3 {
		t.Fatalf("saves = %d, entries = %d, want history untouched", store.saves, len(store.entries))
	}
	if _, ok := l.Last(context.Background()); ok {
		t.Fatal("Last() found an entry in an unreadable log")
	}
}

func TestRecordStartsFreshOnCorruptLog(t *testing.T) {
	t.Parallel()

	l, store := newTestLog(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("[{broken"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := l.Record(context.Background(), "7/10", "read", "fine"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	all, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("stored %d entries, want 1", len(all))
	}
}
