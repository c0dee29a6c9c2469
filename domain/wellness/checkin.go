package wellness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	FirstCheckinReference = "This is our first check-in, excited to start!"
)

var ErrEmptyMood = errors.New("mood is required")

type Checkin struct {
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Mood       string   `json:"mood"`
	Objectives []string `json:"objectives"`
	Summary    string   `json:"summary"`
}

// Log is the append-only check-in history. Every write reloads the
// collection first so entries written by other processes are kept.
type Log struct {
	mu    sync.Mutex
	store recordstore.Store[Checkin]
	now   func() time.Time
}

type Option func(*Log)

func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

func NewLog(store recordstore.Store[Checkin], opts ...Option) (*Log, error) {
	if store == nil {
		return nil, errors.New("check-in store is required")
	}
	l := &Log{store: store, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// SplitObjectives turns "a, b,,c" into [a b c].
func SplitObjectives(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Record appends today's check-in. objectives is a comma-separated list.
func (l *Log) Record(ctx context.Context, mood, objectives, summary string) (Checkin, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return Checkin{}, ErrEmptyMood
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.loadLocked(ctx)
	if err != nil {
		return Checkin{}, fmt.Errorf("load check-ins: %w", err)
	}
	now := l.now()
	entry := Checkin{
		Date:       now.Format(dateLayout),
		Time:       now.Format(timeLayout),
		Mood:       mood,
		Objectives: SplitObjectives(objectives),
		Summary:    strings.TrimSpace(summary),
	}
	entries = append(entries, entry)

	if err := l.store.Save(ctx, entries); err != nil {
		return entry, fmt.Errorf("save check-in: %w", err)
	}
	log.Info().Str("date", entry.Date).Int("objectives", len(entry.Objectives)).Msg("check-in saved")
	return entry, nil
}

// Last returns the most recent check-in, if any.
func (l *Log) Last(ctx context.Context) (Checkin, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.loadLocked(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("check-in log unreadable")
		return Checkin{}, false
	}
	if len(entries) == 0 {
		return Checkin{}, false
	}
	return entries[len(entries)-1], true
}

// PastReference is the sentence the companion opens with.
func (l *Log) PastReference(ctx context.Context) string {
	last, ok := l.Last(ctx)
	if !ok {
		return FirstCheckinReference
	}
	return fmt.Sprintf(
		"Last time on %s, you felt %s. You aimed for: %s. How's that going, or how does today feel?",
		last.Date, last.Mood, strings.Join(last.Objectives, ", "),
	)
}

// loadLocked starts fresh only when the log is missing or undecodable.
// Any other failure is returned so a write never replaces a history it
// could not read.
func (l *Log) loadLocked(ctx context.Context) ([]Checkin, error) {
	entries, err := l.store.Load(ctx)
	switch {
	case err == nil:
		return entries, nil
	case errors.Is(err, recordstore.ErrNotFound):
		return nil, nil
	case errors.Is(err, recordstore.ErrCorrupt):
		log.Warn().Err(err).Msg("check-in log corrupt, starting fresh")
		return nil, nil
	default:
		return nil, err
	}
}
