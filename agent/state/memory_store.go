package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. States are stored encoded so
// callers never share a pointer with the store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewMemoryStore(opts ...StoreOption) (*MemoryStore, error) {
	o := defaultStoreOptions()
	if err := o.apply(opts); err != nil {
		return nil, err
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     o.ttl,
		now:     o.now,
	}, nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*SessionState, error) {
	key, err := sessionKey("", sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrStateNotFound
	}
	return decodeState(entry.payload)
}

func (s *MemoryStore) Save(_ context.Context, st *SessionState) error {
	now := s.now()
	payload, err := encodeState(st, now)
	if err != nil {
		return err
	}

	entry := memoryEntry{payload: payload}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.sweepLocked(now)
	s.entries[st.SessionID] = entry
	s.mu.Unlock()
	return nil
}

// sweepLocked drops every expired entry, so sessions that are never
// loaded or deleted again do not stay in memory.
func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, entry := range s.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	key, err := sessionKey("", sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
