package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newUpstashTestStore(t *testing.T, handler http.HandlerFunc, opts ...StoreOption) *UpstashRedisStore {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]StoreOption{WithHTTPClient(server.Client())}, opts...)
	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, opts...)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	return store
}

func TestUpstashRedisStoreRedisKey(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	got, err := store.redisKey("abc")
	if err != nil {
		t.Fatalf("redisKey() error = %v", err)
	}
	if got != "voice:session:abc" {
		t.Fatalf("redisKey() = %q, want %q", got, "voice:session:abc")
	}
}

func TestUpstashRedisStoreRedisKeyEmptySession(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{}
	_, err := store.redisKey("   ")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("redisKey() error = %v, want ErrInvalidSession", err)
	}
}

func TestNewUpstashRedisStoreRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cases := []UpstashRedisConfig{
		{URL: "", Token: "token"},
		{URL: "not a url", Token: "token"},
		{URL: "https://example.upstash.io", Token: " "},
	}
	for _, cfg := range cases {
		if _, err := NewUpstashRedisStore(cfg); err == nil {
			t.Fatalf("NewUpstashRedisStore(%+v) error = nil", cfg)
		}
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("NewUpstashRedisStore() with negative ttl error = nil")
	}
}

func TestUpstashRedisStoreSaveSendsSetWithExpiry(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	var gotAuth string
	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":"OK"}`)
	}, WithKeyPrefix("shop:"), WithTTL(90*time.Minute))

	state := NewSessionState("session-1", "shop", time.Now())
	state.EnsureShop().RecordSearch("mug")
	if err := store.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if gotAuth != "Bearer token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if len(gotCommand) != 5 {
		t.Fatalf("unexpected command: %#v", gotCommand)
	}
	if gotCommand[0] != "SET" || gotCommand[1] != "shop:session-1" {
		t.Fatalf("command = %v %v, want SET shop:session-1", gotCommand[0], gotCommand[1])
	}
	if gotCommand[3] != "EX" || gotCommand[4] != float64(5400) {
		t.Fatalf("expiry = %v %v, want EX 5400", gotCommand[3], gotCommand[4])
	}
}

func TestUpstashRedisStoreSaveWithoutTTL(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":"OK"}`)
	}, WithTTL(0))

	if err := store.Save(context.Background(), NewSessionState("s", "shop", time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(gotCommand) != 3 {
		t.Fatalf("command = %#v, want SET without EX", gotCommand)
	}
}

func TestUpstashRedisStoreSaveRejectsInvalidState(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{now: time.Now}
	if err := store.Save(context.Background(), nil); !errors.Is(err, ErrNilSessionState) {
		t.Fatalf("Save(nil) error = %v, want ErrNilSessionState", err)
	}
	if err := store.Save(context.Background(), &SessionState{}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save(empty) error = %v, want ErrInvalidSession", err)
	}
	if err := store.Save(context.Background(), &SessionState{SessionID: "s"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Save(no agent) error = %v, want ErrInvalidState", err)
	}
}

func TestUpstashRedisStoreLoadRoundTrip(t *testing.T) {
	t.Parallel()

	seed := NewSessionState("session-2", "shop", time.Now())
	seed.AppendTurn(RoleUser, "show me mugs", 0)
	payload, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	encoded, err := json.Marshal(string(payload))
	if err != nil {
		t.Fatalf("marshal encoded seed: %v", err)
	}

	var gotCommand []any
	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprintf(w, `{"result":%s}`, encoded)
	})

	st, err := store.Load(context.Background(), "session-2")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.SessionID != "session-2" || len(st.History) != 1 {
		t.Fatalf("Load() = %#v", st)
	}
	if gotCommand[0] != "GET" || gotCommand[1] != "voice:session:session-2" {
		t.Fatalf("command = %#v", gotCommand)
	}
}

func TestUpstashRedisStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":null}`)
	})
	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound", err)
	}
}

func TestUpstashRedisStoreSurfacesErrors(t *testing.T) {
	t.Parallel()

	restError := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"WRONGPASS invalid password"}`)
	})
	if _, err := restError.Load(context.Background(), "s"); err == nil || err.Error() != "WRONGPASS invalid password" {
		t.Fatalf("Load() error = %v", err)
	}

	statusError := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if err := statusError.Delete(context.Background(), "s"); err == nil {
		t.Fatal("Delete() error = nil, want status error")
	}
}

func TestUpstashRedisStoreDelete(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":1}`)
	})

	if err := store.Delete(context.Background(), "session-3"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(gotCommand) != 2 || gotCommand[0] != "DEL" || gotCommand[1] != "voice:session:session-3" {
		t.Fatalf("command = %#v", gotCommand)
	}
}

func TestTTLSeconds(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]int64{
		time.Millisecond:        1,
		time.Second:             1,
		1500 * time.Millisecond: 2,
		time.Hour:               3600,
	}
	for in, want := range cases {
		if got := ttlSeconds(in); got != want {
			t.Fatalf("ttlSeconds(%v) = %d, want %d", in, got, want)
		}
	}
}
