package qstash

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestPublish(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"messageId":"msg_123"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	id, err := client.Publish(context.Background(), "https://shop.example.com/v1/hooks/orders", map[string]any{"id": "ORD-1"})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if id != "msg_123" {
		t.Fatalf("Publish() = %q", id)
	}
	if gotPath != "/v2/publish/https://shop.example.com/v1/hooks/orders" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" || gotBody["id"] != "ORD-1" {
		t.Fatalf("auth = %q, body = %#v", gotAuth, gotBody)
	}
}

func TestPublishErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL, Token: "bad"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := client.Publish(context.Background(), "https://x.example.com", 1); !errors.Is(err, ErrPublish) {
		t.Fatalf("Publish() error = %v, want ErrPublish", err)
	}
	if _, err := client.Publish(context.Background(), " ", 1); !errors.Is(err, ErrPublish) {
		t.Fatalf("Publish() error = %v, want ErrPublish", err)
	}

	noToken, err := NewClient(Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := noToken.Publish(context.Background(), "https://x.example.com", 1); !errors.Is(err, ErrPublish) {
		t.Fatalf("Publish() error = %v, want ErrPublish", err)
	}

	if _, err := NewClient(Config{URL: "not a url"}); err == nil {
		t.Fatal("NewClient() with bad url should fail")
	}
}

func sign(t *testing.T, key, subject string, body []byte, now time.Time) string {
	t.Helper()

	sum := sha256.Sum256(body)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, signatureClaims{
		Body: base64.URLEncoding.EncodeToString(sum[:]),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    signatureIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		},
	})
	signed, err := token.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func TestVerify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	client, err := NewClient(Config{URL: "https://qstash.upstash.io", CurrentSigningKey: "current", NextSigningKey: "next"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.now = func() time.Time { return now }

	const hook = "https://shop.example.com/v1/hooks/orders"
	body := []byte(`{"id":"ORD-1"}`)

	if err := client.Verify(sign(t, "current", hook, body, now), body, hook); err != nil {
		t.Fatalf("Verify(current) error = %v", err)
	}
	if err := client.Verify(sign(t, "next", hook, body, now), body, hook); err != nil {
		t.Fatalf("Verify(next) error = %v", err)
	}

	cases := map[string]string{
		"wrong key":     sign(t, "other", hook, body, now),
		"wrong subject": sign(t, "current", "https://evil.example.com", body, now),
		"tampered body": sign(t, "current", hook, []byte(`{"id":"ORD-2"}`), now),
		"expired":       sign(t, "current", hook, body, now.Add(-time.Hour)),
		"missing":       "",
	}
	for name, sig := range cases {
		if err := client.Verify(sig, body, hook); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("%s: Verify() error = %v, want ErrInvalidSignature", name, err)
		}
	}
}
