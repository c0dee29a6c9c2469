package qstash

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SignatureHeader = "Upstash-Signature"

	signatureIssuer      = "Upstash"
	maxResponseSizeBytes = 1 << 20
)

var (
	ErrPublish          = errors.New("qstash publish failed")
	ErrInvalidSignature = errors.New("qstash signature is invalid")
)

type Config struct {
	URL               string        `split_words:"true" default:"https://qstash.upstash.io"`
	Token             string        `split_words:"true"`
	CurrentSigningKey string        `split_words:"true"`
	NextSigningKey    string        `split_words:"true"`
	Destination       string        `split_words:"true"`
	Timeout           time.Duration `split_words:"true" default:"10s"`
}

// Enabled reports whether publishing is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.Destination) != ""
}

type Client struct {
	baseURL           string
	token             string
	currentSigningKey string
	nextSigningKey    string
	httpClient        *http.Client
	now               func() time.Time
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("qstash url is required")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		token:             strings.TrimSpace(cfg.Token),
		currentSigningKey: strings.TrimSpace(cfg.CurrentSigningKey),
		nextSigningKey:    strings.TrimSpace(cfg.NextSigningKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}

	return client, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type publishResponse struct {
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// Publish queues payload as JSON for delivery to destination and returns
// the QStash message id.
func (c *Client) Publish(ctx context.Context, destination string, payload any) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", fmt.Errorf("%w: destination is required", ErrPublish)
	}
	if c.token == "" {
		return "", fmt.Errorf("%w: token is required", ErrPublish)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encode payload: %v", ErrPublish, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/publish/"+destination, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrPublish, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPublish, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrPublish, err)
	}

	var out publishResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", fmt.Errorf("%w: decode response: %v", ErrPublish, err)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(out.Error)
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrPublish, resp.StatusCode, msg)
	}
	if out.MessageID == "" {
		return "", fmt.Errorf("%w: response has no message id", ErrPublish)
	}
	return out.MessageID, nil
}

type signatureClaims struct {
	Body string `json:"body"`
	jwt.RegisteredClaims
}

// Verify checks a delivery's Upstash-Signature against the current signing
// key, falling back to the next key during rotation.
func (c *Client) Verify(signature string, body []byte, deliveryURL string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return fmt.Errorf("%w: signature is missing", ErrInvalidSignature)
	}

	var errs []error
	for _, key := range []string{c.currentSigningKey, c.nextSigningKey} {
		if key == "" {
			continue
		}
		err := c.verifyWithKey(key, signature, body, deliveryURL)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return fmt.Errorf("%w: no signing key configured", ErrInvalidSignature)
	}
	return fmt.Errorf("%w: %v", ErrInvalidSignature, errors.Join(errs...))
}

func (c *Client) verifyWithKey(key, signature string, body []byte, deliveryURL string) error {
	var claims signatureClaims
	_, err := jwt.ParseWithClaims(signature, &claims,
		func(*jwt.Token) (any, error) { return []byte(key), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(signatureIssuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return err
	}
	if deliveryURL != "" && claims.Subject != deliveryURL {
		return fmt.Errorf("subject %q does not match %q", claims.Subject, deliveryURL)
	}

	sum := sha256.Sum256(body)
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	if strings.TrimRight(claims.Body, "=") != want {
		return errors.New("body hash mismatch")
	}
	return nil
}
