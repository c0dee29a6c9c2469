package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tanpawarit/Chative-Voice-Commerce/agent/agents/conversation"
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	qstashx "github.com/tanpawarit/Chative-Voice-Commerce/pkg/qstash"
)

type scriptedConversations struct {
	replies map[string]string
	closed  []string
}

func (s *scriptedConversations) Open(ctx context.Context, agentType contractx.AgentType) (string, string, error) {
	return "s1", "Namaste!", nil
}

func (s *scriptedConversations) HandleMessage(ctx context.Context, sessionID string, text string) (conversation.Reply, error) {
	reply, ok := s.replies[text]
	if !ok {
		return conversation.Reply{}, contractx.ErrModelInvoke
	}
	return conversation.Reply{Message: reply}, nil
}

func (s *scriptedConversations) Close(ctx context.Context, sessionID string) error {
	s.closed = append(s.closed, sessionID)
	return nil
}

func TestRunREPL(t *testing.T) {
	t.Parallel()

	svc := &scriptedConversations{replies: map[string]string{"show mugs": "We have two mugs."}}
	in := strings.NewReader("show mugs\n\nsomething odd\nquit\nnever read\n")
	var out bytes.Buffer

	if err := runREPL(context.Background(), svc, contractx.AgentTypeShop, in, &out); err != nil {
		t.Fatalf("runREPL() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"shop: Namaste!", "shop: We have two mugs.", "shop: " + replFallback} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if len(svc.closed) != 1 || svc.closed[0] != "s1" {
		t.Fatalf("closed = %v", svc.closed)
	}
}

type failingOpen struct{ scriptedConversations }

func (failingOpen) Open(context.Context, contractx.AgentType) (string, string, error) {
	return "", "", conversation.ErrAgentUnavailable
}

func TestRunREPLOpenFailure(t *testing.T) {
	t.Parallel()

	err := runREPL(context.Background(), &failingOpen{}, contractx.AgentTypeAdventure, strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, conversation.ErrAgentUnavailable) {
		t.Fatalf("runREPL() error = %v, want ErrAgentUnavailable", err)
	}
}

func TestOrderHookURL(t *testing.T) {
	t.Parallel()

	app := AppConfig{PublicURL: "https://shop.example.com/"}
	if got := orderHookURL(app, qstashx.Config{CurrentSigningKey: "k"}); got != "https://shop.example.com/v1/hooks/orders" {
		t.Fatalf("orderHookURL() = %q", got)
	}
	if got := orderHookURL(app, qstashx.Config{}); got != "" {
		t.Fatalf("orderHookURL() without key = %q", got)
	}
	if got := orderHookURL(AppConfig{}, qstashx.Config{CurrentSigningKey: "k"}); got != "" {
		t.Fatalf("orderHookURL() without public url = %q", got)
	}
}
