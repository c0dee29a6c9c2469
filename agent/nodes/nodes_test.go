package conversationnode

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	now := func() time.Time { return testNow.In(time.FixedZone("IST", 19800)) }

	if _, err := ValidateRequest(GraphInput{SessionID: " ", Text: "hi"}, now); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("ValidateRequest() error = %v, want ErrInvalidSession", err)
	}
	if _, err := ValidateRequest(GraphInput{SessionID: "s1", Text: "\n"}, now); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("ValidateRequest() error = %v, want ErrInvalidMessage", err)
	}

	st, err := ValidateRequest(GraphInput{SessionID: " s1 ", Text: " hi "}, now)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if st.SessionID != "s1" || st.Text != "hi" || st.Now.Location() != time.UTC {
		t.Fatalf("ValidateRequest() = %#v", st)
	}
}

func TestLoadSessionState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := statex.NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}

	if _, _, err := LoadSessionState(ctx, store, "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("LoadSessionState() error = %v, want ErrSessionNotFound", err)
	}

	if err := store.Save(ctx, statex.NewSessionState("s1", "wellness", testNow)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	st, agentType, err := LoadSessionState(ctx, store, "s1")
	if err != nil {
		t.Fatalf("LoadSessionState() error = %v", err)
	}
	if st.SessionID != "s1" || agentType != contractx.AgentTypeWellness {
		t.Fatalf("LoadSessionState() = %#v, %s", st, agentType)
	}
}

func TestAppendTurnsAndFinalize(t *testing.T) {
	t.Parallel()

	in := &GraphState{
		Text:     "show mugs",
		Session:  statex.NewSessionState("s1", "shop", testNow),
		Response: contractx.TurnResponse{Message: " Here are two mugs. "},
	}
	if _, err := AppendTurns(in, 1); err != nil {
		t.Fatalf("AppendTurns() error = %v", err)
	}
	if len(in.Session.History) != 1 || in.Session.History[0].Role != statex.RoleAssistant {
		t.Fatalf("history = %#v", in.Session.History)
	}

	out, err := FinalizeReply(in)
	if err != nil {
		t.Fatalf("FinalizeReply() error = %v", err)
	}
	if out.Reply != "Here are two mugs." {
		t.Fatalf("FinalizeReply() = %q", out.Reply)
	}

	in.Response.Message = " "
	if _, err := FinalizeReply(in); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("FinalizeReply() error = %v, want ErrValidation", err)
	}
}

func TestSaveSessionRejectsInvalidState(t *testing.T) {
	t.Parallel()

	store, err := statex.NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	st := statex.NewSessionState("s1", "shop", testNow)
	st.History = append(st.History, statex.Turn{Role: "system", Content: "x"})

	if _, err := SaveSession(context.Background(), &GraphState{Session: st, Now: testNow}, store); !errors.Is(err, statex.ErrInvalidState) {
		t.Fatalf("SaveSession() error = %v, want ErrInvalidState", err)
	}
	if store.Len() != 0 {
		t.Fatal("invalid state was saved")
	}
}
