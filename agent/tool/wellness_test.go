package tool

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/wellness"
	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

func TestSaveCheckin(t *testing.T) {
	t.Parallel()

	store, err := recordstore.NewJSONFile[wellness.Checkin](filepath.Join(t.TempDir(), "wellness_log.json"))
	if err != nil {
		t.Fatalf("NewJSONFile() error = %v", err)
	}
	checkins, err := wellness.NewLog(store, wellness.WithClock(func() time.Time {
		return time.Date(2026, 5, 2, 7, 30, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}
	exec := NewExecutor(contractx.AgentTypeWellness, Deps{Checkins: checkins}, nil)

	got := runTool(t, exec, ToolSaveCheckin, map[string]any{
		"mood":       "7/10, feeling motivated",
		"objectives": "walk for 10 mins, finish email, ",
		"summary":    "User felt good and set two goals.",
	})
	if got != "Check-in saved. Thanks for sharing, have a great day!" {
		t.Fatalf("save_checkin = %q", got)
	}

	last, ok := checkins.Last(context.Background())
	if !ok {
		t.Fatal("Last() found nothing")
	}
	if last.Date != "2026-05-02" || !slices.Equal(last.Objectives, []string{"walk for 10 mins", "finish email"}) {
		t.Fatalf("Last() = %#v", last)
	}

	empty := runTool(t, exec, ToolSaveCheckin, map[string]any{"mood": " ", "objectives": "", "summary": ""})
	if empty != "I didn't catch how you're feeling yet. How would you describe your mood today?" {
		t.Fatalf("save_checkin = %q", empty)
	}
}
