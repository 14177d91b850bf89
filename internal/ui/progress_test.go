package ui

import (
	"strings"
	"testing"

	"coreasm/internal/batch"
)

func TestProgressModel_ApplyEvents(t *testing.T) {
	m := NewProgressModel("emitting", []string{"a", "b"}, nil).(*progressModel)

	m.applyEvent(batch.Event{Name: "a", Stage: batch.StageEmit, Status: batch.StatusWorking})
	if m.items[0].status != "emitting" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(batch.Event{Name: "a", Stage: batch.StageEmit, Status: batch.StatusCached})
	m.applyEvent(batch.Event{Name: "a", Stage: batch.StageWrite, Status: batch.StatusDone})
	if !m.items[0].finished || m.items[0].status != "cached" {
		t.Fatalf("item a = %+v", m.items[0])
	}
	m.applyEvent(batch.Event{Name: "b", Stage: batch.StageResolve, Status: batch.StatusError})
	if m.items[1].status != "error" {
		t.Fatalf("item b = %+v", m.items[1])
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	m.applyEvent(batch.Event{Name: "unknown", Status: batch.StatusError})

	view := m.View()
	if !strings.Contains(view, "emitting (2/2)") {
		t.Fatalf("view header missing:\n%s", view)
	}
}

func TestProgressModel_PartialPercent(t *testing.T) {
	m := NewProgressModel("x", []string{"a", "b"}, nil).(*progressModel)
	m.applyEvent(batch.Event{Name: "a", Stage: batch.StageEmit, Status: batch.StatusWorking})
	if got := m.percent(); got != 0.3 {
		t.Fatalf("percent = %v, want 0.3", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello.toml@x86_64-linux", 0, "hello.toml@x86_64-linux"},
		{"short", 10, "short"},
		{"hello.toml@x86_64-linux", 10, "hell..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
