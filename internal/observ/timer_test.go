package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimer_SummaryListsPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("resolve")
	tm.End(idx, "x86_64-linux")
	tm.Record("emit", 2*time.Millisecond, "")
	tm.End(99, "ignored")

	s := tm.Summary()
	for _, want := range []string{"timings:\n", "resolve", "// x86_64-linux", "emit", "2.00 ms", "total"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestTimer_ReportTotals(t *testing.T) {
	tm := NewTimer()
	if r := tm.Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
	tm.Record("a", time.Millisecond, "")
	tm.Record("b", 3*time.Millisecond, "note")
	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[1].Note != "note" {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.TotalMS != 4 {
		t.Fatalf("TotalMS = %v, want 4", r.TotalMS)
	}
}

func TestTimer_ConcurrentUse(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("worker"), "")
		}()
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 8 {
		t.Fatalf("phases = %d, want 8", n)
	}
}
