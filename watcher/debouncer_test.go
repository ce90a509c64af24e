package watcher

import (
	"sort"
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func receiveBatch(t *testing.T, d *Debouncer, timeout time.Duration) []Event {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for batch")
		return nil
	}
}

func Test_Debouncer_SingleEvent(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("main.go", OpChange)
	batch := receiveBatch(t, d, 500*time.Millisecond)

	if len(batch) != 1 {
		t.Fatalf("expected 1 event, got %d", len(batch))
	}
	if batch[0].Path != "main.go" || batch[0].Op != OpChange {
		t.Errorf("unexpected event %+v", batch[0])
	}
}

func Test_Debouncer_CollapsesSamePath(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("main.go", OpChange)
	d.Add("main.go", OpRemove)
	batch := receiveBatch(t, d, 500*time.Millisecond)

	if len(batch) != 1 {
		t.Fatalf("expected collapsed event, got %d", len(batch))
	}
	if batch[0].Op != OpRemove {
		t.Errorf("expected latest op to win, got %v", batch[0].Op)
	}
}

func Test_Debouncer_MultiplePaths(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("main.go", OpChange)
	d.Add("util.go", OpChange)
	d.Add("gone.go", OpRemove)
	batch := receiveBatch(t, d, 500*time.Millisecond)

	if len(batch) != 3 {
		t.Fatalf("expected 3 events, got %d", len(batch))
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	want := []string{"gone.go", "main.go", "util.go"}
	for i, path := range want {
		if batch[i].Path != path {
			t.Errorf("event[%d]: expected %s, got %s", i, path, batch[i].Path)
		}
	}
}

func Test_Debouncer_TimerReset(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("main.go", OpChange)
	time.Sleep(testInterval / 2)
	d.Add("util.go", OpChange)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 2 {
		t.Fatalf("expected both events in one batch, got %d", len(batch))
	}
}
