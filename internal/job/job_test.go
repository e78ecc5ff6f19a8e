package job

import (
	"testing"

	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
)

func TestNewJobStartsPending(t *testing.T) {
	j := New("in.mp4", "auto", "es")
	if j.Status != StatusPending || j.Progress != 0 {
		t.Fatalf("new job = %s/%d, want PENDING/0", j.Status, j.Progress)
	}
	if j.ID == "" {
		t.Fatal("new job must get an ID")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	j := New("in.mp4", "en", "es")
	j.Segments = []transcribe.Segment{{Start: 0, End: 1, Text: "a"}}

	snap := j.Snapshot()
	j.Segments[0].Text = "mutated"

	if snap.Segments[0].Text != "a" {
		t.Error("snapshot shares segment backing array with the job")
	}
}

func TestFromSnapshotToleratesMissingFields(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"only id", `{"id":"abc"}`},
		{"empty object", `{}`},
		{"partial", `{"status":"TRANSCRIBING","progress":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := FromSnapshot([]byte(tt.data))
			if err != nil {
				t.Fatalf("FromSnapshot: %v", err)
			}
			if j.ID == "" {
				t.Error("restored job must have an ID")
			}
			if j.Status == "" {
				t.Error("restored job must have a status")
			}
		})
	}
}

func TestFromSnapshotRejectsGarbage(t *testing.T) {
	if _, err := FromSnapshot([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid snapshot")
	}
}

func TestTerminal(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusPending: false, StatusTranscribing: false,
		StatusDone: true, StatusError: true,
	} {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	j := New("in.mp4", "en", "")
	store.Put(j.Snapshot())

	got, err := store.Get(j.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != j.ID {
		t.Errorf("Get returned wrong job: %s", got.ID)
	}

	if len(store.List()) != 1 {
		t.Error("List should return the stored job")
	}

	store.Delete(j.ID)
	if _, err := store.Get(j.ID); err == nil {
		t.Error("Get after Delete should fail")
	}
}
