package transcribe

import "testing"

// TestMergeChunksOffsets verifies stride-based shifting across chunks.
func TestMergeChunksOffsets(t *testing.T) {
	chunks := []Result{
		{Language: "en", Provider: "groq", Segments: []Segment{{Start: 0, End: 5, Text: "one"}}},
		{Segments: []Segment{{Start: 2, End: 7, Text: "two"}}},
		{Segments: []Segment{{Start: 1, End: 4, Text: "three"}}},
	}

	merged := MergeChunks(chunks, 600)

	if len(merged.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(merged.Segments))
	}
	wantStarts := []float64{0, 602, 1201}
	for i, want := range wantStarts {
		if merged.Segments[i].Start != want {
			t.Fatalf("segment %d start = %v, want %v", i, merged.Segments[i].Start, want)
		}
	}
	if merged.Language != "en" || merged.Provider != "groq" {
		t.Fatalf("language/provider = %s/%s, want en/groq", merged.Language, merged.Provider)
	}
}

// TestMergeChunksDedupBoundary exercises the literal 1-second buffer:
// a shifted start exactly at lastEnd-1.0 is accepted, anything earlier
// is rejected as an overlap artifact.
func TestMergeChunksDedupBoundary(t *testing.T) {
	chunks := []Result{
		{Segments: []Segment{
			{Start: 0, End: 5, Text: "a"},
			{Start: 598, End: 601, Text: "b"},
		}},
		{Segments: []Segment{
			{Start: 0, End: 3, Text: "b-cont"}, // shifts to start 600 == 601-1.0: kept
			{Start: 5, End: 10, Text: "c"},
		}},
	}

	merged := MergeChunks(chunks, 600)

	if len(merged.Segments) != 4 {
		t.Fatalf("segments = %d, want 4: %+v", len(merged.Segments), merged.Segments)
	}
	if merged.Segments[2].Start != 600 || merged.Segments[2].Text != "b-cont" {
		t.Fatalf("boundary segment = %+v, want start 600 kept", merged.Segments[2])
	}
}

// TestMergeChunksRejectsOverlapArtifact drops a segment starting
// strictly inside the buffer window.
func TestMergeChunksRejectsOverlapArtifact(t *testing.T) {
	chunks := []Result{
		{Segments: []Segment{{Start: 598, End: 601.5, Text: "tail"}}},
		{Segments: []Segment{
			{Start: 0, End: 3, Text: "dup"}, // shifts to 600 < 601.5-1.0: dropped
			{Start: 4, End: 8, Text: "next"},
		}},
	}

	merged := MergeChunks(chunks, 600)

	if len(merged.Segments) != 2 {
		t.Fatalf("segments = %d, want 2: %+v", len(merged.Segments), merged.Segments)
	}
	if merged.Segments[1].Text != "next" {
		t.Fatalf("kept segment = %q, want next", merged.Segments[1].Text)
	}
}

// TestMergeChunksTextMatchesSegments verifies full text is derived
// from the deduplicated segments, not the raw chunk texts.
func TestMergeChunksTextMatchesSegments(t *testing.T) {
	chunks := []Result{
		{Text: "hello tail", Segments: []Segment{{Start: 598, End: 602, Text: "hello tail"}}},
		{Text: "tail again world", Segments: []Segment{
			{Start: 0, End: 2, Text: "tail again"}, // dropped as overlap artifact
			{Start: 3, End: 6, Text: "world"},
		}},
	}

	merged := MergeChunks(chunks, 600)

	if merged.Text != "hello tail world" {
		t.Fatalf("text = %q, want %q", merged.Text, "hello tail world")
	}
}

// TestMergeChunksEmpty returns a zero result for no chunks.
func TestMergeChunksEmpty(t *testing.T) {
	merged := MergeChunks(nil, 600)
	if merged.Text != "" || len(merged.Segments) != 0 {
		t.Fatalf("merge of nothing = %+v, want zero result", merged)
	}
}
