package media

import (
	"strings"
	"testing"

	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
)

func TestSrtTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.042, "00:01:01,042"},
		{3661.999, "01:01:01,999"},
		{-3, "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := srtTimestamp(tt.seconds); got != tt.want {
			t.Errorf("srtTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatSRT(t *testing.T) {
	segments := []transcribe.Segment{
		{Start: 0, End: 2.5, Text: "hello world"},
		{Start: 2.5, End: 5, Text: "second line", Translated: "segunda linea"},
		{Start: 5, End: 6, Text: "   "},
	}

	got := FormatSRT(segments)

	want := "1\n00:00:00,000 --> 00:00:02,500\nhello world\n\n" +
		"2\n00:00:02,500 --> 00:00:05,000\nsegunda linea\n\n"
	if got != want {
		t.Errorf("FormatSRT mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}

	if strings.Contains(got, "3\n") {
		t.Error("blank segment should be skipped, not numbered")
	}
}

func TestFormatSRTEmpty(t *testing.T) {
	if got := FormatSRT(nil); got != "" {
		t.Errorf("FormatSRT(nil) = %q, want empty", got)
	}
}
