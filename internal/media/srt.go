package media

import (
	"fmt"
	"strings"

	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
)

// FormatSRT renders segments as a SubRip document. Translated text
// wins over the original when both are present.
func FormatSRT(segments []transcribe.Segment) string {
	var b strings.Builder
	index := 1

	for _, seg := range segments {
		text := seg.Translated
		if strings.TrimSpace(text) == "" {
			text = seg.Text
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			index, srtTimestamp(seg.Start), srtTimestamp(seg.End), text)
		index++
	}

	return b.String()
}

// srtTimestamp formats seconds as HH:MM:SS,mmm.
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int64(seconds*1000 + 0.5)
	ms := totalMs % 1000
	totalSec := totalMs / 1000
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
