package transcribe

import "strings"

// dedupBufferSec is the tolerance applied when deciding whether a
// shifted segment is a near-duplicate artifact of the chunk overlap.
const dedupBufferSec = 1.0

// MergeChunks reconciles per-chunk results from consecutive windows of
// the same input into one offset-corrected, deduplicated result.
//
// Offsets assume every chunk was cut at an exact stride boundary: the
// running offset grows by the configured stride after each chunk, not
// by the chunk's decoded length. A segment is dropped when its shifted
// start lies more than dedupBufferSec before the end of the last
// accepted segment; a start exactly at that boundary is kept.
//
// The merged full text is joined from the deduplicated segments, so
// text and segments always agree.
func MergeChunks(chunks []Result, strideSec float64) Result {
	if len(chunks) == 0 {
		return Result{}
	}

	merged := Result{
		Language: chunks[0].Language,
		Provider: chunks[0].Provider,
	}

	offset := 0.0
	for _, chunk := range chunks {
		for _, seg := range chunk.Segments {
			shifted := Segment{
				Start: seg.Start + offset,
				End:   seg.End + offset,
				Text:  strings.TrimSpace(seg.Text),
			}

			if n := len(merged.Segments); n > 0 {
				lastEnd := merged.Segments[n-1].End
				if shifted.Start < lastEnd-dedupBufferSec {
					continue
				}
			}

			merged.Segments = append(merged.Segments, shifted)
		}
		offset += strideSec
	}

	texts := make([]string, 0, len(merged.Segments))
	for _, seg := range merged.Segments {
		if seg.Text != "" {
			texts = append(texts, seg.Text)
		}
	}
	merged.Text = strings.Join(texts, " ")

	return merged
}
