package transcribe

// Window is one planned audio chunk: a stride-aligned start plus an
// overlap-extended length.
type Window struct {
	Start  float64
	Length float64
}

// Limits are the per-provider thresholds above which an input must be
// chunked. Deepgram accepts larger single requests than the
// whisper-style APIs, so each provider carries its own pair.
type Limits struct {
	MaxBytes    int64
	MaxDuration float64
}

// Exceeded reports whether the input trips either threshold.
func (l Limits) Exceeded(sizeBytes int64, duration float64) bool {
	return sizeBytes > l.MaxBytes || duration > l.MaxDuration
}

// Chunker plans overlapping fixed-stride windows over long audio.
type Chunker struct {
	ChunkDuration float64
	Overlap       float64
}

// NewChunker builds a planner from second counts, falling back to the
// 600s/10s defaults for non-positive values.
func NewChunker(chunkDurationSec, overlapSec int) Chunker {
	c := Chunker{ChunkDuration: float64(chunkDurationSec), Overlap: float64(overlapSec)}
	if c.ChunkDuration <= 0 {
		c.ChunkDuration = 600
	}
	if c.Overlap < 0 {
		c.Overlap = 10
	}
	return c
}

// Plan returns the windows covering an input of the given duration.
// Inputs no longer than one overlap-extended chunk stay whole. Windows
// start at 0, stride, 2*stride, ... and stop at the first start with
// less than one full stride of audio remaining; the previous window's
// overlap reaches into that tail.
func (c Chunker) Plan(duration float64) []Window {
	if duration <= c.ChunkDuration+c.Overlap {
		return []Window{{Start: 0, Length: duration}}
	}

	var windows []Window
	for start := 0.0; duration-start >= c.ChunkDuration; start += c.ChunkDuration {
		windows = append(windows, Window{Start: start, Length: c.ChunkDuration + c.Overlap})
	}
	return windows
}
