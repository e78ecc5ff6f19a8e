package transcribe

// Segment is one time-stamped utterance of transcribed text.
type Segment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Translated string  `json:"translated,omitempty"`
}

// Result is the uniform transcription outcome across all providers.
type Result struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
	Provider string    `json:"provider"`
}

// Audio is the input to a provider: either a file on disk or raw
// 16-bit 16kHz mono PCM frames from a live connection.
type Audio struct {
	Path string
	PCM  []byte
}

// FromPath wraps an on-disk audio file.
func FromPath(path string) Audio {
	return Audio{Path: path}
}

// FromPCM wraps raw PCM bytes.
func FromPCM(pcm []byte) Audio {
	return Audio{PCM: pcm}
}

// ProgressFunc is called with (completedChunks, totalChunks) while a
// provider works through a chunked input. May be nil.
type ProgressFunc func(completed, total int)
