package transcribe

import "net/http"

const groqSTTEndpoint = "https://api.groq.com/openai/v1/audio/transcriptions"

// Groq request limits: 25MB uploads, chunk anything past 15 minutes.
var groqLimits = Limits{MaxBytes: 25 << 20, MaxDuration: 900}

// NewGroq builds the Groq whisper backend.
func NewGroq(apiKey, model string, cutter Cutter, chunker Chunker) Provider {
	return &whisperProvider{
		name:     "groq",
		endpoint: groqSTTEndpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: apiCallTimeout},
		chunked:  newChunkedCall(cutter, chunker, groqLimits, 30),
	}
}
