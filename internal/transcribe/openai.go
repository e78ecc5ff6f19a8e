package transcribe

import "net/http"

const openAISTTEndpoint = "https://api.openai.com/v1/audio/transcriptions"

// OpenAI shares the Groq-style whisper limits.
var openAILimits = Limits{MaxBytes: 25 << 20, MaxDuration: 900}

// NewOpenAI builds the OpenAI whisper backend.
func NewOpenAI(apiKey, model string, cutter Cutter, chunker Chunker) Provider {
	return &whisperProvider{
		name:     "openai",
		endpoint: openAISTTEndpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: apiCallTimeout},
		chunked:  newChunkedCall(cutter, chunker, openAILimits, 30),
	}
}
