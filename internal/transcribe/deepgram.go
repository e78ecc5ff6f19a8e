package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

const deepgramSTTEndpoint = "https://api.deepgram.com/v1/listen"

// Deepgram accepts much larger single requests; chunking only engages
// for stability on very long inputs.
var deepgramLimits = Limits{MaxBytes: 50 << 20, MaxDuration: 1200}

// utteranceSpanSec is the word-span width used to rebuild segments
// from Deepgram's flat word list.
const utteranceSpanSec = 3.0

// deepgramProvider calls the raw listen API with round-robin key
// rotation across the pool.
type deepgramProvider struct {
	endpoint string
	keys     *KeyPool
	model    string
	client   *http.Client
	chunked  chunkedCall
}

// NewDeepgram builds the Deepgram backend over a credential pool.
func NewDeepgram(keys []string, cutter Cutter, chunker Chunker) Provider {
	return &deepgramProvider{
		endpoint: deepgramSTTEndpoint,
		keys:     NewKeyPool(keys),
		model:    "nova-2",
		client:   &http.Client{Timeout: apiCallTimeout},
		chunked:  newChunkedCall(cutter, chunker, deepgramLimits, 30),
	}
}

// deepgramResponse mirrors the nested listen wire format.
type deepgramResponse struct {
	Metadata struct {
		Language string `json:"language"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
				Words      []struct {
					Word  string  `json:"word"`
					Start float64 `json:"start"`
					End   float64 `json:"end"`
				} `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (p *deepgramProvider) Name() string { return "deepgram" }

func (p *deepgramProvider) Ready() bool { return p.keys.Size() > 0 }

func (p *deepgramProvider) Transcribe(ctx context.Context, audio Audio, progress ProgressFunc) (Result, error) {
	if !p.Ready() {
		return Result{}, fmt.Errorf("deepgram: %w", ErrNotReady)
	}

	path, cleanup, err := materialize(audio)
	if err != nil {
		return Result{}, err
	}
	if cleanup {
		defer os.Remove(path)
	}

	return p.chunked.run(ctx, path, progress, p.transcribeFile)
}

func (p *deepgramProvider) transcribeFile(ctx context.Context, path string) (Result, error) {
	key, err := p.keys.Acquire()
	if err != nil {
		return Result{}, fmt.Errorf("deepgram: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read audio: %w", err)
	}

	params := url.Values{}
	params.Set("model", p.model)
	params.Set("punctuate", "true")
	params.Set("smart_format", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?"+params.Encode(), bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+key)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("deepgram returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var wire deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Result{}, fmt.Errorf("decode deepgram response: %w", err)
	}

	return parseDeepgram(wire), nil
}

// parseDeepgram flattens the nested alternatives and rebuilds
// utterance segments by inserting a boundary whenever the accumulated
// word span reaches utteranceSpanSec.
func parseDeepgram(wire deepgramResponse) Result {
	result := Result{Language: wire.Metadata.Language, Provider: "deepgram"}
	if result.Language == "" {
		result.Language = "unknown"
	}

	if len(wire.Results.Channels) == 0 || len(wire.Results.Channels[0].Alternatives) == 0 {
		return result
	}
	alt := wire.Results.Channels[0].Alternatives[0]
	result.Text = strings.TrimSpace(alt.Transcript)

	if len(alt.Words) == 0 {
		return result
	}

	current := Segment{Start: alt.Words[0].Start}
	var words []string
	for _, w := range alt.Words {
		current.End = w.End
		words = append(words, w.Word)
		if w.End-current.Start >= utteranceSpanSec {
			current.Text = strings.Join(words, " ")
			result.Segments = append(result.Segments, current)
			current = Segment{Start: w.End}
			words = words[:0]
		}
	}
	if len(words) > 0 {
		current.Text = strings.Join(words, " ")
		result.Segments = append(result.Segments, current)
	}

	return result
}
