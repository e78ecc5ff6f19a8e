package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const apiCallTimeout = 10 * time.Minute

// whisperProvider serves the whisper-style transcription APIs (Groq
// and OpenAI share the verbose_json wire shape, differing only in
// endpoint, model, and request limits).
type whisperProvider struct {
	name     string
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	chunked  chunkedCall
}

// whisperVerboseResponse mirrors the verbose_json transcription body.
type whisperVerboseResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (p *whisperProvider) Name() string { return p.name }

func (p *whisperProvider) Ready() bool { return p.apiKey != "" }

func (p *whisperProvider) Transcribe(ctx context.Context, audio Audio, progress ProgressFunc) (Result, error) {
	if !p.Ready() {
		return Result{}, fmt.Errorf("%s: %w", p.name, ErrNotReady)
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

// transcribeFile uploads one file and parses the verbose response.
func (p *whisperProvider) transcribeFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", p.model); err != nil {
		return Result{}, fmt.Errorf("write form: %w", err)
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return Result{}, fmt.Errorf("write form: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return Result{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return Result{}, fmt.Errorf("copy audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Result{}, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%s request: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("%s returned status %d: %s", p.name, resp.StatusCode, string(respBody))
	}

	var verbose whisperVerboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&verbose); err != nil {
		return Result{}, fmt.Errorf("decode %s response: %w", p.name, err)
	}

	result := Result{
		Text:     strings.TrimSpace(verbose.Text),
		Language: verbose.Language,
		Provider: p.name,
	}
	if result.Language == "" {
		result.Language = "unknown"
	}
	for _, seg := range verbose.Segments {
		result.Segments = append(result.Segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}

	return result, nil
}
