package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JWangZhi/Bybass-Subtitile/internal/config"
)

const (
	groqChatEndpoint   = "https://api.groq.com/openai/v1/chat/completions"
	openAIChatEndpoint = "https://api.openai.com/v1/chat/completions"
	googleMTEndpoint   = "https://translate.googleapis.com/translate_a/single"

	defaultBatchSize = 10
	batchAttempts    = 2
)

// Translation is the outcome of one translate call.
type Translation struct {
	Translated   string
	Original     string
	DetectedLang string
	Provider     string
}

// Service translates text through an LLM-primary path with a
// machine-translation fallback. Translation is best-effort: total
// failure hands back the original text with the triggering error so
// the pipeline never aborts on it.
type Service struct {
	cfg    *config.Settings
	client *http.Client

	// overridable for tests
	groqEndpoint   string
	openAIEndpoint string
	googleEndpoint string
	sleep          func(time.Duration)
	jitter         func() time.Duration
}

// NewService builds a translation service over the configured keys.
func NewService(cfg *config.Settings) *Service {
	return &Service{
		cfg:            cfg,
		client:         &http.Client{Timeout: 30 * time.Second},
		groqEndpoint:   groqChatEndpoint,
		openAIEndpoint: openAIChatEndpoint,
		googleEndpoint: googleMTEndpoint,
		sleep:          time.Sleep,
		jitter: func() time.Duration {
			return 500*time.Millisecond + time.Duration(rand.Int63n(int64(time.Second)))
		},
	}
}

// Translate converts text to targetLang. The LLM path is tried first
// whenever a credential is configured; on any failure the MT backend
// takes over. If both fail the original text comes back unchanged
// alongside the error.
func (s *Service) Translate(ctx context.Context, text, targetLang, sourceLang string) (Translation, error) {
	if strings.TrimSpace(text) == "" {
		return Translation{}, nil
	}
	if targetLang == "" {
		return Translation{Translated: text, Original: text, DetectedLang: sourceLang}, nil
	}

	if s.cfg.GroqAPIKey != "" || s.cfg.OpenAIAPIKey != "" {
		res, err := s.translateLLM(ctx, text, targetLang, sourceLang)
		if err == nil {
			return res, nil
		}
		slog.Warn("LLM translation failed, falling back", "err", err)
	}

	res, err := s.translateGoogle(ctx, text, targetLang, sourceLang)
	if err == nil {
		return res, nil
	}

	return Translation{Translated: text, Original: text, DetectedLang: sourceLang},
		fmt.Errorf("translation failed: %w", err)
}

// TranslateBatch translates texts in fixed-size batches, preserving
// order and length. Alignment is approximate: when the backend does
// not preserve paragraph breaks, surplus entries are dropped and
// missing ones fall back to the corresponding original text.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, targetLang, sourceLang string) []string {
	if len(texts) == 0 {
		return nil
	}

	batchSize := s.cfg.TranslateBatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	results := make([]string, 0, len(texts))
	for i := 0; i < len(texts); i += batchSize {
		if i > 0 {
			s.sleep(s.jitter())
		}

		batch := texts[i:min(i+batchSize, len(texts))]
		results = append(results, s.translateOneBatch(ctx, batch, targetLang, sourceLang)...)
	}

	return results
}

func (s *Service) translateOneBatch(ctx context.Context, batch []string, targetLang, sourceLang string) []string {
	combined := strings.Join(batch, "\n\n")

	for attempt := 1; attempt <= batchAttempts; attempt++ {
		res, err := s.Translate(ctx, combined, targetLang, sourceLang)
		if err == nil {
			return alignBatch(res.Translated, batch)
		}

		slog.Warn("batch translation attempt failed",
			"attempt", attempt, "size", len(batch), "err", err)
		if attempt < batchAttempts {
			s.sleep(time.Duration(attempt) * time.Second)
		}
	}

	slog.Warn("batch failed permanently, keeping original text", "size", len(batch))
	return append([]string(nil), batch...)
}

// alignBatch splits a batch translation back into per-text entries.
// Double newline first, single newline second, then truncate or pad
// with the originals so the count always matches.
func alignBatch(translated string, batch []string) []string {
	parts := strings.Split(translated, "\n\n")
	if len(parts) != len(batch) {
		parts = parts[:0]
		for _, line := range strings.Split(translated, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				parts = append(parts, line)
			}
		}
	}

	if len(parts) > len(batch) {
		parts = parts[:len(batch)]
	}
	for len(parts) < len(batch) {
		parts = append(parts, batch[len(parts)])
	}
	return parts
}

// chatRequest and chatResponse mirror the OpenAI-compatible chat API
// that both LLM backends speak.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *Service) translateLLM(ctx context.Context, text, targetLang, sourceLang string) (Translation, error) {
	endpoint := s.groqEndpoint
	apiKey := s.cfg.GroqAPIKey
	model := s.cfg.GroqTranslationModel
	provider := "groq"
	if apiKey == "" {
		endpoint = s.openAIEndpoint
		apiKey = s.cfg.OpenAIAPIKey
		model = s.cfg.OpenAITranslationModel
		provider = "openai"
	}

	systemPrompt := fmt.Sprintf(
		"You are a professional translator. Translate the following text to %s. "+
			"Maintain the original meaning, tone, and formatting. "+
			"Only return the translated text without any explanation, quotes, or markdown.",
		targetLang)

	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return Translation{}, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return Translation{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Translation{}, fmt.Errorf("%s chat request: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Translation{}, fmt.Errorf("%s returned status %d: %s", provider, resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Translation{}, fmt.Errorf("decode %s response: %w", provider, err)
	}
	if len(chat.Choices) == 0 {
		return Translation{}, fmt.Errorf("%s returned no choices", provider)
	}

	return Translation{
		Translated:   strings.TrimSpace(chat.Choices[0].Message.Content),
		Original:     text,
		DetectedLang: sourceLang,
		Provider:     provider,
	}, nil
}

// translateGoogle calls the unofficial gtx endpoint. The response is a
// nested JSON array: element 0 holds translated sentence pairs,
// element 2 the detected source language.
func (s *Service) translateGoogle(ctx context.Context, text, targetLang, sourceLang string) (Translation, error) {
	if sourceLang == "" {
		sourceLang = "auto"
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")

	form := url.Values{}
	form.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.googleEndpoint+"?"+params.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return Translation{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return Translation{}, fmt.Errorf("google translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Translation{}, fmt.Errorf("google translate returned status %d: %s", resp.StatusCode, string(body))
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Translation{}, fmt.Errorf("decode google response: %w", err)
	}

	translated, err := joinGoogleParts(raw)
	if err != nil {
		return Translation{}, err
	}

	detected := sourceLang
	if len(raw) > 2 {
		var lang string
		if err := json.Unmarshal(raw[2], &lang); err == nil && lang != "" {
			detected = lang
		}
	}

	return Translation{
		Translated:   translated,
		Original:     text,
		DetectedLang: detected,
		Provider:     "google",
	}, nil
}

func joinGoogleParts(raw []json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty google response")
	}

	var parts [][]json.RawMessage
	if err := json.Unmarshal(raw[0], &parts); err != nil {
		return "", fmt.Errorf("parse google sentence list: %w", err)
	}

	var b strings.Builder
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		var sentence string
		if err := json.Unmarshal(part[0], &sentence); err != nil {
			continue
		}
		b.WriteString(sentence)
	}
	return b.String(), nil
}
