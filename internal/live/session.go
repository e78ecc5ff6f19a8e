package live

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
	"github.com/JWangZhi/Bybass-Subtitile/internal/translate"
)

// ProviderSource yields the active transcription provider.
type ProviderSource interface {
	Provider(ctx context.Context) transcribe.Provider
}

// Translator is the single-text translation capability.
type Translator interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (translate.Translation, error)
}

// Caption is the outcome of one live audio frame.
type Caption struct {
	Text       string `json:"text,omitempty"`
	Translated string `json:"translated,omitempty"`
	Language   string `json:"language,omitempty"`
	Provider   string `json:"provider,omitempty"`
}

// Session handles the live audio path for one connection. Frames on a
// session are processed strictly one at a time in arrival order;
// separate sessions are independent.
type Session struct {
	mu           sync.Mutex
	providers    ProviderSource
	translator   Translator
	targetLang   string
	showOriginal bool
}

func NewSession(providers ProviderSource, translator Translator, targetLang string, showOriginal bool) *Session {
	return &Session{
		providers:    providers,
		translator:   translator,
		targetLang:   targetLang,
		showOriginal: showOriginal,
	}
}

// Process transcribes one PCM frame and optionally translates the
// result. Translation failure degrades to the untranslated caption.
func (s *Session) Process(ctx context.Context, pcm []byte) (Caption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	provider := s.providers.Provider(ctx)
	res, err := provider.Transcribe(ctx, transcribe.FromPCM(pcm), nil)
	if err != nil {
		return Caption{}, fmt.Errorf("live transcription: %w", err)
	}

	caption := Caption{
		Text:     strings.TrimSpace(res.Text),
		Language: res.Language,
		Provider: res.Provider,
	}
	if caption.Text == "" {
		return caption, nil
	}

	if s.shouldTranslate(res.Language) {
		tr, err := s.translator.Translate(ctx, caption.Text, s.targetLang, res.Language)
		if err != nil {
			slog.Warn("live translation degraded", "err", err)
		} else {
			caption.Translated = tr.Translated
		}
		if caption.Translated != "" && !s.showOriginal {
			caption.Text = ""
		}
	}

	return caption, nil
}

func (s *Session) shouldTranslate(detected string) bool {
	if s.translator == nil || s.targetLang == "" {
		return false
	}
	return normalizeLang(detected) != normalizeLang(s.targetLang)
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}
