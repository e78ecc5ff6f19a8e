package live

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
	"github.com/JWangZhi/Bybass-Subtitile/internal/translate"
)

type stubProvider struct {
	mu     sync.Mutex
	active int
	result transcribe.Result
	err    error
}

func (p *stubProvider) Name() string { return "stub" }
func (p *stubProvider) Ready() bool  { return true }

func (p *stubProvider) Transcribe(ctx context.Context, audio transcribe.Audio, progress transcribe.ProgressFunc) (transcribe.Result, error) {
	p.mu.Lock()
	p.active++
	overlapped := p.active > 1
	p.mu.Unlock()

	// Stay "inside" the call long enough that an overlapping caller
	// would be observed.
	time.Sleep(2 * time.Millisecond)

	p.mu.Lock()
	p.active--
	p.mu.Unlock()

	if overlapped {
		return transcribe.Result{}, fmt.Errorf("concurrent transcribe on one session")
	}
	return p.result, p.err
}

type stubSource struct{ provider transcribe.Provider }

func (s stubSource) Provider(ctx context.Context) transcribe.Provider {
	return s.provider
}

type stubTranslator struct {
	err error
}

func (t stubTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (translate.Translation, error) {
	if t.err != nil {
		return translate.Translation{Translated: text}, t.err
	}
	return translate.Translation{Translated: "[" + targetLang + "] " + text, DetectedLang: sourceLang}, nil
}

func TestProcessTranslates(t *testing.T) {
	provider := &stubProvider{result: transcribe.Result{Text: "hello", Language: "en", Provider: "stub"}}
	s := NewSession(stubSource{provider}, stubTranslator{}, "es", true)

	got, err := s.Process(context.Background(), []byte{1, 2})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Translated != "[es] hello" {
		t.Errorf("translated = %q", got.Translated)
	}
	if got.Text != "hello" {
		t.Errorf("original should be kept when showOriginal is set, got %q", got.Text)
	}
}

func TestProcessHidesOriginal(t *testing.T) {
	provider := &stubProvider{result: transcribe.Result{Text: "hello", Language: "en"}}
	s := NewSession(stubSource{provider}, stubTranslator{}, "es", false)

	got, err := s.Process(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Text != "" || got.Translated == "" {
		t.Errorf("caption = %+v, want translated only", got)
	}
}

func TestProcessSkipsTranslationOnMatch(t *testing.T) {
	provider := &stubProvider{result: transcribe.Result{Text: "hola", Language: "es"}}
	s := NewSession(stubSource{provider}, stubTranslator{}, "es", false)

	got, err := s.Process(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Translated != "" || got.Text != "hola" {
		t.Errorf("caption = %+v, want untranslated passthrough", got)
	}
}

func TestProcessDegradesOnTranslationFailure(t *testing.T) {
	provider := &stubProvider{result: transcribe.Result{Text: "hello", Language: "en"}}
	s := NewSession(stubSource{provider}, stubTranslator{err: fmt.Errorf("backend down")}, "es", false)

	got, err := s.Process(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("Process should not fail on translation errors: %v", err)
	}
	if got.Text != "hello" {
		t.Errorf("caption = %+v, want original text kept", got)
	}
}

func TestProcessSilentFrame(t *testing.T) {
	provider := &stubProvider{result: transcribe.Result{Text: "   ", Language: "en"}}
	s := NewSession(stubSource{provider}, stubTranslator{}, "es", false)

	got, err := s.Process(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.Text != "" || got.Translated != "" {
		t.Errorf("caption = %+v, want empty for silence", got)
	}
}

// Frames on one session never overlap, even with concurrent callers.
func TestProcessSerializesFrames(t *testing.T) {
	provider := &stubProvider{result: transcribe.Result{Text: "x", Language: "es"}}
	s := NewSession(stubSource{provider}, stubTranslator{}, "es", false)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Process(context.Background(), []byte{1}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Process: %v", err)
	}
}
