package transcribe

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JWangZhi/Bybass-Subtitile/internal/config"
)

// Selector owns the active provider for the process, constructed once
// per configuration mode and cached until the mode changes.
type Selector struct {
	mu     sync.Mutex
	cfg    *config.Settings
	cutter Cutter
	cached Provider
	mode   config.Mode
}

// NewSelector builds a provider selector over the given configuration.
func NewSelector(cfg *config.Settings, cutter Cutter) *Selector {
	return &Selector{cfg: cfg, cutter: cutter}
}

// Provider returns the active backend, creating it on first use. It
// always succeeds: when no remote provider is ready the local engine
// serves as the fallback of last resort.
func (s *Selector) Provider(ctx context.Context) Provider {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := s.cfg.EffectiveMode()
	if s.cached != nil && s.mode == mode {
		return s.cached
	}

	slog.Info("creating transcriber", "mode", mode)
	s.cached = s.build(ctx, mode)
	s.mode = mode
	return s.cached
}

func (s *Selector) build(ctx context.Context, mode config.Mode) Provider {
	chunker := NewChunker(s.cfg.ChunkDurationSec, s.cfg.ChunkOverlapSec)

	// Groq-with-Deepgram-keys behaves like AUTO: rotation when both
	// remote backends are ready.
	if mode == config.ModeAuto || (mode == config.ModeGroq && len(s.cfg.DeepgramAPIKeys) > 0) {
		var (
			groq, deepgram           Provider
			groqReady, deepgramReady bool
		)

		// Construct and probe both candidates concurrently; Ready
		// never panics, so each attempt just reports its outcome.
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			groq = NewGroq(s.cfg.GroqAPIKey, s.cfg.GroqModel, s.cutter, chunker)
			groqReady = groq.Ready()
			return nil
		})
		g.Go(func() error {
			deepgram = NewDeepgram(s.cfg.DeepgramAPIKeys, s.cutter, chunker)
			deepgramReady = deepgram.Ready()
			return nil
		})
		g.Wait()

		switch {
		case groqReady && deepgramReady:
			slog.Info("enabling rotation", "primary", groq.Name(), "secondary", deepgram.Name())
			return NewRotation(groq, deepgram)
		case groqReady:
			return groq
		case deepgramReady:
			return deepgram
		default:
			return s.local()
		}
	}

	switch mode {
	case config.ModeGroq:
		if p := NewGroq(s.cfg.GroqAPIKey, s.cfg.GroqModel, s.cutter, chunker); p.Ready() {
			return p
		}
		slog.Warn("groq credentials missing, falling back to local")
	case config.ModeOpenAI:
		if p := NewOpenAI(s.cfg.OpenAIAPIKey, s.cfg.OpenAIModel, s.cutter, chunker); p.Ready() {
			return p
		}
		slog.Warn("openai credentials missing, falling back to local")
	case config.ModeDeepgram:
		if p := NewDeepgram(s.cfg.DeepgramAPIKeys, s.cutter, chunker); p.Ready() {
			return p
		}
		slog.Warn("deepgram credentials missing, falling back to local")
	}

	return s.local()
}

func (s *Selector) local() Provider {
	return NewLocal(s.cfg.WhisperBin, s.cfg.WhisperModelPath)
}
