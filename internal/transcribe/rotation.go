package transcribe

import (
	"context"
	"fmt"
	"log/slog"
)

// rotationProvider pairs a primary and secondary backend. Each call
// tries the primary; on failure the same audio goes to the secondary.
// Exactly one provider's output ever reaches the caller.
type rotationProvider struct {
	primary   Provider
	secondary Provider
}

// NewRotation wraps two ready providers in per-call fallback order.
func NewRotation(primary, secondary Provider) Provider {
	return &rotationProvider{primary: primary, secondary: secondary}
}

func (r *rotationProvider) Name() string {
	return fmt.Sprintf("%s+%s", r.primary.Name(), r.secondary.Name())
}

func (r *rotationProvider) Ready() bool {
	return r.primary.Ready() || r.secondary.Ready()
}

func (r *rotationProvider) Transcribe(ctx context.Context, audio Audio, progress ProgressFunc) (Result, error) {
	result, primaryErr := r.primary.Transcribe(ctx, audio, progress)
	if primaryErr == nil {
		result.Provider = r.primary.Name()
		return result, nil
	}

	slog.Warn("primary transcriber failed, switching to secondary",
		"primary", r.primary.Name(), "secondary", r.secondary.Name(), "err", primaryErr)

	result, secondaryErr := r.secondary.Transcribe(ctx, audio, progress)
	if secondaryErr == nil {
		result.Provider = r.secondary.Name()
		return result, nil
	}

	return Result{}, fmt.Errorf("all providers failed: %v | %v", primaryErr, secondaryErr)
}
