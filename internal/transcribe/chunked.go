package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/time/rate"
)

// chunkedCall wraps a provider's single-file API call with threshold
// detection, window planning, paced per-chunk calls, and merging.
// Shared by the HTTP-backed providers; the local engine has no request
// limits and never chunks.
type chunkedCall struct {
	cutter  Cutter
	chunker Chunker
	limits  Limits
	limiter *rate.Limiter
}

func newChunkedCall(cutter Cutter, chunker Chunker, limits Limits, requestsPerMin int) chunkedCall {
	if requestsPerMin <= 0 {
		requestsPerMin = 30
	}
	return chunkedCall{
		cutter:  cutter,
		chunker: chunker,
		limits:  limits,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMin)/60.0), 1),
	}
}

// run transcribes the audio at path, chunking when it exceeds the
// provider limits. A failed chunk aborts the whole call rather than
// returning a partial transcript.
func (cc chunkedCall) run(ctx context.Context, path string, progress ProgressFunc, call func(ctx context.Context, path string) (Result, error)) (Result, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat audio: %w", err)
	}

	duration := 0.0
	if cc.cutter != nil {
		if d, err := cc.cutter.Duration(ctx, path); err == nil {
			duration = d
		}
	}

	if cc.cutter == nil || !cc.limits.Exceeded(stat.Size(), duration) {
		return call(ctx, path)
	}

	windows := cc.chunker.Plan(duration)
	slog.Info("audio exceeds single-request limits, chunking",
		"size_mb", stat.Size()>>20, "duration_sec", int(duration), "chunks", len(windows))

	results := make([]Result, 0, len(windows))
	for i, w := range windows {
		if err := cc.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("rate limiter: %w", err)
		}

		chunkPath := path
		if len(windows) > 1 {
			cut, err := cc.cutter.Cut(ctx, path, w.Start, w.Length)
			if err != nil {
				return Result{}, fmt.Errorf("cut chunk %d/%d: %w", i+1, len(windows), err)
			}
			chunkPath = cut
		}

		res, err := call(ctx, chunkPath)
		if chunkPath != path {
			os.Remove(chunkPath)
		}
		if err != nil {
			return Result{}, fmt.Errorf("chunk %d/%d: %w", i+1, len(windows), err)
		}
		results = append(results, res)

		if progress != nil {
			progress(i+1, len(windows))
		}
		slog.Debug("chunk transcribed", "chunk", fmt.Sprintf("%d/%d", i+1, len(windows)))
	}

	return MergeChunks(results, cc.chunker.ChunkDuration), nil
}
