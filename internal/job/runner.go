package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JWangZhi/Bybass-Subtitile/internal/media"
	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
)

// MediaTool is the slice of the transcoder the pipeline needs.
type MediaTool interface {
	ExtractAudio(ctx context.Context, inputPath string) (string, error)
	BurnSubtitles(ctx context.Context, videoPath, srtPath, outputPath string) error
}

// ProviderSource yields the active transcription provider. It always
// succeeds; local inference backs every configuration.
type ProviderSource interface {
	Provider(ctx context.Context) transcribe.Provider
}

// Translator converts batches of segment texts.
type Translator interface {
	TranslateBatch(ctx context.Context, texts []string, targetLang, sourceLang string) []string
}

// Runner drives one job through the pipeline states, persisting and
// broadcasting a snapshot after every mutation. Each job runs as its
// own task; the runner holds no per-job state.
type Runner struct {
	media      MediaTool
	providers  ProviderSource
	translator Translator
	store      Store
	bus        *Broadcaster
	workDir    string
}

func NewRunner(mediaTool MediaTool, providers ProviderSource, translator Translator, store Store, bus *Broadcaster, workDir string) *Runner {
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Runner{
		media:      mediaTool,
		providers:  providers,
		translator: translator,
		store:      store,
		bus:        bus,
		workDir:    workDir,
	}
}

// Run executes the full pipeline for j. The returned error mirrors
// j.ErrorMessage; callers launching Run in the background may ignore
// it and watch the Broadcaster instead.
func (r *Runner) Run(ctx context.Context, j *Job) error {
	r.setState(j, StatusExtracting, 10)

	audioPath, err := r.media.ExtractAudio(ctx, j.InputPath)
	if err != nil {
		return r.fail(j, "audio extraction failed", err)
	}
	defer os.Remove(audioPath)
	r.setProgress(j, 20)

	r.setState(j, StatusTranscribing, 30)
	provider := r.providers.Provider(ctx)

	result, err := provider.Transcribe(ctx, transcribe.FromPath(audioPath), func(completed, total int) {
		if total > 0 {
			r.setProgress(j, 30+completed*20/total)
		}
	})
	if err != nil {
		return r.fail(j, "transcription failed", err)
	}

	j.Segments = result.Segments
	if j.SourceLang == "" || j.SourceLang == "auto" {
		j.SourceLang = result.Language
	}
	r.setProgress(j, 50)

	if r.shouldTranslate(j) {
		r.setState(j, StatusTranslating, 55)
		r.translateSegments(ctx, j)
	}
	r.setProgress(j, 75)

	srtPath, err := r.writeSubtitles(j)
	if err != nil {
		return r.fail(j, "subtitle generation failed", err)
	}
	j.SubtitlePath = srtPath

	if j.BurnRequested {
		r.setState(j, StatusBurning, 80)

		outputPath := filepath.Join(r.workDir, burnedName(j.InputPath))
		if err := r.media.BurnSubtitles(ctx, j.InputPath, srtPath, outputPath); err != nil {
			return r.fail(j, "subtitle burn-in failed", err)
		}
		j.OutputPath = outputPath
		r.setProgress(j, 95)
	}

	r.setState(j, StatusDone, 100)
	return nil
}

// shouldTranslate skips the translation stage when there is no target
// language or the detected source already matches it.
func (r *Runner) shouldTranslate(j *Job) bool {
	if r.translator == nil || j.TargetLang == "" || len(j.Segments) == 0 {
		return false
	}
	return normalizeLang(j.SourceLang) != normalizeLang(j.TargetLang)
}

// translateSegments works through the transcript in slices of 20
// segments so progress advances while translation is still running,
// not in one burst at the end. Update volume stays bounded on long
// transcripts.
func (r *Runner) translateSegments(ctx context.Context, j *Job) {
	const sliceSize = 20
	total := len(j.Segments)

	for start := 0; start < total; start += sliceSize {
		end := min(start+sliceSize, total)

		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = j.Segments[i].Text
		}

		translated := r.translator.TranslateBatch(ctx, texts, j.TargetLang, j.SourceLang)
		for i := start; i < end && i-start < len(translated); i++ {
			j.Segments[i].Translated = translated[i-start]
		}

		if end < total {
			r.setProgress(j, 55+end*20/total)
		}
	}
}

func (r *Runner) writeSubtitles(j *Job) (string, error) {
	srtPath := filepath.Join(r.workDir, j.ID+".srt")
	if err := os.WriteFile(srtPath, []byte(media.FormatSRT(j.Segments)), 0o644); err != nil {
		return "", err
	}
	return srtPath, nil
}

func (r *Runner) setState(j *Job, status Status, progress int) {
	j.Status = status
	if progress > j.Progress {
		j.Progress = progress
	}
	r.update(j)
}

func (r *Runner) setProgress(j *Job, progress int) {
	if progress <= j.Progress {
		return
	}
	j.Progress = progress
	r.update(j)
}

// fail moves the job to ERROR, keeping progress at its last value.
// The stored message is user-facing; the cause only goes to the log.
func (r *Runner) fail(j *Job, message string, cause error) error {
	slog.Error("job failed", "job", j.ID, "status", j.Status, "err", cause)
	j.Status = StatusError
	j.ErrorMessage = message
	r.update(j)
	return fmt.Errorf("%s: %w", message, cause)
}

func (r *Runner) update(j *Job) {
	snapshot := j.Snapshot()
	if r.store != nil {
		r.store.Put(snapshot)
	}
	if r.bus != nil {
		r.bus.Publish(snapshot)
	}
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func burnedName(inputPath string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	ext := filepath.Ext(inputPath)
	if !media.IsVideoExtension(ext) {
		ext = ".mp4"
	}
	return base + "_subtitled" + ext
}
