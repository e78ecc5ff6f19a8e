package media

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// fakeRunner records invocations and replays canned results.
type fakeRunner struct {
	calls  [][]string
	stdout string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, "", f.err
}

func TestDurationParsesProbeOutput(t *testing.T) {
	runner := &fakeRunner{stdout: `{"format":{"duration":"1250.375"},"streams":[{"codec_name":"aac"}]}`}
	f := &FFmpeg{runner: runner, workDir: t.TempDir()}

	dur, err := f.Duration(context.Background(), "movie.mp4")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if dur != 1250.375 {
		t.Errorf("duration = %v, want 1250.375", dur)
	}

	call := runner.calls[0]
	if call[0] != "ffprobe" {
		t.Errorf("binary = %q, want ffprobe", call[0])
	}
}

func TestDurationMissingField(t *testing.T) {
	runner := &fakeRunner{stdout: `{"format":{},"streams":[]}`}
	f := &FFmpeg{runner: runner, workDir: t.TempDir()}

	if _, err := f.Duration(context.Background(), "movie.mp4"); err == nil {
		t.Fatal("expected error for missing duration")
	}
}

func TestExtractAudioArgs(t *testing.T) {
	runner := &fakeRunner{}
	f := &FFmpeg{runner: runner, workDir: t.TempDir()}

	out, err := f.ExtractAudio(context.Background(), "/videos/talk.mp4")
	if err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}
	if !strings.HasSuffix(out, "talk_audio.wav") {
		t.Errorf("output path = %q, want *_audio.wav", out)
	}

	joined := strings.Join(runner.calls[0], " ")
	for _, want := range []string{"-vn", "-acodec pcm_s16le", "-ar 16000", "-ac 1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("ffmpeg args missing %q: %s", want, joined)
		}
	}
}

func TestCutArgs(t *testing.T) {
	runner := &fakeRunner{}
	f := &FFmpeg{runner: runner, workDir: t.TempDir()}

	out, err := f.Cut(context.Background(), "/tmp/audio.wav", 600, 610)
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if !strings.Contains(out, "_cut_600") {
		t.Errorf("cut output = %q, want offset in name", out)
	}

	joined := strings.Join(runner.calls[0], " ")
	for _, want := range []string{"-ss 600.000", "-t 610.000", "-acodec copy"} {
		if !strings.Contains(joined, want) {
			t.Errorf("cut args missing %q: %s", want, joined)
		}
	}
}

func TestCutFailure(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("exit status 1")}
	f := &FFmpeg{runner: runner, workDir: t.TempDir()}

	if _, err := f.Cut(context.Background(), "audio.wav", 0, 10); err == nil {
		t.Fatal("expected error from failing ffmpeg")
	}
}

func TestBurnSubtitlesArgs(t *testing.T) {
	runner := &fakeRunner{}
	f := &FFmpeg{runner: runner, workDir: t.TempDir()}

	err := f.BurnSubtitles(context.Background(), "in.mp4", "/subs/out.srt", "out.mp4")
	if err != nil {
		t.Fatalf("BurnSubtitles: %v", err)
	}

	joined := strings.Join(runner.calls[0], " ")
	if !strings.Contains(joined, "subtitles='/subs/out.srt'") {
		t.Errorf("burn args missing subtitles filter: %s", joined)
	}
	if !strings.Contains(joined, "-c:a copy") {
		t.Errorf("burn args should copy audio: %s", joined)
	}
}

func TestIsVideoExtension(t *testing.T) {
	if !IsVideoExtension(".MP4") || !IsVideoExtension(".mkv") {
		t.Error("known video extensions not recognized")
	}
	if IsVideoExtension(".wav") || IsVideoExtension(".srt") {
		t.Error("non-video extensions misclassified")
	}
}
