package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// commandRunner abstracts process execution so tests can stub ffmpeg.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return out.String(), errBuf.String(), err
}

// FFmpeg wraps the ffmpeg and ffprobe binaries for audio extraction,
// cutting, probing, and subtitle burn-in.
type FFmpeg struct {
	runner  commandRunner
	workDir string
}

// NewFFmpeg builds a wrapper whose intermediate files land in workDir
// (the system temp dir when empty).
func NewFFmpeg(workDir string) *FFmpeg {
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &FFmpeg{runner: execRunner{}, workDir: workDir}
}

// Available reports whether ffmpeg is on the PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// IsVideoExtension returns true for common video file extensions.
func IsVideoExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp4", ".mkv", ".mov", ".avi", ".flv", ".webm":
		return true
	}
	return false
}

// ExtractAudio pulls the audio track out of a media file as 16 kHz
// mono 16-bit PCM WAV, the format every transcription backend accepts.
func (f *FFmpeg) ExtractAudio(ctx context.Context, inputPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(f.workDir, base+"_audio.wav")

	slog.Info("extracting audio", "input", filepath.Base(inputPath), "output", filepath.Base(outputPath))

	_, stderr, err := f.runner.Run(ctx, "ffmpeg",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outputPath,
	)
	if err != nil {
		return "", fmt.Errorf("ffmpeg extract audio failed: %w\n%s", err, stderr)
	}
	return outputPath, nil
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// Duration reports the media duration in seconds via ffprobe.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	stdout, stderr, err := f.runner.Run(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name:format=duration",
		"-of", "json",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\n%s", err, stderr)
	}

	var probe probeOutput
	if err := json.Unmarshal([]byte(stdout), &probe); err != nil {
		return 0, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe reported no duration for %s", filepath.Base(path))
	}
	return dur, nil
}

// Cut copies lengthSec seconds of audio starting at startSec into a
// fresh temp file without re-encoding. The caller removes the file.
func (f *FFmpeg) Cut(ctx context.Context, path string, startSec, lengthSec float64) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outputPath := filepath.Join(f.workDir,
		fmt.Sprintf("%s_cut_%d%s", base, int(startSec), filepath.Ext(path)))

	_, stderr, err := f.runner.Run(ctx, "ffmpeg",
		"-ss", strconv.FormatFloat(startSec, 'f', 3, 64),
		"-t", strconv.FormatFloat(lengthSec, 'f', 3, 64),
		"-i", path,
		"-acodec", "copy",
		"-y",
		outputPath,
	)
	if err != nil {
		return "", fmt.Errorf("ffmpeg cut at %.0fs failed: %w\n%s", startSec, err, stderr)
	}
	return outputPath, nil
}

// BurnSubtitles renders an SRT file into the video stream, copying the
// audio track untouched.
func (f *FFmpeg) BurnSubtitles(ctx context.Context, videoPath, srtPath, outputPath string) error {
	slog.Info("burning subtitles", "video", filepath.Base(videoPath), "srt", filepath.Base(srtPath))

	_, stderr, err := f.runner.Run(ctx, "ffmpeg",
		"-i", videoPath,
		"-vf", "subtitles="+escapeFilterPath(srtPath),
		"-c:a", "copy",
		"-y",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg subtitle burn failed: %w\n%s", err, stderr)
	}
	return nil
}

// escapeFilterPath quotes characters the ffmpeg filter parser treats
// specially (Windows drive colons in particular).
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `/`)
	path = strings.ReplaceAll(path, `:`, `\:`)
	return "'" + path + "'"
}
