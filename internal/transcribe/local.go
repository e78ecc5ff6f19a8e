package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// localWorkers bounds concurrent whisper.cpp runs; inference is
// CPU-bound and cannot be made non-blocking.
const localWorkers = 2

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// localProvider runs whisper.cpp as a subprocess. It has no external
// service dependency and is the fallback of last resort: Ready only
// checks that the model file is resolvable.
type localProvider struct {
	bin       string
	modelPath string
	runner    commandRunner
	slots     chan struct{}
	readFile  func(string) ([]byte, error)
}

// NewLocal builds the local whisper.cpp backend.
func NewLocal(bin, modelPath string) Provider {
	return &localProvider{
		bin:       bin,
		modelPath: modelPath,
		runner:    execRunner{},
		slots:     make(chan struct{}, localWorkers),
		readFile:  os.ReadFile,
	}
}

func (p *localProvider) Name() string { return "local" }

func (p *localProvider) Ready() bool {
	if p.modelPath == "" {
		return false
	}
	_, err := os.Stat(p.modelPath)
	return err == nil
}

// whisperJSON mirrors whisper.cpp -oj output.
type whisperJSON struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (p *localProvider) Transcribe(ctx context.Context, audio Audio, progress ProgressFunc) (Result, error) {
	path, cleanup, err := materialize(audio)
	if err != nil {
		return Result{}, err
	}
	if cleanup {
		defer os.Remove(path)
	}

	select {
	case p.slots <- struct{}{}:
		defer func() { <-p.slots }()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	outBase := strings.TrimSuffix(path, filepath.Ext(path))
	args := []string{"-m", p.modelPath, "-f", path, "-oj", "-of", outBase}

	if _, stderr, err := p.runner.Run(ctx, p.bin, args...); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("whisper.cpp exit %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr))
		}
		return Result{}, fmt.Errorf("whisper.cpp: %w", err)
	}

	jsonPath := outBase + ".json"
	defer os.Remove(jsonPath)

	data, err := p.readFile(jsonPath)
	if err != nil {
		return Result{}, fmt.Errorf("read whisper.cpp output: %w", err)
	}

	var out whisperJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return Result{}, fmt.Errorf("parse whisper.cpp output: %w", err)
	}

	result := Result{Language: out.Result.Language, Provider: "local"}
	if result.Language == "" {
		result.Language = "unknown"
	}

	texts := make([]string, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		result.Segments = append(result.Segments, Segment{
			Start: float64(seg.Offsets.From) / 1000.0,
			End:   float64(seg.Offsets.To) / 1000.0,
			Text:  text,
		})
		texts = append(texts, text)
	}
	result.Text = strings.Join(texts, " ")

	return result, nil
}
