package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JWangZhi/Bybass-Subtitile/internal/config"
	"github.com/JWangZhi/Bybass-Subtitile/internal/job"
	"github.com/JWangZhi/Bybass-Subtitile/internal/media"
	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
	"github.com/JWangZhi/Bybass-Subtitile/internal/translate"
)

var processCmd = &cobra.Command{
	Use:   "process <input-file>",
	Short: "Transcribe a media file and generate subtitles",
	Long: `Process extracts the audio track from a media file, transcribes it
with the configured provider stack, optionally translates the segments,
and writes an SRT subtitle file. With --burn the subtitles are rendered
into the video itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

var (
	sourceLang      string
	targetLang      string
	burn            bool
	workDir         string
	allowCollection bool
)

func init() {
	processCmd.Flags().StringVarP(&sourceLang, "source-lang", "s", "auto", "source language (auto to detect)")
	processCmd.Flags().StringVarP(&targetLang, "target-lang", "t", "", "translate subtitles to this language")
	processCmd.Flags().BoolVar(&burn, "burn", false, "burn subtitles into the video")
	processCmd.Flags().StringVar(&workDir, "work-dir", "", "directory for intermediate and output files (default: input's directory)")
	processCmd.Flags().BoolVar(&allowCollection, "allow-collection", false, "consent to transcript collection")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	absPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	validExts := map[string]bool{
		".mp3": true, ".m4a": true, ".wav": true, ".flac": true,
		".ogg": true, ".aac": true, ".mp4": true, ".mov": true,
		".mkv": true, ".avi": true, ".flv": true, ".webm": true,
	}
	if !validExts[ext] {
		return fmt.Errorf("unsupported file type: %s", ext)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !media.Available() {
		return fmt.Errorf("ffmpeg not found on PATH")
	}

	if workDir == "" {
		workDir = filepath.Dir(absPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ffmpeg := media.NewFFmpeg(workDir)
	selector := transcribe.NewSelector(cfg, ffmpeg)
	translator := translate.NewService(cfg)
	store := job.NewMemoryStore()
	bus := job.NewBroadcaster()
	runner := job.NewRunner(ffmpeg, selector, translator, store, bus, workDir)

	j := job.New(absPath, sourceLang, targetLang)
	j.BurnRequested = burn
	j.AllowCollection = allowCollection
	store.Put(j.Snapshot())

	updates := bus.Subscribe(j.ID)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for snap := range updates {
			slog.Info("job update", "status", snap.Status, "progress", snap.Progress)
		}
	}()

	runErr := runner.Run(ctx, j)
	bus.Unsubscribe(j.ID, updates)
	wg.Wait()

	if runErr != nil {
		return runErr
	}

	slog.Info("subtitles written", "path", j.SubtitlePath)
	if j.OutputPath != "" {
		slog.Info("burned video written", "path", j.OutputPath)
	}
	return nil
}
