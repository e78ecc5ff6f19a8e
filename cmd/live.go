package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JWangZhi/Bybass-Subtitile/internal/config"
	"github.com/JWangZhi/Bybass-Subtitile/internal/live"
	"github.com/JWangZhi/Bybass-Subtitile/internal/media"
	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
	"github.com/JWangZhi/Bybass-Subtitile/internal/translate"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Caption a live PCM audio stream from stdin",
	Long: `Live reads raw 16 kHz mono 16-bit PCM audio from stdin, transcribes
it window by window, and prints the captions. Pipe microphone audio in
with ffmpeg:

  ffmpeg -f alsa -i default -ar 16000 -ac 1 -f s16le - | bybass-subtitle live -t es`,
	RunE: runLive,
}

var (
	liveTargetLang string
	liveWindowSec  int
	showOriginal   bool
)

func init() {
	liveCmd.Flags().StringVarP(&liveTargetLang, "target-lang", "t", "", "translate captions to this language")
	liveCmd.Flags().IntVar(&liveWindowSec, "window", 5, "seconds of audio per transcription window")
	liveCmd.Flags().BoolVar(&showOriginal, "show-original", false, "print the original text alongside the translation")

	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if liveWindowSec <= 0 {
		return fmt.Errorf("window must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	selector := transcribe.NewSelector(cfg, media.NewFFmpeg(""))
	session := live.NewSession(selector, translate.NewService(cfg), liveTargetLang, showOriginal)

	// 16 kHz mono 16-bit PCM.
	frame := make([]byte, 16000*2*liveWindowSec)
	for {
		n, err := io.ReadFull(os.Stdin, frame)
		if n > 0 {
			caption, perr := session.Process(ctx, frame[:n])
			if perr != nil {
				return perr
			}
			printCaption(caption)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("read audio: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func printCaption(c live.Caption) {
	if c.Text != "" {
		fmt.Println(c.Text)
	}
	if c.Translated != "" {
		fmt.Println(c.Translated)
	}
}
