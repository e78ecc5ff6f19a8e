package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Mode selects which transcription backend the selector builds.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeLocal    Mode = "local"
	ModeGroq     Mode = "groq"
	ModeOpenAI   Mode = "openai"
	ModeDeepgram Mode = "deepgram"
)

// Settings holds runtime configuration for the transcription core.
type Settings struct {
	Mode Mode

	// Groq API
	GroqAPIKey           string
	GroqModel            string
	GroqTranslationModel string

	// OpenAI API
	OpenAIAPIKey           string
	OpenAIModel            string
	OpenAITranslationModel string

	// Deepgram API (comma-separated keys for rotation)
	DeepgramAPIKeys []string

	// Local whisper.cpp
	WhisperBin       string
	WhisperModelPath string

	// Chunking
	ChunkDurationSec int
	ChunkOverlapSec  int

	// Translation batching
	TranslateBatchSize int
}

// Load reads configuration from environment variables, honoring a .env
// file in the working directory when present.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	cfg := Default()

	if mode := getEnv("TRANSCRIPTION_MODE", ""); mode != "" {
		m := Mode(strings.ToLower(mode))
		switch m {
		case ModeAuto, ModeLocal, ModeGroq, ModeOpenAI, ModeDeepgram:
			cfg.Mode = m
		default:
			return nil, fmt.Errorf("invalid transcription mode: %s", mode)
		}
	}

	cfg.GroqAPIKey = getEnv("GROQ_API_KEY", "")
	cfg.GroqModel = getEnv("GROQ_MODEL", cfg.GroqModel)
	cfg.GroqTranslationModel = getEnv("GROQ_TRANSLATION_MODEL", cfg.GroqTranslationModel)

	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAITranslationModel = getEnv("OPENAI_TRANSLATION_MODEL", cfg.OpenAITranslationModel)

	cfg.DeepgramAPIKeys = SplitKeys(getEnv("DEEPGRAM_API_KEYS", ""))

	cfg.WhisperBin = getEnv("WHISPER_BIN", cfg.WhisperBin)
	cfg.WhisperModelPath = getEnv("WHISPER_MODEL_PATH", cfg.WhisperModelPath)

	if v := getEnv("CHUNK_DURATION_SEC", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkDurationSec = n
		}
	}
	if v := getEnv("CHUNK_OVERLAP_SEC", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ChunkOverlapSec = n
		}
	}

	return cfg, nil
}

// Default returns Settings with the standard chunking and model defaults.
func Default() *Settings {
	return &Settings{
		Mode:                   ModeAuto,
		GroqModel:              "whisper-large-v3",
		GroqTranslationModel:   "llama-3.3-70b-versatile",
		OpenAIModel:            "whisper-1",
		OpenAITranslationModel: "gpt-3.5-turbo",
		WhisperBin:             "whisper.cpp",
		ChunkDurationSec:       600,
		ChunkOverlapSec:        10,
		TranslateBatchSize:     10,
	}
}

// EffectiveMode resolves AUTO against the configured credentials.
// Priority: Groq > Deepgram > OpenAI > Local.
func (s *Settings) EffectiveMode() Mode {
	if s.Mode != ModeAuto {
		return s.Mode
	}
	if s.GroqAPIKey != "" {
		return ModeGroq
	}
	if len(s.DeepgramAPIKeys) > 0 {
		return ModeDeepgram
	}
	if s.OpenAIAPIKey != "" {
		return ModeOpenAI
	}
	return ModeLocal
}

// SplitKeys parses a comma-separated credential list, dropping empties.
func SplitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
