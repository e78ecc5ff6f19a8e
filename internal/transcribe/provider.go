package transcribe

import (
	"context"
	"errors"
)

// Provider is a speech-to-text backend. The set of implementations is
// closed: local whisper.cpp, Groq, OpenAI, Deepgram, and the rotation
// wrapper pairing two of them.
//
// A failed call returns a zero Result and a non-nil error; fallback
// decisions are made on the returned error, never on panics.
type Provider interface {
	// Name identifies the backend in results and logs.
	Name() string

	// Ready reports whether the backend can serve calls. It never
	// panics; any initialization problem reports false.
	Ready() bool

	// Transcribe converts audio to text. progress may be nil.
	Transcribe(ctx context.Context, audio Audio, progress ProgressFunc) (Result, error)
}

// ErrNotReady is returned by providers invoked before their
// dependencies (credentials, binaries) are in place.
var ErrNotReady = errors.New("provider not ready")

// Cutter materializes pieces of an audio file. Implemented by the
// media package; injected so providers stay free of subprocess code.
type Cutter interface {
	// Duration returns the audio duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// Cut writes the window [startSec, startSec+lengthSec) of path to a
	// new file and returns its location.
	Cut(ctx context.Context, path string, startSec, lengthSec float64) (string, error)
}
