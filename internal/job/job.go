package job

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JWangZhi/Bybass-Subtitile/internal/transcribe"
)

// Status is a pipeline state. Transitions run strictly forward;
// ERROR is reachable from any non-terminal state and is terminal.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusExtracting   Status = "EXTRACTING"
	StatusTranscribing Status = "TRANSCRIBING"
	StatusTranslating  Status = "TRANSLATING"
	StatusBurning      Status = "BURNING"
	StatusDone         Status = "DONE"
	StatusError        Status = "ERROR"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Job is one file-based transcription work unit. It is owned by its
// pipeline task for its whole lifetime; everyone else sees copies
// through Snapshot.
type Job struct {
	ID              string               `json:"id"`
	Status          Status               `json:"status"`
	Progress        int                  `json:"progress"`
	SourceLang      string               `json:"sourceLang,omitempty"`
	TargetLang      string               `json:"targetLang,omitempty"`
	Segments        []transcribe.Segment `json:"segments,omitempty"`
	ErrorMessage    string               `json:"errorMessage,omitempty"`
	AllowCollection bool                 `json:"allowCollection,omitempty"`
	BurnRequested   bool                 `json:"burnRequested,omitempty"`
	InputPath       string               `json:"inputPath,omitempty"`
	SubtitlePath    string               `json:"subtitlePath,omitempty"`
	OutputPath      string               `json:"outputPath,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// New creates a pending job for the given media file.
func New(inputPath, sourceLang, targetLang string) *Job {
	return &Job{
		ID:         uuid.NewString(),
		Status:     StatusPending,
		Progress:   0,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		InputPath:  inputPath,
		CreatedAt:  time.Now(),
	}
}

// Snapshot is a read-only copy handed to subscribers and the store.
func (j *Job) Snapshot() Job {
	copied := *j
	copied.Segments = append([]transcribe.Segment(nil), j.Segments...)
	return copied
}

// FromSnapshot restores a job from a serialized snapshot, possibly
// written by an older build. Missing fields stay at their zero values;
// only an empty status gets normalized so the record is usable.
func FromSnapshot(data []byte) (*Job, error) {
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Status == "" {
		j.Status = StatusPending
	}
	return &j, nil
}
