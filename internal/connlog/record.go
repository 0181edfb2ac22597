package connlog

import (
	"context"
	"time"

	"github.com/kalisp/OpenCue/internal/cuebot"
	"github.com/kalisp/OpenCue/pkg/cueerr"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Entry is a persisted Cuebot connection attempt.
type Entry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Facility   string    `json:"facility,omitempty"`
	Host       string    `json:"host"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// FromAttempt converts a connection attempt into an Entry.
func FromAttempt(a cuebot.Attempt) *Entry {
	entry := &Entry{
		Timestamp:  a.Started.UTC(),
		Facility:   a.Facility,
		Host:       a.Host,
		Outcome:    OutcomeSuccess,
		DurationMs: a.Duration.Milliseconds(),
	}
	if a.Err != nil {
		entry.Outcome = OutcomeError
		entry.Detail = a.Err.Error()
		entry.ErrorKind = string(cueerr.KindOf(a.Err))
	}
	return entry
}

// RecordAttempt implements cuebot.Recorder.
func (r *SQLiteRepository) RecordAttempt(ctx context.Context, a cuebot.Attempt) error {
	return r.SaveContext(ctx, FromAttempt(a))
}
