package core

import (
	"context"
	"errors"
	"fmt"
)

// DownloadError reports a failed remote media download. Stderr carries the
// download tool's diagnostic output.
type DownloadError struct {
	URL    string
	Stderr string
	Err    error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ExtractionError reports a failed ffmpeg invocation. Stderr carries the tool's
// diagnostic output so it is never silently discarded.
type ExtractionError struct {
	Stage  string // "extract-audio", "transcode", "probe", "capture-frame"
	Stderr string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ValidationError rejects media that cannot produce a meaningful result, such
// as audio shorter than the transcription minimum.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// TranscriptionError reports a failed speech-to-text call.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string { return fmt.Sprintf("transcription: %v", e.Err) }

func (e *TranscriptionError) Unwrap() error { return e.Err }

// SynthesisError reports a failed final completion call. There is no retry.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string { return fmt.Sprintf("synthesis: %v", e.Err) }

func (e *SynthesisError) Unwrap() error { return e.Err }

// UserMessage maps a pipeline error to a message safe to show to the caller.
// Raw tool output and internal error text stay out of it.
func UserMessage(err error) string {
	var (
		dl *DownloadError
		ex *ExtractionError
		va *ValidationError
		tr *TranscriptionError
		sy *SynthesisError
	)
	switch {
	case errors.As(err, &dl):
		return "The video could not be downloaded. Check the link and try again."
	case errors.As(err, &va):
		return "The audio is too short to analyze."
	case errors.As(err, &ex):
		return "The media file could not be processed."
	case errors.As(err, &tr):
		return "Speech could not be transcribed from this media."
	case errors.As(err, &sy):
		return "The answer could not be generated. Please try again."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was cancelled."
	default:
		return "Media analysis failed."
	}
}
