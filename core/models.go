package core

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SourceKind tells where the media bytes of a job come from.
type SourceKind string

const (
	SourceUpload     SourceKind = "upload"
	SourceRemoteLink SourceKind = "remote-link"
)

// MediaKind is the modality the dispatcher resolved for a job.
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
	MediaImage MediaKind = "image"
)

// Intent selects between the generic audio handler and the song-sheet handler.
type Intent int

const (
	IntentGeneric Intent = iota
	IntentSongSheet
)

// MediaJob identifies one analysis request. A job owns every temp artifact
// created while it runs and is never shared across requests.
type MediaJob struct {
	ID        string
	Source    SourceKind
	Media     MediaKind
	Intent    Intent
	URL       string
	Filename  string
	Data      []byte
	Title     string
	Query     string
	CreatedAt time.Time
}

func NewUploadJob(filename string, data []byte, media MediaKind, query string) *MediaJob {
	return &MediaJob{
		ID:        uuid.NewString(),
		Source:    SourceUpload,
		Media:     media,
		Filename:  filename,
		Data:      data,
		Query:     query,
		CreatedAt: time.Now(),
	}
}

func NewLinkJob(url, query string) *MediaJob {
	return &MediaJob{
		ID:        uuid.NewString(),
		Source:    SourceRemoteLink,
		Media:     MediaVideo,
		URL:       url,
		Query:     query,
		CreatedAt: time.Now(),
	}
}

// Label is the user-visible source name: the remote title when one was
// extracted, otherwise the uploaded filename.
func (j *MediaJob) Label() string {
	if j.Title != "" {
		return j.Title
	}
	if j.Filename != "" {
		return filepath.Base(j.Filename)
	}
	return j.URL
}

// TranscriptResult is the outcome of the transcription engine. It is not
// mutated after the engine returns.
type TranscriptResult struct {
	Text      string
	Language  string
	Pass      int
	Discarded bool
}

// FrameSample is one still image taken from a video plus the description the
// vision model produced for it. Err is set when description failed; Description
// then holds a placeholder so aggregation stays deterministic.
type FrameSample struct {
	TimestampSec float64
	Payload      string // base64-encoded JPEG
	Description  string
	Err          error
}

// ContentCategory is the coarse content class used to pick a task prompt.
type ContentCategory string

const (
	CategorySong      ContentCategory = "song"
	CategoryCooking   ContentCategory = "cooking"
	CategoryLecture   ContentCategory = "lecture"
	CategoryInterview ContentCategory = "interview"
	CategoryVlog      ContentCategory = "vlog"
	CategoryOther     ContentCategory = "other"
)

// Categories lists every valid category, CategoryOther last.
func Categories() []ContentCategory {
	return []ContentCategory{
		CategorySong, CategoryCooking, CategoryLecture,
		CategoryInterview, CategoryVlog, CategoryOther,
	}
}

// ParseCategory maps a model reply to a category. Replies matching no category
// fall back to CategoryOther.
func ParseCategory(s string) ContentCategory {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if strings.Contains(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// AnalysisOutput is the final result of a job. Created once at the end of the
// pipeline and never mutated.
type AnalysisOutput struct {
	Summary   string
	Source    string
	Truncated bool
}
