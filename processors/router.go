package processors

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"mediainsight/core"
)

// Request is one inbound analysis request: either an upload (Filename+Data) or
// a URL found in the query/URL field.
type Request struct {
	Filename string
	Data     []byte
	URL      string
	Query    string
}

var youtubeURLRe = regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+|https?://youtu\.be/[\w-]+`)

var (
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".avi": true}
	audioExts = map[string]bool{".mp3": true, ".wav": true, ".m4a": true, ".flac": true, ".ogg": true}
	imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}
)

// Dispatch inspects the request and routes it to the matching media pipeline.
// Document attachments belong to the text-ingestion pipeline and are rejected
// here.
func (p *Pipeline) Dispatch(ctx context.Context, req Request) (*core.AnalysisOutput, error) {
	if url := matchYouTubeURL(req.URL, req.Query); url != "" {
		return p.AnalyzeMedia(ctx, core.NewLinkJob(url, req.Query))
	}

	if req.Filename == "" {
		return nil, fmt.Errorf("no media attachment or recognized link in request")
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	switch {
	case videoExts[ext]:
		return p.AnalyzeMedia(ctx, core.NewUploadJob(req.Filename, req.Data, core.MediaVideo, req.Query))
	case audioExts[ext]:
		job := core.NewUploadJob(req.Filename, req.Data, core.MediaAudio, req.Query)
		job.Intent = DetectIntent(req.Query)
		return p.AnalyzeMedia(ctx, job)
	case imageExts[ext]:
		return p.AnalyzeMedia(ctx, core.NewUploadJob(req.Filename, req.Data, core.MediaImage, req.Query))
	default:
		return nil, fmt.Errorf("unsupported attachment type %q", ext)
	}
}

// DetectIntent picks the song-sheet handler when the query asks for chords or
// lyrics.
func DetectIntent(query string) core.Intent {
	q := strings.ToLower(query)
	if strings.Contains(q, "chord") || strings.Contains(q, "guitar") || strings.Contains(q, "lyric") {
		return core.IntentSongSheet
	}
	return core.IntentGeneric
}

// matchYouTubeURL returns the first YouTube link found in the URL field or the
// free-text query.
func matchYouTubeURL(url, query string) string {
	if m := youtubeURLRe.FindString(url); m != "" {
		return m
	}
	return youtubeURLRe.FindString(query)
}
