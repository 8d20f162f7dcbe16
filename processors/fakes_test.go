package processors

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Test doubles for the external collaborators. They live in one place so the
// scenario tests in pipeline_test.go and the unit tests share them.

type fakeDownloader struct {
	title string
	err   error
	calls int
}

func (f *fakeDownloader) Download(_ context.Context, url, destPath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if err := os.WriteFile(destPath, []byte("video-bytes"), 0o644); err != nil {
		return "", err
	}
	return f.title, nil
}

type fakeNormalizer struct {
	audioDuration float64
	videoDuration float64
	transcodeErr  error

	extracted  int
	transcoded int
}

func (f *fakeNormalizer) ExtractAudioTrack(_ context.Context, _, outPath string) error {
	f.extracted++
	return os.WriteFile(outPath, []byte("raw-audio"), 0o644)
}

func (f *fakeNormalizer) Transcode(_ context.Context, _, outPath string) error {
	f.transcoded++
	if f.transcodeErr != nil {
		return f.transcodeErr
	}
	return os.WriteFile(outPath, []byte("normalized-audio"), 0o644)
}

func (f *fakeNormalizer) ProbeDuration(_ context.Context, path string) (float64, error) {
	if strings.Contains(path, "16k") {
		return f.audioDuration, nil
	}
	return f.videoDuration, nil
}

type fakeCapturer struct {
	err error
}

func (f *fakeCapturer) Capture(_ context.Context, _ string, t float64, outPath string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte(frameTag(t)), 0o644)
}

func frameTag(t float64) string {
	return fmt.Sprintf("frame@%d", int(t))
}

// scripted transcriber: each call pops the next result and records the forced
// language.
type fakeTranscriber struct {
	results []fakeTranscription
	langs   []string
	calls   int
}

type fakeTranscription struct {
	text string
	lang string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, language string) (string, string, error) {
	f.langs = append(f.langs, language)
	if f.calls >= len(f.results) {
		return "", "", nil
	}
	r := f.results[f.calls]
	f.calls++
	return r.text, r.lang, r.err
}

// fakeVision echoes the decoded payload so tests can assert ordering. Vision
// calls run concurrently, so the counter is guarded.
type fakeVision struct {
	failOn string // substring of decoded payload that triggers an error
	err    error

	mu    sync.Mutex
	calls int
}

func (f *fakeVision) Describe(_ context.Context, imageB64, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	decoded, _ := base64.StdEncoding.DecodeString(imageB64)
	if f.err != nil && (f.failOn == "" || strings.Contains(string(decoded), f.failOn)) {
		return "", f.err
	}
	return "saw " + string(decoded), nil
}

// fakeLLM answers via fn, so each test decides per prompt.
type fakeLLM struct {
	fn      func(prompt string) (string, error)
	prompts []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.fn == nil {
		return "ok", nil
	}
	return f.fn(prompt)
}

var _ Downloader = (*fakeDownloader)(nil)
var _ AudioNormalizer = (*fakeNormalizer)(nil)
var _ FrameCapturer = (*fakeCapturer)(nil)
var _ Transcriber = (*fakeTranscriber)(nil)
var _ VisionModel = (*fakeVision)(nil)
var _ CompletionModel = (*fakeLLM)(nil)
