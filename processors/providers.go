package processors

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"mediainsight/config"
)

// Downloader fetches remote media to a local path and returns its title.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) (title string, err error)
}

// Transcriber runs one speech-to-text pass. language forces a decode language
// when non-empty; langCode is the language the engine detected (may be empty).
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (text, langCode string, err error)
}

// VisionModel describes one image against the user's query.
type VisionModel interface {
	Describe(ctx context.Context, imageB64, contextText string) (string, error)
}

// CompletionModel answers a single text prompt.
type CompletionModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AudioNormalizer extracts and transcodes audio tracks and probes durations.
type AudioNormalizer interface {
	ExtractAudioTrack(ctx context.Context, videoPath, outPath string) error
	Transcode(ctx context.Context, inPath, outPath string) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// FrameCapturer writes a single still frame of a video to outPath.
type FrameCapturer interface {
	Capture(ctx context.Context, videoPath string, timestampSec float64, outPath string) error
}

// pickTranscriber honors ASR=mock for offline runs, mirroring the provider
// selection the rest of the pipeline uses.
func pickTranscriber(cfg *config.Config, log *zap.SugaredLogger) Transcriber {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("ASR")), "mock") {
		log.Infof("using mock transcriber (ASR=mock)")
		return MockTranscriber{}
	}
	return newOpenAIClient(cfg)
}

func pickVision(cfg *config.Config, log *zap.SugaredLogger) VisionModel {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LLM")), "mock") {
		log.Infof("using mock vision model (LLM=mock)")
		return MockVision{}
	}
	return newOpenAIClient(cfg)
}

func pickCompletion(cfg *config.Config, log *zap.SugaredLogger) CompletionModel {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LLM")), "mock") {
		log.Infof("using mock completion model (LLM=mock)")
		return MockCompletion{}
	}
	return newOpenAIClient(cfg)
}
