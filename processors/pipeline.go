package processors

import (
	"context"
	"encoding/base64"
	"os"

	"go.uber.org/zap"

	"mediainsight/config"
	"mediainsight/core"
)

// noContentMessage is returned when every content channel came up empty.
const noContentMessage = "Unable to extract meaningful content from this media."

// Pipeline runs one MediaJob through acquisition, normalization,
// transcription, visual analysis, classification, and synthesis. Every temp
// artifact the run creates is released before AnalyzeMedia returns.
type Pipeline struct {
	cfg        *config.Config
	log        *zap.SugaredLogger
	downloader Downloader
	normalizer AudioNormalizer
	engine     *Engine
	sampler    *Sampler
	classifier *Classifier
	synth      *Synthesizer
	vision     VisionModel
}

// NewPipeline wires the production collaborators: yt-dlp, ffmpeg/ffprobe, and
// the OpenAI-compatible models (mock providers via ASR=mock / LLM=mock).
func NewPipeline(cfg *config.Config, log *zap.SugaredLogger) (*Pipeline, error) {
	if err := validateTables(); err != nil {
		return nil, err
	}

	ff := NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath, log)
	vision := pickVision(cfg, log)
	llm := pickCompletion(cfg, log)

	return &Pipeline{
		cfg:        cfg,
		log:        log,
		downloader: NewYtdlpDownloader(cfg.YtdlpPath, cfg.MaxDownloadHeight, log),
		normalizer: ff,
		engine:     NewEngine(pickTranscriber(cfg, log), log),
		sampler:    NewSampler(ff, vision, cfg, log),
		classifier: NewClassifier(llm, log),
		synth:      NewSynthesizer(llm, cfg, log),
		vision:     vision,
	}, nil
}

// AnalyzeMedia is the single caller-facing operation. On failure the returned
// error is one of the typed pipeline errors; core.UserMessage turns it into a
// caller-safe message.
func (p *Pipeline) AnalyzeMedia(ctx context.Context, job *core.MediaJob) (*core.AnalysisOutput, error) {
	if job.Media == core.MediaImage {
		return p.analyzeImage(ctx, job)
	}

	rm, err := core.NewResourceManager(p.cfg.TempDir, job.ID, p.log)
	if err != nil {
		return nil, err
	}
	defer rm.ReleaseAll()

	sourcePath, err := p.acquire(ctx, job, rm)
	if err != nil {
		return nil, err
	}

	normPath, err := p.normalizeAudio(ctx, job, rm, sourcePath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transcript, err := p.engine.Run(ctx, normPath, job.Label())
	if err != nil {
		if job.Media != core.MediaVideo {
			return nil, err
		}
		// Video still has the visual channel; continue without a transcript.
		p.log.Warnf("transcription failed, relying on visual analysis: %v", err)
		transcript = core.TranscriptResult{Discarded: true}
	}

	if job.Media == core.MediaVideo {
		return p.finishVideo(ctx, job, rm, sourcePath, transcript)
	}
	return p.finishAudio(ctx, job, transcript)
}

// acquire materializes the job's media as a local artifact: uploads are
// written out, remote links are downloaded.
func (p *Pipeline) acquire(ctx context.Context, job *core.MediaJob, rm *core.ResourceManager) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	kind := core.ArtifactRawVideo
	if job.Media == core.MediaAudio {
		kind = core.ArtifactRawAudio
	}
	artifact, err := rm.Acquire(kind)
	if err != nil {
		return "", err
	}

	switch job.Source {
	case core.SourceRemoteLink:
		title, err := p.downloader.Download(ctx, job.URL, artifact.Path)
		if err != nil {
			return "", err
		}
		job.Title = title
	default:
		p.log.Infof("saving uploaded %s: %s (%d bytes)", job.Media, job.Filename, len(job.Data))
		if err := os.WriteFile(artifact.Path, job.Data, 0o644); err != nil {
			return "", err
		}
	}
	return artifact.Path, nil
}

// normalizeAudio produces the mono 16 kHz PCM artifact the transcription
// engine expects and rejects audio shorter than the configured minimum.
func (p *Pipeline) normalizeAudio(ctx context.Context, job *core.MediaJob, rm *core.ResourceManager, sourcePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	transcodeInput := sourcePath
	if job.Media == core.MediaVideo {
		rawAudio, err := rm.Acquire(core.ArtifactRawAudio)
		if err != nil {
			return "", err
		}
		if err := p.normalizer.ExtractAudioTrack(ctx, sourcePath, rawAudio.Path); err != nil {
			return "", err
		}
		transcodeInput = rawAudio.Path
	}

	norm, err := rm.Acquire(core.ArtifactNormalizedAudio)
	if err != nil {
		return "", err
	}
	if err := p.normalizer.Transcode(ctx, transcodeInput, norm.Path); err != nil {
		return "", err
	}

	dur, err := p.normalizer.ProbeDuration(ctx, norm.Path)
	if err != nil {
		return "", err
	}
	if dur < p.cfg.MinAudioSeconds {
		return "", &core.ValidationError{Reason: "audio too short for transcription"}
	}
	return norm.Path, nil
}

func (p *Pipeline) finishVideo(ctx context.Context, job *core.MediaJob, rm *core.ResourceManager, videoPath string, transcript core.TranscriptResult) (*core.AnalysisOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	duration, err := p.normalizer.ProbeDuration(ctx, videoPath)
	if err != nil {
		p.log.Warnf("video duration probe failed, sampling full window: %v", err)
		duration = float64(p.cfg.FrameWindowSec)
	}
	_, visuals := p.sampler.Analyze(ctx, rm, videoPath, duration, job.Query)

	if transcript.Text == "" && visuals == "" {
		return &core.AnalysisOutput{Summary: noContentMessage, Source: job.Label()}, nil
	}

	category := p.classifier.Classify(ctx, transcript.Text, visuals)
	instruction := SelectPrompt(category, job.Query, transcript.Text == "")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	answer, truncated, err := p.synth.Synthesize(ctx, visuals, instruction, transcript.Text)
	if err != nil {
		return nil, err
	}
	return &core.AnalysisOutput{Summary: answer, Source: job.Label(), Truncated: truncated}, nil
}

func (p *Pipeline) finishAudio(ctx context.Context, job *core.MediaJob, transcript core.TranscriptResult) (*core.AnalysisOutput, error) {
	if transcript.Text == "" {
		return &core.AnalysisOutput{Summary: noContentMessage, Source: job.Label()}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if job.Intent == core.IntentSongSheet {
		answer, truncated, err := p.synth.SynthesizeSongSheet(ctx, transcript.Text)
		if err != nil {
			return nil, err
		}
		return &core.AnalysisOutput{Summary: answer, Source: job.Label(), Truncated: truncated}, nil
	}

	category := p.classifier.Classify(ctx, transcript.Text, "")
	instruction := SelectPrompt(category, job.Query, false)

	answer, truncated, err := p.synth.Synthesize(ctx, "", instruction, transcript.Text)
	if err != nil {
		return nil, err
	}
	if category == core.CategorySong {
		answer = WithChordTip(answer)
	}
	return &core.AnalysisOutput{Summary: answer, Source: job.Label(), Truncated: truncated}, nil
}

// analyzeImage is the single-shot image path: one vision call, no temp
// artifacts.
func (p *Pipeline) analyzeImage(ctx context.Context, job *core.MediaJob) (*core.AnalysisOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := job.Query
	if query == "" {
		query = "Describe this image."
	}
	desc, err := p.vision.Describe(ctx, base64.StdEncoding.EncodeToString(job.Data), query)
	if err != nil {
		return nil, &core.SynthesisError{Err: err}
	}
	answer, truncated := p.synth.truncate(desc)
	return &core.AnalysisOutput{Summary: answer, Source: job.Label(), Truncated: truncated}, nil
}
