package processors

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mediainsight/config"
	"mediainsight/core"
)

// framePrompt is the fixed neutral instruction sent with every frame; the
// user's query rides along as secondary context.
const framePrompt = "Describe what is visually happening in this video frame."

// Sampler extracts a bounded set of stills from the start of a video and asks
// the vision model to describe each one. Per-frame failures never abort the
// job; they are recorded as placeholder descriptions.
type Sampler struct {
	capturer    FrameCapturer
	vision      VisionModel
	maxFrames   int
	intervalSec int
	windowSec   int
	concurrency int
	log         *zap.SugaredLogger
}

func NewSampler(capturer FrameCapturer, vision VisionModel, cfg *config.Config, log *zap.SugaredLogger) *Sampler {
	return &Sampler{
		capturer:    capturer,
		vision:      vision,
		maxFrames:   cfg.MaxFrames,
		intervalSec: cfg.FrameIntervalSec,
		windowSec:   cfg.FrameWindowSec,
		concurrency: cfg.FrameConcurrency,
		log:         log,
	}
}

// planTimestamps returns the sampling instants: fixed intervals within the
// lookahead window or the clip duration, whichever ends first, capped at the
// frame budget.
func (s *Sampler) planTimestamps(duration float64) []float64 {
	limit := float64(s.windowSec)
	if duration < limit {
		limit = duration
	}
	var ts []float64
	for t := 0.0; t < limit && len(ts) < s.maxFrames; t += float64(s.intervalSec) {
		ts = append(ts, t)
	}
	return ts
}

// Analyze captures frames for the job's video and returns the described
// samples in timestamp order plus the concatenated visual summary.
func (s *Sampler) Analyze(ctx context.Context, rm *core.ResourceManager, videoPath string, duration float64, query string) ([]core.FrameSample, string) {
	samples := s.captureFrames(ctx, rm, videoPath, duration)
	s.describeFrames(ctx, samples, query)
	return samples, visualSummary(samples)
}

func (s *Sampler) captureFrames(ctx context.Context, rm *core.ResourceManager, videoPath string, duration float64) []core.FrameSample {
	var samples []core.FrameSample
	for _, t := range s.planTimestamps(duration) {
		sample := core.FrameSample{TimestampSec: t}

		artifact, err := rm.Acquire(core.ArtifactFrameImage)
		if err != nil {
			sample.Err = err
			samples = append(samples, sample)
			continue
		}
		if err := s.capturer.Capture(ctx, videoPath, t, artifact.Path); err != nil {
			s.log.Warnf("frame capture at %.0fs failed: %v", t, err)
			sample.Err = err
			samples = append(samples, sample)
			continue
		}
		raw, err := os.ReadFile(artifact.Path)
		if err != nil {
			sample.Err = err
			samples = append(samples, sample)
			continue
		}
		sample.Payload = base64.StdEncoding.EncodeToString(raw)
		samples = append(samples, sample)
	}
	return samples
}

// describeFrames runs the vision calls concurrently with a bounded fan-out and
// fills each sample in place, so timestamp order is preserved regardless of
// completion order.
func (s *Sampler) describeFrames(ctx context.Context, samples []core.FrameSample, query string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range samples {
		sample := &samples[i]
		if sample.Err != nil {
			sample.Description = placeholderDescription(sample.TimestampSec, sample.Err)
			continue
		}
		g.Go(func() error {
			contextText := framePrompt
			if strings.TrimSpace(query) != "" {
				contextText += "\nUser question for context: " + query
			}
			desc, err := s.vision.Describe(gctx, sample.Payload, contextText)
			if err != nil {
				s.log.Warnf("vision analysis at %.0fs failed: %v", sample.TimestampSec, err)
				sample.Err = err
				sample.Description = placeholderDescription(sample.TimestampSec, err)
				return nil
			}
			sample.Description = desc
			return nil
		})
	}
	_ = g.Wait()
}

func placeholderDescription(t float64, err error) string {
	return fmt.Sprintf("[frame at %.0fs could not be analyzed: %v]", t, err)
}

// visualSummary joins all frame descriptions, placeholders included, in
// timestamp order.
func visualSummary(samples []core.FrameSample) string {
	parts := make([]string, 0, len(samples))
	for _, s := range samples {
		if s.Description != "" {
			parts = append(parts, s.Description)
		}
	}
	return strings.Join(parts, "\n\n")
}
