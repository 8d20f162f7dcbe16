package processors

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediainsight/config"
	"mediainsight/core"
)

func testSampler(capturer FrameCapturer, vision VisionModel) *Sampler {
	cfg := &config.Config{}
	return NewSampler(capturer, vision, withDefaults(cfg), zap.NewNop().Sugar())
}

func withDefaults(cfg *config.Config) *config.Config {
	if cfg.MaxFrames == 0 {
		cfg.MaxFrames = 5
	}
	if cfg.FrameIntervalSec == 0 {
		cfg.FrameIntervalSec = 2
	}
	if cfg.FrameWindowSec == 0 {
		cfg.FrameWindowSec = 20
	}
	if cfg.FrameConcurrency == 0 {
		cfg.FrameConcurrency = cfg.MaxFrames
	}
	return cfg
}

func TestSampler_PlanTimestamps(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		expected []float64
	}{
		{"long clip is capped at the frame budget", 30, []float64{0, 2, 4, 6, 8}},
		{"short clip is bounded by its duration", 3, []float64{0, 2}},
		{"sub-interval clip still yields the first frame", 1.5, []float64{0}},
		{"window bound applies before the cap would", 20, []float64{0, 2, 4, 6, 8}},
	}
	s := testSampler(&fakeCapturer{}, &fakeVision{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.planTimestamps(tt.duration))
		})
	}
}

func TestSampler_PlanNeverExceedsWindow(t *testing.T) {
	cfg := withDefaults(&config.Config{MaxFrames: 50})
	s := NewSampler(&fakeCapturer{}, &fakeVision{}, cfg, zap.NewNop().Sugar())
	for _, ts := range s.planTimestamps(120) {
		assert.Less(t, ts, 20.0)
	}
}

func TestSampler_AnalyzeOrdersDescriptionsByTimestamp(t *testing.T) {
	rm, err := core.NewResourceManager(t.TempDir(), "job-frames", zap.NewNop().Sugar())
	require.NoError(t, err)
	defer rm.ReleaseAll()

	s := testSampler(&fakeCapturer{}, &fakeVision{})
	samples, summary := s.Analyze(context.Background(), rm, "input.mp4", 30, "what is happening?")

	require.Len(t, samples, 5)
	assert.Equal(t,
		"saw frame@0\n\nsaw frame@2\n\nsaw frame@4\n\nsaw frame@6\n\nsaw frame@8",
		summary)
	for i, sample := range samples {
		assert.Equal(t, float64(i*2), sample.TimestampSec)
		assert.NoError(t, sample.Err)
	}
}

func TestSampler_PerFrameVisionFailureIsNonFatal(t *testing.T) {
	rm, err := core.NewResourceManager(t.TempDir(), "job-failing-frame", zap.NewNop().Sugar())
	require.NoError(t, err)
	defer rm.ReleaseAll()

	vision := &fakeVision{failOn: "frame@4", err: errors.New("model overloaded")}
	s := testSampler(&fakeCapturer{}, vision)
	samples, summary := s.Analyze(context.Background(), rm, "input.mp4", 30, "")

	require.Len(t, samples, 5)
	assert.Error(t, samples[2].Err)
	assert.Contains(t, samples[2].Description, "could not be analyzed")
	assert.Contains(t, summary, "saw frame@2")
	assert.Contains(t, summary, "saw frame@6", "frames after the failure must still be described")
}

func TestSampler_CaptureFailureYieldsPlaceholder(t *testing.T) {
	rm, err := core.NewResourceManager(t.TempDir(), "job-capture-fail", zap.NewNop().Sugar())
	require.NoError(t, err)
	defer rm.ReleaseAll()

	s := testSampler(&fakeCapturer{err: errors.New("ffmpeg exploded")}, &fakeVision{})
	samples, summary := s.Analyze(context.Background(), rm, "input.mp4", 10, "")

	require.Len(t, samples, 5)
	for _, sample := range samples {
		assert.Error(t, sample.Err)
	}
	assert.Contains(t, summary, "could not be analyzed")
}

func TestSampler_PayloadIsBase64JPEGBytes(t *testing.T) {
	rm, err := core.NewResourceManager(t.TempDir(), "job-payload", zap.NewNop().Sugar())
	require.NoError(t, err)
	defer rm.ReleaseAll()

	s := testSampler(&fakeCapturer{}, &fakeVision{})
	samples, _ := s.Analyze(context.Background(), rm, "input.mp4", 1.5, "")

	require.Len(t, samples, 1)
	decoded, err := base64.StdEncoding.DecodeString(samples[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "frame@0", string(decoded))
}
