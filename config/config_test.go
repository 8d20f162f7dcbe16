package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, 5, cfg.MaxFrames)
	assert.Equal(t, 2, cfg.FrameIntervalSec)
	assert.Equal(t, 20, cfg.FrameWindowSec)
	assert.Equal(t, cfg.MaxFrames, cfg.FrameConcurrency)
	assert.Equal(t, 1.0, cfg.MinAudioSeconds)
	assert.Equal(t, 4000, cfg.MaxOutputChars)
	assert.Equal(t, 480, cfg.MaxDownloadHeight)
	assert.Equal(t, "whisper-1", cfg.TranscribeModel)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("MAX_FRAMES", "3")
	t.Setenv("FRAME_WINDOW_SEC", "10")
	t.Setenv("CHAT_MODEL", "some-model")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxFrames)
	assert.Equal(t, 10, cfg.FrameWindowSec)
	assert.Equal(t, "some-model", cfg.ChatModel)
	assert.Equal(t, "some-model", cfg.VisionModel, "vision model defaults to the chat model")
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.APIKey = " " }},
		{"zero frames", func(c *Config) { c.MaxFrames = -1 }},
		{"window smaller than interval", func(c *Config) { c.FrameWindowSec = 1; c.FrameIntervalSec = 2 }},
		{"tiny output budget", func(c *Config) { c.MaxOutputChars = 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("API_KEY", "k")
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
