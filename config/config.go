package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries API credentials, model names, external tool paths, and the
// sampling/truncation knobs of the analysis pipeline.
type Config struct {
	APIKey          string `json:"api_key"`
	BaseURL         string `json:"base_url"`
	ChatModel       string `json:"chat_model"`
	VisionModel     string `json:"vision_model"`
	TranscribeModel string `json:"transcribe_model"`

	FFmpegPath  string `json:"ffmpeg_path"`
	FFprobePath string `json:"ffprobe_path"`
	YtdlpPath   string `json:"ytdlp_path"`

	TempDir string `json:"temp_dir"`

	MaxFrames        int     `json:"max_frames"`
	FrameIntervalSec int     `json:"frame_interval_sec"`
	FrameWindowSec   int     `json:"frame_window_sec"`
	FrameConcurrency int     `json:"frame_concurrency"`
	MinAudioSeconds  float64 `json:"min_audio_seconds"`
	MaxOutputChars   int     `json:"max_output_chars"`
	MaxDownloadHeight int    `json:"max_download_height"`
}

// Load reads config.json when present, then applies environment overrides and
// fills defaults. Missing config.json is not an error; env-only setups are
// fine.
func Load() (*Config, error) {
	cfg := &Config{}

	if data, err := os.ReadFile("config.json"); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config.json: %w", err)
		}
	}

	overrideString(&cfg.APIKey, "API_KEY")
	overrideString(&cfg.BaseURL, "BASE_URL")
	overrideString(&cfg.ChatModel, "CHAT_MODEL")
	overrideString(&cfg.VisionModel, "VISION_MODEL")
	overrideString(&cfg.TranscribeModel, "TRANSCRIBE_MODEL")
	overrideString(&cfg.FFmpegPath, "FFMPEG_PATH")
	overrideString(&cfg.FFprobePath, "FFPROBE_PATH")
	overrideString(&cfg.YtdlpPath, "YTDLP_PATH")
	overrideString(&cfg.TempDir, "TEMP_DIR")
	overrideInt(&cfg.MaxFrames, "MAX_FRAMES")
	overrideInt(&cfg.FrameIntervalSec, "FRAME_INTERVAL_SEC")
	overrideInt(&cfg.FrameWindowSec, "FRAME_WINDOW_SEC")
	overrideInt(&cfg.FrameConcurrency, "FRAME_CONCURRENCY")
	overrideInt(&cfg.MaxOutputChars, "MAX_OUTPUT_CHARS")

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ChatModel == "" {
		c.ChatModel = "gpt-4o-mini"
	}
	if c.VisionModel == "" {
		c.VisionModel = c.ChatModel
	}
	if c.TranscribeModel == "" {
		c.TranscribeModel = "whisper-1"
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}
	if c.YtdlpPath == "" {
		c.YtdlpPath = "yt-dlp"
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.MaxFrames == 0 {
		c.MaxFrames = 5
	}
	if c.FrameIntervalSec == 0 {
		c.FrameIntervalSec = 2
	}
	if c.FrameWindowSec == 0 {
		c.FrameWindowSec = 20
	}
	if c.FrameConcurrency == 0 {
		c.FrameConcurrency = c.MaxFrames
	}
	if c.MinAudioSeconds == 0 {
		c.MinAudioSeconds = 1.0
	}
	if c.MaxOutputChars == 0 {
		c.MaxOutputChars = 4000
	}
	if c.MaxDownloadHeight == 0 {
		c.MaxDownloadHeight = 480
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.APIKey) == "" {
		problems = append(problems, "API key is required")
	}
	if c.MaxFrames < 1 {
		problems = append(problems, "max_frames must be at least 1")
	}
	if c.FrameIntervalSec < 1 {
		problems = append(problems, "frame_interval_sec must be at least 1")
	}
	if c.FrameWindowSec < c.FrameIntervalSec {
		problems = append(problems, "frame_window_sec must cover at least one interval")
	}
	if c.FrameConcurrency < 1 {
		problems = append(problems, "frame_concurrency must be at least 1")
	}
	if c.MaxOutputChars < 100 {
		problems = append(problems, "max_output_chars is too small to be useful")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
