package processors

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mediainsight/core"
)

// FFmpeg wraps the ffmpeg and ffprobe binaries. It implements both
// AudioNormalizer and FrameCapturer.
type FFmpeg struct {
	ffmpegCmd  string
	ffprobeCmd string
	log        *zap.SugaredLogger
}

func NewFFmpeg(ffmpegCmd, ffprobeCmd string, log *zap.SugaredLogger) *FFmpeg {
	return &FFmpeg{ffmpegCmd: ffmpegCmd, ffprobeCmd: ffprobeCmd, log: log}
}

// ExtractAudioTrack demuxes the audio track of a video into a WAV file.
func (ff *FFmpeg) ExtractAudioTrack(ctx context.Context, videoPath, outPath string) error {
	args := []string{"-y", "-i", videoPath, "-vn", "-f", "wav", outPath}
	return ff.run(ctx, "extract-audio", args)
}

// Transcode converts any audio input to mono 16 kHz signed 16-bit PCM WAV, the
// fixed format the transcription engine expects.
func (ff *FFmpeg) Transcode(ctx context.Context, inPath, outPath string) error {
	args := []string{
		"-y", "-i", inPath,
		"-ac", "1", "-ar", "16000", "-sample_fmt", "s16",
		"-f", "wav", outPath,
	}
	return ff.run(ctx, "transcode", args)
}

// Capture writes the frame at timestampSec to outPath as a JPEG.
func (ff *FFmpeg) Capture(ctx context.Context, videoPath string, timestampSec float64, outPath string) error {
	args := []string{
		"-y",
		"-ss", strconv.FormatFloat(timestampSec, 'f', 2, 64),
		"-i", videoPath,
		"-frames:v", "1", "-q:v", "2",
		outPath,
	}
	return ff.run(ctx, "capture-frame", args)
}

// ProbeDuration returns the media duration in seconds via ffprobe.
func (ff *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, ff.ffprobeCmd,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, &core.ExtractionError{Stage: "probe", Stderr: stderr.String(), Err: err}
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, &core.ExtractionError{Stage: "probe", Err: fmt.Errorf("parse duration: %w", err)}
	}
	return dur, nil
}

func (ff *FFmpeg) run(ctx context.Context, stage string, args []string) error {
	cmd := exec.CommandContext(ctx, ff.ffmpegCmd, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		ff.log.Warnf("ffmpeg %s failed: %v", stage, err)
		return &core.ExtractionError{Stage: stage, Stderr: stderr.String(), Err: err}
	}
	return nil
}
