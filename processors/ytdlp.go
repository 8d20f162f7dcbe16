package processors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"mediainsight/core"
)

const defaultRemoteTitle = "Unknown YouTube Video"

// YtdlpDownloader fetches remote videos with yt-dlp, capped at a configured
// resolution and merged into a single mp4 container.
type YtdlpDownloader struct {
	bin       string
	maxHeight int
	log       *zap.SugaredLogger
}

func NewYtdlpDownloader(bin string, maxHeight int, log *zap.SugaredLogger) *YtdlpDownloader {
	return &YtdlpDownloader{bin: bin, maxHeight: maxHeight, log: log}
}

// Download writes the remote video to destPath and returns its title from the
// metadata yt-dlp prints. Failures carry the tool's stderr in a DownloadError.
func (d *YtdlpDownloader) Download(ctx context.Context, url, destPath string) (string, error) {
	args := []string{
		"-f", fmt.Sprintf("best[height<=%d][ext=mp4]", d.maxHeight),
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-progress",
		"--print-json",
		"-o", destPath,
		url,
	}

	d.log.Infof("downloading remote video: %s", url)
	cmd := exec.CommandContext(ctx, d.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &core.DownloadError{URL: url, Stderr: stderr.String(), Err: err}
	}

	title := parseYtdlpTitle(stdout.Bytes())
	d.log.Infof("video downloaded: %s", title)
	return title, nil
}

func parseYtdlpTitle(metadata []byte) string {
	var info struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(metadata, &info); err != nil {
		return defaultRemoteTitle
	}
	if strings.TrimSpace(info.Title) == "" {
		return defaultRemoteTitle
	}
	return strings.TrimSpace(info.Title)
}
