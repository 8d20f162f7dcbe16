package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// ArtifactKind enumerates every on-disk byproduct a pipeline stage may create.
type ArtifactKind string

const (
	ArtifactRawVideo        ArtifactKind = "raw-video"
	ArtifactRawAudio        ArtifactKind = "raw-audio"
	ArtifactNormalizedAudio ArtifactKind = "normalized-audio"
	ArtifactFrameImage      ArtifactKind = "frame-image"
)

// TempArtifact is a filesystem object owned by exactly one job. It is deleted
// unconditionally when the job terminates.
type TempArtifact struct {
	Kind  ArtifactKind
	Path  string
	JobID string
}

// ResourceManager hands out managed paths for a single job and guarantees
// their removal. No other component deletes pipeline files, and no stage
// derives artifact paths by string surgery on other paths.
type ResourceManager struct {
	jobID string
	dir   string
	log   *zap.SugaredLogger

	mu        sync.Mutex
	artifacts []*TempArtifact
	frameSeq  int
}

// NewResourceManager creates the per-job working directory under baseDir.
func NewResourceManager(baseDir, jobID string, log *zap.SugaredLogger) (*ResourceManager, error) {
	dir := filepath.Join(baseDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}
	return &ResourceManager{jobID: jobID, dir: dir, log: log}, nil
}

// Acquire reserves a path for one artifact of the given kind and registers it
// for cleanup. The file itself is created by the stage that asked.
func (m *ResourceManager) Acquire(kind ArtifactKind) (*TempArtifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var name string
	switch kind {
	case ArtifactRawVideo:
		name = "input.mp4"
	case ArtifactRawAudio:
		name = "audio.wav"
	case ArtifactNormalizedAudio:
		name = "audio_16k.wav"
	case ArtifactFrameImage:
		name = fmt.Sprintf("frame_%02d.jpg", m.frameSeq)
		m.frameSeq++
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", kind)
	}

	a := &TempArtifact{Kind: kind, Path: filepath.Join(m.dir, name), JobID: m.jobID}
	m.artifacts = append(m.artifacts, a)
	return a, nil
}

// ReleaseAll deletes every registered artifact and the job directory. Deletion
// failures are logged and swallowed so cleanup never masks the pipeline's real
// result. Safe to call more than once.
func (m *ResourceManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.artifacts {
		if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
			m.log.Warnf("cleanup: failed to delete %s artifact %s: %v", a.Kind, a.Path, err)
		}
	}
	m.artifacts = m.artifacts[:0]

	if err := os.RemoveAll(m.dir); err != nil {
		m.log.Warnf("cleanup: failed to remove job dir %s: %v", m.dir, err)
	}
}

// Live reports how many registered artifact paths still exist on disk.
func (m *ResourceManager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, a := range m.artifacts {
		if _, err := os.Stat(a.Path); err == nil {
			n++
		}
	}
	return n
}

// Dir is the job's working directory.
func (m *ResourceManager) Dir() string { return m.dir }
