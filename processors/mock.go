package processors

import (
	"context"
	"fmt"
)

// Mock providers let the pipeline run end to end without API access, the same
// way the transcription backend can be forced to a placeholder implementation.

type MockTranscriber struct{}

func (MockTranscriber) Transcribe(_ context.Context, audioPath, language string) (string, string, error) {
	lang := language
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf("Placeholder transcript for %s with enough distinct words to survive filtering", audioPath), lang, nil
}

type MockVision struct{}

func (MockVision) Describe(_ context.Context, _ string, contextText string) (string, error) {
	return "Placeholder frame description for: " + contextText, nil
}

type MockCompletion struct{}

func (MockCompletion) Complete(_ context.Context, prompt string) (string, error) {
	if len(prompt) > 120 {
		prompt = prompt[:120]
	}
	return "Placeholder answer based on prompt: " + prompt, nil
}
