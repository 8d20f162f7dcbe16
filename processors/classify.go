package processors

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mediainsight/core"
)

// classifyPreviewChars bounds how much transcript and visual text the
// classifier sees.
const classifyPreviewChars = 1000

// Classifier assigns one coarse content category to a piece of media.
// Classification never aborts a job: any failure maps to CategoryOther.
type Classifier struct {
	llm CompletionModel
	log *zap.SugaredLogger
}

func NewClassifier(llm CompletionModel, log *zap.SugaredLogger) *Classifier {
	return &Classifier{llm: llm, log: log}
}

// Classify asks the model for exactly one label from the fixed category set.
func (c *Classifier) Classify(ctx context.Context, transcript, visuals string) core.ContentCategory {
	labels := make([]string, 0, len(core.Categories()))
	for _, cat := range core.Categories() {
		labels = append(labels, "- "+string(cat))
	}

	prompt := fmt.Sprintf(
		"You are analyzing a piece of media.\n"+
			"Based on the following transcript and visual description, classify what kind of content this is. Choose exactly one:\n%s\n"+
			"Transcript (partial): %s\n"+
			"Visuals (partial): %s",
		strings.Join(labels, "\n"),
		truncateChars(transcript, classifyPreviewChars),
		truncateChars(visuals, classifyPreviewChars),
	)

	reply, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		c.log.Warnf("classification failed, defaulting to %s: %v", core.CategoryOther, err)
		return core.CategoryOther
	}
	cat := core.ParseCategory(reply)
	c.log.Infof("content classified as %s", cat)
	return cat
}

func truncateChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
