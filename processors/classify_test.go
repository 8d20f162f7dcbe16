package processors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediainsight/core"
)

func TestClassifier_MapsReplyToCategory(t *testing.T) {
	tests := []struct {
		reply    string
		expected core.ContentCategory
	}{
		{"song", core.CategorySong},
		{"This is clearly a COOKING video.", core.CategoryCooking},
		{"lecture\n", core.CategoryLecture},
		{"something unrecognizable", core.CategoryOther},
	}
	for _, tt := range tests {
		llm := &fakeLLM{fn: func(string) (string, error) { return tt.reply, nil }}
		c := NewClassifier(llm, zap.NewNop().Sugar())
		assert.Equal(t, tt.expected, c.Classify(context.Background(), "transcript", "visuals"))
	}
}

func TestClassifier_FailureNeverPropagates(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) { return "", errors.New("timeout") }}
	c := NewClassifier(llm, zap.NewNop().Sugar())

	assert.NotPanics(t, func() {
		cat := c.Classify(context.Background(), "transcript", "visuals")
		assert.Equal(t, core.CategoryOther, cat)
	})
}

func TestClassifier_TruncatesPreviews(t *testing.T) {
	llm := &fakeLLM{fn: func(string) (string, error) { return "other", nil }}
	c := NewClassifier(llm, zap.NewNop().Sugar())

	longTranscript := strings.Repeat("t", 5000)
	longVisuals := strings.Repeat("v", 5000)
	c.Classify(context.Background(), longTranscript, longVisuals)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], strings.Repeat("t", 1000))
	assert.NotContains(t, llm.prompts[0], strings.Repeat("t", 1001))
	assert.NotContains(t, llm.prompts[0], strings.Repeat("v", 1001))
	for _, cat := range core.Categories() {
		assert.Contains(t, llm.prompts[0], string(cat))
	}
}
