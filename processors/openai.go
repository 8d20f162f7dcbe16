package processors

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mediainsight/config"
)

// OpenAIClient backs the Transcriber, VisionModel, and CompletionModel
// contracts with one OpenAI-compatible endpoint.
type OpenAIClient struct {
	cli             *openai.Client
	chatModel       string
	visionModel     string
	transcribeModel string
}

func newOpenAIClient(cfg *config.Config) *OpenAIClient {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		cli:             openai.NewClientWithConfig(c),
		chatModel:       cfg.ChatModel,
		visionModel:     cfg.VisionModel,
		transcribeModel: cfg.TranscribeModel,
	}
}

// Transcribe runs one whisper pass. The verbose-JSON response carries the
// detected language; language forces a decode language when non-empty.
func (o *OpenAIClient) Transcribe(ctx context.Context, audioPath, language string) (string, string, error) {
	resp, err := o.cli.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.transcribeModel,
		FilePath: audioPath,
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(resp.Text), strings.TrimSpace(resp.Language), nil
}

// Describe asks the vision model what is visually happening in one frame.
func (o *OpenAIClient) Describe(ctx context.Context, imageB64, contextText string) (string, error) {
	resp, err := o.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    "data:image/jpeg;base64," + imageB64,
							Detail: openai.ImageURLDetailAuto,
						},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: contextText,
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty vision response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Complete answers one text prompt with the chat model.
func (o *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
