package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"notetaker/apperr"
	"notetaker/config"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const tagSystemPrompt = `You are a tagging expert. Given the content of a note, you will generate relevant tags to help categorize the note. Respond with a JSON array of short tag strings and nothing else.`

// OpenAISuggester implements usecase.TagSuggester against the OpenAI chat
// completions API. Best-effort and non-authoritative: callers must be able
// to proceed when it fails or returns nothing.
type OpenAISuggester struct {
	client openai.Client
	model  string
}

func NewOpenAISuggester(cfg config.OpenAIConfig) *OpenAISuggester {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAISuggester{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (s *OpenAISuggester) SuggestTags(ctx context.Context, content string) ([]string, error) {
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(tagSystemPrompt),
			openai.UserMessage(fmt.Sprintf("Note Content: %s\n\nTags:", content)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrSuggestionUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return nil, nil
	}

	return parseTags(completion.Choices[0].Message.Content), nil
}

// parseTags reads the model reply as a JSON string array, falling back to
// comma/newline splitting when the reply is not valid JSON.
func parseTags(reply string) []string {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var tags []string
	if err := json.Unmarshal([]byte(reply), &tags); err == nil {
		return cleanTags(tags)
	}

	split := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	return cleanTags(split)
}

func cleanTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.Trim(strings.TrimSpace(tag), `"`)
		tag = strings.TrimPrefix(tag, "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
