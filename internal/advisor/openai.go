package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"RTMonitor/internal/model"
)

// ErrBadResponse marks a reply the model produced but we could not use:
// malformed JSON or a label outside the allowed set.
var ErrBadResponse = errors.New("unusable model response")

const systemPrompt = `You are a market analyst. You are given two daily RTM oscillator ` +
	`series for one instrument: one smoothed with a 20-period EMA and one with a ` +
	`34-period EMA. Values are bounded to [-100, 100]; positive means price is above ` +
	`its mean, negative means below. Classify the current regime.

Respond with JSON only, no prose, in the form:
{"label": "<label>", "rationale": "<one sentence>"}

The label must be exactly one of: "Trending Up", "Trending Down", "Ranging", ` +
	`"Direction Change Imminent".`

// Client wraps an OpenAI chat client for daily regime classification.
type Client struct {
	api       *openai.Client
	modelName string
	logger    zerolog.Logger
}

func NewClient(apiKey, modelName string) *Client {
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &Client{
		api:       openai.NewClient(apiKey),
		modelName: modelName,
		logger:    log.With().Str("component", "advisor").Logger(),
	}
}

// ClassifyDaily asks the model to label the daily regime from the two
// EMA-smoothed RTM series.
func (c *Client) ClassifyDaily(ctx context.Context, instrument string, d20, d34 []int) (model.Assessment, error) {
	user := fmt.Sprintf("Instrument: %s\nRTM (EMA 20): %v\nRTM (EMA 34): %v", instrument, d20, d34)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.modelName,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return model.Assessment{}, fmt.Errorf("chat completion for %s: %w", instrument, err)
	}
	if len(resp.Choices) == 0 {
		return model.Assessment{}, fmt.Errorf("%w: empty choices", ErrBadResponse)
	}

	assessment, err := parseAssessment(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn().Err(err).Str("instrument", instrument).Msg("discarding model reply")
		return model.Assessment{}, err
	}
	return assessment, nil
}

// parseAssessment extracts the JSON verdict, tolerating fenced code
// blocks around it.
func parseAssessment(content string) (model.Assessment, error) {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	var assessment model.Assessment
	if err := json.Unmarshal([]byte(text), &assessment); err != nil {
		return model.Assessment{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if !model.ValidAssessmentLabel(assessment.Label) {
		return model.Assessment{}, fmt.Errorf("%w: unknown label %q", ErrBadResponse, assessment.Label)
	}
	return assessment, nil
}
