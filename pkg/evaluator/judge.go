package evaluator

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mutualist/evoprompt/pkg/errors"
	"github.com/mutualist/evoprompt/pkg/genome"
	"github.com/mutualist/evoprompt/pkg/logging"
)

// DefaultJudgeModel is used when no model is configured.
const DefaultJudgeModel = anthropic.ModelClaude_3_Haiku_20240307

const judgeMaxTokens = 16

// MessageCreator is the slice of the Anthropic client the judge needs.
type MessageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Judge asks an LLM to rate a rendered prompt for a task, on the engine's
// 0-10 fitness scale.
type Judge struct {
	messages MessageCreator
	model    anthropic.Model
}

// NewJudge creates an LLM-backed judge. An empty API key falls back to the
// ANTHROPIC_API_KEY environment variable.
func NewJudge(apiKey string, model anthropic.Model) (*Judge, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New(errors.InvalidInput, "API key is required")
	}
	if model == "" {
		model = DefaultJudgeModel
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Judge{messages: &client.Messages, model: model}, nil
}

// NewJudgeWithClient wires an explicit message client, mainly for tests.
func NewJudgeWithClient(messages MessageCreator, model anthropic.Model) *Judge {
	if model == "" {
		model = DefaultJudgeModel
	}
	return &Judge{messages: messages, model: model}
}

// Evaluate renders the genome's phenotype and asks the model for a score.
func (j *Judge) Evaluate(ctx context.Context, g *genome.Genome, task string) (float64, error) {
	logger := logging.GetLogger()
	prompt := fmt.Sprintf(
		"Rate how well the following prompt configuration would solve the task.\n\n"+
			"Prompt: %s\n\n"+
			"Respond with a single number between 0 and 10 and nothing else.",
		g.Render(task))

	message, err := j.messages.New(ctx, anthropic.MessageNewParams{
		Model: j.model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
		MaxTokens:   judgeMaxTokens,
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return 0, errors.WithFields(
			errors.Wrap(err, errors.EvaluationFailed, "judge request failed"),
			errors.Fields{"model": string(j.model), "genome": g.ID})
	}

	if message == nil || len(message.Content) == 0 {
		return 0, errors.New(errors.JudgeResponseInvalid, "received empty judge response")
	}

	var responseText string
	if block := message.Content[0]; block.Type == "text" {
		responseText = block.Text
	}

	score, err := parseScore(responseText)
	if err != nil {
		return 0, err
	}

	logger.Debug(ctx, "judge scored genome %s: %.2f", g.ID, score)
	return score, nil
}

var scorePattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// parseScore extracts the first number from the judge's response and clamps
// it to the fitness scale.
func parseScore(text string) (float64, error) {
	match := scorePattern.FindString(text)
	if match == "" {
		return 0, errors.WithFields(
			errors.New(errors.JudgeResponseInvalid, "judge response contains no score"),
			errors.Fields{"response": text})
	}

	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.JudgeResponseInvalid, "failed to parse judge score")
	}
	return ClampScore(score), nil
}
