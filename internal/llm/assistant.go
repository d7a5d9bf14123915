package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/cv-ats/internal/prompts"
	"github.com/jonathan/cv-ats/internal/schemas"
	"github.com/jonathan/cv-ats/internal/types"
)

// Assistant asks an AI provider for the same artifacts the heuristic engines
// produce. Every response is schema-validated before it is decoded, so a
// caller either gets a well-formed value or an error.
type Assistant struct {
	client Client
}

// NewAssistant wraps client.
func NewAssistant(client Client) *Assistant {
	return &Assistant{client: client}
}

// Tailor rewrites cv for job.
func (a *Assistant) Tailor(ctx context.Context, cv *types.ParsedCV, job types.JobSignal) (*types.TailoredCV, error) {
	const op = "tailor"

	cvJSON, err := json.MarshalIndent(cv.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal CV: %w", op, err)
	}
	prompt, err := prompts.Render(prompts.TailorCV, map[string]string{
		"Requirements": bulletList(job.Requirements),
		"Keywords":     keywordList(job.Keywords),
		"CV":           string(cvJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := a.client.GenerateJSON(ctx, prompt, TierAdvanced)
	if err != nil {
		return nil, err
	}

	var out types.TailoredCV
	if err := decode(op, raw, schemas.TailoredCV, &out); err != nil {
		return nil, err
	}
	out.ParsedCV = *out.ParsedCV.Clone()
	out.MatchingSkills = nonNil(out.MatchingSkills)
	out.MissingCriticalSkills = nonNil(out.MissingCriticalSkills)
	return &out, nil
}

// Analyze scores text against job.
func (a *Assistant) Analyze(ctx context.Context, text string, job types.JobSignal) (*types.ScoreResult, error) {
	const op = "analyze"

	prompt, err := prompts.Render(prompts.AnalyzeCV, map[string]string{
		"Requirements": bulletList(job.Requirements),
		"Keywords":     keywordList(job.Keywords),
		"Text":         text,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := a.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, err
	}

	var out types.ScoreResult
	if err := decode(op, raw, schemas.ScoreResult, &out); err != nil {
		return nil, err
	}
	out.MatchedKeywords = nonNil(out.MatchedKeywords)
	out.MissingKeywords = nonNil(out.MissingKeywords)
	out.SuggestedKeywords = nonNil(out.SuggestedKeywords)
	out.Suggestions = nonNil(out.Suggestions)
	return &out, nil
}

// ExtractJobSignal turns a free-text job posting into requirements and
// keywords.
func (a *Assistant) ExtractJobSignal(ctx context.Context, posting string) (types.JobSignal, error) {
	const op = "extract job signal"

	if strings.TrimSpace(posting) == "" {
		return types.JobSignal{}, &ResponseError{Operation: op, Message: "posting is empty"}
	}

	prompt := BuildExtractionPrompt(JobSignalSchema(), posting)
	raw, err := a.client.GenerateJSON(ctx, prompt, TierLite)
	if err != nil {
		return types.JobSignal{}, err
	}

	var out types.JobSignal
	if err := decode(op, raw, schemas.JobSignal, &out); err != nil {
		return types.JobSignal{}, err
	}
	return out, nil
}

// decode validates raw against schema and unmarshals it into v.
func decode(op, raw, schema string, v any) error {
	raw = CleanJSONBlock(raw)
	if raw == "" {
		return &ResponseError{Operation: op, Message: "empty response"}
	}
	if !json.Valid([]byte(raw)) {
		return &ResponseError{Operation: op, Message: "response is not valid JSON"}
	}
	if err := schemas.ValidateJSON(schema, []byte(raw)); err != nil {
		return &ResponseError{Operation: op, Message: "response failed schema validation", Cause: err}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ResponseError{Operation: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none given)"
	}
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func keywordList(keywords []string) string {
	if len(keywords) == 0 {
		return "(none given)"
	}
	return strings.Join(keywords, ", ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
