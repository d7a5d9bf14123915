package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-ats/internal/schemas"
	"github.com/jonathan/cv-ats/internal/types"
)

type stubClient struct {
	response string
	err      error

	prompts []string
	tiers   []ModelTier
}

func (s *stubClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return s.GenerateJSON(ctx, prompt, tier)
}

func (s *stubClient) GenerateJSON(_ context.Context, prompt string, tier ModelTier) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.tiers = append(s.tiers, tier)
	return s.response, s.err
}

func (s *stubClient) GetModel(tier ModelTier) string { return "stub-" + string(tier) }

func (s *stubClient) Close() error { return nil }

var testJob = types.JobSignal{
	Requirements: []string{"5+ years of Go", "Kubernetes in production"},
	Keywords:     []string{"go", "kubernetes"},
}

func testCV() *types.ParsedCV {
	cv := types.NewParsedCV()
	cv.Contact.FullName = "Jane Doe"
	cv.Summary = "Backend engineer."
	cv.Skills = []string{"Go", "SQL"}
	cv.Experience = []types.ExperienceEntry{
		{Title: "Engineer", Company: "Acme", DateRange: "2019 - Present", Description: "Built services."},
	}
	return cv
}

func TestAssistant_Tailor(t *testing.T) {
	client := &stubClient{response: "```json\n" + `{
		"contact": {"full_name": "Jane Doe"},
		"summary": "Go engineer with Kubernetes experience.",
		"experience": [{"title": "Engineer", "company": "Acme", "date_range": "2019 - Present", "description": "Built Go services on Kubernetes."}],
		"skills": ["Go", "SQL"],
		"matching_skills": ["go"],
		"missing_critical_skills": ["kubernetes"],
		"years_of_experience": 5
	}` + "\n```"}

	tailored, err := NewAssistant(client).Tailor(context.Background(), testCV(), testJob)
	require.NoError(t, err)

	assert.Equal(t, "Go engineer with Kubernetes experience.", tailored.Summary)
	assert.Equal(t, []string{"go"}, tailored.MatchingSkills)
	assert.Equal(t, []string{"kubernetes"}, tailored.MissingCriticalSkills)
	assert.Equal(t, 5, tailored.YearsOfExperience)
	assert.Equal(t, "Acme", tailored.Experience[0].Company)
	assert.NotNil(t, tailored.Education)
	assert.NotNil(t, tailored.Projects)
	assert.NotNil(t, tailored.Contact.URLs)

	require.Len(t, client.prompts, 1)
	assert.Equal(t, TierAdvanced, client.tiers[0])
	assert.Contains(t, client.prompts[0], "- 5+ years of Go")
	assert.Contains(t, client.prompts[0], "go, kubernetes")
	assert.Contains(t, client.prompts[0], `"full_name": "Jane Doe"`)
}

func TestAssistant_Tailor_SchemaViolation(t *testing.T) {
	client := &stubClient{response: `{"summary": "", "skills": "Go"}`}

	_, err := NewAssistant(client).Tailor(context.Background(), testCV(), testJob)

	var responseErr *ResponseError
	require.ErrorAs(t, err, &responseErr)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAssistant_Tailor_NotJSON(t *testing.T) {
	client := &stubClient{response: "I'm sorry, I can't do that."}

	_, err := NewAssistant(client).Tailor(context.Background(), testCV(), testJob)

	var responseErr *ResponseError
	require.ErrorAs(t, err, &responseErr)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestAssistant_Tailor_ClientError(t *testing.T) {
	cause := &APICallError{Provider: ProviderGemini, Model: "m", Message: "quota exceeded"}
	client := &stubClient{err: cause}

	_, err := NewAssistant(client).Tailor(context.Background(), testCV(), testJob)
	assert.ErrorIs(t, err, cause)
}

func TestAssistant_Tailor_NilCV(t *testing.T) {
	client := &stubClient{response: `{"contact": {}, "summary": "x", "experience": [], "skills": []}`}

	tailored, err := NewAssistant(client).Tailor(context.Background(), nil, types.JobSignal{})
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "(none given)")
	assert.Empty(t, tailored.Experience)
}

func TestAssistant_Analyze(t *testing.T) {
	client := &stubClient{response: `Here is the analysis: {
		"overall": 72,
		"sub_scores": {"keyword_match": 50, "grammar": 80, "readability": 65, "formatting": 90, "action_verbs": 70, "quantifiable": 40, "tense": 100},
		"matched_keywords": ["go"],
		"missing_keywords": ["kubernetes"],
		"suggestions": ["Add metrics to your achievements."],
		"feedback": "Quantify your impact."
	}`}

	result, err := NewAssistant(client).Analyze(context.Background(), "Jane Doe\nGo engineer", testJob)
	require.NoError(t, err)

	assert.Equal(t, 72, result.Overall)
	assert.InDelta(t, 50, result.SubScores.KeywordMatch, 0.001)
	assert.Equal(t, []string{"kubernetes"}, result.MissingKeywords)
	assert.Equal(t, []string{}, result.SuggestedKeywords)
	assert.Equal(t, "Quantify your impact.", result.Feedback)

	assert.Equal(t, TierStandard, client.tiers[0])
	assert.Contains(t, client.prompts[0], "Jane Doe\nGo engineer")
}

func TestAssistant_Analyze_OutOfRange(t *testing.T) {
	client := &stubClient{response: `{"overall": 140, "sub_scores": {}, "suggestions": [], "feedback": "ok"}`}

	_, err := NewAssistant(client).Analyze(context.Background(), "text", testJob)

	var responseErr *ResponseError
	assert.ErrorAs(t, err, &responseErr)
}

func TestAssistant_ExtractJobSignal(t *testing.T) {
	client := &stubClient{response: `{"requirements": ["3+ years of Go"], "keywords": ["Go", "Docker"]}`}

	signal, err := NewAssistant(client).ExtractJobSignal(context.Background(), "We need a Go developer who knows Docker.")
	require.NoError(t, err)

	assert.Equal(t, []string{"3+ years of Go"}, signal.Requirements)
	assert.Equal(t, []string{"Go", "Docker"}, signal.Keywords)
	assert.Equal(t, TierLite, client.tiers[0])
	assert.Contains(t, client.prompts[0], `"requirements": ["string"] (required)`)
	assert.Contains(t, client.prompts[0], "We need a Go developer who knows Docker.")
}

func TestAssistant_ExtractJobSignal_Empty(t *testing.T) {
	client := &stubClient{}

	_, err := NewAssistant(client).ExtractJobSignal(context.Background(), "   ")

	var responseErr *ResponseError
	require.ErrorAs(t, err, &responseErr)
	assert.Empty(t, client.prompts)
}

func TestAssistant_ExtractJobSignal_EmptyResponse(t *testing.T) {
	client := &stubClient{response: "  "}

	_, err := NewAssistant(client).ExtractJobSignal(context.Background(), "posting")
	assert.ErrorContains(t, err, "empty response")
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")

	apiErr := &APICallError{Provider: ProviderVertex, Model: "gemini-2.5-pro", Message: "failed", Cause: cause}
	assert.ErrorIs(t, apiErr, cause)
	assert.Equal(t, "vertex gemini-2.5-pro: failed: boom", apiErr.Error())

	respErr := &ResponseError{Operation: "tailor", Message: "bad"}
	assert.Equal(t, "tailor: bad", respErr.Error())
}

func TestNewClient_Disabled(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: ProviderNone}, "")
	assert.Error(t, err)

	_, err = NewClient(context.Background(), &Config{Provider: "openai"}, "key")
	assert.ErrorContains(t, err, "unknown AI provider")

	_, err = NewClient(context.Background(), DefaultConfig(), "")
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewClient(context.Background(), DefaultVertexConfig("", ""), "")
	assert.ErrorContains(t, err, "GCP project is required")
}
