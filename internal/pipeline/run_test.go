package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-ats/internal/ats"
	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/types"
)

const sampleCV = `Jane Doe
jane@example.com | +1 555 010 9999
Austin, TX

Summary
Backend engineer focused on distributed systems.

Experience
Senior Engineer - Acme Corp
2019 - Present
Led migration of 40 services to Kubernetes, cutting costs by 30%.
Built CI/CD pipelines in Go and Docker.

Education
BSc Computer Science - State University
2012 - 2016

Skills: Go, Docker, Kubernetes, SQL
`

type fakeExtractor struct {
	text string
	err  error
	got  ingestion.Format
}

func (f *fakeExtractor) ExtractText(_ context.Context, _ []byte, format ingestion.Format) (string, error) {
	f.got = format
	return f.text, f.err
}

type fakeParser struct{}

func (fakeParser) Parse(text string) *types.ParsedCV {
	return &types.ParsedCV{
		Contact:    types.ContactInfo{FullName: "Jane Doe"},
		Skills:     []string{"Go"},
		Experience: []types.ExperienceEntry{{Title: "Engineer", Company: "Acme"}},
		Education:  []types.EducationEntry{},
	}
}

type fakeScorer struct{ overall int }

func (f fakeScorer) Score(string, ats.Options) *types.ScoreResult {
	return &types.ScoreResult{Overall: f.overall}
}

type fakeTailorer struct{}

func (fakeTailorer) Tailor(cv *types.ParsedCV, _ types.JobSignal) *types.TailoredCV {
	return &types.TailoredCV{ParsedCV: *cv, MatchingSkills: []string{"heuristic"}}
}

type fakeAI struct {
	result *types.TailoredCV
	err    error
	block  bool
	panics bool
}

func (f fakeAI) Tailor(ctx context.Context, cv *types.ParsedCV, _ types.JobSignal) (*types.TailoredCV, error) {
	if f.panics {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

type fakeAnalyst struct {
	score *types.ScoreResult
	err   error
}

func (f fakeAnalyst) Analyze(context.Context, string, types.JobSignal) (*types.ScoreResult, error) {
	return f.score, f.err
}

func newFakeOrchestrator(ext *fakeExtractor) *Orchestrator {
	return &Orchestrator{
		Extractor: ext,
		Parser:    fakeParser{},
		Scorer:    fakeScorer{overall: 72},
		Tailorer:  fakeTailorer{},
	}
}

func TestRun_TextRequestUsesHeuristicTailoring(t *testing.T) {
	o := newFakeOrchestrator(&fakeExtractor{})

	result, err := o.Run(context.Background(), Request{Text: "Jane Doe\nEngineer"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, ingestion.FormatTXT, result.Metadata.Format)
	assert.Equal(t, "Jane Doe", result.CV.Contact.FullName)
	assert.Equal(t, 72, result.Score.Overall)
	assert.Nil(t, result.AIScore)
	assert.Equal(t, SourceHeuristic, result.TailoringSource)
	assert.Equal(t, []string{"heuristic"}, result.Tailored.MatchingSkills)
}

func TestRun_DocumentUsesExtractor(t *testing.T) {
	tests := []struct {
		name       string
		req        Request
		wantFormat ingestion.Format
	}{
		{
			name:       "declared format",
			req:        Request{Document: []byte("%PDF-1.7"), Format: ingestion.FormatPDF},
			wantFormat: ingestion.FormatPDF,
		},
		{
			name:       "format from filename",
			req:        Request{Document: []byte("PK"), Filename: "cv.docx"},
			wantFormat: ingestion.FormatDOCX,
		},
		{
			name:       "sniffed plain text",
			req:        Request{Document: []byte("Jane Doe\nEngineer\n")},
			wantFormat: ingestion.FormatTXT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &fakeExtractor{text: "Jane Doe\nEngineer"}
			o := newFakeOrchestrator(ext)

			result, err := o.Run(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, ext.got)
			assert.Equal(t, tt.wantFormat, result.Metadata.Format)
		})
	}
}

func TestRun_ExtractionErrorsPropagate(t *testing.T) {
	extractErr := &ingestion.ExtractionError{Format: ingestion.FormatPDF, Message: "corrupt"}
	o := newFakeOrchestrator(&fakeExtractor{err: extractErr})

	result, err := o.Run(context.Background(), Request{Document: []byte("x"), Format: ingestion.FormatPDF})
	require.Error(t, err)
	assert.Nil(t, result)

	var target *ingestion.ExtractionError
	assert.True(t, errors.As(err, &target))
}

func TestRun_EmptyTextIsErrNoText(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		ext  *fakeExtractor
	}{
		{name: "blank text request", req: Request{Text: "  \n\t "}, ext: &fakeExtractor{}},
		{name: "extractor returns nothing", req: Request{Document: []byte("x"), Format: ingestion.FormatPDF}, ext: &fakeExtractor{text: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFakeOrchestrator(tt.ext).Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrNoText)
		})
	}
}

func TestRun_AITailoring(t *testing.T) {
	aiResult := &types.TailoredCV{ParsedCV: types.ParsedCV{Contact: types.ContactInfo{FullName: "AI"}}, MatchingSkills: []string{"ai"}}

	tests := []struct {
		name       string
		ai         AITailorer
		wantSource string
		wantSkills []string
	}{
		{name: "success", ai: fakeAI{result: aiResult}, wantSource: SourceAI, wantSkills: []string{"ai"}},
		{name: "error falls back", ai: fakeAI{err: errors.New("quota")}, wantSource: SourceHeuristic, wantSkills: []string{"heuristic"}},
		{name: "nil result falls back", ai: fakeAI{}, wantSource: SourceHeuristic, wantSkills: []string{"heuristic"}},
		{name: "timeout falls back", ai: fakeAI{block: true}, wantSource: SourceHeuristic, wantSkills: []string{"heuristic"}},
		{name: "panic falls back", ai: fakeAI{panics: true}, wantSource: SourceHeuristic, wantSkills: []string{"heuristic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newFakeOrchestrator(&fakeExtractor{})
			o.AI = tt.ai
			o.AITimeout = 20 * time.Millisecond

			result, err := o.Run(context.Background(), Request{Text: "Jane Doe"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, result.TailoringSource)
			assert.Equal(t, tt.wantSkills, result.Tailored.MatchingSkills)
		})
	}
}

func TestRun_CancelledContextSkipsAI(t *testing.T) {
	o := newFakeOrchestrator(&fakeExtractor{})
	o.AI = fakeAI{result: &types.TailoredCV{MatchingSkills: []string{"ai"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := o.Run(ctx, Request{Text: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, result.TailoringSource)
}

func TestRun_AIAnalyst(t *testing.T) {
	t.Run("score attached", func(t *testing.T) {
		o := newFakeOrchestrator(&fakeExtractor{})
		o.Analyst = fakeAnalyst{score: &types.ScoreResult{Overall: 88}}

		result, err := o.Run(context.Background(), Request{Text: "Jane Doe"})
		require.NoError(t, err)
		require.NotNil(t, result.AIScore)
		assert.Equal(t, 88, result.AIScore.Overall)
		assert.Equal(t, 72, result.Score.Overall)
	})

	t.Run("failure is not fatal", func(t *testing.T) {
		o := newFakeOrchestrator(&fakeExtractor{})
		o.Analyst = fakeAnalyst{err: errors.New("unavailable")}

		result, err := o.Run(context.Background(), Request{Text: "Jane Doe"})
		require.NoError(t, err)
		assert.Nil(t, result.AIScore)
		assert.Equal(t, 72, result.Score.Overall)
	})
}

func TestRun_ProgressEvents(t *testing.T) {
	o := newFakeOrchestrator(&fakeExtractor{})

	var (
		mu     sync.Mutex
		events []ProgressEvent
	)
	result, err := o.Run(context.Background(), Request{
		Text: "Jane Doe",
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 5)

	assert.Equal(t, StepExtract, events[0].Step)
	assert.Equal(t, CategoryIngestion, events[0].Category)
	assert.ElementsMatch(t, []string{StepParse, StepScore}, []string{events[1].Step, events[2].Step})
	assert.Equal(t, StepTailor, events[3].Step)
	assert.Equal(t, StepComplete, events[4].Step)

	for _, e := range events {
		assert.Equal(t, result.ID, e.AnalysisID)
	}
}

func TestNew_RealEngines(t *testing.T) {
	o, err := New(dictionary.MustDefault(), nil)
	require.NoError(t, err)

	result, err := o.Run(context.Background(), Request{
		Text: sampleCV,
		Job: types.JobSignal{
			Requirements: []string{"Experience with Kubernetes"},
			Keywords:     []string{"go", "kubernetes", "terraform"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", result.CV.Contact.FullName)
	assert.NotEmpty(t, result.CV.Experience)
	assert.GreaterOrEqual(t, result.Score.Overall, 0)
	assert.LessOrEqual(t, result.Score.Overall, 100)
	assert.Equal(t, SourceHeuristic, result.TailoringSource)
	require.NotNil(t, result.Tailored)
	assert.Equal(t, "Jane Doe", result.Tailored.Contact.FullName)
}

func TestRun_Deterministic(t *testing.T) {
	o, err := New(dictionary.MustDefault(), nil)
	require.NoError(t, err)

	req := Request{Text: sampleCV, Job: types.JobSignal{Keywords: []string{"go"}}}
	first, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := o.Run(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.CV, second.CV)
	assert.Equal(t, first.Tailored.Experience, second.Tailored.Experience)
}

func TestOrchestrator_Tailor(t *testing.T) {
	o := newFakeOrchestrator(&fakeExtractor{})
	cv := &types.ParsedCV{Contact: types.ContactInfo{FullName: "Jane"}}

	tailored, source := o.Tailor(context.Background(), cv, types.JobSignal{})
	assert.Equal(t, SourceHeuristic, source)
	assert.Equal(t, "Jane", tailored.Contact.FullName)

	o.AI = fakeAI{result: &types.TailoredCV{ParsedCV: types.ParsedCV{Contact: types.ContactInfo{FullName: "AI Jane"}}}}
	tailored, source = o.Tailor(context.Background(), cv, types.JobSignal{})
	assert.Equal(t, SourceAI, source)
	assert.Equal(t, "AI Jane", tailored.Contact.FullName)
}
