// Package pipeline orchestrates one CV analysis: extraction, then parsing and
// scoring in parallel, then tailoring. Tailoring prefers the AI provider when
// one is configured and falls back to the heuristic engine on any failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-ats/internal/ats"
	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/logger"
	"github.com/jonathan/cv-ats/internal/parsing"
	"github.com/jonathan/cv-ats/internal/tailoring"
	"github.com/jonathan/cv-ats/internal/types"
)

// DefaultAITimeout bounds each AI call when Orchestrator.AITimeout is zero.
const DefaultAITimeout = 30 * time.Second

// ErrNoText is returned when a document yields no text at all.
var ErrNoText = errors.New("no text could be extracted from the document")

// Step names reported in ProgressEvent.Step.
const (
	StepExtract  = "extract"
	StepParse    = "parse"
	StepScore    = "score"
	StepAIScore  = "ai_score"
	StepTailor   = "tailor"
	StepComplete = "complete"
)

// Categories reported in ProgressEvent.Category.
const (
	CategoryIngestion = "ingestion"
	CategoryAnalysis  = "analysis"
	CategoryTailoring = "tailoring"
)

// Tailoring sources reported in Result.TailoringSource.
const (
	SourceAI        = "ai"
	SourceHeuristic = "heuristic"
)

// ProgressEvent represents a progress update during an analysis
type ProgressEvent struct {
	Step       string `json:"step"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	AnalysisID string `json:"analysis_id,omitempty"`
	Content    any    `json:"content,omitempty"`
}

// ProgressCallback is called when analysis progress occurs. Calls are
// serialized even though parsing and scoring run concurrently.
type ProgressCallback func(event ProgressEvent)

// Extractor converts a document to text.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte, format ingestion.Format) (string, error)
}

// CVParser turns text into a ParsedCV.
type CVParser interface {
	Parse(text string) *types.ParsedCV
}

// Scorer computes the heuristic ATS score.
type Scorer interface {
	Score(text string, opts ats.Options) *types.ScoreResult
}

// Tailorer is the heuristic tailoring engine.
type Tailorer interface {
	Tailor(cv *types.ParsedCV, job types.JobSignal) *types.TailoredCV
}

// AITailorer is an AI-backed tailoring provider.
type AITailorer interface {
	Tailor(ctx context.Context, cv *types.ParsedCV, job types.JobSignal) (*types.TailoredCV, error)
}

// AIAnalyst is an AI-backed scoring provider.
type AIAnalyst interface {
	Analyze(ctx context.Context, text string, job types.JobSignal) (*types.ScoreResult, error)
}

// Orchestrator wires the engines together. AI and Analyst are optional.
type Orchestrator struct {
	Extractor Extractor
	Parser    CVParser
	Scorer    Scorer
	Tailorer  Tailorer
	AI        AITailorer
	Analyst   AIAnalyst
	AITimeout time.Duration
	Logger    *zap.Logger
}

// New builds an Orchestrator from the dictionary with the default engines.
func New(dict *dictionary.Dictionary, log *zap.Logger) (*Orchestrator, error) {
	tailorer, err := tailoring.NewEngine(dict)
	if err != nil {
		return nil, fmt.Errorf("failed to create tailoring engine: %w", err)
	}
	return &Orchestrator{
		Extractor: ingestion.NewExtractor(),
		Parser:    parsing.NewParser(dict),
		Scorer:    ats.NewEngine(dict),
		Tailorer:  tailorer,
		AITimeout: DefaultAITimeout,
		Logger:    log,
	}, nil
}

// Request is one analysis. Either Document or Text must be set; Document
// wins when both are.
type Request struct {
	Document []byte
	Format   ingestion.Format
	Filename string
	Text     string

	Job      types.JobSignal
	Industry string

	OnProgress ProgressCallback
}

// Result holds every artifact of one analysis.
type Result struct {
	ID              string              `json:"id"`
	Metadata        *ingestion.Metadata `json:"metadata"`
	CV              *types.ParsedCV     `json:"cv"`
	Score           *types.ScoreResult  `json:"score"`
	AIScore         *types.ScoreResult  `json:"ai_score,omitempty"`
	Tailored        *types.TailoredCV   `json:"tailored"`
	TailoringSource string              `json:"tailoring_source"`
}

// Run executes one analysis. Only extraction failures are returned; every
// later stage degrades instead of failing.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	id := uuid.NewString()
	log := logger.OrNop(o.Logger).With(zap.String("analysis_id", id))
	emit := progressEmitter(id, req.OnProgress)
	start := time.Now()

	text, format, err := o.extract(ctx, req)
	if err != nil {
		log.Warn("extraction failed", zap.Error(err), zap.String("format", string(req.Format)))
		return nil, err
	}
	metadata := ingestion.NewMetadata(text, req.Filename, format)
	emit(StepExtract, CategoryIngestion,
		fmt.Sprintf("Extracted %d characters from %s document", metadata.Characters, format), metadata)

	result := &Result{ID: id, Metadata: metadata}

	// Parsing and scoring are independent; the AI analyst, when present,
	// runs alongside them.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.CV = o.Parser.Parse(text)
		emit(StepParse, CategoryAnalysis,
			fmt.Sprintf("Parsed %d experience and %d education entries",
				len(result.CV.Experience), len(result.CV.Education)), nil)
		return nil
	})
	g.Go(func() error {
		result.Score = o.Scorer.Score(text, ats.Options{JobSignal: req.Job, Industry: req.Industry})
		emit(StepScore, CategoryAnalysis, fmt.Sprintf("ATS score %d/100", result.Score.Overall), result.Score)
		return nil
	})
	if o.Analyst != nil {
		g.Go(func() error {
			score, err := callWithTimeout(gctx, o.aiTimeout(), func(ctx context.Context) (*types.ScoreResult, error) {
				return o.Analyst.Analyze(ctx, text, req.Job)
			})
			if err != nil {
				log.Warn("AI scoring failed", zap.Error(err))
				return nil
			}
			result.AIScore = score
			emit(StepAIScore, CategoryAnalysis, fmt.Sprintf("AI score %d/100", score.Overall), nil)
			return nil
		})
	}
	_ = g.Wait()

	result.Tailored, result.TailoringSource = o.tailor(ctx, log, result.CV, req.Job)
	emit(StepTailor, CategoryTailoring,
		fmt.Sprintf("Tailored CV using %s engine", result.TailoringSource), nil)

	log.Info("analysis complete",
		zap.Int("overall", result.Score.Overall),
		zap.String("tailoring_source", result.TailoringSource),
		zap.Duration("elapsed", time.Since(start)))
	emit(StepComplete, CategoryTailoring, "Analysis complete", nil)

	return result, nil
}

func (o *Orchestrator) extract(ctx context.Context, req Request) (string, ingestion.Format, error) {
	var (
		text   string
		format = req.Format
	)
	if len(req.Document) > 0 {
		if format == "" && req.Filename != "" {
			format = ingestion.FormatFromFilename(req.Filename)
		}
		if format == "" {
			detected, err := ingestion.DetectFormat(req.Document)
			if err != nil {
				return "", "", err
			}
			format = detected
		}
		extracted, err := o.Extractor.ExtractText(ctx, req.Document, format)
		if err != nil {
			return "", format, err
		}
		text = extracted
	} else {
		text = ingestion.CleanText(req.Text)
		format = ingestion.FormatTXT
	}

	if strings.TrimSpace(text) == "" {
		return "", format, ErrNoText
	}
	return text, format, nil
}

// Tailor runs the tailoring stage alone with the same AI fallback as Run and
// reports which engine produced the result.
func (o *Orchestrator) Tailor(ctx context.Context, cv *types.ParsedCV, job types.JobSignal) (*types.TailoredCV, string) {
	return o.tailor(ctx, logger.OrNop(o.Logger), cv, job)
}

// tailor asks the AI provider first and falls back to the heuristic engine
// on timeout, cancellation, error or an empty answer.
func (o *Orchestrator) tailor(ctx context.Context, log *zap.Logger, cv *types.ParsedCV, job types.JobSignal) (*types.TailoredCV, string) {
	if o.AI != nil && ctx.Err() == nil {
		tailored, err := callWithTimeout(ctx, o.aiTimeout(), func(ctx context.Context) (*types.TailoredCV, error) {
			return o.AI.Tailor(ctx, cv, job)
		})
		if err == nil {
			return tailored, SourceAI
		}
		log.Warn("AI tailoring failed, using heuristic engine", zap.Error(err))
	}
	return o.Tailorer.Tailor(cv, job), SourceHeuristic
}

func (o *Orchestrator) aiTimeout() time.Duration {
	if o.AITimeout > 0 {
		return o.AITimeout
	}
	return DefaultAITimeout
}

// callWithTimeout runs fn under a deadline and returns as soon as the
// deadline passes, even if fn ignores its context.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (*T, error)) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value *T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("AI provider panicked: %v", r)}
			}
		}()
		value, err := fn(ctx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err == nil && out.value == nil {
			return nil, errors.New("AI provider returned no result")
		}
		return out.value, out.err
	}
}

func progressEmitter(id string, cb ProgressCallback) func(step, category, message string, content any) {
	var mu sync.Mutex
	return func(step, category, message string, content any) {
		if cb == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		cb(ProgressEvent{
			Step:       step,
			Category:   category,
			Message:    message,
			AnalysisID: id,
			Content:    content,
		})
	}
}
