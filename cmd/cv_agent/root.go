package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-ats/internal/config"
	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/jobsignal"
	"github.com/jonathan/cv-ats/internal/llm"
	"github.com/jonathan/cv-ats/internal/logger"
	"github.com/jonathan/cv-ats/internal/observability"
	"github.com/jonathan/cv-ats/internal/pipeline"
	"github.com/jonathan/cv-ats/internal/types"
)

// app holds the state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	configPath string
	dictPath   string
	industry   string
	provider   string
	verbose    bool
	logJSON    bool
	debug      bool

	cfg    *config.Config
	dict   *dictionary.Dictionary
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cv_agent",
		Short: "CV parsing, ATS scoring and job tailoring",
		Long: `cv_agent extracts text from PDF, DOCX and plain-text CVs, parses it into a
structured CV, scores it against ATS heuristics and tailors it to a job.

Configuration is read from --config (YAML or JSON) and CV_ATS_* environment
variables. Flags override both.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML or JSON config file")
	flags.StringVar(&a.dictPath, "dictionary", "", "Path to a keyword dictionary (default: embedded)")
	flags.StringVar(&a.industry, "industry", "", "Industry used for keyword scoring (default from config)")
	flags.StringVar(&a.provider, "ai", "", "AI provider: none, gemini or vertex (default from config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Print human-readable summaries to stderr")
	flags.BoolVar(&a.logJSON, "log-json", false, "Emit JSON logs")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newExtractCmd(a),
		newParseCmd(a),
		newScoreCmd(a),
		newTailorCmd(a),
		newAnalyzeCmd(a),
		newJobCmd(a),
		newDictionaryCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides, then builds the logger
// and dictionary.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dictionary") {
		cfg.Dictionary = a.dictPath
	}
	if flags.Changed("industry") {
		cfg.Industry = a.industry
	}
	if flags.Changed("ai") {
		cfg.AI.Provider = a.provider
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	if flags.Changed("debug") {
		cfg.Log.Debug = a.debug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger, err = logger.New(cfg.Log.JSON, cfg.Log.Debug); err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if cfg.Dictionary != "" {
		a.dict, err = dictionary.LoadFile(cfg.Dictionary)
	} else {
		a.dict, err = dictionary.Default()
	}
	if err != nil {
		return err
	}
	a.logger.Debug("configuration loaded",
		zap.String("industry", cfg.Industry),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Int("industries", len(a.dict.Industries)))
	return nil
}

func (a *app) printer(cmd *cobra.Command) *observability.Printer {
	if !a.verbose {
		return nil
	}
	return observability.NewPrinter(cmd.ErrOrStderr())
}

func (a *app) extractor() *ingestion.Extractor {
	return ingestion.NewExtractor(ingestion.WithMaxBytes(a.cfg.Server.MaxUploadBytes))
}

// readDocument extracts the text of a CV file, or reads plain text from
// stdin when path is "-".
func (a *app) readDocument(cmd *cobra.Command, path string) (string, *ingestion.Metadata, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		text := ingestion.CleanText(string(data))
		return text, ingestion.NewMetadata(text, "stdin", ingestion.FormatTXT), nil
	}
	return ingestion.ExtractFile(cmd.Context(), a.extractor(), path)
}

// assistant returns the AI assistant when a provider is configured, and a
// cleanup func that is always safe to call.
func (a *app) assistant(ctx context.Context) (*llm.Assistant, func(), error) {
	if !a.cfg.AI.Enabled() {
		return nil, func() {}, nil
	}

	var llmCfg *llm.Config
	switch llm.Provider(a.cfg.AI.Provider) {
	case llm.ProviderVertex:
		llmCfg = llm.DefaultVertexConfig(a.cfg.AI.Project, a.cfg.AI.Region)
	default:
		llmCfg = llm.DefaultGeminiConfig()
	}

	client, err := llm.NewClient(ctx, llmCfg, a.cfg.AI.APIKey)
	if err != nil {
		return nil, func() {}, err
	}
	a.logger.Debug("AI provider enabled",
		zap.String("provider", string(llmCfg.Provider)),
		zap.String("model", llmCfg.GetModel(llm.TierAdvanced)))

	closeFn := func() {
		if err := client.Close(); err != nil {
			a.logger.Warn("failed to close AI client", zap.Error(err))
		}
	}
	return llm.NewAssistant(client), closeFn, nil
}

// orchestrator wires the engines and, when configured, the AI provider.
func (a *app) orchestrator(ctx context.Context) (*pipeline.Orchestrator, *llm.Assistant, func(), error) {
	o, err := pipeline.New(a.dict, a.logger)
	if err != nil {
		return nil, nil, nil, err
	}
	o.Extractor = a.extractor()
	o.AITimeout = a.cfg.AI.Timeout

	assistant, cleanup, err := a.assistant(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if assistant != nil {
		o.AI = assistant
		o.Analyst = assistant
	}
	return o, assistant, cleanup, nil
}

// jobFlags are shared by every command that scores or tailors against a job.
type jobFlags struct {
	posting      string
	sourceURL    string
	fetch        bool
	requirements []string
	keywords     []string
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.posting, "job", "j", "", "Path to a job posting (.txt, .md, .html)")
	cmd.Flags().StringVar(&f.sourceURL, "job-url", "", "URL the posting was saved from (selects job board selectors)")
	cmd.Flags().BoolVar(&f.fetch, "fetch", false, "Download the posting from --job-url instead of reading --job")
	cmd.Flags().StringSliceVar(&f.requirements, "requirement", nil, "Job requirement (repeatable)")
	cmd.Flags().StringSliceVarP(&f.keywords, "keyword", "k", nil, "Job keyword (repeatable or comma separated)")
}

// resolveJob builds the JobSignal. Plain-text postings are sent to the AI
// assistant when one is given; fetched and .html postings are parsed as HTML.
func (a *app) resolveJob(ctx context.Context, f *jobFlags, ai *llm.Assistant) (types.JobSignal, error) {
	req := jobsignal.Request{
		Requirements: f.requirements,
		Keywords:     f.keywords,
		SourceURL:    f.sourceURL,
	}
	switch {
	case f.fetch:
		if f.sourceURL == "" || f.posting != "" {
			return types.JobSignal{}, fmt.Errorf("--fetch requires --job-url and no --job")
		}
		html, err := jobsignal.Fetch(ctx, f.sourceURL, nil)
		if err != nil {
			return types.JobSignal{}, err
		}
		a.logger.Debug("fetched job posting", zap.String("url", f.sourceURL), zap.Int("bytes", len(html)))
		req.PostingHTML = html
	case f.posting != "":
		data, err := os.ReadFile(f.posting)
		if err != nil {
			return types.JobSignal{}, fmt.Errorf("failed to read job posting: %w", err)
		}
		switch filepath.Ext(f.posting) {
		case ".html", ".htm":
			req.PostingHTML = string(data)
		default:
			req.Posting = string(data)
		}
	}

	resolver := &jobsignal.Resolver{
		Dict:    a.dict,
		Timeout: a.cfg.AI.Timeout,
		OnAIError: func(err error) {
			a.logger.Warn("AI job extraction failed, using heuristics", zap.Error(err))
		},
	}
	if ai != nil {
		resolver.AI = ai
	}
	return resolver.Resolve(ctx, req)
}

// writeJSON writes v as indented JSON to path, or to the command's stdout
// when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	return writeOutput(cmd, path, data)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", path)
	return nil
}
