package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/pipeline"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		in, out string
		job     jobFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run extraction, parsing, scoring and tailoring end-to-end",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, assistant, cleanup, err := a.orchestrator(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			signal, err := a.resolveJob(cmd.Context(), &job, assistant)
			if err != nil {
				return err
			}

			req := pipeline.Request{Job: signal, Industry: a.cfg.Industry}
			if in == "-" {
				text, _, err := a.readDocument(cmd, in)
				if err != nil {
					return err
				}
				req.Text = text
			} else {
				data, err := os.ReadFile(in)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				req.Document = data
				req.Filename = filepath.Base(in)
				req.Format = ingestion.FormatFromFilename(in)
			}

			if a.verbose {
				req.OnProgress = func(e pipeline.ProgressEvent) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", e.Step, e.Message)
				}
			}

			result, err := o.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			if p := a.printer(cmd); p != nil {
				p.PrintParsedCV(result.CV)
				p.PrintScore(result.Score)
				if result.AIScore != nil {
					p.PrintScore(result.AIScore)
				}
				p.PrintTailoredCV(result.Tailored)
			}
			return writeJSON(cmd, out, result)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Path to the CV document, or - for stdin (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Path to output JSON file (default: stdout)")
	job.register(cmd)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
