package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-ats/internal/rendering"
	"github.com/jonathan/cv-ats/internal/types"
)

func newTailorCmd(a *app) *cobra.Command {
	var (
		in, cvPath   string
		out          string
		format       string
		templatePath string
		job          jobFlags
	)

	cmd := &cobra.Command{
		Use:   "tailor",
		Short: "Tailor a CV to a job",
		Long: `Tailor a CV to a job. The CV is either a document (--in) or parsed CV JSON
(--cv). When an AI provider is configured it is tried first; any failure falls
back to the heuristic engine.

--format text renders the tailored CV as plain text, optionally with a custom
text/template file given by --template.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (in == "") == (cvPath == "") {
				return fmt.Errorf("exactly one of --in or --cv must be provided")
			}
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown --format %q: expected json or text", format)
			}

			o, assistant, cleanup, err := a.orchestrator(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			var cv *types.ParsedCV
			if cvPath != "" {
				if cv, err = readParsedCV(cvPath); err != nil {
					return err
				}
			} else {
				text, _, err := a.readDocument(cmd, in)
				if err != nil {
					return err
				}
				cv = o.Parser.Parse(text)
			}

			signal, err := a.resolveJob(cmd.Context(), &job, assistant)
			if err != nil {
				return err
			}

			tailored, source := o.Tailor(cmd.Context(), cv, signal)
			a.logger.Info("tailored CV", zap.String("source", source))
			if p := a.printer(cmd); p != nil {
				p.PrintTailoredCV(tailored)
			}

			if format == "json" {
				return writeJSON(cmd, out, tailored)
			}
			text := rendering.PlainText(&tailored.ParsedCV)
			if templatePath != "" {
				if text, err = rendering.RenderFile(&tailored.ParsedCV, templatePath); err != nil {
					return err
				}
			}
			return writeOutput(cmd, out, []byte(text))
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Path to the CV document, or - for stdin")
	cmd.Flags().StringVar(&cvPath, "cv", "", "Path to parsed CV JSON (output of parse)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or text")
	cmd.Flags().StringVar(&templatePath, "template", "", "text/template file used with --format text")
	job.register(cmd)
	return cmd
}

func readParsedCV(path string) (*types.ParsedCV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CV file: %w", err)
	}
	var cv types.ParsedCV
	if err := json.Unmarshal(data, &cv); err != nil {
		return nil, fmt.Errorf("failed to decode CV JSON: %w", err)
	}
	// Normalize missing lists to empty ones.
	return cv.Clone(), nil
}
