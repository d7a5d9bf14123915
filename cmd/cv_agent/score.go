package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/ats"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		in, out string
		job     jobFlags
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a CV against ATS heuristics and an optional job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, _, err := a.readDocument(cmd, in)
			if err != nil {
				return err
			}
			signal, err := a.resolveJob(cmd.Context(), &job, nil)
			if err != nil {
				return err
			}

			result := ats.NewEngine(a.dict).Score(text, ats.Options{
				JobSignal: signal,
				Industry:  a.cfg.Industry,
			})
			if p := a.printer(cmd); p != nil {
				p.PrintScore(result)
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
