package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJobCmd(a *app) *cobra.Command {
	var (
		out string
		job jobFlags
	)

	cmd := &cobra.Command{
		Use:   "job",
		Short: "Extract requirements and keywords from a job posting",
		Long: `Build the job signal used by score, tailor and analyze from a saved posting
(text or HTML) and any explicit --requirement / --keyword values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if job.posting == "" && !job.fetch && len(job.requirements) == 0 && len(job.keywords) == 0 {
				return fmt.Errorf("provide --job, --fetch, --requirement or --keyword")
			}

			assistant, cleanup, err := a.assistant(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			signal, err := a.resolveJob(cmd.Context(), &job, assistant)
			if err != nil {
				return err
			}
			if p := a.printer(cmd); p != nil {
				p.PrintJobSignal(signal)
			}
			return writeJSON(cmd, out, signal)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Path to output JSON file (default: stdout)")
	job.register(cmd)
	return cmd
}
