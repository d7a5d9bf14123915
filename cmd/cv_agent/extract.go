package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/ingestion"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		in     string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract clean text from a PDF, DOCX or plain-text CV",
		Long: `Extract the text of a CV document. Without --out the text is written to
stdout; with --out the text and a metadata JSON file are written to the directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, metadata, err := a.readDocument(cmd, in)
			if err != nil {
				return err
			}

			if a.verbose {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Extracted %d characters (%d lines) from %s document\n",
					metadata.Characters, metadata.Lines, metadata.Format)
			}

			if outDir == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}
			if err := ingestion.WriteOutput(outDir, text, metadata); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Path to the CV document, or - for stdin (required)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: stdout)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
