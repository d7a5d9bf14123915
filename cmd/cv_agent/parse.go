package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/parsing"
)

func newParseCmd(a *app) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a CV into structured JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, _, err := a.readDocument(cmd, in)
			if err != nil {
				return err
			}

			cv := parsing.NewParser(a.dict).Parse(text)
			if p := a.printer(cmd); p != nil {
				p.PrintParsedCV(cv)
			}
			return writeJSON(cmd, out, cv)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Path to the CV document, or - for stdin (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Path to output JSON file (default: stdout)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
