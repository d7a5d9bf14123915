package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/dictionary"
)

func newDictionaryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Inspect or validate keyword dictionaries",
	}

	list := &cobra.Command{
		Use:   "list [industry]",
		Short: "List industries, or the keywords of one industry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeJSON(cmd, "", map[string]any{
					"default":    a.dict.DefaultIndustry,
					"industries": a.dict.IndustryNames(),
				})
			}
			if !a.dict.HasIndustry(args[0]) {
				return fmt.Errorf("unknown industry %q", args[0])
			}
			return writeJSON(cmd, "", a.dict.IndustryKeywords(args[0]))
		},
	}

	validate := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a dictionary file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dictionary.LoadFile(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d industries, %d synonym groups\n",
				args[0], len(d.Industries), len(d.Synonyms))
			return err
		},
	}

	cmd.AddCommand(list, validate)
	return cmd
}
