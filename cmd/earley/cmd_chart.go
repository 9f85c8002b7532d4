package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/earley/parse"
)

func newChartCmd() *cobra.Command {
	var flags grammarFlags

	cmd := &cobra.Command{
		Use:          "chart [file]",
		Short:        "Print the entry sets built while parsing the input",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := flags.load()
			if err != nil {
				return err
			}
			filename, input, err := readInput(args)
			if err != nil {
				return err
			}
			tokens, err := lang.tokenize(filename, input)
			if err != nil {
				return err
			}
			result, err := parse.Parse(lang.grammar, tokens)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, result.Chart())
			if !result.Success() {
				fmt.Fprintln(out, result.Err())
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}
