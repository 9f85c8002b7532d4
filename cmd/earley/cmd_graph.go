package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/earley/gfg"
)

func newGraphCmd() *cobra.Command {
	var flags grammarFlags

	cmd := &cobra.Command{
		Use:          "graph",
		Short:        "Print the grammar flow graph in DOT format",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := flags.load()
			if err != nil {
				return err
			}
			graph, err := gfg.Build(lang.grammar)
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}
			return graph.WriteDot(cmd.OutOrStdout())
		},
	}
	flags.register(cmd)

	return cmd
}
