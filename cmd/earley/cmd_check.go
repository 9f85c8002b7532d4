package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/earley/gfg"
)

func newCheckCmd() *cobra.Command {
	var flags grammarFlags

	cmd := &cobra.Command{
		Use:          "check",
		Short:        "Load a grammar and print a summary of it",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := flags.load()
			if err != nil {
				return err
			}
			g := lang.grammar
			graph, err := gfg.Build(g)
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "start\t%s\n", g.Start().Name)
			fmt.Fprintf(out, "productions\t%d\n", len(g.Productions()))
			fmt.Fprintf(out, "terminals\t%d\n", len(g.Terminals()))
			fmt.Fprintf(out, "nonterminals\t%d\n", len(g.NonTerminals()))
			fmt.Fprintf(out, "items\t%d\n", len(g.DottedItems()))
			fmt.Fprintf(out, "vertices\t%d\n", graph.Len())

			var nullable []string
			for _, sym := range g.Nullables() {
				nullable = append(nullable, sym.Name)
			}
			fmt.Fprintf(out, "nullable\t%s\n", strings.Join(nullable, " "))
			if lang.lexical != nil {
				fmt.Fprintf(out, "tokens\t%s\n", strings.Join(lang.kinds, " "))
			}
			for _, p := range g.Productions() {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}
