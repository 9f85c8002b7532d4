package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dhamidi/earley/lsp"
)

func newLSPCmd() *cobra.Command {
	var flags grammarFlags

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server reporting syntax errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := flags.load()
			if err != nil {
				return err
			}
			if lang.lexical == nil {
				return errors.New("the grammar defines no token kinds; pass --lexical")
			}
			server, err := lsp.NewServer(lsp.Config{
				Grammar: lang.grammar,
				Lexical: lang.lexical,
				Kinds:   lang.kinds,
				Skip:    skipKinds(),
			}, version)
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}
	flags.register(cmd)

	return cmd
}
