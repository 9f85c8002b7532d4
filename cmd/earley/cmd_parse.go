package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/earley/format"
	"github.com/dhamidi/earley/parse"
	"github.com/dhamidi/earley/ptree"
	"github.com/dhamidi/earley/sppf"
)

func newParseCmd() *cobra.Command {
	var flags grammarFlags
	var outputFormat string
	var forest bool
	var epsilon bool
	var replay bool

	cmd := &cobra.Command{
		Use:          "parse [file]",
		Short:        "Parse the input and print its parse tree or forest",
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
			p, err := parse.NewParser(lang.grammar)
			if err != nil {
				return err
			}
			result := p.Parse(tokens)
			if !result.Success() {
				return fmt.Errorf("%s: %w", filename, result.Err())
			}

			out := cmd.OutOrStdout()
			if forest {
				var opts []sppf.Option
				if epsilon {
					opts = append(opts, sppf.WithEpsilonNodes())
				}
				if replay {
					opts = append(opts, sppf.WithReplayShared())
				}
				f, err := sppf.Build(result, opts...)
				if err != nil {
					return fmt.Errorf("build forest: %w", err)
				}
				return format.NewForestTextEncoder(out).Encode(f)
			}

			var opts []parse.WalkOption
			if replay {
				opts = append(opts, parse.ReplayShared())
			}
			tree, err := ptree.Build(result, opts...)
			if err != nil {
				return fmt.Errorf("build tree: %w", err)
			}
			encoder, err := format.NewEncoder(outputFormat, out)
			if err != nil {
				return err
			}
			if err := encoder.Encode(tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if result.Ambiguous() {
				fmt.Fprintln(cmd.ErrOrStderr(), "note: input is ambiguous, printed the first derivation")
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "ascii", "tree format: "+strings.Join(format.Names(), ", "))
	cmd.Flags().BoolVar(&forest, "forest", false, "print the shared packed parse forest")
	cmd.Flags().BoolVar(&epsilon, "epsilon", false, "add epsilon nodes under empty derivations (forest only)")
	cmd.Flags().BoolVar(&replay, "replay", false, "rebuild shared sub-derivations instead of sharing them")

	return cmd
}
