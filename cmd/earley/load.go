package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
)

// grammarFlags are shared by every command that needs a grammar.
type grammarFlags struct {
	grammarFile string
	lexicalFile string
	start       string
}

func (f *grammarFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.grammarFile, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVar(&f.lexicalFile, "lexical", "", "EBNF file with the token kinds (default: the grammar file)")
	cmd.Flags().StringVar(&f.start, "start", "", "start production (default: the first lower-case production)")
	cmd.MarkFlagRequired("grammar")
}

// language is a grammar with the means to tokenize input for it.
type language struct {
	grammar *grammar.Grammar
	lexical ebnf.Grammar // nil when input is split on whitespace
	kinds   []string
}

func (f *grammarFlags) load() (*language, error) {
	src, err := lex.LoadGrammar(f.grammarFile)
	if err != nil {
		return nil, err
	}
	start := f.start
	if start == "" {
		start = firstProduction(src)
	}
	g, err := grammar.FromEBNF(src, start)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.grammarFile, err)
	}

	lang := &language{grammar: g, lexical: src}
	if f.lexicalFile != "" {
		if lang.lexical, err = lex.LoadGrammar(f.lexicalFile); err != nil {
			return nil, err
		}
	}
	lang.kinds = lex.TokenKinds(lang.lexical)
	if len(lang.kinds) == 0 {
		lang.lexical = nil
	}
	return lang, nil
}

// firstProduction returns the earliest production that is not a token kind.
func firstProduction(src ebnf.Grammar) string {
	var names []string
	for name := range src {
		if !grammar.IsTokenName(name) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return src[names[i]].Pos().Offset < src[names[j]].Pos().Offset
	})
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// skipKinds reads the comma separated EARLEY_SKIP_KINDS.
func skipKinds() []string {
	var kinds []string
	for _, k := range strings.Split(os.Getenv("EARLEY_SKIP_KINDS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (l *language) tokenize(filename string, input []byte) ([]lex.Token, error) {
	if l.lexical == nil {
		return lex.Split(l.grammar, string(input))
	}
	lexemes, err := lex.NewLexer(l.lexical, input, lex.WithKinds(l.kinds...), lex.WithFilename(filename)).Tokenize()
	if err != nil {
		return nil, err
	}
	return lex.NewBinder(l.grammar, skipKinds()...).Bind(lexemes)
}

// readInput reads the named file, or standard input for "-" or no name.
func readInput(args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}
	return args[0], data, nil
}
