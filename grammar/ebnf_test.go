package grammar

import (
	"strings"
	"testing"
)

func loadTestEBNF(t *testing.T, src, start string) *Grammar {
	t.Helper()
	g, err := LoadEBNF("test.ebnf", strings.NewReader(src), start)
	if err != nil {
		t.Fatalf("load grammar: %v", err)
	}
	return g
}

func productionStrings(g *Grammar) []string {
	var result []string
	for _, p := range g.Productions() {
		result = append(result, p.String())
	}
	return result
}

func TestFromEBNF(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		start string
		want  []string
	}{
		{
			name: "repetition and group",
			src: `
Expr = Term { ( "+" | "-" ) Term } .
Term = Number | "(" Expr ")" .
Number = Digit { Digit } .
Digit = "0" … "9" .
`,
			start: "Expr",
			want: []string{
				"Expr => Term Expr_rep1",
				"Expr_grp2 => '+'",
				"Expr_grp2 => '-'",
				"Expr_rep1 => Expr_rep1 Expr_grp2 Term",
				"Expr_rep1 =>",
				"Term => Number",
				"Term => '(' Expr ')'",
			},
		},
		{
			name: "option",
			src: `
items = item { "," item } .
list = "[" [ items ] "]" .
item = "x" .
`,
			start: "list",
			want: []string{
				"list => '[' list_opt1 ']'",
				"list_opt1 => items",
				"list_opt1 =>",
				"items => item items_rep1",
				"items_rep1 => items_rep1 ',' item",
				"items_rep1 =>",
				"item => 'x'",
			},
		},
		{
			name: "empty production",
			src: `
s = a a "x" .
a = .
`,
			start: "s",
			want: []string{
				"s => a a 'x'",
				"a =>",
			},
		},
		{
			name: "undefined names are terminals",
			src: `
sentence = noun verb .
`,
			start: "sentence",
			want: []string{
				"sentence => noun verb",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := loadTestEBNF(t, tt.src, tt.start)
			got := productionStrings(g)
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("productions:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
			if g.Start().Name != tt.start {
				t.Errorf("start = %s, want %s", g.Start().Name, tt.start)
			}
		})
	}
}

func TestFromEBNFSymbols(t *testing.T) {
	g := loadTestEBNF(t, `
number = digit { digit } .
digit = "0" … "9" .
`, "number")

	sym, ok := g.Symbol("0…9")
	if !ok {
		t.Fatalf("expected range terminal 0…9")
	}
	if !sym.IsTerminal() || !sym.Matches("7") || sym.Matches("a") {
		t.Errorf("range terminal should match digits only")
	}

	rep, ok := g.Symbol("number_rep1")
	if !ok || !g.IsNullable(rep) {
		t.Errorf("repetition should be a nullable non-terminal")
	}
	digit, _ := g.Symbol("digit")
	if g.IsNullable(digit) {
		t.Error("digit should not be nullable")
	}
}

func TestFromEBNFErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		start string
		want  string
	}{
		{
			name:  "missing start",
			src:   `a = "x" .`,
			start: "b",
			want:  `start production "b" not found`,
		},
		{
			name:  "token start",
			src:   `A = "x" .`,
			start: "A",
			want:  `start production "A" not found`,
		},
		{
			name:  "empty token",
			src:   `a = "" .`,
			start: "a",
			want:  "",
		},
		{
			name:  "syntax error",
			src:   `a = "x"`,
			start: "a",
			want:  "parse grammar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadEBNF("test.ebnf", strings.NewReader(tt.src), tt.start)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestIsTokenName(t *testing.T) {
	tests := map[string]bool{
		"Identifier": true,
		"WhiteSpace": true,
		"expr":       false,
		"_x":         false,
		"":           false,
	}
	for name, want := range tests {
		if got := IsTokenName(name); got != want {
			t.Errorf("IsTokenName(%q) = %v, want %v", name, got, want)
		}
	}
}
