// Package lsp runs a language server that reports lexical and syntax
// errors of documents written in a user-supplied grammar.
package lsp

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/lex"
	"github.com/dhamidi/earley/parse"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "earley"

// Config names the grammars a server checks documents against.
type Config struct {
	Grammar *grammar.Grammar
	Lexical ebnf.Grammar
	Kinds   []string // token kinds of Lexical, all upper-case productions when empty
	Skip    []string // kinds dropped before parsing, lex.DefaultSkipKinds when empty
}

type Server struct {
	config    Config
	parser    *parse.Parser
	binder    *lex.Binder
	handler   protocol.Handler
	server    *server.Server
	version   string
	log       commonlog.Logger
	mu        sync.Mutex
	documents map[protocol.DocumentUri]string
}

func NewServer(cfg Config, version string) (*Server, error) {
	if cfg.Lexical == nil {
		return nil, errors.New("lsp: no lexical grammar")
	}
	log := commonlog.GetLogger("earley.lsp")
	p, err := parse.NewParser(cfg.Grammar, parse.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = lex.TokenKinds(cfg.Lexical)
	}

	ls := &Server{
		config:    cfg,
		parser:    p,
		binder:    lex.NewBinder(cfg.Grammar, cfg.Skip...),
		version:   version,
		log:       log,
		documents: make(map[protocol.DocumentUri]string),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls, nil
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Infof("checking documents against %d productions", len(ls.config.Grammar.Productions()))
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}
	ls.mu.Lock()
	text, ok := ls.documents[params.TextDocument.URI]
	ls.mu.Unlock()
	if ok {
		ls.update(ctx, params.TextDocument.URI, text)
	}
	return nil
}

func (ls *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	ls.mu.Lock()
	ls.documents[uri] = text
	ls.mu.Unlock()

	diagnostics := ls.Diagnose(uri, text)
	ls.log.Debugf("%s: %d diagnostics", uri, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnose tokenizes and parses text, returning one diagnostic for the
// first lexical or syntax error. A document without errors yields an
// empty list.
func (ls *Server) Diagnose(uri protocol.DocumentUri, text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	lexer := lex.NewLexer(ls.config.Lexical, []byte(text), lex.WithKinds(ls.config.Kinds...), lex.WithFilename(uriToPath(uri)))
	lexemes, err := lexer.Tokenize()
	if err != nil {
		return append(diagnostics, ls.diagnostic(text, startOfDocument(), "", err.Error()))
	}
	tokens, err := ls.binder.Bind(lexemes)
	var lexErr *lex.Error
	if errors.As(err, &lexErr) {
		return append(diagnostics, ls.diagnostic(text, lexErr.Position, lexErr.Literal, lexErr.Message))
	}
	if err != nil {
		return append(diagnostics, ls.diagnostic(text, startOfDocument(), "", err.Error()))
	}

	result := ls.parser.Parse(tokens)
	if result.Success() {
		if result.Ambiguous() {
			ls.log.Debugf("%s: ambiguous parse", uri)
		}
		return diagnostics
	}
	syntaxErr := result.FailureReason()
	if syntaxErr.Found != nil {
		tok := syntaxErr.Found
		return append(diagnostics, ls.diagnostic(text, tok.Position, tok.Literal, syntaxErr.Error()))
	}
	return append(diagnostics, ls.diagnostic(text, endOfDocument(text), "", syntaxErr.Error()))
}

// diagnostic covers literal starting at pos in text.
func (ls *Server) diagnostic(text string, pos lex.Position, literal, message string) protocol.Diagnostic {
	start := toProtocolPosition(text, pos)
	end := start
	end.Character += protocol.UInteger(utf16Len(literal))
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   stringPtr(lsName),
		Message:  message,
	}
}

func startOfDocument() lex.Position {
	return lex.Position{Line: 1, Column: 1}
}

func endOfDocument(text string) lex.Position {
	line := strings.Count(text, "\n")
	last := text[strings.LastIndex(text, "\n")+1:]
	return lex.Position{Offset: len(text), Line: line + 1, Column: utf8.RuneCountInString(last) + 1}
}

// toProtocolPosition converts a 1-based line and rune column of text to
// a 0-based position whose character offset counts UTF-16 code units.
func toProtocolPosition(text string, pos lex.Position) protocol.Position {
	line, column := max(pos.Line-1, 0), max(pos.Column-1, 0)
	lines := strings.SplitN(text, "\n", line+2)
	prefix := ""
	if line < len(lines) {
		prefix = lines[line]
		for i := range lines[line] {
			if column == 0 {
				prefix = lines[line][:i]
				break
			}
			column--
		}
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(utf16Len(prefix))}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
