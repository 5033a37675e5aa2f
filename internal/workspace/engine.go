package workspace

import (
	"fmt"
	"sync"

	"deducels/internal/analysis"
	"deducels/internal/config"
	"deducels/internal/query"
	"deducels/internal/source"
)

// Options are the engine knobs that configuration may change at runtime.
type Options struct {
	MaxDiagnostics int
	ImportSearch   []string
	Completion     query.CompletionOptions
}

// OptionsFromConfig picks the engine part of a loaded configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		MaxDiagnostics: cfg.Server.MaxDiagnostics,
		ImportSearch:   append([]string(nil), cfg.Imports.Search...),
		Completion: query.CompletionOptions{
			Keywords: cfg.Completion.Keywords,
			Snippets: cfg.Completion.Snippets,
			Fuzzy:    cfg.Completion.Fuzzy,
		},
	}
}

// Engine is the language-intelligence boundary: one mutating entry point
// (Analyze), Close, and the read-only queries.
type Engine struct {
	store *Store

	mu   sync.RWMutex
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{store: NewStore(analysis.Options{}), opts: opts}
}

// SetOptions replaces the runtime options.
func (e *Engine) SetOptions(opts Options) {
	e.mu.Lock()
	e.opts = opts
	e.mu.Unlock()
}

func (e *Engine) options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

// Store exposes the underlying document store.
func (e *Engine) Store() *Store { return e.store }

// Analyze replaces the snapshot of uri; see Store.Analyze for the errors.
func (e *Engine) Analyze(uri string, version int32, text string) (*Document, error) {
	return e.store.Analyze(uri, version, text)
}

// Close evicts uri.
func (e *Engine) Close(uri string) error {
	return e.store.Close(uri)
}

// env собирает вход запроса: снимок документа и снимки его импортов.
func (e *Engine) env(uri string) (query.Env, error) {
	doc, err := e.store.Get(uri)
	if err != nil {
		return query.Env{}, fmt.Errorf("%s: %w", uri, err)
	}
	return query.Env{
		Doc:     doc.Snapshot,
		Imports: e.store.resolveImports(doc.Snapshot, e.options().ImportSearch),
	}, nil
}

// Diagnostics returns the diagnostics of the current snapshot, capped by
// MaxDiagnostics.
func (e *Engine) Diagnostics(uri string) ([]query.Diagnostic, error) {
	doc, err := e.store.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uri, err)
	}
	return query.Diagnostics(doc.Snapshot, e.options().MaxDiagnostics), nil
}

func (e *Engine) Definition(uri string, pos source.Position) (query.Location, bool, error) {
	env, err := e.env(uri)
	if err != nil {
		return query.Location{}, false, err
	}
	loc, ok := query.Definition(env, pos)
	return loc, ok, nil
}

func (e *Engine) Hover(uri string, pos source.Position) (query.Hover, bool, error) {
	env, err := e.env(uri)
	if err != nil {
		return query.Hover{}, false, err
	}
	h, ok := query.HoverAt(env, pos)
	return h, ok, nil
}

// Completion filters by prefix, or by the word before the cursor when prefix is nil.
func (e *Engine) Completion(uri string, pos source.Position, prefix *string) ([]query.CompletionItem, error) {
	env, err := e.env(uri)
	if err != nil {
		return nil, err
	}
	return query.Completion(env, pos, prefix, e.options().Completion), nil
}

func (e *Engine) SignatureHelp(uri string, pos source.Position) (query.SignatureHelp, bool, error) {
	env, err := e.env(uri)
	if err != nil {
		return query.SignatureHelp{}, false, err
	}
	help, ok := query.Signature(env, pos)
	return help, ok, nil
}
