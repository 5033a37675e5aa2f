// Package workspace keeps the analysis snapshots of the open documents and
// exposes the engine operations over them.
package workspace

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"deducels/internal/analysis"
	"deducels/internal/source"
)

var (
	// ErrSuperseded is returned by Analyze when a newer text for the same
	// document was submitted while this one was being analyzed. The result
	// is discarded.
	ErrSuperseded = errors.New("workspace: analysis superseded by a newer edit")
	// ErrClosed is returned by Analyze when the document was closed meanwhile.
	ErrClosed = errors.New("workspace: document closed")
	// ErrUnknownDocument is returned for documents that are not open.
	ErrUnknownDocument = errors.New("workspace: unknown document")
)

// Document is one published analysis of an open document.
type Document struct {
	URI        string
	Version    int32
	Generation uint64 // растёт с каждой отправленной на анализ версией
	Snapshot   *analysis.Snapshot
}

// entry — состояние одного документа. mu защищает doc и closed:
// читатели берут RLock, публикация нового снимка — Lock.
type entry struct {
	mu     sync.RWMutex
	issued atomic.Uint64
	doc    *Document
	closed bool
}

// Store maps document URIs to their latest published analysis. Analyses of
// different documents run in parallel; for one document the last submitted
// text wins.
type Store struct {
	mu    sync.Mutex
	docs  map[string]*entry
	paths map[string]string // filesystem path -> uri, для импортов
	opts  analysis.Options

	afterAnalyze func(uri string) // тестовый хук между анализом и публикацией
}

func NewStore(opts analysis.Options) *Store {
	return &Store{
		docs:  make(map[string]*entry),
		paths: make(map[string]string),
		opts:  opts,
	}
}

// Analyze runs a full analysis of text and publishes it unless a newer text
// was submitted for uri in the meantime (ErrSuperseded) or the document was
// closed (ErrClosed). The document becomes open on its first Analyze.
func (s *Store) Analyze(uri string, version int32, text string) (*Document, error) {
	s.mu.Lock()
	e, ok := s.docs[uri]
	if !ok {
		e = &entry{}
		s.docs[uri] = e
		if path := source.PathFromURI(uri); path != "" {
			s.paths[path] = uri
		}
	}
	gen := e.issued.Add(1)
	opts := s.opts
	s.mu.Unlock()

	snap := analysis.Analyze(uri, text, opts)
	if s.afterAnalyze != nil {
		s.afterAnalyze(uri)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.issued.Load() != gen {
		return nil, ErrSuperseded
	}
	doc := &Document{URI: uri, Version: version, Generation: gen, Snapshot: snap}
	e.doc = doc
	return doc, nil
}

// Close evicts the document.
func (s *Store) Close(uri string) error {
	s.mu.Lock()
	e, ok := s.docs[uri]
	if ok {
		delete(s.docs, uri)
		if path := source.PathFromURI(uri); path != "" && s.paths[path] == uri {
			delete(s.paths, path)
		}
	}
	s.mu.Unlock()
	if !ok {
		return ErrUnknownDocument
	}
	e.mu.Lock()
	e.closed = true
	e.doc = nil
	e.mu.Unlock()
	return nil
}

// Get returns the latest published analysis. A document that is open but
// whose first analysis is still running reports ErrUnknownDocument.
func (s *Store) Get(uri string) (*Document, error) {
	s.mu.Lock()
	e, ok := s.docs[uri]
	s.mu.Unlock()
	if !ok {
		return nil, ErrUnknownDocument
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.doc == nil {
		return nil, ErrUnknownDocument
	}
	return e.doc, nil
}

// ByPath finds an open document by filesystem path.
func (s *Store) ByPath(path string) (*Document, bool) {
	s.mu.Lock()
	uri, ok := s.paths[path]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	doc, err := s.Get(uri)
	return doc, err == nil
}

// URIs lists the open documents in sorted order.
func (s *Store) URIs() []string {
	s.mu.Lock()
	out := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		out = append(out, uri)
	}
	s.mu.Unlock()
	sort.Strings(out)
	return out
}
