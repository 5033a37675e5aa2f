package lsp

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"deducels/internal/diag"
	"deducels/internal/query"
	"deducels/internal/workspace"
)

// scheduleDiagnostics (пере)запускает debounce-таймер документа.
func (s *Server) scheduleDiagnostics(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.timers[uri]; t != nil {
		t.Stop()
	}
	if s.shutdownRequested {
		return
	}
	s.timers[uri] = time.AfterFunc(s.cfg.Debounce(), func() {
		s.runDiagnostics(uri)
	})
}

func (s *Server) runDiagnostics(uri string) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	ctx := s.baseCtx
	s.mu.Unlock()
	if !ok || ctx.Err() != nil {
		return
	}
	res, err := s.analyze(uri, doc)
	if err != nil {
		return
	}
	s.publishDiagnostics(res)
}

// analyze отправляет текст в engine; вытесненные и закрытые результаты
// отбрасываются без ошибки в логе.
func (s *Server) analyze(uri string, doc docText) (*workspace.Document, error) {
	start := time.Now()
	res, err := s.engine.Analyze(uri, doc.version, doc.text)
	switch {
	case errors.Is(err, workspace.ErrSuperseded):
		s.tracef("analysis discarded: uri=%s version=%d reason=superseded", uri, doc.version)
		return nil, err
	case errors.Is(err, workspace.ErrClosed):
		s.tracef("analysis discarded: uri=%s version=%d reason=closed", uri, doc.version)
		return nil, err
	case err != nil:
		s.logf("analysis of %s failed: %v", uri, err)
		return nil, err
	}
	s.tracef("analysis done: uri=%s version=%d generation=%d diags=%d elapsed=%s phases=%.2fms",
		uri, res.Version, res.Generation, len(res.Snapshot.Diags),
		time.Since(start).Round(time.Microsecond), res.Snapshot.Timings.TotalMS)
	return res, nil
}

// ensureAnalyzed brings the snapshots up to the client's text before a
// query on uri. Other open documents are refreshed too since uri may import
// them; pending debounced work for the same versions becomes a no-op.
func (s *Server) ensureAnalyzed(uri string) error {
	s.mu.Lock()
	if _, ok := s.docs[uri]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", uri, workspace.ErrUnknownDocument)
	}
	uris := make([]string, 0, len(s.docs))
	for u := range s.docs {
		uris = append(uris, u)
	}
	s.mu.Unlock()
	sort.Strings(uris)

	for _, u := range uris {
		s.mu.Lock()
		doc, ok := s.docs[u]
		s.mu.Unlock()
		if !ok {
			continue
		}
		if cur, err := s.engine.Store().Get(u); err == nil && cur.Version == doc.version {
			continue
		}
		res, err := s.analyze(u, doc)
		if errors.Is(err, workspace.ErrSuperseded) || errors.Is(err, workspace.ErrClosed) {
			// более новая версия уже в работе; отвечаем по последнему снимку
			continue
		}
		if err != nil {
			return err
		}
		s.publishDiagnostics(res)
	}
	return nil
}

func (s *Server) publishDiagnostics(res *workspace.Document) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	cur, err := s.engine.Store().Get(res.URI)
	if err != nil || cur.Generation != res.Generation {
		s.tracef("publish skipped: uri=%s generation=%d reason=stale", res.URI, res.Generation)
		return
	}
	cfg := s.currentConfig()
	diags := query.Diagnostics(res.Snapshot, cfg.Server.MaxDiagnostics)
	list := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		list = append(list, toLSPDiagnostic(res.URI, d))
	}

	s.mu.Lock()
	if _, open := s.docs[res.URI]; !open {
		s.mu.Unlock()
		return
	}
	s.published[res.URI] = struct{}{}
	s.mu.Unlock()

	version := res.Version
	if err := s.sendPublish(res.URI, &version, list); err != nil {
		s.logf("failed to publish diagnostics: %v", err)
	}
}

func toLSPDiagnostic(uri string, d query.Diagnostic) lspDiagnostic {
	out := lspDiagnostic{
		Range:    d.Range,
		Severity: lspSeverity(d.Severity),
		Code:     d.Code,
		Source:   "deduce",
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		out.RelatedInformation = append(out.RelatedInformation, diagnosticRelatedInformation{
			Location: location{URI: uri, Range: n.Range},
			Message:  n.Message,
		})
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	targets := make([]string, 0, len(s.published))
	for uri := range s.published {
		targets = append(targets, uri)
	}
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	sort.Strings(targets)
	for _, uri := range targets {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

// reanalyzeAll перепланирует все открытые документы, например после
// смены настроек.
func (s *Server) reanalyzeAll() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		s.scheduleDiagnostics(uri)
	}
}

func (s *Server) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri, t := range s.timers {
		t.Stop()
		delete(s.timers, uri)
	}
}
