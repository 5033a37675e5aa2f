package lsp

import (
	"encoding/json"

	"deducels/internal/config"
	"deducels/internal/workspace"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logf("invalid configuration: %v", err)
		return nil
	}
	if s.applySettings(params.Settings) {
		s.reanalyzeAll()
	}
	return nil
}

// applySettings overlays a `deduce` client section onto the current config
// and reports whether anything changed.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil || settings.Deduce == nil {
		return false
	}
	s.mu.Lock()
	cfg := overlaySettings(s.cfg, settings.Deduce)
	changed := !sameConfig(cfg, s.cfg)
	s.cfg = cfg
	s.mu.Unlock()
	if changed {
		s.engine.SetOptions(workspace.OptionsFromConfig(cfg))
	}
	return changed
}

func overlaySettings(cfg config.Config, d *deduceSettings) config.Config {
	if d.DebounceMS != nil && *d.DebounceMS >= 0 {
		cfg.Server.DebounceMS = *d.DebounceMS
	}
	if d.MaxDiagnostics != nil && *d.MaxDiagnostics >= 0 {
		cfg.Server.MaxDiagnostics = *d.MaxDiagnostics
	}
	if d.Trace != nil {
		cfg.Server.Trace = *d.Trace
	}
	if c := d.Completion; c != nil {
		if c.Keywords != nil {
			cfg.Completion.Keywords = *c.Keywords
		}
		if c.Snippets != nil {
			cfg.Completion.Snippets = *c.Snippets
		}
		if c.Fuzzy != nil {
			cfg.Completion.Fuzzy = *c.Fuzzy
		}
	}
	if d.Imports != nil && d.Imports.Search != nil {
		cfg.Imports.Search = append([]string{}, (*d.Imports.Search)...)
	}
	return cfg
}

func sameConfig(a, b config.Config) bool {
	if a.Server != b.Server || a.Completion != b.Completion {
		return false
	}
	if len(a.Imports.Search) != len(b.Imports.Search) {
		return false
	}
	for i := range a.Imports.Search {
		if a.Imports.Search[i] != b.Imports.Search[i] {
			return false
		}
	}
	return true
}

func (s *Server) currentConfig() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}
