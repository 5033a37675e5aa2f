// Package lsp serves the workspace engine over JSON-RPC 2.0 on stdio.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"deducels/internal/config"
	"deducels/internal/source"
	"deducels/internal/version"
	"deducels/internal/workspace"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Config is the starting configuration. When ConfigPath is empty the
	// server looks for deducels.toml above the workspace root on initialize.
	Config     config.Config
	ConfigPath string
	// Trace forces per-analysis log lines regardless of the config.
	Trace bool
	// Log receives the `lsp:` lines; stderr by default.
	Log io.Writer
}

// docText — текст открытого документа так, как его видит клиент.
type docText struct {
	text    string
	version int32
}

// Server handles stdio JSON-RPC for the Deduce language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	log    io.Writer
	sendMu sync.Mutex

	engine *workspace.Engine

	mu                sync.Mutex
	cfg               config.Config
	configPinned      bool
	forceTrace        bool
	docs              map[string]docText
	timers            map[string]*time.Timer
	published         map[string]struct{}
	workspaceRoot     string
	shutdownRequested bool
	baseCtx           context.Context

	// publishMu упорядочивает публикацию диагностик одного и того же снимка
	publishMu sync.Mutex
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	cfg := opts.Config
	if cfg.Server == (config.Server{}) && cfg.Imports.Search == nil {
		cfg = config.Default()
	}
	logw := opts.Log
	if logw == nil {
		logw = os.Stderr
	}
	return &Server{
		in:           bufio.NewReader(in),
		out:          bufio.NewWriter(out),
		log:          logw,
		engine:       workspace.NewEngine(workspace.OptionsFromConfig(cfg)),
		cfg:          cfg,
		configPinned: opts.ConfigPath != "",
		forceTrace:   opts.Trace,
		docs:         make(map[string]docText),
		timers:       make(map[string]*time.Timer),
		published:    make(map[string]struct{}),
		baseCtx:      context.Background(),
	}
}

// Engine exposes the underlying workspace engine.
func (s *Server) Engine() *workspace.Engine { return s.engine }

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	defer s.stopTimers()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		s.mu.Lock()
		requested := s.shutdownRequested
		s.mu.Unlock()
		if requested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/signatureHelp":
		return s.handleSignatureHelp(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found: "+msg.Method)
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = source.PathFromURI(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = source.PathFromURI(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.workspaceRoot = root
	pinned := s.configPinned
	s.mu.Unlock()

	if root != "" && !pinned {
		s.discoverConfig(root)
	}
	if len(params.InitializationOptions) > 0 {
		s.applySettings(params.InitializationOptions)
	}

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			CompletionProvider: &completionOptions{
				TriggerCharacters: []string{".", " "},
			},
			SignatureHelpProvider: &signatureHelpOptions{
				TriggerCharacters: []string{"(", "[", ","},
			},
		},
		ServerInfo: serverInfo{Name: "deducels", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

// discoverConfig подхватывает deducels.toml над корнем workspace.
func (s *Server) discoverConfig(root string) {
	cfg, err := config.Discover(root)
	if err != nil {
		s.logf("config: %v", err)
		return
	}
	if cfg.Path == "" {
		return
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.engine.SetOptions(workspace.OptionsFromConfig(cfg))
	s.logf("config: loaded %s", cfg.Path)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.stopTimers()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return fmt.Errorf("didOpen: %w", err)
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	s.docs[uri] = docText{text: params.TextDocument.Text, version: params.TextDocument.Version}
	s.mu.Unlock()
	s.tracef("didOpen: uri=%s version=%d", uri, params.TextDocument.Version)
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return fmt.Errorf("didChange: %w", err)
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		s.logf("didChange for unopened document %s", uri)
		return nil
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	s.docs[uri] = doc
	s.mu.Unlock()
	s.tracef("didChange: uri=%s version=%d changes=%d", uri, doc.version, len(params.ContentChanges))
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return fmt.Errorf("didSave: %w", err)
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if ok && params.Text != nil {
		doc.text = *params.Text
		s.docs[uri] = doc
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	s.tracef("didSave: uri=%s version=%d", uri, doc.version)
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return fmt.Errorf("didClose: %w", err)
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	if t := s.timers[uri]; t != nil {
		t.Stop()
		delete(s.timers, uri)
	}
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	s.mu.Unlock()
	if err := s.engine.Close(uri); err != nil && !errors.Is(err, workspace.ErrUnknownDocument) {
		s.logf("close %s: %v", uri, err)
	}
	s.tracef("didClose: uri=%s", uri)
	if hadDiagnostics {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	return nil
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, version *int32, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: list,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+format+"\n", args...)
}

// tracef пишет только при включённом trace.
func (s *Server) tracef(format string, args ...any) {
	s.mu.Lock()
	on := s.forceTrace || s.cfg.Server.Trace
	s.mu.Unlock()
	if on {
		s.logf(format, args...)
	}
}
