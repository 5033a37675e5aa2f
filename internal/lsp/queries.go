package lsp

import (
	"encoding/json"
	"errors"
	"fmt"

	"deducels/internal/query"
	"deducels/internal/workspace"
)

// queryError отвечает на запрос к неоткрытому документу пустым результатом,
// остальные ошибки уходят клиенту как -32603.
func (s *Server) queryError(msg *rpcMessage, err error) error {
	if errors.Is(err, workspace.ErrUnknownDocument) {
		return s.sendResponse(msg.ID, nil)
	}
	s.logf("%s: %v", msg.Method, err)
	return s.sendError(msg.ID, codeInternalError, err.Error())
}

func (s *Server) handleHover(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := params.TextDocument.URI
	if err := s.ensureAnalyzed(uri); err != nil {
		return s.queryError(msg, err)
	}
	h, ok, err := s.engine.Hover(uri, params.Position)
	if err != nil {
		return s.queryError(msg, err)
	}
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	r := h.Range
	return s.sendResponse(msg.ID, hover{
		Contents: markupContent{Kind: "markdown", Value: h.Markdown()},
		Range:    &r,
	})
}

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := params.TextDocument.URI
	if err := s.ensureAnalyzed(uri); err != nil {
		return s.queryError(msg, err)
	}
	loc, ok, err := s.engine.Definition(uri, params.Position)
	if err != nil {
		return s.queryError(msg, err)
	}
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, location{URI: loc.URI, Range: loc.Range})
}

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params completionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := params.TextDocument.URI
	if err := s.ensureAnalyzed(uri); err != nil {
		return s.queryError(msg, err)
	}
	items, err := s.engine.Completion(uri, params.Position, nil)
	if err != nil {
		return s.queryError(msg, err)
	}
	list := completionList{Items: make([]completionItem, 0, len(items))}
	for i, it := range items {
		list.Items = append(list.Items, toCompletionItem(i, it))
	}
	return s.sendResponse(msg.ID, list)
}

func toCompletionItem(rank int, it query.CompletionItem) completionItem {
	out := completionItem{
		Label:    it.Label,
		Kind:     completionKind(it.Kind),
		Detail:   it.Detail,
		SortText: fmt.Sprintf("%05d", rank),
	}
	if it.InsertText != "" {
		out.InsertTextFormat = 1
		if it.Replace != nil {
			out.TextEdit = &textEdit{Range: *it.Replace, NewText: it.InsertText}
		} else {
			out.InsertText = it.InsertText
		}
	}
	return out
}

// completionKind maps item kinds onto LSP CompletionItemKind values.
func completionKind(kind string) int {
	switch kind {
	case "function":
		return 3
	case "constructor":
		return 4
	case "parameter", "local-variable":
		return 6
	case "theorem":
		return 21
	case "type":
		return 13
	case "operator", query.ItemOperator:
		return 24
	case query.ItemKeyword:
		return 14
	case query.ItemSnippet:
		return 15
	default:
		return 1
	}
}

func (s *Server) handleSignatureHelp(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := params.TextDocument.URI
	if err := s.ensureAnalyzed(uri); err != nil {
		return s.queryError(msg, err)
	}
	help, ok, err := s.engine.SignatureHelp(uri, params.Position)
	if err != nil {
		return s.queryError(msg, err)
	}
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	info := signatureInformation{Label: help.Label}
	for _, p := range help.Params {
		info.Parameters = append(info.Parameters, parameterInformation{Label: p})
	}
	return s.sendResponse(msg.ID, signatureHelp{
		Signatures:      []signatureInformation{info},
		ActiveParameter: help.Active,
	})
}
