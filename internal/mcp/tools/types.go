package tools

import (
	"encoding/json"

	"github.com/halentin/FMI-Viewer/internal/models"
)

// JSONRPCRequest represents a JSON-RPC 2.0 request
type JSONRPCRequest struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      interface{}            `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (r *JSONRPCRequest) IsNotification() bool {
	return r.ID == nil
}

// JSONRPCResponse represents a JSON-RPC 2.0 response
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id"`
	Result  interface{}   `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// VariablesResult is the output of fmi.variables
type VariablesResult struct {
	ModelName string            `json:"modelName,omitempty"`
	Total     int               `json:"total"`
	Count     int               `json:"count"`
	Variables []models.Variable `json:"variables"`
}

// PlatformsResult is the output of fmi.platforms
type PlatformsResult struct {
	ModelName   string   `json:"modelName,omitempty"`
	Platforms   []string `json:"platforms"`
	HasBinaries bool     `json:"hasBinaries"`
	HasSources  bool     `json:"hasSources"`
}

// Content is one block of a tool call result
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the tools/call result envelope
type CallResult struct {
	Content           []Content   `json:"content"`
	StructuredContent interface{} `json:"structuredContent,omitempty"`
	IsError           bool        `json:"isError,omitempty"`
}

// NewCallResult wraps a tool output as JSON text plus structured content
func NewCallResult(v interface{}) (*CallResult, error) {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &CallResult{
		Content:           []Content{{Type: "text", Text: string(text)}},
		StructuredContent: v,
	}, nil
}

// ErrorResult reports a failed tool call
func ErrorResult(err error) *CallResult {
	return &CallResult{
		Content: []Content{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}
