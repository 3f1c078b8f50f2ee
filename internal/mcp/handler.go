package mcp

import (
	"context"
	"io"
	"sort"

	"github.com/halentin/FMI-Viewer/internal/mcp/tools"
	"github.com/sirupsen/logrus"
)

// ProtocolVersion is the MCP revision this server speaks
const ProtocolVersion = "2024-11-05"

// Tool represents an MCP tool
type Tool interface {
	Execute(ctx context.Context, args map[string]interface{}) (interface{}, error)
	GetSchema() map[string]interface{}
	Description() string
}

// Resource represents an MCP resource
type Resource interface {
	Read(ctx context.Context) (interface{}, error)
}

// Handler handles MCP protocol requests
type Handler struct {
	tools     map[string]Tool
	resources map[string]Resource
	version   string
	logger    *logrus.Logger
}

// NewHandler creates a new MCP handler
func NewHandler(version string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Handler{
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		version:   version,
		logger:    logger,
	}
}

// RegisterTool registers a tool with the handler
func (h *Handler) RegisterTool(name string, tool Tool) {
	h.tools[name] = tool
}

// RegisterResource registers a resource with the handler
func (h *Handler) RegisterResource(uri string, resource Resource) {
	h.resources[uri] = resource
}

// Handle processes a JSON-RPC request. It returns nil for notifications.
func (h *Handler) Handle(ctx context.Context, req *tools.JSONRPCRequest) *tools.JSONRPCResponse {
	h.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"id":     req.ID,
	}).Debug("MCP request")

	if req.IsNotification() {
		return nil
	}

	switch req.Method {
	case "initialize":
		return h.handleInitialize(req)
	case "ping":
		return result(req, map[string]interface{}{})
	case "tools/list":
		return h.handleToolsList(req)
	case "tools/call":
		return h.handleToolCall(ctx, req)
	case "resources/list":
		return h.handleResourcesList(req)
	case "resources/read":
		return h.handleResourceRead(ctx, req)
	default:
		return errorResponse(req.ID, tools.CodeMethodNotFound, "Method not found")
	}
}

// handleInitialize handles the initialize request
func (h *Handler) handleInitialize(req *tools.JSONRPCRequest) *tools.JSONRPCResponse {
	return result(req, map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]string{
			"name":    "fmiviewer",
			"version": h.version,
		},
	})
}

// handleToolsList handles the tools/list request
func (h *Handler) handleToolsList(req *tools.JSONRPCRequest) *tools.JSONRPCResponse {
	toolsList := []map[string]interface{}{}

	for _, name := range sortedKeys(h.tools) {
		tool := h.tools[name]
		toolsList = append(toolsList, map[string]interface{}{
			"name":        name,
			"description": tool.Description(),
			"inputSchema": tool.GetSchema(),
		})
	}

	return result(req, map[string]interface{}{
		"tools": toolsList,
	})
}

// handleToolCall handles the tools/call request
func (h *Handler) handleToolCall(ctx context.Context, req *tools.JSONRPCRequest) *tools.JSONRPCResponse {
	// Extract tool name from params
	toolName, ok := req.Params["name"].(string)
	if !ok {
		return errorResponse(req.ID, tools.CodeInvalidParams, "Invalid params: 'name' is required")
	}

	// Get the tool
	tool, exists := h.tools[toolName]
	if !exists {
		return errorResponse(req.ID, tools.CodeInvalidParams, "Tool not found: "+toolName)
	}

	// Extract arguments
	args, ok := req.Params["arguments"].(map[string]interface{})
	if !ok {
		args = make(map[string]interface{})
	}

	// Execute the tool. Tool failures are results with isError set, not
	// protocol errors, so the client can show them to the model.
	out, err := tool.Execute(ctx, args)
	if err != nil {
		h.logger.WithError(err).WithField("tool", toolName).Warn("Tool execution failed")
		return result(req, tools.ErrorResult(err))
	}

	callResult, err := tools.NewCallResult(out)
	if err != nil {
		return errorResponse(req.ID, tools.CodeInternalError, "Tool result encoding error: "+err.Error())
	}
	return result(req, callResult)
}

// handleResourcesList handles the resources/list request
func (h *Handler) handleResourcesList(req *tools.JSONRPCRequest) *tools.JSONRPCResponse {
	resourcesList := []map[string]interface{}{}

	for _, uri := range sortedKeys(h.resources) {
		resourcesList = append(resourcesList, map[string]interface{}{
			"uri":      uri,
			"name":     uri,
			"mimeType": "application/json",
		})
	}

	return result(req, map[string]interface{}{
		"resources": resourcesList,
	})
}

// handleResourceRead handles the resources/read request
func (h *Handler) handleResourceRead(ctx context.Context, req *tools.JSONRPCRequest) *tools.JSONRPCResponse {
	uri, ok := req.Params["uri"].(string)
	if !ok {
		return errorResponse(req.ID, tools.CodeInvalidParams, "Invalid params: 'uri' is required")
	}

	resource, exists := h.resources[uri]
	if !exists {
		return errorResponse(req.ID, tools.CodeInvalidParams, "Resource not found: "+uri)
	}

	out, err := resource.Read(ctx)
	if err != nil {
		return errorResponse(req.ID, tools.CodeInternalError, "Resource read error: "+err.Error())
	}

	return result(req, out)
}

func result(req *tools.JSONRPCRequest, v interface{}) *tools.JSONRPCResponse {
	return &tools.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  v,
	}
}

func errorResponse(id interface{}, code int, message string) *tools.JSONRPCResponse {
	return &tools.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &tools.JSONRPCError{
			Code:    code,
			Message: message,
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
