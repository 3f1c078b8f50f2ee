package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/halentin/FMI-Viewer/internal/mcp/tools"
)

const maxRequestSize = 4 * 1024 * 1024

// StdioTransport handles line-delimited JSON-RPC communication over stdio
type StdioTransport struct {
	scanner *bufio.Scanner
	out     io.Writer
	mu      sync.Mutex
	handler *Handler
}

// NewStdioTransport creates a new transport reading requests from in and
// writing one response per line to out
func NewStdioTransport(handler *Handler, in io.Reader, out io.Writer) *StdioTransport {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxRequestSize)
	return &StdioTransport{
		scanner: scanner,
		out:     out,
		handler: handler,
	}
}

// Start serves requests until in is exhausted or ctx is cancelled
func (t *StdioTransport) Start(ctx context.Context) error {
	for t.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(t.scanner.Text())
		if line == "" {
			continue
		}

		// Parse JSON-RPC request
		var req tools.JSONRPCRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			t.send(errorResponse(nil, tools.CodeParseError, "Parse error"))
			continue
		}
		if req.JSONRPC != "2.0" || req.Method == "" {
			t.send(errorResponse(req.ID, tools.CodeInvalidRequest, "Invalid request"))
			continue
		}

		// Handle request
		if response := t.handler.Handle(ctx, &req); response != nil {
			t.send(response)
		}
	}
	return t.scanner.Err()
}

// send writes a response as a single JSON line
func (t *StdioTransport) send(response *tools.JSONRPCResponse) error {
	respJSON, err := json.Marshal(response)
	if err != nil {
		respJSON, _ = json.Marshal(errorResponse(response.ID, tools.CodeInternalError, "Response encoding error"))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = t.out.Write(append(respJSON, '\n'))
	return err
}
