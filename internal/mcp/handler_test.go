package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/halentin/FMI-Viewer/internal/cache"
	"github.com/halentin/FMI-Viewer/internal/fmutest"
	"github.com/halentin/FMI-Viewer/internal/inspect"
	"github.com/halentin/FMI-Viewer/internal/mcp/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const descriptor = `<fmiModelDescription fmiVersion="2.0" modelName="Stair" guid="g">
  <ModelVariables>
    <ScalarVariable name="counter" valueReference="1" causality="output"><Integer/></ScalarVariable>
    <ScalarVariable name="step" valueReference="2" causality="parameter"><Real start="1"/></ScalarVariable>
  </ModelVariables>
</fmiModelDescription>`

type fakeStats struct{}

func (fakeStats) Stats() (cache.Stats, error) {
	return cache.Stats{Path: "/tmp/cache.db", Entries: 3}, nil
}

func newTestHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	path := fmutest.WriteFMU(t, descriptor,
		fmutest.Entry{Name: "binaries/linux64/Stair.so", Body: "so"},
		fmutest.Entry{Name: "sources/Stair.c", Body: "c"},
	)
	return NewFMIHandler(inspect.NewInspector(nil, 1, nil), fakeStats{}, "", "test", nil), path
}

func call(h *Handler, method string, params map[string]interface{}) *tools.JSONRPCResponse {
	return h.Handle(context.Background(), &tools.JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
}

// roundTrip re-decodes a result the way a client would see it.
func roundTrip(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestHandle_Initialize(t *testing.T) {
	h, _ := newTestHandler(t)
	resp := call(h, "initialize", nil)
	require.Nil(t, resp.Error)

	res := roundTrip(t, resp.Result)
	assert.Equal(t, ProtocolVersion, res["protocolVersion"])
	assert.Equal(t, "fmiviewer", res["serverInfo"].(map[string]interface{})["name"])
}

func TestHandle_ToolsListSorted(t *testing.T) {
	h, _ := newTestHandler(t)
	res := roundTrip(t, call(h, "tools/list", nil).Result)

	list := res["tools"].([]interface{})
	require.Len(t, list, 3)
	var names []string
	for _, item := range list {
		tool := item.(map[string]interface{})
		names = append(names, tool["name"].(string))
		assert.NotEmpty(t, tool["description"])
		assert.Equal(t, []interface{}{"path"}, tool["inputSchema"].(map[string]interface{})["required"])
	}
	assert.Equal(t, []string{ToolInspect, ToolPlatforms, ToolVariables}, names)
}

func TestHandle_ToolCalls(t *testing.T) {
	h, path := newTestHandler(t)

	resp := call(h, "tools/call", map[string]interface{}{
		"name":      ToolVariables,
		"arguments": map[string]interface{}{"path": path, "causality": "parameter"},
	})
	require.Nil(t, resp.Error)
	res := roundTrip(t, resp.Result)
	structured := res["structuredContent"].(map[string]interface{})
	assert.Equal(t, float64(2), structured["total"])
	assert.Equal(t, float64(1), structured["count"])
	assert.Contains(t, res["content"].([]interface{})[0].(map[string]interface{})["text"], `"step"`)

	resp = call(h, "tools/call", map[string]interface{}{
		"name":      ToolPlatforms,
		"arguments": map[string]interface{}{"path": path},
	})
	structured = roundTrip(t, resp.Result)["structuredContent"].(map[string]interface{})
	assert.Equal(t, []interface{}{"linux64"}, structured["platforms"])
	assert.Equal(t, true, structured["hasSources"])

	resp = call(h, "tools/call", map[string]interface{}{
		"name":      ToolInspect,
		"arguments": map[string]interface{}{"path": path, "include_entries": false},
	})
	structured = roundTrip(t, resp.Result)["structuredContent"].(map[string]interface{})
	assert.Equal(t, "Stair", structured["modelName"])
	assert.Empty(t, structured["entries"])
}

func TestHandle_ToolErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	resp := call(h, "tools/call", map[string]interface{}{"arguments": map[string]interface{}{}})
	require.NotNil(t, resp.Error)
	assert.Equal(t, tools.CodeInvalidParams, resp.Error.Code)

	resp = call(h, "tools/call", map[string]interface{}{"name": "fmi.simulate"})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "Tool not found")

	resp = call(h, "tools/call", map[string]interface{}{
		"name":      ToolInspect,
		"arguments": map[string]interface{}{"path": "/does/not/exist.fmu"},
	})
	require.Nil(t, resp.Error)
	res := roundTrip(t, resp.Result)
	assert.Equal(t, true, res["isError"])
	assert.Contains(t, res["content"].([]interface{})[0].(map[string]interface{})["text"], "cannot read archive")
}

func TestHandle_Resources(t *testing.T) {
	h, _ := newTestHandler(t)

	list := roundTrip(t, call(h, "resources/list", nil).Result)["resources"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, ResourceCacheURI, list[0].(map[string]interface{})["uri"])

	res := roundTrip(t, call(h, "resources/read", map[string]interface{}{"uri": ResourceCacheURI}).Result)
	assert.Equal(t, float64(3), res["entries"])

	resp := call(h, "resources/read", map[string]interface{}{"uri": "fmi://nope"})
	require.NotNil(t, resp.Error)
}

func TestHandle_UnknownMethodAndNotification(t *testing.T) {
	h, _ := newTestHandler(t)

	resp := call(h, "sampling/createMessage", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, tools.CodeMethodNotFound, resp.Error.Code)

	assert.Nil(t, h.Handle(context.Background(), &tools.JSONRPCRequest{JSONRPC: "2.0", Method: "notifications/initialized"}))
}

func TestStdioTransport(t *testing.T) {
	h, path := newTestHandler(t)
	pathJSON, _ := json.Marshal(path)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"1.0","id":2,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"fmi.platforms","arguments":{"path":` + string(pathJSON) + `}}}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, NewStdioTransport(h, strings.NewReader(in), &out).Start(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)

	var responses []tools.JSONRPCResponse
	for _, line := range lines {
		var resp tools.JSONRPCResponse
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}

	assert.Nil(t, responses[0].Error)
	assert.Equal(t, tools.CodeParseError, responses[1].Error.Code)
	assert.Equal(t, tools.CodeInvalidRequest, responses[2].Error.Code)
	assert.Nil(t, responses[3].Error)
	assert.Equal(t, float64(3), responses[3].ID)
	assert.Contains(t, lines[3], "linux64")
}
