// Package tools implements the MCP tool handlers that expose the
// monday.com API to the agent host.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema, and a Handle() method
// processing the call. One file per API domain area. Tools depend on the
// client's Querier interface, never on the concrete client, so they can
// be tested against a stub.
package tools

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// idArg extracts an entity ID that callers may pass as a number or a
// string. Returns "" when absent.
func idArg(req mcp.CallToolRequest, key string) string {
	switch v := req.GetArguments()[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

// mapArg extracts an object argument, nil when absent.
func mapArg(req mcp.CallToolRequest, key string) map[string]any {
	v, _ := req.GetArguments()[key].(map[string]any)
	return v
}

// idSliceArg extracts an array of IDs passed as numbers or strings.
func idSliceArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		switch v := e.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, strconv.FormatInt(int64(v), 10))
		}
	}
	return out
}

// jsonResult renders v as indented JSON in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// rawResult re-indents a raw GraphQL payload for readability.
func rawResult(data json.RawMessage) (*mcp.CallToolResult, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return mcp.NewToolResultText(string(data)), nil
	}
	return jsonResult(v)
}

// apiError surfaces a client failure as a tool error result so the model
// can read it and react, instead of failing the whole protocol call.
func apiError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("monday.com API error: %v", err))
}
