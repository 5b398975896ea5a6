package provider

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// JSONResult encodes an envelope as indented JSON text content. Tool output
// is always text: MCP clients feed it back to a model, so readability wins
// over compactness.
func JSONResult(envelope map[string]any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
