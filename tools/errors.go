package tools

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codescope/fault"
)

// errorResult renders a failure as an IsError tool result. Faults surface
// their kind and offending path; anything else is reported verbatim. No
// error from the engine aborts the protocol stream.
func errorResult(err error) *mcp.CallToolResult {
	var text string
	if kind := fault.KindOf(err); kind != 0 {
		text = fmt.Sprintf("Error (%s): %v", kind, err)
	} else {
		text = fmt.Sprintf("Error: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// missingArg renders a required-parameter failure.
func missingArg(name string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %s parameter is required", name)}},
		IsError: true,
	}
}

// textResult wraps plain text in a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
