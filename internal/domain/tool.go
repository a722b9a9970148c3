package domain

// ToolSpec describes one callable tool as returned by tools/list.
type ToolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// ToolResult is the content payload of a tools/call result.
type ToolResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextResult wraps text as a single-block ToolResult.
func TextResult(text string, isError bool) ToolResult {
	return ToolResult{
		Content: []TextContent{{Type: "text", Text: text}},
		IsError: isError,
	}
}
