// Package feedtools exposes a feed session's operations as MCP tools.
package feedtools

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// LoadSourceInput is the input for the load_source MCP tool.
type LoadSourceInput struct {
	Text string `json:"text,omitempty" jsonschema:"source text to load into the session"`
	Path string `json:"path,omitempty" jsonschema:"path of a source file to load; ignored when text is set"`
}

// LoadSourceOutput is the result of the load_source MCP tool.
type LoadSourceOutput struct {
	Lines int `json:"lines"`
}

// FeedLineInput is the input for the feed_line MCP tool.
type FeedLineInput struct {
	Count int `json:"count,omitempty" jsonschema:"number of lines to feed (default: 1)"`
}

// FeedLineOutput is the result of the feed_line MCP tool.
type FeedLineOutput struct {
	Fed       int  `json:"fed"`
	CaretLine int  `json:"caretLine"`
	AtEnd     bool `json:"atEnd"`
}

// FeedCellInput is the input for the feed_cell MCP tool.
type FeedCellInput struct{}

// FeedCellOutput is the result of the feed_cell MCP tool.
type FeedCellOutput struct {
	Fed       bool `json:"fed"`
	CaretLine int  `json:"caretLine"`
	AtEnd     bool `json:"atEnd"`
}

// FeedSelectionInput is the input for the feed_selection MCP tool.
// Lines are zero-based; columns are zero-based byte offsets.
type FeedSelectionInput struct {
	StartLine   int `json:"startLine" jsonschema:"first line of the selection"`
	StartColumn int `json:"startColumn,omitempty" jsonschema:"column on the first line"`
	EndLine     int `json:"endLine" jsonschema:"last line of the selection"`
	EndColumn   int `json:"endColumn" jsonschema:"column on the last line"`
}

// FeedSelectionOutput is the result of the feed_selection MCP tool.
type FeedSelectionOutput struct {
	Fed   bool `json:"fed"`
	AtEnd bool `json:"atEnd"`
}

// ConsoleStateInput is the input for the console_state MCP tool.
type ConsoleStateInput struct{}

// ExecutionRecord summarizes one completed console execution.
type ExecutionRecord struct {
	Program string `json:"program"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}

// ConsoleStateOutput is the result of the console_state MCP tool.
type ConsoleStateOutput struct {
	Buffer     string            `json:"buffer"`
	Busy       bool              `json:"busy"`
	Pending    int               `json:"pending"`
	Executions []ExecutionRecord `json:"executions"`
}
