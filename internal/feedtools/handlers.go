package feedtools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/duskline/replfeed/internal/console"
	"github.com/duskline/replfeed/internal/feed"
	"github.com/duskline/replfeed/internal/source"
)

// FeedService holds the session and console used by the MCP tool handlers.
type FeedService struct {
	session *feed.Session
	console *console.Buffered
}

// NewFeedService creates a FeedService around an existing session and its
// console.
func NewFeedService(session *feed.Session, c *console.Buffered) *FeedService {
	return &FeedService{session: session, console: c}
}

// LoadSource replaces the session's source document from literal text or a
// file path.
func (s *FeedService) LoadSource(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input LoadSourceInput,
) (*mcp.CallToolResult, LoadSourceOutput, error) {
	text := input.Text
	if text == "" {
		if input.Path == "" {
			return nil, LoadSourceOutput{}, fmt.Errorf("either text or path is required")
		}
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, LoadSourceOutput{}, fmt.Errorf("read %s: %w", input.Path, err)
		}
		text = string(data)
	}

	s.session.Load(text)
	return nil, LoadSourceOutput{Lines: s.session.Document().LineCount()}, nil
}

// FeedLine feeds the next line (or lines) at the caret into the console.
func (s *FeedService) FeedLine(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FeedLineInput,
) (*mcp.CallToolResult, FeedLineOutput, error) {
	count := input.Count
	if count <= 0 {
		count = 1
	}

	fed := 0
	for i := 0; i < count; i++ {
		if !s.session.SendLine() {
			break
		}
		fed++
	}

	return nil, FeedLineOutput{
		Fed:       fed,
		CaretLine: s.session.Document().Caret().Line,
		AtEnd:     s.session.AtEnd(),
	}, nil
}

// FeedCell feeds the cell containing the caret into the console.
func (s *FeedService) FeedCell(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ FeedCellInput,
) (*mcp.CallToolResult, FeedCellOutput, error) {
	fed := s.session.SendCell()
	return nil, FeedCellOutput{
		Fed:       fed,
		CaretLine: s.session.Document().Caret().Line,
		AtEnd:     s.session.AtEnd(),
	}, nil
}

// FeedSelection selects a document region and feeds it into the console.
func (s *FeedService) FeedSelection(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FeedSelectionInput,
) (*mcp.CallToolResult, FeedSelectionOutput, error) {
	doc := s.session.Document()
	doc.Select(
		source.Position{Line: input.StartLine, Column: input.StartColumn},
		source.Position{Line: input.EndLine, Column: input.EndColumn},
	)
	fed := s.session.SendSelection()
	if !fed {
		return nil, FeedSelectionOutput{}, fmt.Errorf("selection is empty")
	}
	return nil, FeedSelectionOutput{Fed: true, AtEnd: s.session.AtEnd()}, nil
}

// ConsoleState reports the console's buffer, busy flag, pending queue depth,
// and execution history.
func (s *FeedService) ConsoleState(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ConsoleStateInput,
) (*mcp.CallToolResult, ConsoleStateOutput, error) {
	history := s.console.History()
	records := make([]ExecutionRecord, 0, len(history))
	for _, e := range history {
		rec := ExecutionRecord{Program: e.Program, Output: e.Output}
		if e.Err != nil {
			rec.Error = e.Err.Error()
		}
		records = append(records, rec)
	}

	return nil, ConsoleStateOutput{
		Buffer:     s.console.Buffer(),
		Busy:       s.console.Busy(),
		Pending:    s.session.Driver().Pending(),
		Executions: records,
	}, nil
}
