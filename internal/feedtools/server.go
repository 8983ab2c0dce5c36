package feedtools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewFeedMCPServer creates an MCP server with all 5 console feed tools
// registered.
func NewFeedMCPServer(svc *FeedService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "replfeed",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_source",
		Description: "Load source text (or a file) into the feed session, resetting the caret to the first line.",
	}, svc.LoadSource)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "feed_line",
		Description: "Feed the line at the caret into the interactive console, as if typed there, and advance the caret to the next statement line. Partial statements accumulate in the console buffer until a later line completes them.",
	}, svc.FeedLine)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "feed_cell",
		Description: "Feed the whole cell containing the caret (the region between cell markers) into the console and advance to the next cell.",
	}, svc.FeedCell)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "feed_selection",
		Description: "Feed an arbitrary document region into the console. The text is re-indented and split into top-level statements before submission.",
	}, svc.FeedSelection)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "console_state",
		Description: "Report the console's unexecuted input buffer, busy flag, pending queue depth, and execution history.",
	}, svc.ConsoleState)

	return server
}

// RunMCPServer starts an HTTP server exposing the console feed MCP tools.
func RunMCPServer(ctx context.Context, svc *FeedService, addr string) error {
	server := NewFeedMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
