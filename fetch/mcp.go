package fetch

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/liseuse/kit"
	"github.com/hazyhaar/liseuse/snapshot"
)

type readerRequest struct {
	URL string `json:"url"`
}

type readerResult struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

// RegisterMCP registers the browserless reader tool: fetch a URL over plain
// HTTP and return its content as markdown.
func (f *Fetcher) RegisterMCP(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "liseuse_reader",
		Description: "Fetch a web page without the browser and return its content as markdown. Works for static pages only.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{"type": "string", "description": "The http(s) URL to fetch"},
			},
			"required": []string{"url"},
		},
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*readerRequest)
		res, err := f.Fetch(ctx, r.URL)
		if err != nil {
			return nil, err
		}
		return readerResult{
			URL:      res.URL,
			Markdown: snapshot.Markdown(string(res.HTML), res.URL),
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r readerRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
