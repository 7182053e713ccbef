package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/liseuse/command"
	"github.com/hazyhaar/liseuse/kit"
)

// RegisterMCP registers the session's operations as MCP tools.
func (s *Session) RegisterMCP(srv *mcp.Server) {
	s.registerRunTool(srv)
	s.registerSummariseTool(srv)
	s.registerAskTool(srv)
	s.registerExtractTool(srv)
	s.registerClickTool(srv)
	s.registerScrollTool(srv)
	s.registerFocusTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	sch := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sch["required"] = required
	}
	return sch
}

type displayResult struct {
	Display string `json:"display"`
}

// --- run ---

type runRequest struct {
	Input string `json:"input"`
	Mode  string `json:"mode,omitempty"`
}

func (s *Session) registerRunTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "liseuse_run",
		Description: "Run a free-text request: ask mode answers with page context, command mode interprets it into a page command and executes it.",
		InputSchema: inputSchema(map[string]any{
			"input": map[string]any{"type": "string", "description": "The request text"},
			"mode":  map[string]any{"type": "string", "enum": []any{"ask", "command"}, "description": "Handling mode (default: ask)"},
		}, []string{"input"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*runRequest)
		mode := ModeAsk
		if r.Mode == string(ModeCommand) {
			mode = ModeCommand
		}
		return displayResult{Display: s.Run(ctx, mode, r.Input)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r runRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- summarise ---

func (s *Session) registerSummariseTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "liseuse_summarise",
		Description: "Summarise the current page: extracts its text, sends it to the assistant, and returns the formatted summary.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return displayResult{Display: s.Summarise(ctx)}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeEmpty)
}

// --- ask ---

type askRequest struct {
	Question string `json:"question"`
}

func (s *Session) registerAskTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "liseuse_ask",
		Description: "Ask a free-form question about the current page.",
		InputSchema: inputSchema(map[string]any{
			"question": map[string]any{"type": "string", "description": "The question"},
		}, []string{"question"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*askRequest)
		return displayResult{Display: s.Run(ctx, ModeAsk, r.Question)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r askRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- extract ---

func (s *Session) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "liseuse_extract",
		Description: "Extract the readable text of the current page.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return displayResult{Display: s.ExtractText(ctx)}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeEmpty)
}

// --- click ---

type clickRequest struct {
	Target string `json:"target"`
}

func (s *Session) registerClickTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "liseuse_click",
		Description: "Click the page element best matching the target phrase.",
		InputSchema: inputSchema(map[string]any{
			"target": map[string]any{"type": "string", "description": "Visible label of the element to click"},
		}, []string{"target"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*clickRequest)
		return displayResult{Display: s.click(ctx, r.Target)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r clickRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- scroll ---

type scrollRequest struct {
	Direction string `json:"direction"`
}

func (s *Session) registerScrollTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "liseuse_scroll",
		Description: "Scroll the page viewport up or down.",
		InputSchema: inputSchema(map[string]any{
			"direction": map[string]any{"type": "string", "enum": []any{"up", "down"}, "description": "Scroll direction"},
		}, []string{"direction"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*scrollRequest)
		kind := command.ScrollDown
		if r.Direction == "up" {
			kind = command.ScrollUp
		}
		return displayResult{Display: s.Dispatch(ctx, command.Command{Kind: kind, Raw: "scroll " + r.Direction})}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r scrollRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		if r.Direction != "up" && r.Direction != "down" {
			return nil, fmt.Errorf("direction must be up or down")
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- focus ---

type focusRequest struct {
	On bool `json:"on"`
}

func (s *Session) registerFocusTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "liseuse_focus",
		Description: "Toggle the focus overlay that dims the page around its main content.",
		InputSchema: inputSchema(map[string]any{
			"on": map[string]any{"type": "boolean", "description": "true to enable, false to disable"},
		}, []string{"on"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*focusRequest)
		kind := command.FocusOff
		if r.On {
			kind = command.FocusOn
		}
		return displayResult{Display: s.Dispatch(ctx, command.Command{Kind: kind, Raw: kind.String()})}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r focusRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func decodeEmpty(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	return &kit.MCPDecodeResult{Request: nil}, nil
}
