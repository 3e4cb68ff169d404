package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// UserInput selects the user the tool reports on.
type UserInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"FitMix user id. Not needed over HTTP, where the signed in user is used"`
}

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
	// set when the server is bound to an authenticated user (HTTP)
	boundUserID string
}

func NewHandler(service contextService, boundUserID string) *Handler {
	return &Handler{
		service:     service,
		boundUserID: boundUserID,
	}
}

func (h *Handler) resolveUserID(in UserInput) (string, string) {
	requested := strings.TrimSpace(in.UserID)
	if h.boundUserID != "" {
		if requested != "" && requested != h.boundUserID {
			return "", "user_id does not match the signed in user"
		}
		return h.boundUserID, ""
	}
	if requested == "" {
		return "", "user_id is required"
	}
	return requested, ""
}

// GetProgressTool returns the MCP tool handler for get_progress.
func (h *Handler) GetProgressTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, errMsg := h.resolveUserID(in)
		if errMsg != "" {
			return errorResult(errMsg), nil, nil
		}

		summary, err := h.service.GetProgress(ctx, userID)
		if err != nil {
			return errorResult("Error fetching progress: " + err.Error()), nil, nil
		}
		return jsonResult(summary), nil, nil
	}
}

// ListProgramsTool returns the MCP tool handler for list_programs.
func (h *Handler) ListProgramsTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, errMsg := h.resolveUserID(in)
		if errMsg != "" {
			return errorResult(errMsg), nil, nil
		}

		programs, err := h.service.ListPrograms(ctx, userID)
		if err != nil {
			return errorResult("Error listing programs: " + err.Error()), nil, nil
		}
		return jsonResult(programs), nil, nil
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
