package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/fitmix/backend/internal/auth"
)

const (
	serverName    = "fitmix-context"
	serverVersion = "1.0.0"
)

// NewServer builds an MCP server with the fitmix tools: get_progress, list_programs.
// With a non empty boundUserID the tools only report on that user.
func NewServer(service contextService, boundUserID string) *mcp.Server {
	h := NewHandler(service, boundUserID)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progress",
		Description: "Returns the user's training progress per muscle group (chest, back, legs, shoulders, arms, core, cardio, full_body): exercise count, average weight, 0-100 progress score and level, plus the total number of completed workouts.",
	}, h.GetProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_programs",
		Description: "Returns the user's workout programs (custom and AI generated), newest first, with their days and exercises.",
	}, h.ListProgramsTool())

	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP. It must run behind
// the auth middleware: every request gets a server bound to the signed in user.
func NewHTTPHandler(service contextService) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			log.Warnf("mcp: request without user on %s", r.URL.Path)
			return nil
		}
		return NewServer(service, userID)
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})
}
