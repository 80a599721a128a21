// Package mcpapi exposes the kniffel game service as MCP tools.
package mcpapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "kniffel-mcp"
	serverVersion = "0.1.0"
)

// Server hosts the kniffel MCP tools.
type Server struct {
	mcpServer *mcp.Server
}

// NewServer registers every kniffel tool against svc.
func NewServer(svc GameService) (*Server, error) {
	if svc == nil {
		return nil, errors.New("game service is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, CreateGameTool(), CreateGameHandler(svc))
	mcp.AddTool(mcpServer, GetGameTool(), GetGameHandler(svc))
	mcp.AddTool(mcpServer, ListGamesTool(), ListGamesHandler(svc))
	mcp.AddTool(mcpServer, RollTool(), RollHandler(svc))
	mcp.AddTool(mcpServer, BookTool(), BookHandler(svc))
	mcp.AddTool(mcpServer, ScorePreviewTool(), ScorePreviewHandler())
	return &Server{mcpServer: mcpServer}, nil
}

// Serve runs the MCP server on stdio until the client leaves or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return errors.New("MCP server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
