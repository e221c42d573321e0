// Package mcp exposes the assistant over the Model Context Protocol so
// that MCP clients can search the knowledge base and ask the assistant
// questions directly.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/helpdeskhq/waverly/internal/config"
	"github.com/helpdeskhq/waverly/internal/knowledge"
	"github.com/helpdeskhq/waverly/internal/pipeline"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes assistant tools.
type Server struct {
	cfg       *config.Config
	store     *knowledge.Store
	responder *pipeline.Responder
	mcp       *server.MCPServer
}

// NewServer creates an MCP server with the given dependencies.
func NewServer(cfg *config.Config, store *knowledge.Store, responder *pipeline.Responder) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		responder: responder,
	}

	s.mcp = server.NewMCPServer(
		"waverly",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
	s.mcp.AddTool(askAssistantTool, s.handleAskAssistant)
	s.mcp.AddTool(getPersonalityTool, s.handleGetPersonality)
}

// Serve starts the MCP server on stdio. Stdout carries protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
