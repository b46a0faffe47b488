// Package mcp exposes the intake flow as MCP tools, so an assistant
// front-end can drive a kiosk session over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opencourtlab/guideway"
	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/graph"
	"github.com/opencourtlab/guideway/pkg/ports"
	"github.com/opencourtlab/guideway/pkg/summary"
)

// StepResponse is the unified structured result of every session tool.
type StepResponse struct {
	View     summary.View             `json:"view" jsonschema_description:"The current node, its choices, and the visited trail"`
	Terminal bool                     `json:"terminal" jsonschema_description:"True when the session sits on an end node"`
	Record   *domain.CompletionRecord `json:"record,omitempty" jsonschema_description:"Completion record, present when this call entered a terminal node"`
}

// Server wraps kiosk sessions and exposes them as an MCP server.
type Server struct {
	graph      *graph.Graph
	store      ports.StateStore
	sink       ports.CompletionSink
	phaseRules []summary.PhaseRule
	mcpServer  *server.MCPServer

	mu       sync.Mutex
	sessions map[string]*guideway.Session
}

// Option configures the Server.
type Option func(*Server)

// WithStore enables session persistence.
func WithStore(store ports.StateStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithCompletionSink registers the back-office callback.
func WithCompletionSink(sink ports.CompletionSink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// WithPhaseRules injects the summarizer's phase table.
func WithPhaseRules(rules []summary.PhaseRule) Option {
	return func(s *Server) {
		s.phaseRules = rules
	}
}

// NewServer creates an MCP server over a validated graph.
func NewServer(g *graph.Graph, opts ...Option) *Server {
	s := &Server{
		graph:     g,
		mcpServer: server.NewMCPServer("guideway-mcp", guideway.Version),
		sessions:  make(map[string]*guideway.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) session(ctx context.Context, id string) (*guideway.Session, error) {
	if id == "" {
		id = guideway.DefaultSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	opts := []guideway.Option{
		guideway.WithSessionID(id),
		guideway.WithPhaseRules(s.phaseRules),
	}
	if s.store != nil {
		opts = append(opts, guideway.WithStore(s.store))
	}
	if s.sink != nil {
		opts = append(opts, guideway.WithCompletionSink(s.sink))
	}

	sess, err := guideway.Open(ctx, s.graph, opts...)
	if err != nil {
		return nil, err
	}
	s.sessions[id] = sess
	return sess, nil
}

func (s *Server) registerTools() {
	// TOOL: render_state
	renderTool := mcp.NewTool("render_state",
		mcp.WithDescription("Render the current node, its choices, and the visited trail for a session."),
		mcp.WithString("session_id", mcp.Description("Session key (optional; a shared default is used when omitted)")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRenderState))

	// TOOL: advance
	advanceTool := mcp.NewTool("advance",
		mcp.WithDescription("Advance the session by choosing one of the current labels. Entering an end node returns the completion record."),
		mcp.WithString("label", mcp.Required(), mcp.Description("The label of the choice to take")),
		mcp.WithString("session_id", mcp.Description("Session key (optional)")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(advanceTool, mcp.NewStructuredToolHandler(s.handleAdvance))

	// TOOL: back
	backTool := mcp.NewTool("back",
		mcp.WithDescription("Rewind the most recent step of the session."),
		mcp.WithString("session_id", mcp.Description("Session key (optional)")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(backTool, mcp.NewStructuredToolHandler(s.handleBack))

	// TOOL: summarize
	summarizeTool := mcp.NewTool("summarize",
		mcp.WithDescription("Summarize the session: phase classification, implicated form codes, and the current view."),
		mcp.WithString("session_id", mcp.Description("Session key (optional)")),
		mcp.WithOutputSchema[summary.Report](),
	)
	s.mcpServer.AddTool(summarizeTool, mcp.NewStructuredToolHandler(s.handleSummarize))
}

func (s *Server) handleRenderState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	sessionID, _ := args["session_id"].(string)

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return StepResponse{}, fmt.Errorf("render failed: %w", err)
	}

	return StepResponse{
		View:     sess.Summary().View,
		Terminal: sess.Current().IsTerminal(),
	}, nil
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	sessionID, _ := args["session_id"].(string)
	label, _ := args["label"].(string)

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return StepResponse{}, fmt.Errorf("advance failed: %w", err)
	}

	record, err := sess.Advance(ctx, label)
	if err != nil {
		return StepResponse{}, fmt.Errorf("advance failed: %w", err)
	}

	return StepResponse{
		View:     sess.Summary().View,
		Terminal: sess.Current().IsTerminal(),
		Record:   record,
	}, nil
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	sessionID, _ := args["session_id"].(string)

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return StepResponse{}, fmt.Errorf("back failed: %w", err)
	}
	if err := sess.Back(ctx); err != nil {
		return StepResponse{}, fmt.Errorf("back failed: %w", err)
	}

	return StepResponse{
		View:     sess.Summary().View,
		Terminal: sess.Current().IsTerminal(),
	}, nil
}

func (s *Server) handleSummarize(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (summary.Report, error) {
	sessionID, _ := args["session_id"].(string)

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return summary.Report{}, fmt.Errorf("summarize failed: %w", err)
	}
	return sess.Summary(), nil
}

func (s *Server) registerResources() {
	// EXPOSE: guideway://graph
	s.mcpServer.AddResource(mcp.NewResource("guideway://graph", "Current Graph Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.graph.Nodes())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal graph: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "guideway://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
