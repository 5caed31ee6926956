package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/navstack"
	"github.com/aretw0/navstack/internal/presentation/graph"
	httpadapter "github.com/aretw0/navstack/pkg/adapters/http"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs exposed by the server.
const (
	StackURI = "navstack://stack"
	GraphURI = "navstack://stack/graph"
)

// ViewResult is one displayed view as seen by an agent.
type ViewResult struct {
	ID      string   `json:"id" jsonschema_description:"Identity used to address the view's item"`
	Title   string   `json:"title" jsonschema_description:"Title derived from the item payload"`
	Variant string   `json:"variant" jsonschema_description:"Payload variant of the item"`
	Body    string   `json:"body,omitempty" jsonschema_description:"Markdown body of the screen"`
	Actions []string `json:"actions,omitempty" jsonschema_description:"Action names accepted by send_action"`
}

// StackResult lists the displayed views, root first.
type StackResult struct {
	Views []ViewResult `json:"views" jsonschema_description:"Displayed views, root first"`
}

// ActionArgs addresses an item action.
type ActionArgs struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// Server exposes a navigation engine and its headless surface as MCP tools.
type Server struct {
	engine    httpadapter.Engine
	surface   *httpadapter.Surface
	timeout   time.Duration
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine httpadapter.Engine, surface *httpadapter.Surface, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		surface:   surface,
		timeout:   httpadapter.DefaultSendTimeout,
		logger:    logger,
		mcpServer: server.NewMCPServer("navstack-mcp", strings.TrimSpace(navstack.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_stack",
		mcp.WithDescription("List the displayed views, root first, with the actions each accepts."),
		mcp.WithOutputSchema[StackResult](),
	), mcp.NewStructuredToolHandler(s.handleGetStack))

	s.mcpServer.AddTool(mcp.NewTool("send_action",
		mcp.WithDescription("Send a named action to the item with the given id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id, as listed by get_stack")),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action name, as listed by get_stack")),
		mcp.WithOutputSchema[StackResult](),
	), mcp.NewStructuredToolHandler(s.handleSendAction))

	s.mcpServer.AddTool(mcp.NewTool("pop",
		mcp.WithDescription("Remove the top view. The root view is never removed."),
		mcp.WithOutputSchema[StackResult](),
	), mcp.NewStructuredToolHandler(s.handlePop))

	s.mcpServer.AddTool(mcp.NewTool("pop_to_root",
		mcp.WithDescription("Remove every view above the root."),
		mcp.WithOutputSchema[StackResult](),
	), mcp.NewStructuredToolHandler(s.handlePopToRoot))

	s.mcpServer.AddTool(mcp.NewTool("back",
		mcp.WithDescription("Dismiss the top view from the surface side, like a back gesture."),
		mcp.WithOutputSchema[StackResult](),
	), mcp.NewStructuredToolHandler(s.handleBack))
}

func (s *Server) handleGetStack(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StackResult, error) {
	return s.stack(), nil
}

func (s *Server) handleSendAction(ctx context.Context, request mcp.CallToolRequest, args ActionArgs) (StackResult, error) {
	id, err := domain.ParseID(args.ID)
	if err != nil {
		return StackResult{}, fmt.Errorf("invalid item id: %w", err)
	}
	item, ok := s.engine.State().Find(id)
	if !ok {
		return StackResult{}, fmt.Errorf("item %s is not on the stack", id)
	}
	inner, err := s.engine.Registry().Decode(item.Payload.Variant(), strings.TrimSpace(args.Action))
	if err != nil {
		s.logger.Warn("MCP send_action: action rejected", "id", id, "action", args.Action, "err", err)
		return StackResult{}, err
	}
	return s.send(ctx, domain.ItemAction{ID: id, Inner: inner})
}

func (s *Server) handlePop(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StackResult, error) {
	return s.send(ctx, domain.Pop{})
}

func (s *Server) handlePopToRoot(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StackResult, error) {
	return s.send(ctx, domain.PopToRoot{})
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StackResult, error) {
	if _, ok := s.surface.Back(); !ok {
		return StackResult{}, errors.New("the root view cannot be dismissed")
	}
	return s.stack(), nil
}

func (s *Server) send(ctx context.Context, a domain.Action) (StackResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.engine.Send(ctx, a); err != nil {
		s.logger.Error("MCP dispatch failed", "action", domain.Kind(a), "err", err)
		return StackResult{}, fmt.Errorf("dispatch failed: %w", err)
	}
	return s.stack(), nil
}

func (s *Server) stack() StackResult {
	resp := httpadapter.NewStackResponse(s.surface.Views())
	out := StackResult{Views: make([]ViewResult, len(resp.Views))}
	for i, v := range resp.Views {
		out.Views[i] = ViewResult{
			ID:      v.ID.String(),
			Title:   v.Title,
			Variant: string(v.Variant),
			Body:    v.Body,
			Actions: v.Actions,
		}
	}
	return out
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StackURI, "Displayed Stack",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.stack())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StackURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Stack Graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "text/plain",
				Text:     s.graph(),
			},
		}, nil
	})
}

func (s *Server) graph() string {
	return graph.GenerateMermaid(s.engine.State(), &graph.Overlay{Shown: s.surface.Shown()})
}
