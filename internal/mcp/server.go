package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/reqindex/internal/config"
	"github.com/rpggio/reqindex/internal/domain/request"
)

// RequestService defines the request index operations needed by MCP.
type RequestService interface {
	Refresh(ctx context.Context) error
	GetAll(ctx context.Context) ([]*request.Request, error)
	GetByID(ctx context.Context, id int64) (*request.Request, bool, error)
	GetByPriority(ctx context.Context) ([]*request.Request, error)
	GetDependencyClosure(ctx context.Context, id int64) ([]*request.Request, error)
	GetDetails(ctx context.Context, id int64) (*request.Details, bool, error)
	Search(ctx context.Context, term, category string) (*request.SearchResult, error)
	GetAllCategories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (request.Stats, error)
}

// Config contains server configuration.
type Config struct {
	Service       RequestService
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "reqindex",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only; HTTP checks the bearer token when one is configured.
	if cfg.TransportMode == config.TransportHTTP && cfg.AuthToken != "" {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Service)

	return server
}
