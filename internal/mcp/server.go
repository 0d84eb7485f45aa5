package mcp

import (
	"log/slog"
	"sync"

	"github.com/rpggio/pantry/internal/domain/document"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Config contains server configuration.
type Config struct {
	Documents *document.Service
	Store     document.Store  // nil disables flushing after mutations
	Activity  ActivityService // nil serves an empty feed
	Logger    *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pantry",
		Version: Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	var mu sync.Mutex
	server.AddReceivingMiddleware(serializeMiddleware(&mu))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Documents, cfg.Store, cfg.Activity))

	return server
}
