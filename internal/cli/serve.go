package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpggio/pantry/internal/config"
	"github.com/rpggio/pantry/internal/mcp"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server over stdio (the default) or streamable HTTP.

Every mutating tool call writes the document back to the configured store
before it returns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch transport {
			case "", config.TransportStdio, config.TransportHTTP:
			default:
				return fmt.Errorf("unknown transport %q", transport)
			}

			// Keep stdout clean for JSON-RPC in stdio mode.
			a, err := openApp(cmd.Context(), rootOpts, func(cfg config.Config) io.Writer {
				if resolveTransport(cfg, transport) == config.TransportHTTP {
					return cmd.OutOrStdout()
				}
				return cmd.ErrOrStderr()
			})
			if err != nil {
				return err
			}
			defer a.Close()

			server := mcp.NewServer(mcp.Config{
				Documents: a.docs,
				Store:     a.store,
				Activity:  a.activityService(),
				Logger:    a.logger,
			})

			if resolveTransport(a.cfg, transport) == config.TransportHTTP {
				return runHTTPMode(a.logger, server, a.cfg.Server.Host, a.cfg.Server.Port)
			}
			return runStdioMode(a.logger, server)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "override the configured transport (stdio|http)")

	return cmd
}

func resolveTransport(cfg config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.Transport
}

func runStdioMode(logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		select {
		case <-stop:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run blocks until stdin closes or ctx is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

func runHTTPMode(logger *slog.Logger, server *sdkmcp.Server, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: mcp.NewHTTPHandler(server),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(logger, httpServer, errCh)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
