package mcp

import (
	"context"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// serializeMiddleware runs tool calls one at a time. The document service
// assumes a single writer, and HTTP sessions may call concurrently.
func serializeMiddleware(mu *sync.Mutex) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}
			mu.Lock()
			defer mu.Unlock()
			return next(ctx, method, req)
		}
	}
}
