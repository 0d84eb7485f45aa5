// Package testserver runs a pantry MCP server over streamable HTTP for
// end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/pantry/internal/domain/activity"
	"github.com/rpggio/pantry/internal/domain/document"
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/locale"
	"github.com/rpggio/pantry/internal/mcp"
	"github.com/rpggio/pantry/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Store  *sqlite.DocumentRepository
	Docs   *document.Service
}

// New starts a server backed by a shared in-memory database named after the test.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	store := sqlite.NewDocumentRepository(db, sqlite.DefaultDocumentName)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	printer, err := locale.New("en", ingredient.DateLayout)
	require.NoError(t, err)
	docs := document.NewService(activitySvc, nil, document.WithPrinter(printer))

	server := httptest.NewServer(mcp.NewHTTPHandler(mcp.NewServer(mcp.Config{
		Documents: docs,
		Store:     store,
		Activity:  activitySvc,
	})))

	ts := &TestServer{
		Server: server,
		DB:     db,
		Store:  store,
		Docs:   docs,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Connect opens a client session against /mcp.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "pantry-e2e", Version: "v0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.Server.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}
