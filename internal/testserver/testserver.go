// Package testserver runs the full HTTP stack against an in-memory store.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/reqindex/internal/app"
	"github.com/rpggio/reqindex/internal/config"
	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/rpggio/reqindex/internal/mcp"
	"github.com/rpggio/reqindex/internal/sqlite"
	"github.com/rpggio/reqindex/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Repo   *sqlite.RequestRepository
	Token  string
}

// New starts a server over a store seeded with the built-in fixtures.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	_, err = app.Seed(context.Background(), db, "", nil)
	require.NoError(t, err)

	repo := sqlite.NewRequestRepository(db)

	mcpServer := mcp.NewServer(mcp.Config{
		Service:       request.NewService(repo, nil),
		AuthToken:     token,
		TransportMode: config.TransportHTTP,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)
	rpc := mcp.NewHandler(func() mcp.RequestService {
		return request.NewService(repo, nil)
	}, nil)

	server := httptest.NewServer(transport.NewServer(rpc, transport.Options{
		MCP:       mcpHandler,
		AuthToken: token,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, Repo: repo, Token: token}
}

// Connect opens an MCP client session over streamable HTTP.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearer{token: ts.Token, next: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearer struct {
	token string
	next  http.RoundTripper
}

func (b bearer) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(r)
}
