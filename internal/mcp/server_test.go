package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/reqindex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(cfg)
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callText(t *testing.T, session *sdkmcp.ClientSession, name string, args any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestServer_ListsTools(t *testing.T) {
	session := connect(t, Config{Service: newStub(), TransportMode: config.TransportStdio})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_requests", "get_request", "list_by_priority", "get_dependencies",
		"search_requests", "list_categories", "get_stats", "refresh_index",
	}, names)
}

func TestServer_GetRequest(t *testing.T) {
	session := connect(t, Config{Service: newStub(), TransportMode: config.TransportStdio})

	text, isErr := callText(t, session, "get_request", map[string]any{"id": 2})
	require.False(t, isErr, text)

	var resp RequestDetailsResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, int64(2), resp.Request.ID)
	require.Len(t, resp.Dependencies, 1)
	assert.Equal(t, int64(1), resp.Dependencies[0].ID)
}

func TestServer_ToolErrorCode(t *testing.T) {
	session := connect(t, Config{Service: newStub(), TransportMode: config.TransportStdio})

	text, isErr := callText(t, session, "get_request", map[string]any{"id": 404})
	assert.True(t, isErr)
	assert.Contains(t, text, "REQUEST_NOT_FOUND")
}

func TestServer_ReadsDocs(t *testing.T) {
	session := connect(t, Config{Service: newStub(), TransportMode: config.TransportStdio})

	res, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "reqindex://docs/search"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "request id")
}
