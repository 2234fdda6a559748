package testserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/rpggio/reqindex/internal/mcp"
	"github.com/rpggio/reqindex/internal/testserver"
	"github.com/rpggio/reqindex/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data,omitempty"`
	} `json:"error"`
}

func rpcCall(t *testing.T, ts *testserver.TestServer, token, method string, params any) (int, rpcResponse) {
	t.Helper()

	payload := map[string]any{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out rpcResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args any, out any) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.False(t, res.IsError, "tool error: %s", text.Text)
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

func TestFunctional_Authentication(t *testing.T) {
	ts := testserver.New(t, "secret")

	code, _ := rpcCall(t, ts, "", "list_requests", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = rpcCall(t, ts, "wrong", "list_requests", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	resp, err := http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFunctional_RPCQueries(t *testing.T) {
	ts := testserver.New(t, "secret")

	code, resp := rpcCall(t, ts, ts.Token, "list_by_priority", nil)
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, resp.Error)
	var list mcp.RequestListResponse
	require.NoError(t, json.Unmarshal(resp.Result, &list))
	require.NotZero(t, list.Count)
	for i := 1; i < len(list.Requests); i++ {
		assert.LessOrEqual(t, list.Requests[i-1].Priority, list.Requests[i].Priority)
	}

	_, resp = rpcCall(t, ts, ts.Token, "search_requests", mcp.SearchRequestsParams{Term: "6"})
	require.Nil(t, resp.Error)
	var search mcp.SearchResponse
	require.NoError(t, json.Unmarshal(resp.Result, &search))
	require.Equal(t, 1, search.TotalResults)
	assert.Equal(t, int64(6), search.Results[0].ID)

	_, resp = rpcCall(t, ts, ts.Token, "get_request", mcp.GetRequestParams{ID: 404})
	require.NotNil(t, resp.Error)
	assert.Equal(t, transport.ErrApplication, resp.Error.Code)
	assert.Equal(t, "REQUEST_NOT_FOUND", resp.Error.Data["code"])

	_, resp = rpcCall(t, ts, ts.Token, "delete_request", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, transport.ErrMethodNotFound, resp.Error.Code)
}

// Plain JSON-RPC builds a service per call while the MCP server keeps one
// snapshot until refresh_index.
func TestFunctional_SnapshotLifetimes(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t, "secret")
	session := ts.Connect(t)

	var before mcp.RequestListResponse
	callTool(t, session, "list_requests", map[string]any{}, &before)

	require.NoError(t, ts.Repo.Create(ctx, &request.Request{
		Priority:    2,
		Category:    "Lighting",
		Location:    "Harbor Road",
		Description: "Flickering lamp",
		Status:      request.StatusPending,
		ReportedAt:  time.Now().UTC(),
		Active:      true,
	}))

	_, resp := rpcCall(t, ts, ts.Token, "list_requests", nil)
	require.Nil(t, resp.Error)
	var viaRPC mcp.RequestListResponse
	require.NoError(t, json.Unmarshal(resp.Result, &viaRPC))
	assert.Equal(t, before.Count+1, viaRPC.Count)

	var stale mcp.RequestListResponse
	callTool(t, session, "list_requests", map[string]any{}, &stale)
	assert.Equal(t, before.Count, stale.Count)

	var refreshed mcp.RefreshResponse
	callTool(t, session, "refresh_index", map[string]any{}, &refreshed)
	assert.Equal(t, before.Count+1, refreshed.Requests)
}

func TestFunctional_MCPDependencies(t *testing.T) {
	ts := testserver.New(t, "secret")
	session := ts.Connect(t)

	var deps mcp.DependenciesResponse
	callTool(t, session, "get_dependencies", map[string]any{"id": 11}, &deps)

	ids := make([]int64, 0, deps.Count)
	for _, d := range deps.Dependencies {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int64{1, 6, 7}, ids)
}
