package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/reqindex/internal/domain/request"
)

// Tool and JSON-RPC method names.
const (
	methodListRequests    = "list_requests"
	methodGetRequest      = "get_request"
	methodListByPriority  = "list_by_priority"
	methodGetDependencies = "get_dependencies"
	methodSearchRequests  = "search_requests"
	methodListCategories  = "list_categories"
	methodGetStats        = "get_stats"
	methodRefreshIndex    = "refresh_index"
)

func registerTools(server *sdkmcp.Server, svc RequestService) {
	addTool(server, methodListRequests,
		"List every service request in store order",
		func(ctx context.Context, _ struct{}) (any, error) { return listRequests(ctx, svc) })
	addTool(server, methodGetRequest,
		"Get one service request by ID together with everything it transitively depends on",
		func(ctx context.Context, in GetRequestParams) (any, error) { return getRequest(ctx, svc, in) })
	addTool(server, methodListByPriority,
		"List every service request ordered by priority, 1 (most urgent) first",
		func(ctx context.Context, _ struct{}) (any, error) { return listByPriority(ctx, svc) })
	addTool(server, methodGetDependencies,
		"Get the requests reachable from a request through dependency links, nearest first",
		func(ctx context.Context, in GetDependenciesParams) (any, error) { return getDependencies(ctx, svc, in) })
	addTool(server, methodSearchRequests,
		"Search requests by ID or by text, optionally narrowed to one category",
		func(ctx context.Context, in SearchRequestsParams) (any, error) { return searchRequests(ctx, svc, in) })
	addTool(server, methodListCategories,
		"List the distinct request categories",
		func(ctx context.Context, _ struct{}) (any, error) { return listCategories(ctx, svc) })
	addTool(server, methodGetStats,
		"Get counts of open and resolved requests and the average response time in hours",
		func(ctx context.Context, _ struct{}) (any, error) { return getStats(ctx, svc) })
	addTool(server, methodRefreshIndex,
		"Reload all requests from the store and rebuild the index",
		func(ctx context.Context, _ struct{}) (any, error) { return refreshIndex(ctx, svc) })
}

func addTool[In any](server *sdkmcp.Server, name, description string, fn func(context.Context, In) (any, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		out, err := fn(ctx, in)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, out, nil
	})
}

func listRequests(ctx context.Context, svc RequestService) (RequestListResponse, error) {
	reqs, err := svc.GetAll(ctx)
	if err != nil {
		return RequestListResponse{}, err
	}
	return RequestListResponse{Requests: reqs, Count: len(reqs)}, nil
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", request.ErrInvalidInput)
	}
	return nil
}

func getRequest(ctx context.Context, svc RequestService, in GetRequestParams) (RequestDetailsResponse, error) {
	if err := validateID(in.ID); err != nil {
		return RequestDetailsResponse{}, err
	}
	details, ok, err := svc.GetDetails(ctx, in.ID)
	if err != nil {
		return RequestDetailsResponse{}, err
	}
	if !ok {
		return RequestDetailsResponse{}, fmt.Errorf("%w: %d", request.ErrRequestNotFound, in.ID)
	}
	return RequestDetailsResponse{Request: details.Request, Dependencies: details.Dependencies}, nil
}

func listByPriority(ctx context.Context, svc RequestService) (RequestListResponse, error) {
	reqs, err := svc.GetByPriority(ctx)
	if err != nil {
		return RequestListResponse{}, err
	}
	return RequestListResponse{Requests: reqs, Count: len(reqs)}, nil
}

func getDependencies(ctx context.Context, svc RequestService, in GetDependenciesParams) (DependenciesResponse, error) {
	if err := validateID(in.ID); err != nil {
		return DependenciesResponse{}, err
	}
	if _, ok, err := svc.GetByID(ctx, in.ID); err != nil {
		return DependenciesResponse{}, err
	} else if !ok {
		return DependenciesResponse{}, fmt.Errorf("%w: %d", request.ErrRequestNotFound, in.ID)
	}
	deps, err := svc.GetDependencyClosure(ctx, in.ID)
	if err != nil {
		return DependenciesResponse{}, err
	}
	return DependenciesResponse{ID: in.ID, Dependencies: deps, Count: len(deps)}, nil
}

func searchRequests(ctx context.Context, svc RequestService, in SearchRequestsParams) (SearchResponse, error) {
	result, err := svc.Search(ctx, in.Term, in.Category)
	if err != nil {
		return SearchResponse{}, err
	}
	return SearchResponse{SearchResult: *result, Filtered: result.IsFiltered()}, nil
}

func listCategories(ctx context.Context, svc RequestService) (CategoriesResponse, error) {
	categories, err := svc.GetAllCategories(ctx)
	if err != nil {
		return CategoriesResponse{}, err
	}
	return CategoriesResponse{Categories: categories}, nil
}

func getStats(ctx context.Context, svc RequestService) (request.Stats, error) {
	return svc.Stats(ctx)
}

func refreshIndex(ctx context.Context, svc RequestService) (RefreshResponse, error) {
	if err := svc.Refresh(ctx); err != nil {
		return RefreshResponse{}, err
	}
	reqs, err := svc.GetAll(ctx)
	if err != nil {
		return RefreshResponse{}, err
	}
	return RefreshResponse{Status: "refreshed", Requests: len(reqs)}, nil
}
