package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/rpggio/reqindex/internal/transport"
)

// ServiceFactory builds the request service used for a single call.
type ServiceFactory func() RequestService

// Handler dispatches plain JSON-RPC methods to a request service. Each call
// gets its own service, so every call sees a fresh snapshot of the store.
type Handler struct {
	newService ServiceFactory
	logger     *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(newService ServiceFactory, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{newService: newService, logger: logger}
}

// Handle dispatches one method call.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	svc := h.newService()
	h.logger.Debug("dispatching method", "method", method)

	switch method {
	case methodListRequests:
		return wrap(listRequests(ctx, svc))
	case methodGetRequest:
		var req GetRequestParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wrap(getRequest(ctx, svc, req))
	case methodListByPriority:
		return wrap(listByPriority(ctx, svc))
	case methodGetDependencies:
		var req GetDependenciesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wrap(getDependencies(ctx, svc, req))
	case methodSearchRequests:
		var req SearchRequestsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wrap(searchRequests(ctx, svc, req))
	case methodListCategories:
		return wrap(listCategories(ctx, svc))
	case methodGetStats:
		return wrap(getStats(ctx, svc))
	case methodRefreshIndex:
		return wrap(refreshIndex(ctx, svc))
	default:
		return nil, fmt.Errorf("%w: %s", transport.ErrUnknownMethod, method)
	}
}

func wrap[T any](result T, err error) (any, error) {
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("%v: %v", request.ErrInvalidInput, err)}
	}
	return nil
}
