package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ErrUnknownMethod is returned by handlers for methods they do not serve.
var ErrUnknownMethod = errors.New("unknown method")

// RPCHandler handles JSON-RPC method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// coded is implemented by application errors that carry a stable code.
type coded interface {
	error
	CodeValue() string
	MessageValue() string
	RecoveryHintValue() string
}

// Options configures the HTTP router.
type Options struct {
	// MCP, when set, is mounted at /mcp.
	MCP         http.Handler
	AuthToken   string
	CORSOrigins []string
	Logger      *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler RPCHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP router serving /rpc, /health and optionally /mcp.
func NewServer(handler RPCHandler, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(logger))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestIDHeader, "Mcp-Session-Id"},
			ExposedHeaders: []string{RequestIDHeader, "Mcp-Session-Id"},
			MaxAge:         300,
		}))
	}

	srv := &Server{handler: handler, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.AuthToken))
		r.Post("/rpc", srv.handleRPC)
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		if errors.Is(err, errMalformed) {
			WriteError(w, nil, ErrParseCode, "parse error", nil)
			return
		}
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		requestID, _ := RequestIDFromContext(r.Context())
		s.logger.Warn("rpc call failed", "method", req.Method, "request_id", requestID, "error", err)
		writeHandlerError(w, req.ID, err)
		return
	}

	WriteResult(w, req.ID, result)
}

func writeHandlerError(w http.ResponseWriter, id any, err error) {
	if errors.Is(err, ErrUnknownMethod) {
		WriteError(w, id, ErrMethodNotFound, err.Error(), nil)
		return
	}

	var appErr coded
	if errors.As(err, &appErr) {
		code := ErrApplication
		if appErr.CodeValue() == "INVALID_INPUT" {
			code = ErrInvalidParams
		}
		WriteError(w, id, code, appErr.MessageValue(), map[string]string{
			"code":          appErr.CodeValue(),
			"recovery_hint": appErr.RecoveryHintValue(),
		})
		return
	}

	WriteError(w, id, ErrInternal, err.Error(), nil)
}
