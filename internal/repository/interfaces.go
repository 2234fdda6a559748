package repository

import (
	"context"

	"github.com/rpggio/reqindex/internal/domain/request"
)

// RequestRepository manages service request persistence
type RequestRepository interface {
	Create(ctx context.Context, req *request.Request) error
	Get(ctx context.Context, id int64) (*request.Request, error)
	List(ctx context.Context) ([]request.Request, error)
	AddDependency(ctx context.Context, fromID, toID int64) error
	Count(ctx context.Context) (int, error)
	// WithTx runs fn against a repository whose calls share one transaction,
	// committing only when fn returns nil.
	WithTx(ctx context.Context, fn func(RequestRepository) error) error
}
