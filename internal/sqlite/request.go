package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/rpggio/reqindex/internal/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RequestRepository implements repository.RequestRepository for SQLite
type RequestRepository struct {
	db *DB
	q  querier
	tx *sql.Tx
}

var (
	_ repository.RequestRepository = (*RequestRepository)(nil)
	_ request.Store                = (*RequestRepository)(nil)
)

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *DB) *RequestRepository {
	return &RequestRepository{db: db, q: db.DB}
}

// WithTx runs fn against a repository bound to a single transaction. The
// transaction commits if fn returns nil and rolls back otherwise. Calls made
// on a repository that is already inside a transaction join it.
func (r *RequestRepository) WithTx(ctx context.Context, fn func(repository.RequestRepository) error) error {
	return r.withTx(ctx, func(tx *RequestRepository) error { return fn(tx) })
}

func (r *RequestRepository) withTx(ctx context.Context, fn func(*RequestRepository) error) error {
	if r.tx != nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&RequestRepository{db: r.db, q: tx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const requestColumns = `
	id, priority, category, location, description, status,
	reported_at, assigned_to, last_updated, is_active
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (request.Request, error) {
	var (
		req         request.Request
		assignedTo  sql.NullString
		lastUpdated sql.NullTime
	)
	err := row.Scan(
		&req.ID,
		&req.Priority,
		&req.Category,
		&req.Location,
		&req.Description,
		&req.Status,
		&req.ReportedAt,
		&assignedTo,
		&lastUpdated,
		&req.Active,
	)
	if err != nil {
		return request.Request{}, err
	}
	req.AssignedTo = assignedTo.String
	if lastUpdated.Valid {
		t := lastUpdated.Time
		req.LastUpdated = &t
	}
	return req, nil
}

// Create inserts a request and its dependency edges in one transaction. A
// zero ID lets the database assign one; the assigned ID is written back to req
// only once the whole insert has succeeded.
func (r *RequestRepository) Create(ctx context.Context, req *request.Request) error {
	var newID int64
	err := r.withTx(ctx, func(tx *RequestRepository) error {
		var err error
		newID, err = tx.insert(ctx, req)
		return err
	})
	if err != nil {
		return err
	}
	req.ID = newID
	return nil
}

func (r *RequestRepository) insert(ctx context.Context, req *request.Request) (int64, error) {
	query := `
		INSERT INTO service_requests (
			id, priority, category, location, description, status,
			reported_at, assigned_to, last_updated, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var id any
	if req.ID != 0 {
		id = req.ID
	}
	var assignedTo any
	if req.AssignedTo != "" {
		assignedTo = req.AssignedTo
	}
	var lastUpdated any
	if req.LastUpdated != nil {
		lastUpdated = *req.LastUpdated
	}

	result, err := r.q.ExecContext(ctx, query,
		id,
		req.Priority,
		req.Category,
		req.Location,
		req.Description,
		req.Status,
		req.ReportedAt,
		assignedTo,
		lastUpdated,
		req.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read request id: %w", err)
	}

	for _, depID := range req.Dependencies {
		if err := r.AddDependency(ctx, newID, depID); err != nil {
			return 0, fmt.Errorf("failed to add dependency: %w", err)
		}
	}

	return newID, nil
}

// Get retrieves a request by ID
func (r *RequestRepository) Get(ctx context.Context, id int64) (*request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = ?`

	req, err := scanRequest(r.q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	deps, err := r.dependencies(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Dependencies = deps

	return &req, nil
}

// List returns every request ordered by ID, with dependencies in the order
// they were added.
func (r *RequestRepository) List(ctx context.Context) ([]request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var reqs []request.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", err)
	}

	edges, err := r.allDependencies(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		reqs[i].Dependencies = edges[reqs[i].ID]
	}

	return reqs, nil
}

// AddDependency records that fromID depends on toID. toID need not exist.
// Adding an existing edge is a no-op.
func (r *RequestRepository) AddDependency(ctx context.Context, fromID, toID int64) error {
	query := `
		INSERT OR IGNORE INTO request_dependencies (request_id, depends_on_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM request_dependencies WHERE request_id = ?))
	`

	_, err := r.q.ExecContext(ctx, query, fromID, toID, fromID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to add dependency: %w", err)
	}

	return nil
}

// Count returns the number of stored requests
func (r *RequestRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return n, nil
}

func (r *RequestRepository) dependencies(ctx context.Context, id int64) ([]int64, error) {
	query := `
		SELECT depends_on_id
		FROM request_dependencies
		WHERE request_id = ?
		ORDER BY position
	`

	rows, err := r.q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies: %w", err)
	}
	defer rows.Close()

	var deps []int64
	for rows.Next() {
		var depID int64
		if err := rows.Scan(&depID); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		deps = append(deps, depID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependency rows: %w", err)
	}

	return deps, nil
}

func (r *RequestRepository) allDependencies(ctx context.Context) (map[int64][]int64, error) {
	query := `
		SELECT request_id, depends_on_id
		FROM request_dependencies
		ORDER BY request_id, position
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	defer rows.Close()

	edges := make(map[int64][]int64)
	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		edges[from] = append(edges[from], to)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependency rows: %w", err)
	}

	return edges, nil
}
