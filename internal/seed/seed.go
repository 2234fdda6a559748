// Package seed loads service request fixtures from YAML into an empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/rpggio/reqindex/internal/repository"
	"gopkg.in/yaml.v3"
)

// DefaultPriority replaces priorities outside 1..5 when fixtures are applied.
const DefaultPriority = 3

//go:embed default.yaml
var defaultFixtures []byte

// Writer is the part of the request store the seeder needs. Every write
// happens inside a single WithTx call.
type Writer interface {
	WithTx(ctx context.Context, fn func(repository.RequestRepository) error) error
}

// Fixture is one request as written in a seed file. Age is an alternative
// to ReportedAt, measured back from the time the seed is applied.
type Fixture struct {
	ID           int64      `yaml:"id"`
	Priority     int        `yaml:"priority"`
	Category     string     `yaml:"category"`
	Location     string     `yaml:"location"`
	Description  string     `yaml:"description"`
	Status       string     `yaml:"status"`
	ReportedAt   *time.Time `yaml:"reported_at"`
	Age          string     `yaml:"age"`
	AssignedTo   string     `yaml:"assigned_to"`
	LastUpdated  *time.Time `yaml:"last_updated"`
	Dependencies []int64    `yaml:"dependencies"`
	Active       *bool      `yaml:"active"`
}

type file struct {
	Requests []Fixture `yaml:"requests"`
}

// Parse decodes a seed document.
func Parse(data []byte) ([]Fixture, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Requests, nil
}

// Load reads fixtures from path, or the built-in fixtures when path is empty.
func Load(path string) ([]Fixture, error) {
	if path == "" {
		return Parse(defaultFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Apply writes fixtures into the store unless it already holds requests.
// Requests are created first and dependency edges added afterwards, so
// fixtures may reference later entries. All writes share one transaction:
// if any fixture fails, nothing is stored and the seed can be retried. It
// returns the number created.
func Apply(ctx context.Context, store Writer, fixtures []Fixture, now time.Time, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var created int
	err := store.WithTx(ctx, func(tx repository.RequestRepository) error {
		existing, err := tx.Count(ctx)
		if err != nil {
			return fmt.Errorf("count requests: %w", err)
		}
		if existing > 0 {
			logger.Info("store already seeded", "requests", existing)
			return nil
		}

		reqs := make([]*request.Request, 0, len(fixtures))
		for i, fx := range fixtures {
			req, err := fx.toRequest(now)
			if err != nil {
				return fmt.Errorf("fixture %d: %w", i, err)
			}
			if err := tx.Create(ctx, req); err != nil {
				return fmt.Errorf("create fixture %d: %w", i, err)
			}
			req.Dependencies = fx.Dependencies
			reqs = append(reqs, req)
		}

		for _, req := range reqs {
			for _, depID := range req.Dependencies {
				if err := tx.AddDependency(ctx, req.ID, depID); err != nil {
					return fmt.Errorf("add dependency %d -> %d: %w", req.ID, depID, err)
				}
			}
		}

		created = len(reqs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		logger.Info("seeded service requests", "requests", created)
	}
	return created, nil
}

func (fx Fixture) toRequest(now time.Time) (*request.Request, error) {
	reported := now
	switch {
	case fx.ReportedAt != nil:
		reported = *fx.ReportedAt
	case fx.Age != "":
		age, err := time.ParseDuration(fx.Age)
		if err != nil {
			return nil, fmt.Errorf("%w: age %q", request.ErrInvalidInput, fx.Age)
		}
		reported = now.Add(-age)
	}

	priority := fx.Priority
	if priority < 1 || priority > 5 {
		priority = DefaultPriority
	}

	status := request.Status(fx.Status)
	if status == "" {
		status = request.StatusPending
	}

	active := true
	if fx.Active != nil {
		active = *fx.Active
	}

	return &request.Request{
		ID:          fx.ID,
		Priority:    priority,
		Category:    fx.Category,
		Location:    fx.Location,
		Description: fx.Description,
		Status:      status,
		ReportedAt:  reported,
		AssignedTo:  fx.AssignedTo,
		LastUpdated: fx.LastUpdated,
		Active:      active,
	}, nil
}
