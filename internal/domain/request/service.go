package request

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/rpggio/reqindex/internal/index"
	"golang.org/x/text/cases"
)

type state int

const (
	stateUninitialized state = iota
	stateReady
)

// Service keeps an in-memory snapshot of the store's requests and the
// indexes built over it: an ordered index by ID, a priority queue and the
// dependency graph. The snapshot is loaded on first use and replaced
// wholesale by Refresh.
type Service struct {
	store  Store
	logger *slog.Logger

	mu       sync.Mutex
	state    state
	requests []*Request
	byID     map[int64]*Request
	ordered  *index.OrderedIndex[*Request]
	queue    *index.PriorityQueue[*Request]
	graph    *index.DependencyGraph
}

// NewService creates a new request index service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:   store,
		logger:  logger,
		byID:    make(map[int64]*Request),
		ordered: index.NewOrderedIndex[*Request](),
		queue:   index.NewPriorityQueue[*Request](),
		graph:   index.NewDependencyGraph(),
	}
}

// Initialize loads every request from the store and rebuilds all indexes.
// If the store fails, the current snapshot is left untouched.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialize(ctx)
}

// Refresh reloads the snapshot from the store. Like Initialize, a store
// failure keeps the previous snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	return s.Initialize(ctx)
}

// Ready reports whether a snapshot has been loaded.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateReady
}

func (s *Service) initialize(ctx context.Context) error {
	s.logger.Info("loading service requests")

	loaded, err := s.store.List(ctx)
	if err != nil {
		s.logger.Warn("request store unavailable, keeping previous snapshot", "error", err)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	requests := make([]*Request, len(loaded))
	for i := range loaded {
		requests[i] = &loaded[i]
	}

	byID := make(map[int64]*Request, len(requests))
	ordered := index.NewOrderedIndex[*Request]()
	queue := index.NewPriorityQueue[*Request]()
	graph := index.NewDependencyGraph()

	edges := 0
	for _, req := range requests {
		ordered.Insert(req.ID, req)
		queue.Insert(req.Priority, req)
		graph.AddVertex(req.ID)
		if _, dup := byID[req.ID]; !dup {
			byID[req.ID] = req
		}

		for _, depID := range req.Dependencies {
			graph.AddEdge(req.ID, depID)
			edges++
			s.logger.Debug("added dependency edge", "from", req.ID, "to", depID)
		}
	}

	s.requests = requests
	s.byID = byID
	s.ordered = ordered
	s.queue = queue
	s.graph = graph
	s.state = stateReady

	s.logger.Info("service request index ready",
		"requests", len(requests),
		"queued", s.queue.Len(),
		"vertices", s.graph.VertexCount(),
		"edges", edges,
		"tree_height", s.ordered.Height(),
	)
	return nil
}

func (s *Service) ensureInitialized(ctx context.Context) error {
	if s.state == stateReady {
		return nil
	}
	return s.initialize(ctx)
}

// GetAll returns every request in the order the store returned them.
func (s *Service) GetAll(ctx context.Context) ([]*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.requests), nil
}

// GetByID looks a request up in the ordered index. The boolean is false when
// no request has that ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*Request, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, false, err
	}

	req, ok := s.ordered.Search(id)
	s.logger.Debug("lookup by id", "id", id, "found", ok)
	return req, ok, nil
}

// GetByPriority returns every request ordered by ascending priority number.
// Requests sharing a priority come out in no guaranteed order.
func (s *Service) GetByPriority(ctx context.Context) ([]*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	// Extraction drains the heap, so each call works on its own queue.
	pq := index.NewPriorityQueue[*Request]()
	for _, req := range s.requests {
		pq.Insert(req.Priority, req)
	}

	sorted := make([]*Request, 0, pq.Len())
	for pq.Len() > 0 {
		req, ok := pq.ExtractMin()
		if !ok {
			break
		}
		sorted = append(sorted, req)
	}
	return sorted, nil
}

// GetDependencyClosure returns every request reachable from id through
// dependency edges, breadth first, excluding id itself. Dependencies that do
// not resolve to a loaded request are skipped.
func (s *Service) GetDependencyClosure(ctx context.Context, id int64) ([]*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return s.closure(id), nil
}

func (s *Service) closure(id int64) []*Request {
	reachable := s.graph.BreadthFirstSearch(id)
	if len(reachable) > 0 {
		reachable = reachable[1:]
	}

	deps := make([]*Request, 0, len(reachable))
	for _, depID := range reachable {
		req, ok := s.byID[depID]
		if !ok {
			s.logger.Debug("skipping dangling dependency", "from", id, "to", depID)
			continue
		}
		deps = append(deps, req)
	}
	return deps
}

// GetDetails returns a request with its dependency closure.
func (s *Service) GetDetails(ctx context.Context, id int64) (*Details, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, false, err
	}

	req, ok := s.ordered.Search(id)
	if !ok {
		return nil, false, nil
	}
	return &Details{Request: req, Dependencies: s.closure(id)}, true, nil
}

// Search finds requests by ID or by text and category.
//
// A term that parses as an integer is an ID lookup and nothing else: a hit
// yields one result and a miss yields none. Any other term is matched
// case-insensitively against category, location and description. A category
// other than "" or AllCategories must match exactly, ignoring case. Text
// results are ordered most recently reported first.
func (s *Service) Search(ctx context.Context, term, category string) (*SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	result := &SearchResult{
		SearchTerm:          term,
		CategoryFilter:      category,
		AvailableCategories: s.categories(),
	}

	trimmed := strings.TrimSpace(term)
	if trimmed != "" {
		if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			result.Results = []*Request{}
			if req, ok := s.ordered.Search(id); ok {
				result.Results = append(result.Results, req)
			}
			result.TotalResults = len(result.Results)
			s.logger.Debug("search by id", "id", id, "results", result.TotalResults)
			return result, nil
		}
	}

	fold := cases.Fold()
	needle := fold.String(trimmed)
	filterCategory := strings.TrimSpace(category) != "" && category != AllCategories

	matches := make([]*Request, 0)
	for _, req := range s.requests {
		if needle != "" &&
			!strings.Contains(fold.String(req.Category), needle) &&
			!strings.Contains(fold.String(req.Location), needle) &&
			!strings.Contains(fold.String(req.Description), needle) {
			continue
		}
		if filterCategory && !strings.EqualFold(req.Category, category) {
			continue
		}
		matches = append(matches, req)
	}

	slices.SortStableFunc(matches, func(a, b *Request) int {
		return b.ReportedAt.Compare(a.ReportedAt)
	})

	result.Results = matches
	result.TotalResults = len(matches)
	s.logger.Debug("text search", "term", trimmed, "category", category, "results", result.TotalResults)
	return result, nil
}

// GetAllCategories returns the distinct non-empty categories in ascending order.
func (s *Service) GetAllCategories(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return s.categories(), nil
}

func (s *Service) categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, req := range s.requests {
		if req.Category == "" {
			continue
		}
		if _, ok := seen[req.Category]; ok {
			continue
		}
		seen[req.Category] = struct{}{}
		out = append(out, req.Category)
	}
	slices.SortFunc(out, cmp.Compare[string])
	return out
}

// Stats reports counts and average response time over active requests.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return Stats{}, err
	}

	var (
		st        Stats
		hours     float64
		responded int
	)
	for _, req := range s.requests {
		if !req.Active {
			continue
		}
		st.Total++
		switch {
		case req.Status.Open():
			st.Open++
		case req.Status.Done():
			st.Resolved++
			if req.LastUpdated != nil {
				hours += req.LastUpdated.Sub(req.ReportedAt).Hours()
				responded++
			}
		}
	}
	if responded > 0 {
		st.AverageResponseHours = hours / float64(responded)
	}
	return st, nil
}
