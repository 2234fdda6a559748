package request

import "time"

// Status represents the lifecycle state of a service request
type Status string

const (
	StatusPending     Status = "Pending"
	StatusInProgress  Status = "In Progress"
	StatusUnderReview Status = "Under Review"
	StatusResolved    Status = "Resolved"
	StatusCompleted   Status = "Completed"
	StatusClosed      Status = "Closed"
)

// Open reports whether the status counts as outstanding work.
func (s Status) Open() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusUnderReview:
		return true
	}
	return false
}

// Done reports whether the status counts as resolved.
func (s Status) Done() bool {
	return s == StatusResolved || s == StatusCompleted
}

// Request is a citizen-reported service request.
// Priority runs from 1 (most urgent) to 5; the range is advisory.
type Request struct {
	ID           int64      `json:"id"`
	Priority     int        `json:"priority"`
	Category     string     `json:"category"`
	Location     string     `json:"location"`
	Description  string     `json:"description"`
	Status       Status     `json:"status"`
	ReportedAt   time.Time  `json:"reported_at"`
	Dependencies []int64    `json:"dependencies,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
	Active       bool       `json:"active"`
}

// Details is a request together with its dependency closure.
type Details struct {
	Request      *Request   `json:"request"`
	Dependencies []*Request `json:"dependencies"`
}

// SearchResult is the outcome of a search over the snapshot.
type SearchResult struct {
	Results             []*Request `json:"results"`
	SearchTerm          string     `json:"search_term,omitempty"`
	CategoryFilter      string     `json:"category_filter,omitempty"`
	AvailableCategories []string   `json:"available_categories"`
	TotalResults        int        `json:"total_results"`
}

// IsFiltered reports whether a term or category narrowed the search.
func (r *SearchResult) IsFiltered() bool {
	return r.SearchTerm != "" || r.CategoryFilter != ""
}

// Stats summarises the active requests in a snapshot.
type Stats struct {
	Total                int     `json:"total"`
	Open                 int     `json:"open"`
	Resolved             int     `json:"resolved"`
	AverageResponseHours float64 `json:"average_response_hours"`
}
