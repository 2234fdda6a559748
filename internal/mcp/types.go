package mcp

import "github.com/rpggio/reqindex/internal/domain/request"

type GetRequestParams struct {
	ID int64 `json:"id" jsonschema:"service request ID"`
}

type GetDependenciesParams struct {
	ID int64 `json:"id" jsonschema:"service request ID whose dependencies to resolve"`
}

type SearchRequestsParams struct {
	Term     string `json:"term,omitempty" jsonschema:"request ID, or text matched against category, location and description"`
	Category string `json:"category,omitempty" jsonschema:"exact category to narrow to; empty or All means every category"`
}

type RequestListResponse struct {
	Requests []*request.Request `json:"requests"`
	Count    int                `json:"count"`
}

type RequestDetailsResponse struct {
	Request      *request.Request   `json:"request"`
	Dependencies []*request.Request `json:"dependencies"`
}

type DependenciesResponse struct {
	ID           int64              `json:"id"`
	Dependencies []*request.Request `json:"dependencies"`
	Count        int                `json:"count"`
}

type SearchResponse struct {
	request.SearchResult
	Filtered bool `json:"filtered"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type RefreshResponse struct {
	Status   string `json:"status"`
	Requests int    `json:"requests"`
}
