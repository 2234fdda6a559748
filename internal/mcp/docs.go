package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `reqindex answers questions about municipal service requests from an in-memory index.

Core concepts:
- Request: a citizen report with an integer id, a priority (1 most urgent .. 5 least), a category, a location, a description, a status and the time it was reported.
- Dependency: request A depends on request B when B must be handled first. Links may form cycles and may point at requests that no longer exist.
- Snapshot: the index is loaded from the store on first use and is not updated until refresh_index is called.

Typical workflow:
1) Orient: list_categories and get_stats.
2) Triage: list_by_priority to see the most urgent requests first.
3) Find: search_requests with a number (exact id) or text (category, location, description), optionally narrowed to a category.
4) Plan: get_request or get_dependencies to see everything a request is blocked on, nearest first.
5) After the store changes, call refresh_index.

Docs:
- reqindex://docs/search
- reqindex://docs/dependencies
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "reqindex://docs/search",
		Name:        "docs_search",
		Title:       "Searching requests",
		Description: "How search_requests interprets its term and category arguments.",
		Content: `# Searching requests

- A term that is a whole number is treated as a request id. The result holds that request or nothing; text matching is not attempted.
- Any other term is matched, ignoring case, as a substring of the category, the location or the description.
- An empty term matches every request.
- A category narrows results to requests whose category equals it, ignoring case. An empty category or ` + "`All`" + ` disables the filter.
- Text results are ordered newest first by reported time.
- Every result lists ` + "`available_categories`" + ` so a client can offer a picker.
`,
	},
	{
		URI:         "reqindex://docs/dependencies",
		Name:        "docs_dependencies",
		Title:       "Dependency closure",
		Description: "What get_dependencies returns and in which order.",
		Content: `# Dependency closure

` + "`get_dependencies`" + ` walks dependency links breadth first from the given request.

- The request itself is not included.
- Direct dependencies come before indirect ones; within one level the order is the order the links were recorded.
- Each request appears once even when links form a cycle.
- Links to requests that are not in the store are skipped silently.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
