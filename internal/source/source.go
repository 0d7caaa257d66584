package source

import (
	"context"
	"fmt"
)

// MaxPageSize is the largest page the listing service serves per request.
const MaxPageSize = 20

// Post is the raw wire shape of one listing exactly as the service returns
// it. The nested topic connection mirrors the upstream GraphQL schema and is
// kept intact so batch output can reproduce it verbatim.
type Post struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Tagline     string          `json:"tagline"`
	Description string          `json:"description"`
	VotesCount  int             `json:"votesCount"`
	Topics      TopicConnection `json:"topics"`
}

// TopicConnection is the edges/node nesting the source API wraps topics in.
type TopicConnection struct {
	Edges []TopicEdge `json:"edges"`
}

// TopicEdge wraps a single topic node.
type TopicEdge struct {
	Node TopicNode `json:"node"`
}

// TopicNode carries the topic name.
type TopicNode struct {
	Name string `json:"name"`
}

// Names flattens the connection into an ordered topic-name list. Duplicates
// are kept as delivered; the result is never nil.
func (c TopicConnection) Names() []string {
	names := make([]string, 0, len(c.Edges))
	for _, edge := range c.Edges {
		names = append(names, edge.Node.Name)
	}
	return names
}

// ConnectionFromNames rebuilds the nested wire shape from a flat name list.
// Used by strategies whose upstream format has no edge/node nesting.
func ConnectionFromNames(names []string) TopicConnection {
	edges := make([]TopicEdge, 0, len(names))
	for _, name := range names {
		edges = append(edges, TopicEdge{Node: TopicNode{Name: name}})
	}
	return TopicConnection{Edges: edges}
}

// Request carries the per-run parameters handed to a fetch strategy.
type Request struct {
	PageSize int
}

// Fetcher captures a single fetch strategy (GraphQL API, Atom feed, etc.).
type Fetcher interface {
	Name() string
	FetchPage(ctx context.Context, req Request) ([]Post, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a fetch strategy.
func (r *Registry) Register(fetcher Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[fetcher.Name()] = fetcher
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Fetcher, error) {
	if fetcher, ok := r.fetchers[name]; ok {
		return fetcher, nil
	}
	return nil, fmt.Errorf("fetch strategy %s is not registered", name)
}
