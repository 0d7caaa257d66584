package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ProductScanner/internal/source"
)

const defaultAPIURL = "https://api.producthunt.com/v2/api/graphql"

// GraphQLFetcher pulls the latest product posts from the listing API.
type GraphQLFetcher struct {
	client *http.Client
	apiURL string
	token  string
}

var _ source.Fetcher = (*GraphQLFetcher)(nil)

// NewGraphQLFetcher wires an HTTP client; apiURL defaults to the public endpoint.
func NewGraphQLFetcher(client *http.Client, apiURL, token string) *GraphQLFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &GraphQLFetcher{client: client, apiURL: apiURL, token: token}
}

// Name identifies the strategy inside the registry.
func (g *GraphQLFetcher) Name() string {
	return "graphql"
}

type graphQLRequest struct {
	Query string `json:"query"`
}

// Pointer fields distinguish a missing envelope from an empty page.
type graphQLResponse struct {
	Data *struct {
		Posts *struct {
			Edges []struct {
				Node source.Post `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchPage requests one page of posts ordered by recency. The API caps page
// size, so requests above the cap are clamped rather than rejected.
func (g *GraphQLFetcher) FetchPage(ctx context.Context, req source.Request) ([]source.Post, error) {
	if g.token == "" {
		return nil, fmt.Errorf("api token is not configured")
	}

	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > source.MaxPageSize {
		pageSize = source.MaxPageSize
	}

	payload, err := json.Marshal(graphQLRequest{Query: buildPostsQuery(pageSize)})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.token)
	httpReq.Header.Set("User-Agent", "ProductScanner/1.0")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing api returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, gqlErr := range decoded.Errors {
			messages = append(messages, gqlErr.Message)
		}
		return nil, fmt.Errorf("query rejected: %s", strings.Join(messages, "; "))
	}

	if decoded.Data == nil || decoded.Data.Posts == nil {
		return nil, fmt.Errorf("response is missing posts data")
	}

	posts := make([]source.Post, 0, len(decoded.Data.Posts.Edges))
	for _, edge := range decoded.Data.Posts.Edges {
		posts = append(posts, edge.Node)
	}

	return posts, nil
}

func buildPostsQuery(pageSize int) string {
	return fmt.Sprintf(`{
  posts(first: %d) {
    edges {
      node {
        id
        name
        tagline
        description
        votesCount
        topics {
          edges {
            node {
              name
            }
          }
        }
      }
    }
  }
}`, pageSize)
}
