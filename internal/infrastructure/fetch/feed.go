package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"ProductScanner/internal/source"
)

// FeedFetcher reads the public Atom feed as a tokenless fallback strategy.
// Feed entries carry no vote counts, so VotesCount stays zero.
type FeedFetcher struct {
	parser  *gofeed.Parser
	feedURL string
}

var _ source.Fetcher = (*FeedFetcher)(nil)

// NewFeedFetcher builds a fetcher for the given Atom feed URL.
func NewFeedFetcher(feedURL string) *FeedFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = "ProductScanner/1.0"
	return &FeedFetcher{parser: parser, feedURL: feedURL}
}

// Name identifies the strategy inside the registry.
func (f *FeedFetcher) Name() string {
	return "feed"
}

// FetchPage downloads the feed and converts its newest entries into posts.
func (f *FeedFetcher) FetchPage(ctx context.Context, req source.Request) ([]source.Post, error) {
	if f.feedURL == "" {
		return nil, fmt.Errorf("feed url is not configured")
	}

	feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	limit := req.PageSize
	if limit <= 0 || limit > source.MaxPageSize {
		limit = source.MaxPageSize
	}

	posts := make([]source.Post, 0, limit)
	for _, item := range feed.Items {
		if len(posts) >= limit {
			break
		}
		if item == nil {
			continue
		}

		posts = append(posts, source.Post{
			ID:          itemID(item),
			Name:        strings.TrimSpace(item.Title),
			Description: htmlToText(item.Content, item.Description),
			Topics:      source.ConnectionFromNames(item.Categories),
		})
	}

	return posts, nil
}

func itemID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

// htmlToText strips markup from the first non-empty fragment and collapses
// whitespace into single spaces.
func htmlToText(fragments ...string) string {
	for _, fragment := range fragments {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			return strings.Join(strings.Fields(fragment), " ")
		}
		return strings.Join(strings.Fields(doc.Text()), " ")
	}
	return ""
}
