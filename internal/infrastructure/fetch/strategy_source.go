package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"ProductScanner/internal/ports"
	"ProductScanner/internal/source"
)

// StrategySource implements ProductSource via registered fetch strategies.
type StrategySource struct {
	registry *source.Registry
	strategy string
	pageSize int
	logger   *slog.Logger
}

var _ ports.ProductSource = (*StrategySource)(nil)

// NewStrategySource wires the fetch registry with the configured strategy.
func NewStrategySource(reg *source.Registry, strategy string, pageSize int, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		strategy: strategy,
		pageSize: pageSize,
		logger:   log,
	}
}

// FetchPage resolves the configured strategy and asks it for one page.
func (s *StrategySource) FetchPage(ctx context.Context) ([]source.Post, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("fetch registry is not configured")
	}

	strategy, err := s.registry.Resolve(s.strategy)
	if err != nil {
		return nil, err
	}

	s.debug("fetch page", "strategy", s.strategy, "page_size", s.pageSize)

	posts, err := strategy.FetchPage(ctx, source.Request{PageSize: s.pageSize})
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.strategy, err)
	}

	s.debug("strategy produced posts", "strategy", s.strategy, "count", len(posts))
	return posts, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
