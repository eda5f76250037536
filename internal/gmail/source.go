package gmail

import (
	"context"
	"sync"

	"github.com/quillworks/localagent/internal/config"
)

// Source defers client construction until the first fetch. This lets the
// server start before an OAuth token exists; fetches keep failing with
// ErrAuthRequired until authorization succeeds, then the client is reused.
type Source struct {
	cfg config.GmailConfig

	mu     sync.Mutex
	client *Client
}

func NewSource(cfg config.GmailConfig) *Source {
	return &Source{cfg: cfg}
}

func (s *Source) FetchRecent(ctx context.Context, count int) ([]Message, error) {
	s.mu.Lock()
	if s.client == nil {
		c, err := NewClient(ctx, s.cfg)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.client = c
	}
	c := s.client
	s.mu.Unlock()

	return c.FetchRecent(ctx, count)
}
