package catalog

import (
	"context"

	"shopfront/internal/domain"

	"github.com/google/uuid"
)

// DefaultRelatedPageSize is the raw candidate page size for related-item
// fetches.
const DefaultRelatedPageSize = 4

// Pager fetches one raw page of candidates, excluding the reference item.
// Pages are 1-indexed.
type Pager interface {
	FetchPage(ctx context.Context, excludeID uuid.UUID, page, size int) ([]domain.CatalogItem, error)
}

// RelatedSession accumulates related items for one reference item across
// incremental load-more calls. Each raw page is ranked independently and
// appended, so ordering is guaranteed within a page but not across pages.
// A session belongs to a single view and is not safe for concurrent use.
type RelatedSession struct {
	ref      domain.CatalogItem
	pager    Pager
	pageSize int

	nextPage int
	hasMore  bool
	results  []ScoredCandidate
}

// NewRelatedSession starts a session for ref. pageSize falls back to
// DefaultRelatedPageSize when not positive.
func NewRelatedSession(ref domain.CatalogItem, pager Pager, pageSize int) *RelatedSession {
	if pageSize <= 0 {
		pageSize = DefaultRelatedPageSize
	}
	return &RelatedSession{
		ref:      ref,
		pager:    pager,
		pageSize: pageSize,
		nextPage: 1,
		hasMore:  true,
	}
}

// LoadMore fetches, ranks and appends the next raw page. It returns only
// the newly appended candidates. Once a raw page comes back shorter than
// the page size the session is exhausted and later calls return nil without
// fetching. On a fetch error the accumulated results and the page cursor
// are left untouched so the same page can be retried.
func (s *RelatedSession) LoadMore(ctx context.Context) ([]ScoredCandidate, error) {
	if !s.hasMore {
		return nil, nil
	}

	raw, err := s.pager.FetchPage(ctx, s.ref.ID, s.nextPage, s.pageSize)
	if err != nil {
		return nil, err
	}

	if len(raw) < s.pageSize {
		s.hasMore = false
	}
	s.nextPage++

	scored := Rank(&s.ref, raw)
	s.results = append(s.results, scored...)
	return scored, nil
}

// HasMore reports whether another raw page may exist.
func (s *RelatedSession) HasMore() bool { return s.hasMore }

// Results returns all candidates accumulated so far, in append order.
func (s *RelatedSession) Results() []ScoredCandidate { return s.results }
