package catalog

import (
	"context"
	"errors"
	"testing"

	"shopfront/internal/domain"

	"github.com/google/uuid"
)

// fakePager serves pre-built pages and can fail a given number of times.
type fakePager struct {
	pages    [][]domain.CatalogItem
	failures int
	calls    []int
}

func (f *fakePager) FetchPage(ctx context.Context, excludeID uuid.UUID, page, size int) ([]domain.CatalogItem, error) {
	f.calls = append(f.calls, page)
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("backend unavailable")
	}
	if page < 1 || page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func fullPage(ref domain.CatalogItem, size int) []domain.CatalogItem {
	page := make([]domain.CatalogItem, size)
	for i := range page {
		page[i] = phone(ref.Brand, "", "", "", "", ref.Price)
	}
	return page
}

func TestRelatedSessionLoadMoreAccumulates(t *testing.T) {
	ref := phone("Oppo", "128GB", "4GB", "Black", "A3x", 10000)
	pager := &fakePager{pages: [][]domain.CatalogItem{
		fullPage(ref, 4),
		fullPage(ref, 4),
	}}

	session := NewRelatedSession(ref, pager, 4)
	ctx := context.Background()

	first, err := session.LoadMore(ctx)
	if err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if len(first) != 4 {
		t.Errorf("first LoadMore returned %d candidates, want 4", len(first))
	}
	if !session.HasMore() {
		t.Error("HasMore = false after a full page, want true")
	}

	second, err := session.LoadMore(ctx)
	if err != nil {
		t.Fatalf("second LoadMore failed: %v", err)
	}
	if len(second) != 4 {
		t.Errorf("second LoadMore returned %d candidates, want 4", len(second))
	}
	if len(session.Results()) != 8 {
		t.Errorf("Results holds %d candidates, want 8", len(session.Results()))
	}
}

func TestRelatedSessionExhaustsOnShortPage(t *testing.T) {
	ref := phone("Oppo", "128GB", "4GB", "Black", "A3x", 10000)
	pager := &fakePager{pages: [][]domain.CatalogItem{
		fullPage(ref, 4),
		fullPage(ref, 2), // short page signals the end
	}}

	session := NewRelatedSession(ref, pager, 4)
	ctx := context.Background()

	if _, err := session.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if _, err := session.LoadMore(ctx); err != nil {
		t.Fatalf("second LoadMore failed: %v", err)
	}

	if session.HasMore() {
		t.Error("HasMore = true after a short page, want false")
	}

	// Further calls return nothing and never hit the pager again.
	callsBefore := len(pager.calls)
	got, err := session.LoadMore(ctx)
	if err != nil {
		t.Fatalf("LoadMore after exhaustion failed: %v", err)
	}
	if got != nil {
		t.Errorf("LoadMore after exhaustion returned %d candidates, want none", len(got))
	}
	if len(pager.calls) != callsBefore {
		t.Error("LoadMore fetched a page after exhaustion")
	}
}

func TestRelatedSessionErrorKeepsCursor(t *testing.T) {
	ref := phone("Oppo", "128GB", "4GB", "Black", "A3x", 10000)
	pager := &fakePager{
		pages:    [][]domain.CatalogItem{fullPage(ref, 4)},
		failures: 1,
	}

	session := NewRelatedSession(ref, pager, 4)
	ctx := context.Background()

	if _, err := session.LoadMore(ctx); err == nil {
		t.Fatal("LoadMore should have surfaced the pager error")
	}
	if len(session.Results()) != 0 {
		t.Errorf("Results holds %d candidates after a failed fetch, want 0", len(session.Results()))
	}

	// Retry fetches the same page.
	got, err := session.LoadMore(ctx)
	if err != nil {
		t.Fatalf("retry LoadMore failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("retry returned %d candidates, want 4", len(got))
	}
	if len(pager.calls) != 2 || pager.calls[0] != 1 || pager.calls[1] != 1 {
		t.Errorf("pager calls = %v, want page 1 fetched twice", pager.calls)
	}
}

func TestRelatedSessionExcludesReference(t *testing.T) {
	ref := phone("Oppo", "128GB", "4GB", "Black", "A3x", 10000)
	page := append(fullPage(ref, 3), ref)
	pager := &fakePager{pages: [][]domain.CatalogItem{page}}

	session := NewRelatedSession(ref, pager, 4)

	got, err := session.LoadMore(context.Background())
	if err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	for _, c := range got {
		if c.Item.ID == ref.ID {
			t.Error("reference item came back as its own related candidate")
		}
	}
}

func TestRelatedSessionDefaultPageSize(t *testing.T) {
	ref := phone("Oppo", "128GB", "4GB", "Black", "A3x", 10000)
	session := NewRelatedSession(ref, &fakePager{}, 0)

	if session.pageSize != DefaultRelatedPageSize {
		t.Errorf("pageSize = %d, want %d", session.pageSize, DefaultRelatedPageSize)
	}
}
