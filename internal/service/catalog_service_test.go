package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"shopfront/internal/catalog"
	"shopfront/internal/domain"
	"shopfront/internal/repository"

	"github.com/google/uuid"
)

type mockCatalogRepository struct {
	items map[uuid.UUID]*domain.CatalogItem
	order []uuid.UUID

	incrementErr error
	createCalls  int
	updateCalls  int
}

func newMockCatalogRepository() *mockCatalogRepository {
	return &mockCatalogRepository{items: make(map[uuid.UUID]*domain.CatalogItem)}
}

func (m *mockCatalogRepository) add(item domain.CatalogItem) {
	m.items[item.ID] = &item
	m.order = append(m.order, item.ID)
}

func (m *mockCatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	m.createCalls++
	copied := *item
	m.items[item.ID] = &copied
	m.order = append(m.order, item.ID)
	return nil
}

func (m *mockCatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	m.updateCalls++
	if _, exists := m.items[item.ID]; !exists {
		return repository.ErrItemNotFound
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.items[id]; !exists {
		return repository.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	item, exists := m.items[id]
	if !exists {
		return nil, repository.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockCatalogRepository) List(ctx context.Context, category *string, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]domain.CatalogItem, int, error) {
	all, _ := m.ListAll(ctx)
	return all, len(all), nil
}

func (m *mockCatalogRepository) ListAll(ctx context.Context) ([]domain.CatalogItem, error) {
	out := make([]domain.CatalogItem, 0, len(m.order))
	for _, id := range m.order {
		if item, exists := m.items[id]; exists {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockCatalogRepository) Search(ctx context.Context, query string, page, pageSize int) ([]domain.CatalogItem, int, error) {
	all, _ := m.ListAll(ctx)
	return all, len(all), nil
}

func (m *mockCatalogRepository) FetchPage(ctx context.Context, excludeID uuid.UUID, page, size int) ([]domain.CatalogItem, error) {
	all, _ := m.ListAll(ctx)
	filtered := make([]domain.CatalogItem, 0, len(all))
	for _, item := range all {
		if item.ID != excludeID {
			filtered = append(filtered, item)
		}
	}

	start := (page - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func (m *mockCatalogRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	item, exists := m.items[id]
	if !exists {
		return repository.ErrItemNotFound
	}
	item.Views++
	return nil
}

type mockObjectStore struct {
	puts    []string
	failOn  string
	baseURL string
}

func (m *mockObjectStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	if m.failOn != "" && filename == m.failOn {
		return "", errors.New("disk full")
	}
	m.puts = append(m.puts, filename)
	return m.baseURL + "/" + filename, nil
}

func storedPhone(brand string, price float64, category string) domain.CatalogItem {
	return domain.CatalogItem{
		ID:          uuid.New(),
		Title:       brand + " phone",
		Brand:       brand,
		Price:       price,
		Category:    category,
		PublishedAt: time.Now(),
	}
}

func TestGetBumpsViewCounter(t *testing.T) {
	repo := newMockCatalogRepository()
	item := storedPhone("Oppo", 10000, "Phones")
	item.Views = 5
	repo.add(item)

	service := NewCatalogService(repo, &mockObjectStore{}, 4)

	got, err := service.Get(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Views != 6 {
		t.Errorf("Views = %d, want 6", got.Views)
	}
	if repo.items[item.ID].Views != 6 {
		t.Errorf("stored Views = %d, want 6", repo.items[item.ID].Views)
	}
}

func TestGetSurvivesCounterFailure(t *testing.T) {
	repo := newMockCatalogRepository()
	item := storedPhone("Oppo", 10000, "Phones")
	item.Views = 5
	repo.add(item)
	repo.incrementErr = errors.New("deadlock")

	service := NewCatalogService(repo, &mockObjectStore{}, 4)

	got, err := service.Get(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("Get should not fail when the counter update fails: %v", err)
	}
	if got.Views != 5 {
		t.Errorf("Views = %d, want unchanged 5", got.Views)
	}
}

func TestBrowseFiltersSortsAndPaginates(t *testing.T) {
	repo := newMockCatalogRepository()
	repo.add(storedPhone("Oppo", 300, "Phones"))
	repo.add(storedPhone("Dell", 900, "Laptops"))
	repo.add(storedPhone("Samsung", 100, "Phones"))
	repo.add(storedPhone("Apple", 200, "Phones"))

	service := NewCatalogService(repo, &mockObjectStore{}, 4)

	page, err := service.Browse(context.Background(),
		catalog.Criteria{Category: "Phones"},
		catalog.SortByPrice, catalog.SortAsc, 1, 2)
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}

	if page.Pagination.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Pagination.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(page.Items))
	}
	if page.Items[0].Price != 100 || page.Items[1].Price != 200 {
		t.Errorf("prices = %v, %v, want 100, 200", page.Items[0].Price, page.Items[1].Price)
	}
	if !page.Pagination.HasNext {
		t.Error("HasNext = false, want true")
	}
}

func TestRelatedReportsHasMore(t *testing.T) {
	repo := newMockCatalogRepository()
	ref := storedPhone("Oppo", 10000, "Phones")
	repo.add(ref)
	// Five brand-matching candidates: first page of 4 is full, second is short.
	for i := 0; i < 5; i++ {
		repo.add(storedPhone("Oppo", 10000+float64(i), "Phones"))
	}

	service := NewCatalogService(repo, &mockObjectStore{}, 4)
	ctx := context.Background()

	first, hasMore, err := service.Related(ctx, ref.ID, 1)
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}
	if len(first) != 4 {
		t.Errorf("first page has %d candidates, want 4", len(first))
	}
	if !hasMore {
		t.Error("hasMore = false on a full page, want true")
	}

	second, hasMore, err := service.Related(ctx, ref.ID, 2)
	if err != nil {
		t.Fatalf("Related page 2 failed: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("second page has %d candidates, want 1", len(second))
	}
	if hasMore {
		t.Error("hasMore = true on a short page, want false")
	}
}

func TestRelatedDropsUnrelatedCandidates(t *testing.T) {
	repo := newMockCatalogRepository()
	ref := storedPhone("Oppo", 10000, "Phones")
	repo.add(ref)
	repo.add(storedPhone("Oppo", 10200, "Phones"))   // matches brand and price
	repo.add(storedPhone("Dell", 90000, "Laptops"))  // matches nothing
	repo.add(storedPhone("Lenovo", 80000, "Laptops")) // matches nothing

	service := NewCatalogService(repo, &mockObjectStore{}, 4)

	got, _, err := service.Related(context.Background(), ref.ID, 1)
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Related returned %d candidates, want 1", len(got))
	}
	if got[0].Item.Brand != "Oppo" {
		t.Errorf("surviving candidate has brand %q, want Oppo", got[0].Item.Brand)
	}
}

func TestCreateItemMergesUploadedImages(t *testing.T) {
	repo := newMockCatalogRepository()
	store := &mockObjectStore{baseURL: "http://localhost:8080/media"}
	service := NewCatalogService(repo, store, 4)

	draft := ItemDraft{
		Title:    "Oppo A3x",
		Category: "Phones",
		Price:    10000,
		Images:   []string{"http://localhost:8080/media/existing.jpg"},
	}
	uploads := []Upload{
		{Filename: "front.jpg", Reader: strings.NewReader("front")},
		{Filename: "back.jpg", Reader: strings.NewReader("back")},
	}

	item, err := service.CreateItem(context.Background(), draft, uploads)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if len(item.Images) != 3 {
		t.Fatalf("item has %d images, want 3", len(item.Images))
	}
	if item.Images[0] != "http://localhost:8080/media/existing.jpg" {
		t.Errorf("existing image URL lost: %v", item.Images)
	}
	for i, name := range []string{"front.jpg", "back.jpg"} {
		want := fmt.Sprintf("http://localhost:8080/media/%s", name)
		if item.Images[i+1] != want {
			t.Errorf("Images[%d] = %q, want %q", i+1, item.Images[i+1], want)
		}
	}
	if item.PublishedAt.IsZero() {
		t.Error("PublishedAt not set on create")
	}
	if repo.createCalls != 1 {
		t.Errorf("repo.Create called %d times, want 1", repo.createCalls)
	}
}

func TestCreateItemAbortsOnUploadFailure(t *testing.T) {
	repo := newMockCatalogRepository()
	store := &mockObjectStore{failOn: "bad.jpg"}
	service := NewCatalogService(repo, store, 4)

	draft := ItemDraft{Title: "Oppo A3x", Category: "Phones", Price: 10000}
	uploads := []Upload{{Filename: "bad.jpg", Reader: strings.NewReader("x")}}

	_, err := service.CreateItem(context.Background(), draft, uploads)
	if err == nil {
		t.Fatal("CreateItem should fail when an upload fails")
	}
	if repo.createCalls != 0 {
		t.Errorf("repo.Create called %d times after a failed upload, want 0", repo.createCalls)
	}
}

func TestUpdateItemPreservesCountersAndPublishDate(t *testing.T) {
	repo := newMockCatalogRepository()
	existing := storedPhone("Oppo", 10000, "Phones")
	existing.Views = 42
	existing.Likes = 7
	existing.Comments = 3
	existing.PublishedAt = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	repo.add(existing)

	service := NewCatalogService(repo, &mockObjectStore{}, 4)

	draft := ItemDraft{Title: "Oppo A3x renamed", Category: "Phones", Price: 9500}
	item, err := service.UpdateItem(context.Background(), existing.ID, draft, nil)
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	if item.Views != 42 || item.Likes != 7 || item.Comments != 3 {
		t.Errorf("counters changed on update: views=%d likes=%d comments=%d", item.Views, item.Likes, item.Comments)
	}
	if !item.PublishedAt.Equal(existing.PublishedAt) {
		t.Errorf("PublishedAt changed on update: %v", item.PublishedAt)
	}
	if item.UpdatedAt == nil {
		t.Error("UpdatedAt not set on update")
	}
	if item.Title != "Oppo A3x renamed" || item.Price != 9500 {
		t.Errorf("draft fields not applied: title=%q price=%v", item.Title, item.Price)
	}
}

func TestUpdateItemLeavesRowUntouchedOnUploadFailure(t *testing.T) {
	repo := newMockCatalogRepository()
	existing := storedPhone("Oppo", 10000, "Phones")
	repo.add(existing)

	store := &mockObjectStore{failOn: "bad.jpg"}
	service := NewCatalogService(repo, store, 4)

	draft := ItemDraft{Title: "Changed", Category: "Phones", Price: 1}
	uploads := []Upload{{Filename: "bad.jpg", Reader: strings.NewReader("x")}}

	_, err := service.UpdateItem(context.Background(), existing.ID, draft, uploads)
	if err == nil {
		t.Fatal("UpdateItem should fail when an upload fails")
	}
	if repo.updateCalls != 0 {
		t.Errorf("repo.Update called %d times after a failed upload, want 0", repo.updateCalls)
	}

	stored, _ := repo.FindByID(context.Background(), existing.ID)
	if stored.Title != existing.Title {
		t.Errorf("stored title changed to %q after failed update", stored.Title)
	}
}

func TestUpdateItemUnknownID(t *testing.T) {
	repo := newMockCatalogRepository()
	service := NewCatalogService(repo, &mockObjectStore{}, 4)

	_, err := service.UpdateItem(context.Background(), uuid.New(), ItemDraft{Title: "x"}, nil)
	if err != repository.ErrItemNotFound {
		t.Errorf("UpdateItem on unknown id returned %v, want ErrItemNotFound", err)
	}
}
