package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"shopfront/internal/catalog"
	"shopfront/internal/domain"
	"shopfront/internal/repository"
	"shopfront/internal/storage"

	"github.com/google/uuid"
)

// ItemDraft holds the mutable fields of a catalog item as submitted by the
// admin dashboard. Images lists already-hosted URLs to keep; new files come
// in separately as Uploads.
type ItemDraft struct {
	Title              string
	Description        string
	Category           string
	Tags               []string
	Brand              string
	Price              float64
	OriginalPrice      *float64
	DiscountPercentage *float64
	Variants           []domain.Variant
	Storage            *string
	RAM                *string
	Color              *string
	Model              *string
	Flags              domain.ItemFlags
	Images             []string
}

// Upload is one pending media file attached to a draft.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	Browse(ctx context.Context, criteria catalog.Criteria, sortBy catalog.SortField, dir catalog.SortDirection, page, limit int) (catalog.Page, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)
	Related(ctx context.Context, id uuid.UUID, page int) ([]catalog.ScoredCandidate, bool, error)
	CreateItem(ctx context.Context, draft ItemDraft, uploads []Upload) (*domain.CatalogItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, draft ItemDraft, uploads []Upload) (*domain.CatalogItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo            repository.CatalogRepository
	store           storage.ObjectStore
	relatedPageSize int
}

// NewCatalogService creates a new instance of CatalogService. relatedPageSize
// falls back to catalog.DefaultRelatedPageSize when not positive.
func NewCatalogService(repo repository.CatalogRepository, store storage.ObjectStore, relatedPageSize int) CatalogService {
	if relatedPageSize <= 0 {
		relatedPageSize = catalog.DefaultRelatedPageSize
	}
	return &catalogService{
		repo:            repo,
		store:           store,
		relatedPageSize: relatedPageSize,
	}
}

// Browse fetches the catalog snapshot and applies the pure filter, sort and
// paginate utilities in memory. The snapshot is private to this call and is
// never mutated.
func (s *catalogService) Browse(ctx context.Context, criteria catalog.Criteria, sortBy catalog.SortField, dir catalog.SortDirection, page, limit int) (catalog.Page, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	filtered := catalog.Filter(items, criteria)
	sorted := catalog.Sort(filtered, sortBy, dir)
	return catalog.Paginate(sorted, page, limit), nil
}

// Get retrieves a single item and bumps its view counter. The counter
// update is not allowed to fail the read.
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err == nil {
		item.Views++
	}

	return item, nil
}

// Related fetches one raw candidate page for the reference item, ranks it
// on its own and reports whether another page may exist. Each page is
// ranked independently, so ordering holds within a page but not across the
// accumulated list a client builds from successive calls.
func (s *catalogService) Related(ctx context.Context, id uuid.UUID, page int) ([]catalog.ScoredCandidate, bool, error) {
	ref, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	raw, err := s.repo.FetchPage(ctx, id, page, s.relatedPageSize)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch related candidates: %w", err)
	}

	hasMore := len(raw) == s.relatedPageSize
	return catalog.Rank(ref, raw), hasMore, nil
}

// CreateItem uploads any pending media, merges the resulting URLs into the
// draft's image list and inserts the item. An upload failure aborts the
// whole submit before anything is written to the catalog.
func (s *catalogService) CreateItem(ctx context.Context, draft ItemDraft, uploads []Upload) (*domain.CatalogItem, error) {
	images, err := s.storeUploads(ctx, draft.Images, uploads)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := draftToItem(uuid.New(), draft)
	item.Images = images
	item.PublishedAt = now

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItem uploads any pending media, merges URLs and updates the stored
// row. The existing row is untouched when an upload fails.
func (s *catalogService) UpdateItem(ctx context.Context, id uuid.UUID, draft ItemDraft, uploads []Upload) (*domain.CatalogItem, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.storeUploads(ctx, draft.Images, uploads)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := draftToItem(id, draft)
	item.Images = images
	item.Views = existing.Views
	item.Likes = existing.Likes
	item.Comments = existing.Comments
	item.PublishedAt = existing.PublishedAt
	item.UpdatedAt = &now

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem removes an item from the catalog
func (s *catalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *catalogService) storeUploads(ctx context.Context, existing []string, uploads []Upload) ([]string, error) {
	images := make([]string, 0, len(existing)+len(uploads))
	images = append(images, existing...)

	for _, up := range uploads {
		url, err := s.store.Put(ctx, up.Filename, up.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to upload media %q: %w", up.Filename, err)
		}
		images = append(images, url)
	}

	return images, nil
}

func draftToItem(id uuid.UUID, draft ItemDraft) *domain.CatalogItem {
	return &domain.CatalogItem{
		ID:                 id,
		Title:              draft.Title,
		Description:        draft.Description,
		Category:           draft.Category,
		Tags:               draft.Tags,
		Brand:              draft.Brand,
		Price:              draft.Price,
		OriginalPrice:      draft.OriginalPrice,
		DiscountPercentage: draft.DiscountPercentage,
		Variants:           draft.Variants,
		Storage:            draft.Storage,
		RAM:                draft.RAM,
		Color:              draft.Color,
		Model:              draft.Model,
		Flags:              draft.Flags,
	}
}
