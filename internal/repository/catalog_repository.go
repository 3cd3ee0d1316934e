package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shopfront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound = errors.New("catalog item not found")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// CatalogRepository defines the interface for catalog item data access
type CatalogRepository interface {
	Create(ctx context.Context, item *domain.CatalogItem) error
	Update(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)
	List(ctx context.Context, category *string, page, pageSize int, sortBy string, sortOrder SortOrder) ([]domain.CatalogItem, int, error)
	ListAll(ctx context.Context) ([]domain.CatalogItem, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]domain.CatalogItem, int, error)
	FetchPage(ctx context.Context, excludeID uuid.UUID, page, size int) ([]domain.CatalogItem, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

const itemColumns = `id, title, description, category, tags, brand,
	price, original_price, discount_percentage, variants,
	storage, ram, color, model, views, likes, comments, flags, images,
	published_at, updated_at`

// Create inserts a new catalog item using parameterized queries. Tags,
// variants, flags and images are stored as JSONB.
func (r *catalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	tags, variants, flags, images, err := marshalItemJSON(item)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, title, description, category, tags, brand,
			price, original_price, discount_percentage, variants,
			storage, ram, color, model, views, likes, comments, flags, images,
			published_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Title,
		item.Description,
		item.Category,
		tags,
		item.Brand,
		item.Price,
		item.OriginalPrice,
		item.DiscountPercentage,
		variants,
		item.Storage,
		item.RAM,
		item.Color,
		item.Model,
		item.Views,
		item.Likes,
		item.Comments,
		flags,
		images,
		item.PublishedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create catalog item: %w", err)
	}

	return nil
}

// Update updates an existing catalog item using parameterized queries
func (r *catalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	tags, variants, flags, images, err := marshalItemJSON(item)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET title = $2, description = $3, category = $4, tags = $5, brand = $6,
		    price = $7, original_price = $8, discount_percentage = $9, variants = $10,
		    storage = $11, ram = $12, color = $13, model = $14,
		    flags = $15, images = $16, updated_at = $17
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Title,
		item.Description,
		item.Category,
		tags,
		item.Brand,
		item.Price,
		item.OriginalPrice,
		item.DiscountPercentage,
		variants,
		item.Storage,
		item.RAM,
		item.Color,
		item.Model,
		flags,
		images,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update catalog item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete removes a catalog item using parameterized queries
func (r *catalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// FindByID retrieves a catalog item by ID using parameterized queries
func (r *catalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, itemColumns)

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find catalog item by ID: %w", err)
	}

	return item, nil
}

// List retrieves catalog items with optional category filtering, pagination, and sorting
func (r *catalogRepository) List(ctx context.Context, category *string, page, pageSize int, sortBy string, sortOrder SortOrder) ([]domain.CatalogItem, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]bool{
		"title":        true,
		"price":        true,
		"views":        true,
		"likes":        true,
		"published_at": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "published_at" // Default sort field
	}

	// Validate sort order
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc // Default sort order
	}

	// Build the WHERE clause
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if category != nil && *category != "" {
		whereClause = fmt.Sprintf("WHERE category = $%d", argIndex)
		args = append(args, *category)
		argIndex++
	}

	// Count total items
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count catalog items: %w", err)
	}

	// Calculate offset
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, itemColumns, whereClause, sortBy, sortOrder, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	items, err := r.queryItems(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListAll retrieves the full catalog snapshot ordered by publish date, most
// recent first. The storefront browse endpoint filters and sorts this
// snapshot in memory.
func (r *catalogRepository) ListAll(ctx context.Context) ([]domain.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY published_at DESC`, itemColumns)
	return r.queryItems(ctx, query)
}

// Search searches catalog items by title or description with pagination
func (r *catalogRepository) Search(ctx context.Context, query string, page, pageSize int) ([]domain.CatalogItem, int, error) {
	// If query is empty, return all items
	if strings.TrimSpace(query) == "" {
		return r.List(ctx, nil, page, pageSize, "published_at", SortOrderDesc)
	}

	// Use ILIKE for case-insensitive search
	searchPattern := "%" + query + "%"

	countQuery := `
		SELECT COUNT(*)
		FROM products
		WHERE title ILIKE $1 OR description ILIKE $1 OR brand ILIKE $1
	`
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, searchPattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * pageSize

	searchQuery := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE title ILIKE $1 OR description ILIKE $1 OR brand ILIKE $1
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`, itemColumns)

	items, err := r.queryItems(ctx, searchQuery, searchPattern, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// FetchPage retrieves one raw page of related-item candidates, excluding
// the reference item. Pages are 1-indexed; ordering is by publish date so
// repeated fetches see a stable sequence.
func (r *catalogRepository) FetchPage(ctx context.Context, excludeID uuid.UUID, page, size int) ([]domain.CatalogItem, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id != $1
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`, itemColumns)

	return r.queryItems(ctx, query, excludeID, size, offset)
}

// IncrementViews bumps the view counter for an item
func (r *catalogRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET views = views + 1 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *catalogRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]domain.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog items: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.CatalogItem, error) {
	item := &domain.CatalogItem{}
	var tags, variants, flags, images []byte

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Category,
		&tags,
		&item.Brand,
		&item.Price,
		&item.OriginalPrice,
		&item.DiscountPercentage,
		&variants,
		&item.Storage,
		&item.RAM,
		&item.Color,
		&item.Model,
		&item.Views,
		&item.Likes,
		&item.Comments,
		&flags,
		&images,
		&item.PublishedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &item.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal(variants, &item.Variants); err != nil {
		return nil, fmt.Errorf("failed to decode variants: %w", err)
	}
	if err := json.Unmarshal(flags, &item.Flags); err != nil {
		return nil, fmt.Errorf("failed to decode flags: %w", err)
	}
	if err := json.Unmarshal(images, &item.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	return item, nil
}

func marshalItemJSON(item *domain.CatalogItem) (tags, variants, flags, images []byte, err error) {
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.Variants == nil {
		item.Variants = []domain.Variant{}
	}
	if item.Images == nil {
		item.Images = []string{}
	}

	if tags, err = json.Marshal(item.Tags); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	if variants, err = json.Marshal(item.Variants); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode variants: %w", err)
	}
	if flags, err = json.Marshal(item.Flags); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode flags: %w", err)
	}
	if images, err = json.Marshal(item.Images); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode images: %w", err)
	}

	return tags, variants, flags, images, nil
}
