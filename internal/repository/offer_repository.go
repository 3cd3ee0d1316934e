package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopfront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
)

// OfferRepository defines the interface for offer data access
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	Update(ctx context.Context, offer *domain.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	List(ctx context.Context) ([]*domain.Offer, error)
}

type offerRepository struct {
	db *sql.DB
}

// NewOfferRepository creates a new instance of OfferRepository
func NewOfferRepository(db *sql.DB) OfferRepository {
	return &offerRepository{db: db}
}

// Create inserts a new offer into the database using parameterized queries
func (r *offerRepository) Create(ctx context.Context, offer *domain.Offer) error {
	query := `
		INSERT INTO offers (id, title, description, image_url, discount_pct, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		offer.ID,
		offer.Title,
		offer.Description,
		offer.ImageURL,
		offer.DiscountPct,
		offer.StartsAt,
		offer.EndsAt,
		offer.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}

	return nil
}

// Update updates an existing offer using parameterized queries
func (r *offerRepository) Update(ctx context.Context, offer *domain.Offer) error {
	query := `
		UPDATE offers
		SET title = $2, description = $3, image_url = $4, discount_pct = $5,
		    starts_at = $6, ends_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		offer.ID,
		offer.Title,
		offer.Description,
		offer.ImageURL,
		offer.DiscountPct,
		offer.StartsAt,
		offer.EndsAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

// Delete removes an offer using parameterized queries
func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM offers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

// FindByID retrieves an offer by ID using parameterized queries
func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	query := `
		SELECT id, title, description, image_url, discount_pct, starts_at, ends_at, created_at
		FROM offers
		WHERE id = $1
	`

	offer := &domain.Offer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&offer.ID,
		&offer.Title,
		&offer.Description,
		&offer.ImageURL,
		&offer.DiscountPct,
		&offer.StartsAt,
		&offer.EndsAt,
		&offer.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to find offer by ID: %w", err)
	}

	return offer, nil
}

// List retrieves all offers ordered by start date, most recent first
func (r *offerRepository) List(ctx context.Context) ([]*domain.Offer, error) {
	query := `
		SELECT id, title, description, image_url, discount_pct, starts_at, ends_at, created_at
		FROM offers
		ORDER BY starts_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	offers := []*domain.Offer{}
	for rows.Next() {
		offer := &domain.Offer{}
		err := rows.Scan(
			&offer.ID,
			&offer.Title,
			&offer.Description,
			&offer.ImageURL,
			&offer.DiscountPct,
			&offer.StartsAt,
			&offer.EndsAt,
			&offer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	return offers, nil
}
