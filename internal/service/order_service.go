package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// OrderLine is one requested item in a new order.
type OrderLine struct {
	ItemID   uuid.UUID
	Quantity int
}

// OrderService defines the interface for order business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, profileID uuid.UUID, name, phone, address string, lines []OrderLine) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, profileID *uuid.UUID, page, pageSize int) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, catalogRepo repository.CatalogRepository) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
	}
}

// PlaceOrder prices each requested line against the current catalog and
// stores the order with its items. Prices are captured at purchase time;
// later catalog edits do not change placed orders.
func (s *orderService) PlaceOrder(ctx context.Context, profileID uuid.UUID, name, phone, address string, lines []OrderLine) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	now := time.Now()
	order := &domain.Order{
		ID:            uuid.New(),
		ProfileID:     profileID,
		Status:        domain.OrderStatusPending,
		CustomerName:  name,
		CustomerPhone: phone,
		Address:       address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, line := range lines {
		if line.Quantity < 1 {
			line.Quantity = 1
		}

		item, err := s.catalogRepo.FindByID(ctx, line.ItemID)
		if err != nil {
			if err == repository.ErrItemNotFound {
				return nil, fmt.Errorf("item %s: %w", line.ItemID, err)
			}
			return nil, fmt.Errorf("failed to price order line: %w", err)
		}

		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ItemID:    item.ID,
			Title:     item.Title,
			UnitPrice: item.Price,
			Quantity:  line.Quantity,
		})
		order.Total += item.Price * float64(line.Quantity)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return order, nil
}

// GetOrder retrieves an order with its items
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// ListOrders retrieves orders, optionally restricted to one profile
func (s *orderService) ListOrders(ctx context.Context, profileID *uuid.UUID, page, pageSize int) ([]*domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.orderRepo.List(ctx, profileID, page, pageSize)
}

// UpdateStatus sets the order status after checking it is a known state
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}
	return s.orderRepo.UpdateStatus(ctx, id, status)
}
