// Package history keeps the durable, append-only log of placed orders,
// most recent first.
package history

import (
	"context"
	"fmt"

	"github.com/YousefHatem4/food_storefront/internal/cart"
	"github.com/YousefHatem4/food_storefront/internal/logging"
	"github.com/YousefHatem4/food_storefront/internal/models"
)

type Store struct {
	repo Repository
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Record prepends the order to the persisted list and saves the whole list.
func (s *Store) Record(ctx context.Context, order models.Order) error {
	orders := s.loadOrEmpty(ctx)
	orders = append([]models.Order{order}, orders...)
	if err := s.repo.Save(ctx, orders); err != nil {
		return fmt.Errorf("record order %s: %w", order.OrderID, err)
	}
	return nil
}

// List returns the persisted orders, most recent first. Unreadable or corrupt
// data is treated as an empty history, never an error.
func (s *Store) List(ctx context.Context) []models.Order {
	return s.loadOrEmpty(ctx)
}

func (s *Store) loadOrEmpty(ctx context.Context) []models.Order {
	orders, err := s.repo.Load(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("order history unreadable, treating as empty", "error", err)
		return nil
	}
	return orders
}

// Find looks an order up by its id, checking the legacy id field as a
// fallback for records written before OrderID existed.
func (s *Store) Find(ctx context.Context, id string) (*models.Order, error) {
	for _, o := range s.loadOrEmpty(ctx) {
		if o.OrderID == id || o.LegacyID == id {
			found := o
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
}

// Reorder replays every line of a historical order into the given cart,
// additively, and reports how many lines were added.
func (s *Store) Reorder(ctx context.Context, id string, c *cart.Cart) (int, error) {
	order, err := s.Find(ctx, id)
	if err != nil {
		return 0, err
	}
	for _, line := range order.Items {
		c.Add(line)
	}
	return len(order.Items), nil
}
