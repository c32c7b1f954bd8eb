package store

import (
	"context"
	"fmt"

	"egazette/internal/utils"
	"egazette/pkg/types"
)

// orderDueDays is how long an order stays payable before it is considered
// overdue.
const orderDueDays = 7

type Orders struct {
	store *Store
}

func NewOrders(s *Store) *Orders {
	return &Orders{store: s}
}

// Create stamps the id, timestamps and due date and appends the order. A zero
// status becomes pending and a zero currency becomes GHS.
func (o *Orders) Create(ctx context.Context, order *types.Order) error {
	now := o.store.now().UTC()
	order.ID = utils.NanoID()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.DueDate = now.AddDate(0, 0, orderDueDays)

	if order.Status == "" {
		order.Status = types.OrderStatusPending
	}
	if !order.Status.Valid() {
		return fmt.Errorf("%w: %s", types.ErrInvalidStatus, order.Status)
	}
	if order.Currency == "" {
		order.Currency = "GHS"
	}

	return AddItem(ctx, o.store, KeyOrders, *order)
}

func (o *Orders) ByID(ctx context.Context, id string) (*types.Order, error) {
	orders, err := Collection[types.Order](ctx, o.store, KeyOrders)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}

	return nil, types.ErrOrderNotFound
}

func (o *Orders) ByUser(ctx context.Context, userID string) ([]types.Order, error) {
	return FilterByUserID[types.Order](ctx, o.store, KeyOrders, userID)
}

// ByApplication returns the orders raised against one application, in
// creation order.
func (o *Orders) ByApplication(ctx context.Context, applicationID string) ([]types.Order, error) {
	orders, err := Collection[types.Order](ctx, o.store, KeyOrders)
	if err != nil {
		return nil, err
	}

	matched := make([]types.Order, 0, len(orders))
	for _, order := range orders {
		if order.ApplicationID == applicationID {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

func (o *Orders) SetStatus(ctx context.Context, id string, status types.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %s", types.ErrInvalidStatus, status)
	}
	return o.store.UpdateByID(ctx, KeyOrders, id, map[string]any{"status": string(status)})
}

// MarkPaid records a successful payment and its provider reference.
func (o *Orders) MarkPaid(ctx context.Context, id, reference string) error {
	return o.store.UpdateByID(ctx, KeyOrders, id, map[string]any{
		"status":           string(types.OrderStatusPaid),
		"paymentReference": reference,
	})
}
