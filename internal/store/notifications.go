package store

import (
	"context"

	"egazette/internal/utils"
	"egazette/pkg/types"
)

type Notifications struct {
	store *Store
}

func NewNotifications(s *Store) *Notifications {
	return &Notifications{store: s}
}

func (n *Notifications) Add(ctx context.Context, notification *types.Notification) error {
	notification.ID = utils.NanoID()
	notification.CreatedAt = n.store.now().UTC()
	if notification.Type == "" {
		notification.Type = types.NotificationTypeInfo
	}

	return AddItem(ctx, n.store, KeyNotifications, *notification)
}

func (n *Notifications) ByUser(ctx context.Context, userID string) ([]types.Notification, error) {
	return FilterByUserID[types.Notification](ctx, n.store, KeyNotifications, userID)
}

func (n *Notifications) MarkRead(ctx context.Context, id string) error {
	return n.store.UpdateByID(ctx, KeyNotifications, id, map[string]any{"read": true})
}
