package server

import (
	"net/http"
	"strings"
)

func (s *Service) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	notifications, err := s.notifications.ByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to list notifications")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, notifications)
}

func (s *Service) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	notificationID := strings.TrimSpace(r.PathValue("notificationID"))

	notifications, err := s.notifications.ByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to load notifications")
		s.internalServerError(w)
		return
	}

	owned := false
	for _, notification := range notifications {
		if notification.ID == notificationID {
			owned = true
			break
		}
	}
	if !owned {
		s.respondError(w, http.StatusNotFound, "notification not found")
		return
	}

	if err := s.notifications.MarkRead(ctx, notificationID); err != nil {
		s.logger.WithError(err).WithField("notification_id", notificationID).Error("failed to mark notification read")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"id": notificationID, "read": true})
}
