package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"egazette/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v84"
)

func (s *Service) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := s.orders.ByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to list orders")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, orders)
}

type createOrderInput struct {
	ApplicationID string `json:"applicationId"`
}

// handleCreateOrder raises a payment order for an application and opens a
// Stripe Checkout session for it. The client is sent the hosted payment URL.
func (s *Service) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input createOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.ApplicationID) == "" {
		s.respondError(w, http.StatusBadRequest, "applicationId is required")
		return
	}

	application, err := s.applications.ByID(ctx, input.ApplicationID)
	if err != nil {
		if errors.Is(err, types.ErrApplicationNotFound) {
			s.respondError(w, http.StatusNotFound, "application not found")
			return
		}
		s.logger.WithError(err).WithField("application_id", input.ApplicationID).Error("failed to load application for order")
		s.internalServerError(w)
		return
	}
	if application.UserID != userID {
		s.respondError(w, http.StatusNotFound, "application not found")
		return
	}
	if application.Amount <= 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "application has no payable amount")
		return
	}

	serviceName := application.ServiceType
	if service, err := s.services.ByID(ctx, application.ServiceType); err == nil {
		serviceName = service.Name
	}

	order := &types.Order{
		ApplicationID: application.ID,
		UserID:        userID,
		ServiceName:   serviceName,
		Amount:        application.Amount,
		PaymentMethod: "card",
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.WithError(err).WithField("application_id", application.ID).Error("failed to create order")
		s.internalServerError(w)
		return
	}

	checkoutSession, err := s.checkout.CreateSession(ctx, order)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to create checkout session")
		if statusErr := s.orders.SetStatus(ctx, order.ID, types.OrderStatusFailed); statusErr != nil {
			s.logger.WithError(statusErr).WithField("order_id", order.ID).Error("failed to mark order failed")
		}
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"order":       order,
		"checkoutUrl": checkoutSession.URL,
	})
}

func (s *Service) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID := strings.TrimSpace(r.PathValue("orderID"))
	order, err := s.orders.ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, types.ErrOrderNotFound) {
			s.respondError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.WithError(err).WithField("order_id", orderID).Error("failed to load order")
		s.internalServerError(w)
		return
	}
	if order.UserID != userID {
		s.respondError(w, http.StatusNotFound, "order not found")
		return
	}

	s.respondJSON(w, http.StatusOK, order)
}

// handlePaymentReturn is where Stripe sends the customer after checkout.
// The query parameters are attacker-controlled, so the session is retrieved
// from Stripe and must reference this order and be paid before anything is
// marked paid.
func (s *Service) handlePaymentReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID := strings.TrimSpace(r.URL.Query().Get("order_id"))
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if orderID == "" || sessionID == "" {
		s.respondError(w, http.StatusBadRequest, "order_id and session_id query parameters are required")
		return
	}

	order, err := s.orders.ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, types.ErrOrderNotFound) {
			s.respondError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.WithError(err).WithField("order_id", orderID).Error("failed to load order on payment return")
		s.internalServerError(w)
		return
	}

	checkoutSession, err := s.checkout.VerifySession(ctx, sessionID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("could not verify checkout session")
		s.respondError(w, http.StatusBadGateway, "payment could not be verified")
		return
	}

	if checkoutSession.ClientReferenceID != order.ID {
		s.logger.WithFields(logrus.Fields{
			"order_id":   order.ID,
			"session_id": sessionID,
		}).Warn("checkout session does not reference this order")
		s.respondError(w, http.StatusBadRequest, "payment session does not belong to this order")
		return
	}

	if checkoutSession.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		s.respondError(w, http.StatusConflict, "payment has not completed")
		return
	}

	reference := sessionID

	if err := s.orders.MarkPaid(ctx, order.ID, reference); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to mark order paid")
		s.internalServerError(w)
		return
	}

	if err := s.applications.MarkPaid(ctx, order.ApplicationID, reference); err != nil {
		s.logger.WithError(err).WithField("application_id", order.ApplicationID).Error("failed to mark application paid")
		s.internalServerError(w)
		return
	}

	notification := &types.Notification{
		UserID:  order.UserID,
		Title:   "Payment received",
		Message: "Your payment for " + order.ServiceName + " was received.",
		Type:    types.NotificationTypePayment,
	}
	if err := s.notifications.Add(ctx, notification); err != nil {
		s.logger.WithError(err).WithField("user_id", order.UserID).Error("failed to record payment notification")
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"orderId": order.ID,
		"status":  types.OrderStatusPaid,
		"success": true,
	})
}
