// Package server is the HTTP surface of the gazette portal: a JSON API over
// the record store, the legacy upstream client, document storage and Stripe
// checkout, plus a pass-through proxy for legacy endpoints the portal does
// not model.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"egazette/internal/storage"
	"egazette/internal/store"
	"egazette/internal/upstream"
	"egazette/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v84"
)

// CheckoutProvider opens and verifies hosted payment sessions. Production
// wiring uses payments.Checkout; tests substitute a stub.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, order *types.Order) (*stripe.CheckoutSession, error)
	VerifySession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config
	cookie *securecookie.SecureCookie

	applications  *store.Applications
	orders        *store.Orders
	notifications *store.Notifications
	services      *store.Services
	profiles      *store.Profiles

	upstream  *upstream.Client
	documents *storage.DocumentStorage
	checkout  CheckoutProvider

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	st *store.Store,
	upstreamClient *upstream.Client,
	documents *storage.DocumentStorage,
	checkout CheckoutProvider,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		applications:  store.NewApplications(st),
		orders:        store.NewOrders(st),
		notifications: store.NewNotifications(st),
		services:      store.NewServices(st),
		profiles:      store.NewProfiles(st),

		upstream:  upstreamClient,
		documents: documents,
		checkout:  checkout,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealthz, http.MethodGet)

	r.HandleFunc("/services", s.handleListServices, http.MethodGet)
	r.HandleFunc("/services/:serviceID", s.handleGetService, http.MethodGet)
	r.HandleFunc("/services/:serviceID/plans", s.handleServicePlans, http.MethodGet)
	r.HandleFunc("/services/:serviceID/form", s.handleServiceForm, http.MethodGet)
	r.HandleFunc("/forms", s.handleListForms, http.MethodGet)

	r.HandleFunc("/auth/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/auth/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/applications", s.handleListApplications, http.MethodGet)
		r.HandleFunc("/applications", s.handleCreateApplication, http.MethodPost)
		r.HandleFunc("/applications/stats", s.handleApplicationStats, http.MethodGet)
		r.HandleFunc("/applications/:applicationID", s.handleGetApplication, http.MethodGet)
		r.HandleFunc("/applications/:applicationID", s.handleUpdateApplication, http.MethodPatch)
		r.HandleFunc("/applications/:applicationID/status", s.handleSetApplicationStatus, http.MethodPut)
		r.HandleFunc("/applications/:applicationID/documents", s.handleUploadDocument, http.MethodPost)
		r.HandleFunc("/applications/:applicationID/submit", s.handleSubmitApplication, http.MethodPost)

		r.HandleFunc("/orders", s.handleListOrders, http.MethodGet)
		r.HandleFunc("/orders", s.handleCreateOrder, http.MethodPost)
		r.HandleFunc("/orders/:orderID", s.handleGetOrder, http.MethodGet)

		r.HandleFunc("/notifications", s.handleListNotifications, http.MethodGet)
		r.HandleFunc("/notifications/:notificationID/read", s.handleMarkNotificationRead, http.MethodPost)

		r.HandleFunc("/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/profile", s.handleSaveProfile, http.MethodPut)
	})

	r.HandleFunc("/payments/return", s.handlePaymentReturn, http.MethodGet)

	// No method list so the proxy matches every verb, OPTIONS included.
	r.HandleFunc("/api/...", s.handleProxy)
}

func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
