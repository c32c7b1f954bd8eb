package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"egazette/internal/store"
	"egazette/pkg/types"
)

func TestHealthz(t *testing.T) {
	svc, _ := newTestService(t, "http://legacy.invalid")

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequireAuth_MissingCookieIs401(t *testing.T) {
	svc, _ := newTestService(t, "http://legacy.invalid")

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet, "/applications", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRequireAuth_GarbageCookieIs401(t *testing.T) {
	svc, _ := newTestService(t, "http://legacy.invalid")

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	req.AddCookie(&http.Cookie{Name: "egazette_session", Value: "garbage"})
	rec := doRequest(svc, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_SetsSessionAndStoresAuthState(t *testing.T) {
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/API_ValidateToken", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"SearchDetail": []map[string]any{
				{"UserID": "u1", "Email": "ama@example.com"},
			},
		})
	}))
	defer legacy.Close()

	svc, st := newTestService(t, legacy.URL)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"token":"legacy-token"}`))
	rec := doRequest(svc, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var cookieSet bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "egazette_session" && cookie.Value != "" {
			cookieSet = true
		}
	}
	assert.True(t, cookieSet, "login must set the session cookie")

	state, err := store.NewProfiles(st).AuthStateByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", state.Token)
	assert.Equal(t, "ama@example.com", state.Email)
}

func TestLogin_RejectedToken(t *testing.T) {
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"Message": "an error has occurred"})
	}))
	defer legacy.Close()

	svc, _ := newTestService(t, legacy.URL)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"token":"bad"}`))
	rec := doRequest(svc, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateApplication_ValidatesForm(t *testing.T) {
	svc, _ := newTestService(t, "http://legacy.invalid")
	cookie := sessionCookie(t, svc, "u1")

	body := `{
		"serviceType": "change-of-name",
		"feeId": "fee-1",
		"amount": 250,
		"formKind": "personal",
		"formData": {"fullName": "Kwame Asante"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(body))
	req.AddCookie(cookie)
	rec := doRequest(svc, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var payload struct {
		FieldErrors map[string]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload.FieldErrors, "newName")
	assert.NotContains(t, payload.FieldErrors, "fullName")
}

func validPersonalApplication() string {
	return `{
		"serviceType": "change-of-name",
		"feeId": "fee-1",
		"amount": 250,
		"formKind": "personal",
		"formData": {
			"fullName": "Kwame Asante",
			"dateOfBirth": "1990-04-12",
			"placeOfBirth": "Kumasi",
			"currentName": "Kwame Asante",
			"newName": "Kwame Boateng Asante",
			"reason": "Addition of family name",
			"email": "kwame@example.com",
			"phone": "+233201234567"
		}
	}`
}

func TestCreateApplication_StoresDraft(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	cookie := sessionCookie(t, svc, "u1")

	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(validPersonalApplication()))
	req.AddCookie(cookie)
	rec := doRequest(svc, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, types.ApplicationStatusDraft, created.Status)
	assert.Equal(t, "personal", created.ApplicationData["formKind"])

	stored, err := store.NewApplications(st).ByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
}

func TestGetApplication_OtherUsersApplicationIsHidden(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")

	app := &types.Application{UserID: "owner", ServiceType: "change-of-name"}
	require.NoError(t, store.NewApplications(st).Create(context.Background(), app))

	req := httptest.NewRequest(http.MethodGet, "/applications/"+app.ID, nil)
	req.AddCookie(sessionCookie(t, svc, "someone-else"))
	rec := doRequest(svc, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitApplication_RequiresDocuments(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	cookie := sessionCookie(t, svc, "u1")

	apps := store.NewApplications(st)
	app := &types.Application{
		UserID:          "u1",
		ServiceType:     "change-of-name",
		FeeID:           "fee-1",
		ApplicationData: map[string]any{"formKind": "personal"},
	}
	require.NoError(t, apps.Create(context.Background(), app))

	req := httptest.NewRequest(http.MethodPost, "/applications/"+app.ID+"/submit", nil)
	req.AddCookie(cookie)
	rec := doRequest(svc, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSubmitApplication_HappyPath(t *testing.T) {
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/API_SubmitApplication":
			_ = json.NewEncoder(w).Encode(map[string]any{"ReferenceNumber": "GZ-2026-0007"})
		case "/API_GazetteList":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"SearchDetail": []map[string]any{
					{"FeeID": "fee-1", "GazetteName": "Express", "GazetteFee": "250", "ProcessDays": 10},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer legacy.Close()

	svc, st := newTestService(t, legacy.URL)
	cookie := sessionCookie(t, svc, "u1")
	ctx := context.Background()

	apps := store.NewApplications(st)
	app := &types.Application{
		UserID:          "u1",
		ServiceType:     "change-of-name",
		FeeID:           "fee-1",
		ApplicationData: map[string]any{"formKind": "personal"},
	}
	require.NoError(t, apps.Create(ctx, app))
	for _, doc := range []string{"d1", "d2"} {
		require.NoError(t, apps.AddDocument(ctx, app.ID, types.SupportingDocument{ID: doc}))
	}

	req := httptest.NewRequest(http.MethodPost, "/applications/"+app.ID+"/submit", nil)
	req.AddCookie(cookie)
	rec := doRequest(svc, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GZ-2026-0007")

	submitted, err := apps.ByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.EstimatedCompletion)

	notifications, err := store.NewNotifications(st).ByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, types.NotificationTypeStatus, notifications[0].Type)
}

func TestApplicationStats(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	ctx := context.Background()

	apps := store.NewApplications(st)
	for _, status := range []types.ApplicationStatus{
		types.ApplicationStatusDraft,
		types.ApplicationStatusSubmitted,
		types.ApplicationStatusSubmitted,
	} {
		require.NoError(t, apps.Create(ctx, &types.Application{
			UserID: "u1", ServiceType: "svc", Status: status,
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/applications/stats", nil)
	req.AddCookie(sessionCookie(t, svc, "u1"))
	rec := doRequest(svc, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats types.ApplicationStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Drafts)
	assert.Equal(t, 2, stats.Submitted)
}

func TestServicePlans_Classified(t *testing.T) {
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"SearchDetail": []map[string]any{
				{"FeeID": "fee-1", "PaymentPlanType": "64", "GazetteName": "Express", "GazetteFee": "350"},
				{"FeeID": "fee-2", "PaymentPlanCategory": "Regular Gazette", "GazetteName": "Standard", "GazetteFee": "120"},
			},
		})
	}))
	defer legacy.Close()

	svc, _ := newTestService(t, legacy.URL)

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet, "/services/change-of-name/plans", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var plans []struct {
		FeeID    string `json:"feeId"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	require.Len(t, plans, 2)
	assert.Equal(t, "personal", plans[0].Category)
	assert.Equal(t, "marriage", plans[1].Category)
}

func TestServiceForm_ManualSelectionOnUnknown(t *testing.T) {
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"SearchDetail": []map[string]any{
				{"FeeID": "fee-9", "GazetteName": "Mystery Tier", "GazetteFee": "50"},
			},
		})
	}))
	defer legacy.Close()

	svc, _ := newTestService(t, legacy.URL)

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet, "/services/unlabelled-service/form?fee=fee-9", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Category                string `json:"category"`
		RequiresManualSelection bool   `json:"requiresManualSelection"`
		Schemas                 []any  `json:"schemas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "unknown", payload.Category)
	assert.True(t, payload.RequiresManualSelection)
	assert.Len(t, payload.Schemas, 4)
}

func TestNotifications_MarkRead(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	ctx := context.Background()

	notifications := store.NewNotifications(st)
	notification := &types.Notification{UserID: "u1", Title: "Hello"}
	require.NoError(t, notifications.Add(ctx, notification))

	req := httptest.NewRequest(http.MethodPost, "/notifications/"+notification.ID+"/read", nil)
	req.AddCookie(sessionCookie(t, svc, "u1"))
	rec := doRequest(svc, req)

	require.Equal(t, http.StatusOK, rec.Code)

	list, err := notifications.ByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
}

func TestPaymentReturn_MarksOrderAndApplicationPaid(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	ctx := context.Background()

	apps := store.NewApplications(st)
	app := &types.Application{UserID: "u1", ServiceType: "change-of-name", Amount: 250}
	require.NoError(t, apps.Create(ctx, app))

	orders := store.NewOrders(st)
	order := &types.Order{ApplicationID: app.ID, UserID: "u1", ServiceName: "Change of Name", Amount: 250}
	require.NoError(t, orders.Create(ctx, order))

	svc.checkout = &stubCheckout{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_123": {
			ID:                "cs_test_123",
			ClientReferenceID: order.ID,
			PaymentStatus:     stripe.CheckoutSessionPaymentStatusPaid,
		},
	}}

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet,
		"/payments/return?order_id="+order.ID+"&session_id=cs_test_123", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	paidOrder, err := orders.ByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPaid, paidOrder.Status)
	assert.Equal(t, "cs_test_123", paidOrder.PaymentReference)

	paidApp, err := apps.ByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusCompleted, paidApp.PaymentStatus)

	notifications, err := store.NewNotifications(st).ByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, types.NotificationTypePayment, notifications[0].Type)
}

// newPendingOrder stores a draft application with a pending order against it.
func newPendingOrder(t *testing.T, st *store.Store) *types.Order {
	t.Helper()
	ctx := context.Background()

	app := &types.Application{UserID: "u1", ServiceType: "change-of-name", Amount: 250}
	require.NoError(t, store.NewApplications(st).Create(ctx, app))

	order := &types.Order{ApplicationID: app.ID, UserID: "u1", ServiceName: "Change of Name", Amount: 250}
	require.NoError(t, store.NewOrders(st).Create(ctx, order))
	return order
}

func requireOrderStillPending(t *testing.T, st *store.Store, order *types.Order) {
	t.Helper()
	ctx := context.Background()

	stored, err := store.NewOrders(st).ByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, stored.Status)
	assert.Empty(t, stored.PaymentReference)

	app, err := store.NewApplications(st).ByID(ctx, order.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusPending, app.PaymentStatus)
}

func TestPaymentReturn_ForgedSessionRejected(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	order := newPendingOrder(t, st)

	svc.checkout = &stubCheckout{sessions: map[string]*stripe.CheckoutSession{}}

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet,
		"/payments/return?order_id="+order.ID+"&session_id=forged-ref", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	requireOrderStillPending(t, st, order)
}

func TestPaymentReturn_UnpaidSessionRejected(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	order := newPendingOrder(t, st)

	svc.checkout = &stubCheckout{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_open": {
			ID:                "cs_test_open",
			ClientReferenceID: order.ID,
			PaymentStatus:     stripe.CheckoutSessionPaymentStatusUnpaid,
		},
	}}

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet,
		"/payments/return?order_id="+order.ID+"&session_id=cs_test_open", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	requireOrderStillPending(t, st, order)
}

func TestPaymentReturn_SessionForDifferentOrderRejected(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	order := newPendingOrder(t, st)
	other := newPendingOrder(t, st)

	svc.checkout = &stubCheckout{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_other": {
			ID:                "cs_test_other",
			ClientReferenceID: other.ID,
			PaymentStatus:     stripe.CheckoutSessionPaymentStatusPaid,
		},
	}}

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet,
		"/payments/return?order_id="+order.ID+"&session_id=cs_test_other", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	requireOrderStillPending(t, st, order)
}

func TestPaymentReturn_MissingSessionIDRejected(t *testing.T) {
	svc, st := newTestService(t, "http://legacy.invalid")
	order := newPendingOrder(t, st)

	rec := doRequest(svc, httptest.NewRequest(http.MethodGet,
		"/payments/return?order_id="+order.ID, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	requireOrderStillPending(t, st, order)
}
