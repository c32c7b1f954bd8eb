package server

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"egazette/internal"
	"egazette/internal/store"
	"egazette/internal/upstream"
	"egazette/pkg/types"
)

var (
	testHashKey  = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	testBlockKey = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
)

// newTestService wires a Service over a memory store with the legacy API
// pointed at the given test server.
func newTestService(t *testing.T, upstreamURL string) (*Service, *store.Store) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	config := &types.Config{
		ServerPort:       0,
		UpstreamBaseURL:  upstreamURL,
		UpstreamAppType:  "WEB",
		UpstreamAPIToken: "upstream-secret",
		CookieHashKey:    testHashKey,
		CookieBlockKey:   testBlockKey,
	}

	st := store.Open(store.NewMemoryBackend(), logger)
	t.Cleanup(func() {
		_ = st.Close()
	})

	svc, err := New(config, logger, st, upstream.NewClient(config, logger), nil, nil)
	require.NoError(t, err)

	return svc, st
}

// sessionCookie forges an encrypted session cookie the way the login
// handler would set it.
func sessionCookie(t *testing.T, svc *Service, userID string) *http.Cookie {
	t.Helper()

	encoded, err := svc.cookie.Encode(internal.COOKIE_SESSION_NAME, session{
		UserID: userID,
		Token:  "legacy-token",
	})
	require.NoError(t, err)

	return &http.Cookie{Name: internal.COOKIE_SESSION_NAME, Value: encoded}
}

func doRequest(svc *Service, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, req)
	return rec
}

// stubCheckout stands in for Stripe: sessions only exist if a test put them
// there, so forged session ids fail verification.
type stubCheckout struct {
	sessions map[string]*stripe.CheckoutSession
}

func (c *stubCheckout) CreateSession(_ context.Context, order *types.Order) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{
		ID:                "cs_test_" + order.ID,
		URL:               "https://checkout.example/" + order.ID,
		ClientReferenceID: order.ID,
	}, nil
}

func (c *stubCheckout) VerifySession(_ context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	checkoutSession, ok := c.sessions[sessionID]
	if !ok {
		return nil, errors.New("no such session")
	}
	return checkoutSession, nil
}
