// Package upstream is the HTTP client for the legacy gazette API. The legacy
// service signals failure inside a 200 response body, so every call decodes
// the envelope and inspects it before trusting the payload.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"egazette/pkg/types"
)

// Header names the legacy API expects. The proxy forwards the same set.
const (
	HeaderContentType = "Content-Type"
	HeaderAppType     = "AppType"
	HeaderAPIToken    = "ApiToken"
)

// Legacy endpoint paths.
const (
	pathParamDetails      = "/API_GetParamDetails"
	pathGazetteList       = "/API_GazetteList"
	pathSubmitApplication = "/API_SubmitApplication"
	pathValidateToken     = "/API_ValidateToken"
)

var (
	ErrUpstreamFailure = errors.New("upstream request failed")
	ErrInvalidToken    = errors.New("upstream rejected token")
)

type Client struct {
	baseURL  string
	appType  string
	apiToken string
	client   *http.Client
	logger   *logrus.Logger
}

func NewClient(config *types.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(config.UpstreamBaseURL, "/"),
		appType:  config.UpstreamAppType,
		apiToken: config.UpstreamAPIToken,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// envelope is the legacy response wrapper. SearchDetail carries the records;
// Message and ExceptionMessage carry failure signals even on HTTP 200.
type envelope struct {
	SearchDetail     []json.RawMessage `json:"SearchDetail"`
	Message          string            `json:"Message"`
	ExceptionMessage string            `json:"ExceptionMessage"`
	ReferenceNumber  string            `json:"ReferenceNumber"`
	Success          bool              `json:"success"`
}

// failed reports whether the envelope signals a legacy-side failure. The
// legacy API writes "An error has occurred" into Message with varying case,
// or populates ExceptionMessage.
func (e envelope) failed() bool {
	if strings.Contains(strings.ToLower(e.Message), "error has occurred") {
		return true
	}
	return e.ExceptionMessage != ""
}

func (e envelope) failureMessage() string {
	if e.ExceptionMessage != "" {
		return e.ExceptionMessage
	}
	return e.Message
}

func (c *Client) do(ctx context.Context, path string, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode upstream payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	req.Header.Set(HeaderContentType, "application/json")
	req.Header.Set(HeaderAppType, c.appType)
	req.Header.Set(HeaderAPIToken, c.apiToken)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstreamFailure, path, res.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response from %s: %w", path, err)
	}

	if env.failed() {
		c.logger.WithFields(logrus.Fields{
			"path":    path,
			"message": env.failureMessage(),
		}).Warn("upstream signalled failure")
		return nil, fmt.Errorf("%w: %s", ErrUpstreamFailure, env.failureMessage())
	}

	return &env, nil
}

// ParamDetails fetches the gazette service catalog. Records the legacy API
// returns in a shape we cannot parse are skipped with a warning rather than
// failing the whole catalog.
func (c *Client) ParamDetails(ctx context.Context) ([]types.Service, error) {
	env, err := c.do(ctx, pathParamDetails, map[string]string{
		"ParamType": "GazetteServices",
	})
	if err != nil {
		return nil, err
	}

	services := make([]types.Service, 0, len(env.SearchDetail))
	for i, raw := range env.SearchDetail {
		service, err := parseService(raw)
		if err != nil {
			c.logger.WithError(err).WithField("index", i).Warn("skipping malformed service record")
			continue
		}
		services = append(services, service)
	}

	return services, nil
}

// GazetteList fetches the fee plan schedule for a gazette type, optionally
// narrowed to one payment plan. Malformed records are skipped with a warning
// rather than failing the whole schedule.
func (c *Client) GazetteList(ctx context.Context, gazetteType, paymentPlan string) ([]types.Plan, error) {
	env, err := c.do(ctx, pathGazetteList, map[string]string{
		"GazetteType": gazetteType,
		"PaymentPlan": paymentPlan,
	})
	if err != nil {
		return nil, err
	}

	plans := make([]types.Plan, 0, len(env.SearchDetail))
	for i, raw := range env.SearchDetail {
		plan, err := parsePlan(raw)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"gazetteType": gazetteType,
				"index":       i,
			}).Warn("skipping malformed fee plan record")
			continue
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

type SubmitRequest struct {
	ServiceID       string         `json:"ServiceID"`
	FeeID           string         `json:"FeeID"`
	UserID          string         `json:"UserID"`
	ApplicationData map[string]any `json:"ApplicationData"`
}

// SubmitApplication registers the application with the legacy system and
// returns its reference number.
func (c *Client) SubmitApplication(ctx context.Context, req SubmitRequest) (string, error) {
	env, err := c.do(ctx, pathSubmitApplication, req)
	if err != nil {
		return "", err
	}

	if env.ReferenceNumber == "" {
		return "", fmt.Errorf("%w: submission returned no reference number", ErrUpstreamFailure)
	}
	return env.ReferenceNumber, nil
}

type tokenDetail struct {
	UserID string `json:"UserID"`
	Email  string `json:"Email"`
}

// ValidateToken checks an opaque session token against the legacy API and
// returns the user it belongs to.
func (c *Client) ValidateToken(ctx context.Context, token string) (userID, email string, err error) {
	env, err := c.do(ctx, pathValidateToken, map[string]string{
		"Token": token,
	})
	if err != nil {
		if errors.Is(err, ErrUpstreamFailure) {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return "", "", err
	}

	if len(env.SearchDetail) == 0 {
		return "", "", ErrInvalidToken
	}

	var detail tokenDetail
	if err := json.Unmarshal(env.SearchDetail[0], &detail); err != nil {
		return "", "", fmt.Errorf("failed to decode token detail: %w", err)
	}
	if detail.UserID == "" {
		return "", "", ErrInvalidToken
	}

	return detail.UserID, detail.Email, nil
}
