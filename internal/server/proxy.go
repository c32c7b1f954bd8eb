package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"egazette/internal/upstream"
)

// proxyClient is shared across proxied requests; the legacy API can be slow.
var proxyClient = &http.Client{Timeout: 30 * time.Second}

// setCORSHeaders goes on every proxied response, errors included, so browser
// clients can always read the outcome.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, AppType, ApiToken, Authorization")
}

// handleProxy forwards /api/* requests to the legacy gazette API unchanged
// except for the path prefix. Preflight requests are answered locally.
func (s *Service) handleProxy(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	upstreamPath := strings.TrimPrefix(r.URL.Path, "/api")
	targetURL := strings.TrimSuffix(s.config.UpstreamBaseURL, "/") + upstreamPath
	if r.URL.RawQuery != "" {
		targetURL += "?" + r.URL.RawQuery
	}

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "could not read request body")
			return
		}
		// The legacy API rejects empty POST bodies, so send an empty
		// JSON object instead.
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, body)
	if err != nil {
		s.logger.WithError(err).WithField("path", upstreamPath).Error("failed to build proxied request")
		s.respondError(w, http.StatusInternalServerError, "proxy request failed")
		return
	}

	contentType := r.Header.Get(upstream.HeaderContentType)
	if contentType == "" && body != nil {
		contentType = "application/json"
	}
	if contentType != "" {
		req.Header.Set(upstream.HeaderContentType, contentType)
	}

	appType := r.Header.Get(upstream.HeaderAppType)
	if appType == "" {
		appType = s.config.UpstreamAppType
	}
	req.Header.Set(upstream.HeaderAppType, appType)

	apiToken := r.Header.Get(upstream.HeaderAPIToken)
	if apiToken == "" {
		apiToken = s.config.UpstreamAPIToken
	}
	req.Header.Set(upstream.HeaderAPIToken, apiToken)

	res, err := proxyClient.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("path", upstreamPath).Error("proxied request failed")
		s.respondError(w, http.StatusInternalServerError, "the gazette service is unreachable")
		return
	}
	defer res.Body.Close()

	if resContentType := res.Header.Get(upstream.HeaderContentType); resContentType != "" {
		w.Header().Set(upstream.HeaderContentType, resContentType)
	}
	w.WriteHeader(res.StatusCode)

	if _, err := io.Copy(w, res.Body); err != nil {
		s.logger.WithError(err).WithField("path", upstreamPath).Error("failed to stream proxied response")
	}
}
