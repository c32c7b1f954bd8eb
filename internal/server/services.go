package server

import (
	"errors"
	"net/http"
	"strings"

	"egazette/internal/classify"
	"egazette/internal/forms"
	"egazette/internal/upstream"
	"egazette/pkg/types"
)

// handleListServices serves the cached catalog. An empty cache is refreshed
// from the legacy parameter endpoint and stored for subsequent requests.
func (s *Service) handleListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services, err := s.services.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to list services")
		s.internalServerError(w)
		return
	}

	if len(services) == 0 {
		fetched, err := s.upstream.ParamDetails(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("could not refresh service catalog from upstream")
		} else if len(fetched) > 0 {
			if err := s.services.Save(ctx, fetched); err != nil {
				s.logger.WithError(err).Error("failed to cache service catalog")
			}
			services = fetched
		}
	}

	s.respondJSON(w, http.StatusOK, services)
}

func (s *Service) handleGetService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serviceID := r.PathValue("serviceID")

	service, err := s.services.ByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, types.ErrServiceNotFound) {
			s.respondError(w, http.StatusNotFound, "service not found")
			return
		}
		s.logger.WithError(err).WithField("service_id", serviceID).Error("failed to load service")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, service)
}

// classifiedPlan is a fee plan annotated with the form category the
// classifier assigns it.
type classifiedPlan struct {
	types.Plan
	Category classify.Category `json:"category"`
}

// handleServicePlans fetches the fee schedule from the legacy gazette list
// and classifies each plan so the client knows which form it leads to. An
// optional plan query narrows the schedule to one payment plan.
func (s *Service) handleServicePlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serviceID := r.PathValue("serviceID")

	paymentPlan := strings.TrimSpace(r.URL.Query().Get("plan"))
	plans, err := s.upstream.GazetteList(ctx, serviceID, paymentPlan)
	if err != nil {
		if errors.Is(err, upstream.ErrUpstreamFailure) {
			s.respondError(w, http.StatusBadGateway, "fee schedule is unavailable")
			return
		}
		s.logger.WithError(err).WithField("service_id", serviceID).Error("failed to fetch fee plans")
		s.internalServerError(w)
		return
	}

	classified := make([]classifiedPlan, 0, len(plans))
	for _, plan := range plans {
		classified = append(classified, classifiedPlan{
			Plan:     plan,
			Category: classify.Classify(serviceID, plan),
		})
	}

	s.respondJSON(w, http.StatusOK, classified)
}

// handleServiceForm resolves which application form a chosen fee plan
// requires. An unclassifiable plan returns every schema with a manual
// selection flag instead of failing.
func (s *Service) handleServiceForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serviceID := r.PathValue("serviceID")

	feeID := strings.TrimSpace(r.URL.Query().Get("fee"))
	if feeID == "" {
		s.respondError(w, http.StatusBadRequest, "fee query parameter is required")
		return
	}

	plans, err := s.upstream.GazetteList(ctx, serviceID, "")
	if err != nil {
		if errors.Is(err, upstream.ErrUpstreamFailure) {
			s.respondError(w, http.StatusBadGateway, "fee schedule is unavailable")
			return
		}
		s.logger.WithError(err).WithField("service_id", serviceID).Error("failed to fetch fee plans")
		s.internalServerError(w)
		return
	}

	var plan *types.Plan
	for i := range plans {
		if plans[i].FeeID == feeID {
			plan = &plans[i]
			break
		}
	}
	if plan == nil {
		s.respondError(w, http.StatusNotFound, "fee plan not found")
		return
	}

	category := classify.Classify(serviceID, *plan)
	schema, ok := forms.SchemaFor(category)
	if !ok {
		s.respondJSON(w, http.StatusOK, map[string]any{
			"category":                category,
			"requiresManualSelection": true,
			"schemas":                 forms.Schemas(),
		})
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"category":                category,
		"requiresManualSelection": false,
		"schema":                  schema,
	})
}

func (s *Service) handleListForms(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, forms.Schemas())
}
