package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"egazette/internal/forms"
	"egazette/internal/upstream"
	"egazette/internal/utils"
	"egazette/pkg/types"

	"github.com/sirupsen/logrus"
)

// maxDocumentBytes caps a single supporting document upload at 10 MiB.
const maxDocumentBytes = 10 << 20

func (s *Service) handleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	applications, err := s.applications.ByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to list applications")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, applications)
}

func (s *Service) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.applications.Stats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to compute application stats")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, stats)
}

type createApplicationInput struct {
	ServiceType string            `json:"serviceType"`
	FeeID       string            `json:"feeId"`
	Amount      float64           `json:"amount"`
	FormKind    string            `json:"formKind"`
	FormData    map[string]string `json:"formData"`
}

// handleCreateApplication validates the submitted form against its schema
// and stores a draft. The form kind rides along in applicationData so
// submission can re-check the document minimum later.
func (s *Service) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input createApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(input.ServiceType) == "" {
		s.respondError(w, http.StatusBadRequest, "serviceType is required")
		return
	}

	values := url.Values{}
	for field, value := range input.FormData {
		values.Set(field, value)
	}

	data, fieldErrors, err := forms.ValidateByKind(input.FormKind, values)
	if err != nil {
		if errors.Is(err, forms.ErrUnknownKind) {
			s.respondError(w, http.StatusBadRequest, "unknown form kind")
			return
		}
		s.logger.WithError(err).Error("failed to decode application form")
		s.respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	if len(fieldErrors) > 0 {
		s.respondFieldErrors(w, fieldErrors)
		return
	}

	data["formKind"] = strings.ToLower(input.FormKind)

	application := &types.Application{
		UserID:          userID,
		ServiceType:     input.ServiceType,
		FeeID:           input.FeeID,
		Amount:          input.Amount,
		ApplicationData: data,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to create application")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusCreated, application)
}

// loadOwnedApplication fetches an application and checks it belongs to the
// requesting user. Another user's application reads as not found.
func (s *Service) loadOwnedApplication(w http.ResponseWriter, r *http.Request) (*types.Application, string, bool) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return nil, "", false
	}

	applicationID := strings.TrimSpace(r.PathValue("applicationID"))
	application, err := s.applications.ByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, types.ErrApplicationNotFound) {
			s.respondError(w, http.StatusNotFound, "application not found")
			return nil, "", false
		}
		s.logger.WithError(err).WithField("application_id", applicationID).Error("failed to load application")
		s.internalServerError(w)
		return nil, "", false
	}

	if application.UserID != userID {
		s.respondError(w, http.StatusNotFound, "application not found")
		return nil, "", false
	}

	return application, userID, true
}

func (s *Service) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	application, _, ok := s.loadOwnedApplication(w, r)
	if !ok {
		return
	}

	s.respondJSON(w, http.StatusOK, application)
}

type updateApplicationInput struct {
	FormData map[string]string `json:"formData"`
}

// handleUpdateApplication patches the form data of a draft. Submitted
// applications are immutable from the portal side.
func (s *Service) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	application, _, ok := s.loadOwnedApplication(w, r)
	if !ok {
		return
	}

	if application.Status != types.ApplicationStatusDraft {
		s.respondError(w, http.StatusConflict, "only draft applications can be edited")
		return
	}

	var input updateApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data := application.ApplicationData
	if data == nil {
		data = map[string]any{}
	}
	for field, value := range input.FormData {
		data[field] = value
	}

	err := s.applications.UpdateByID(ctx, application.ID, map[string]any{
		"applicationData": data,
	})
	if err != nil {
		s.logger.WithError(err).WithField("application_id", application.ID).Error("failed to update application")
		s.internalServerError(w)
		return
	}

	updated, err := s.applications.ByID(ctx, application.ID)
	if err != nil {
		s.logger.WithError(err).WithField("application_id", application.ID).Error("failed to reload application")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

type statusInput struct {
	Status string `json:"status"`
}

func (s *Service) handleSetApplicationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	application, userID, ok := s.loadOwnedApplication(w, r)
	if !ok {
		return
	}

	var input statusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := types.ApplicationStatus(input.Status)
	if !status.Valid() {
		s.respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := s.applications.SetStatus(ctx, application.ID, status); err != nil {
		s.logger.WithError(err).WithField("application_id", application.ID).Error("failed to set application status")
		s.internalServerError(w)
		return
	}

	notification := &types.Notification{
		UserID:  userID,
		Title:   "Application status updated",
		Message: "Your application for " + application.ServiceType + " is now " + string(status) + ".",
		Type:    types.NotificationTypeStatus,
	}
	if err := s.notifications.Add(ctx, notification); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to record status notification")
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"id": application.ID, "status": status})
}

// handleUploadDocument accepts one multipart file, stores it and attaches
// its metadata to the application.
func (s *Service) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	application, _, ok := s.loadOwnedApplication(w, r)
	if !ok {
		return
	}

	if application.Status != types.ApplicationStatusDraft {
		s.respondError(w, http.StatusConflict, "documents can only be added to drafts")
		return
	}

	if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "document file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	storageKey, err := s.documents.Upload(ctx, application.ID, header.Filename, contentType, file)
	if err != nil {
		s.logger.WithError(err).
			WithField("application_id", application.ID).
			WithField("file_name", header.Filename).
			Error("failed to upload supporting document")
		s.internalServerError(w)
		return
	}

	document := types.SupportingDocument{
		ID:            utils.NanoID(),
		FileName:      header.Filename,
		MimeType:      contentType,
		FileSizeBytes: header.Size,
		StorageKey:    storageKey,
		UploadedAt:    time.Now().UTC(),
	}

	if err := s.applications.AddDocument(ctx, application.ID, document); err != nil {
		s.logger.WithError(err).WithField("application_id", application.ID).Error("failed to attach document")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusCreated, document)
}

// handleSubmitApplication pushes a completed draft into the legacy system.
// The document minimum for the application's form kind must be met first.
func (s *Service) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	application, userID, ok := s.loadOwnedApplication(w, r)
	if !ok {
		return
	}

	if application.Status != types.ApplicationStatusDraft {
		s.respondError(w, http.StatusConflict, "application has already been submitted")
		return
	}

	formKind, _ := application.ApplicationData["formKind"].(string)
	schema, schemaOK := forms.ByKind(formKind)
	if schemaOK && len(application.SupportingDocuments) < schema.MinDocuments {
		s.respondError(w, http.StatusUnprocessableEntity, "not enough supporting documents")
		return
	}

	reference, err := s.upstream.SubmitApplication(ctx, upstream.SubmitRequest{
		ServiceID:       application.ServiceType,
		FeeID:           application.FeeID,
		UserID:          userID,
		ApplicationData: application.ApplicationData,
	})
	if err != nil {
		if errors.Is(err, upstream.ErrUpstreamFailure) {
			s.respondError(w, http.StatusBadGateway, "the gazette office could not accept the application")
			return
		}
		s.logger.WithError(err).WithField("application_id", application.ID).Error("failed to submit application upstream")
		s.internalServerError(w)
		return
	}

	processDays := s.lookupProcessDays(ctx, application.ServiceType, application.FeeID)

	if err := s.applications.Submit(ctx, application.ID, reference, processDays); err != nil {
		s.logger.WithError(err).WithField("application_id", application.ID).Error("failed to record submission")
		s.internalServerError(w)
		return
	}

	notification := &types.Notification{
		UserID:  userID,
		Title:   "Application submitted",
		Message: "Your application for " + application.ServiceType + " was received with reference " + reference + ".",
		Type:    types.NotificationTypeStatus,
	}
	if err := s.notifications.Add(ctx, notification); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to record submission notification")
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"id":        application.ID,
		"status":    types.ApplicationStatusSubmitted,
		"reference": reference,
	})
}

// lookupProcessDays re-reads the fee schedule to estimate completion. The
// schedule being unavailable only costs the estimate, not the submission.
func (s *Service) lookupProcessDays(ctx context.Context, serviceID, feeID string) int {
	if feeID == "" {
		return 0
	}

	plans, err := s.upstream.GazetteList(ctx, serviceID, "")
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"service_id": serviceID,
			"fee_id":     feeID,
		}).Warn("could not load fee schedule for completion estimate")
		return 0
	}

	for _, plan := range plans {
		if plan.FeeID == feeID {
			return plan.ProcessDays
		}
	}
	return 0
}
