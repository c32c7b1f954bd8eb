package store

import (
	"context"
	"fmt"
	"time"

	"egazette/internal/utils"
	"egazette/pkg/types"
)

type Applications struct {
	store *Store
}

func NewApplications(s *Store) *Applications {
	return &Applications{store: s}
}

// Create stamps the id and timestamps and appends the application. A zero
// status becomes draft and a zero payment status becomes pending.
func (a *Applications) Create(ctx context.Context, app *types.Application) error {
	now := a.store.now().UTC()
	app.ID = utils.NanoID()
	app.SubmittedAt = now
	app.UpdatedAt = now

	if app.Status == "" {
		app.Status = types.ApplicationStatusDraft
	}
	if !app.Status.Valid() {
		return fmt.Errorf("%w: %s", types.ErrInvalidStatus, app.Status)
	}
	if app.PaymentStatus == "" {
		app.PaymentStatus = types.PaymentStatusPending
	}
	if app.ApplicationData == nil {
		app.ApplicationData = map[string]any{}
	}
	if app.SupportingDocuments == nil {
		app.SupportingDocuments = []types.SupportingDocument{}
	}

	return AddItem(ctx, a.store, KeyApplications, *app)
}

func (a *Applications) ByID(ctx context.Context, id string) (*types.Application, error) {
	apps, err := Collection[types.Application](ctx, a.store, KeyApplications)
	if err != nil {
		return nil, err
	}

	for i := range apps {
		if apps[i].ID == id {
			return &apps[i], nil
		}
	}

	return nil, types.ErrApplicationNotFound
}

func (a *Applications) ByUser(ctx context.Context, userID string) ([]types.Application, error) {
	return FilterByUserID[types.Application](ctx, a.store, KeyApplications, userID)
}

// UpdateByID merges a field patch over the stored record and refreshes
// updatedAt. Missing ids are a silent no-op, matching the store contract.
func (a *Applications) UpdateByID(ctx context.Context, id string, patch map[string]any) error {
	return a.store.UpdateByID(ctx, KeyApplications, id, patch)
}

func (a *Applications) SetStatus(ctx context.Context, id string, status types.ApplicationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %s", types.ErrInvalidStatus, status)
	}
	return a.UpdateByID(ctx, id, map[string]any{"status": string(status)})
}

func (a *Applications) SetPaymentStatus(ctx context.Context, id string, status types.PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %s", types.ErrInvalidStatus, status)
	}
	return a.UpdateByID(ctx, id, map[string]any{"paymentStatus": string(status)})
}

// MarkPaid records a completed payment and its reference on the application.
func (a *Applications) MarkPaid(ctx context.Context, id, reference string) error {
	return a.UpdateByID(ctx, id, map[string]any{
		"paymentStatus":    string(types.PaymentStatusCompleted),
		"paymentReference": reference,
	})
}

// AddDocument appends a supporting document to the application. The
// read-modify-write happens under the store lock.
func (a *Applications) AddDocument(ctx context.Context, id string, doc types.SupportingDocument) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	apps, err := collectionLocked[types.Application](ctx, a.store, KeyApplications)
	if err != nil {
		return err
	}

	for i := range apps {
		if apps[i].ID != id {
			continue
		}
		apps[i].SupportingDocuments = append(apps[i].SupportingDocuments, doc)
		apps[i].UpdatedAt = a.store.now().UTC()
		return saveCollectionLocked(ctx, a.store, KeyApplications, apps)
	}

	return types.ErrApplicationNotFound
}

// Submit flips a draft to submitted, records the upstream reference and the
// estimated completion date derived from the plan's processing days.
func (a *Applications) Submit(ctx context.Context, id, upstreamRef string, processDays int) error {
	patch := map[string]any{
		"status": string(types.ApplicationStatusSubmitted),
	}
	if upstreamRef != "" {
		patch["paymentReference"] = upstreamRef
	}
	if processDays > 0 {
		estimated := a.store.now().UTC().AddDate(0, 0, processDays)
		patch["estimatedCompletion"] = estimated.Format(time.RFC3339Nano)
	}
	return a.UpdateByID(ctx, id, patch)
}

// Stats tallies applications by status. The six status buckets partition the
// collection, so the per-status counts sum to Total.
func (a *Applications) Stats(ctx context.Context) (types.ApplicationStats, error) {
	apps, err := Collection[types.Application](ctx, a.store, KeyApplications)
	if err != nil {
		return types.ApplicationStats{}, err
	}

	stats := types.ApplicationStats{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case types.ApplicationStatusDraft:
			stats.Drafts++
		case types.ApplicationStatusSubmitted:
			stats.Submitted++
		case types.ApplicationStatusUnderReview:
			stats.UnderReview++
		case types.ApplicationStatusProcessing:
			stats.Processing++
		case types.ApplicationStatusCompleted:
			stats.Completed++
		case types.ApplicationStatusRejected:
			stats.Rejected++
		}
	}

	return stats, nil
}
