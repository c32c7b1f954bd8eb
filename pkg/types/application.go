package types

import (
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusDraft       ApplicationStatus = "draft"
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under-review"
	ApplicationStatusProcessing  ApplicationStatus = "processing"
	ApplicationStatusCompleted   ApplicationStatus = "completed"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusDraft, ApplicationStatusSubmitted, ApplicationStatusUnderReview,
		ApplicationStatusProcessing, ApplicationStatusCompleted, ApplicationStatusRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Application is a user's in-progress or submitted request for a gazette
// service. UpdatedAt is refreshed on every mutation and is never earlier
// than SubmittedAt.
type Application struct {
	ID                  string               `json:"id"`
	UserID              string               `json:"userId"`
	ServiceType         string               `json:"serviceType"`
	FeeID               string               `json:"feeId,omitempty"`
	Amount              float64              `json:"amount,omitempty"`
	Status              ApplicationStatus    `json:"status"`
	ApplicationData     map[string]any       `json:"applicationData"`
	SupportingDocuments []SupportingDocument `json:"supportingDocuments"`
	PaymentStatus       PaymentStatus        `json:"paymentStatus"`
	PaymentReference    string               `json:"paymentReference,omitempty"`
	SubmittedAt         time.Time            `json:"submittedAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
	EstimatedCompletion *time.Time           `json:"estimatedCompletion,omitempty"`
}

type SupportingDocument struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	MimeType      string    `json:"mimeType"`
	FileSizeBytes int64     `json:"fileSizeBytes"`
	StorageKey    string    `json:"storageKey"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

// ApplicationStats is a tally of applications by status. The status counts
// partition the collection, so they sum to Total.
type ApplicationStats struct {
	Total       int `json:"total"`
	Drafts      int `json:"drafts"`
	Submitted   int `json:"submitted"`
	UnderReview int `json:"underReview"`
	Processing  int `json:"processing"`
	Completed   int `json:"completed"`
	Rejected    int `json:"rejected"`
}
