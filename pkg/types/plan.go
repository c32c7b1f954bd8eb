package types

// Plan is a priced processing tier for a service, parsed and validated from
// the upstream fee schedule. PaymentPlanType carries the legacy numeric form
// category codes ("64" personal, "65" corporate, "66" marriage); the category
// string and free text are fallback signals for classification.
type Plan struct {
	FeeID               string  `json:"feeId"`
	PaymentPlanType     string  `json:"paymentPlanType,omitempty"`
	PaymentPlanCategory string  `json:"paymentPlanCategory,omitempty"`
	Name                string  `json:"name"`
	Description         string  `json:"description,omitempty"`
	Amount              float64 `json:"amount"`
	ProcessDays         int     `json:"processDays,omitempty"`
}
