package types

// Service is a catalog entry for a gazette service. Entries are supplied by
// the upstream API (or seeded) and are immutable once stored.
type Service struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"`
	ProcessingTime    string   `json:"processingTime"`
	Category          string   `json:"category"`
	RequiredDocuments []string `json:"requiredDocuments"`
	Icon              string   `json:"icon"`
}
