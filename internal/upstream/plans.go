package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"egazette/pkg/types"
)

// planRecord is the legacy fee schedule row. The legacy API is inconsistent
// about field names across gazette types, so amounts and names each have two
// possible sources.
type planRecord struct {
	FeeID               string      `json:"FeeID"`
	PaymentPlanType     string      `json:"PaymentPlanType"`
	PaymentPlanCategory string      `json:"PaymentPlanCategory"`
	GazetteName         string      `json:"GazetteName"`
	FeeName             string      `json:"FeeName"`
	GazetteFee          json.Number `json:"GazetteFee"`
	FeeAmount           json.Number `json:"FeeAmount"`
	Description         string      `json:"Description"`
	ProcessDays         int         `json:"ProcessDays"`
}

var errMissingFeeID = errors.New("fee plan record has no FeeID")

// parsePlan validates a raw legacy record into a Plan. A record with no fee
// id or no parseable amount is malformed and gets skipped by the caller.
func parsePlan(raw json.RawMessage) (types.Plan, error) {
	var record planRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return types.Plan{}, fmt.Errorf("failed to decode fee plan record: %w", err)
	}

	if strings.TrimSpace(record.FeeID) == "" {
		return types.Plan{}, errMissingFeeID
	}

	amount, err := parseAmount(record)
	if err != nil {
		return types.Plan{}, err
	}

	name := record.GazetteName
	if name == "" {
		name = record.FeeName
	}

	return types.Plan{
		FeeID:               strings.TrimSpace(record.FeeID),
		PaymentPlanType:     strings.TrimSpace(record.PaymentPlanType),
		PaymentPlanCategory: record.PaymentPlanCategory,
		Name:                name,
		Description:         record.Description,
		Amount:              amount,
		ProcessDays:         record.ProcessDays,
	}, nil
}

// serviceRecord is the legacy catalog row returned by the parameter
// endpoint.
type serviceRecord struct {
	ServiceID      string      `json:"ServiceID"`
	ServiceName    string      `json:"ServiceName"`
	Description    string      `json:"Description"`
	Fee            json.Number `json:"Fee"`
	ProcessingTime string      `json:"ProcessingTime"`
	Category       string      `json:"Category"`
	Icon           string      `json:"Icon"`
}

// parseService validates a raw catalog record into a Service. A record with
// no id or name is malformed and gets skipped by the caller.
func parseService(raw json.RawMessage) (types.Service, error) {
	var record serviceRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return types.Service{}, fmt.Errorf("failed to decode service record: %w", err)
	}

	if strings.TrimSpace(record.ServiceID) == "" {
		return types.Service{}, errors.New("service record has no ServiceID")
	}
	if strings.TrimSpace(record.ServiceName) == "" {
		return types.Service{}, fmt.Errorf("service record %s has no name", record.ServiceID)
	}

	var price float64
	if record.Fee != "" {
		parsed, err := record.Fee.Float64()
		if err != nil {
			return types.Service{}, fmt.Errorf("service record %s has unparseable fee %q: %w", record.ServiceID, record.Fee, err)
		}
		price = parsed
	}

	return types.Service{
		ID:             strings.TrimSpace(record.ServiceID),
		Name:           record.ServiceName,
		Description:    record.Description,
		Price:          price,
		ProcessingTime: record.ProcessingTime,
		Category:       record.Category,
		Icon:           record.Icon,
	}, nil
}

// parseAmount prefers GazetteFee and falls back to FeeAmount.
func parseAmount(record planRecord) (float64, error) {
	for _, n := range []json.Number{record.GazetteFee, record.FeeAmount} {
		if n == "" {
			continue
		}
		amount, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("fee plan %s has unparseable amount %q: %w", record.FeeID, n, err)
		}
		if amount < 0 {
			return 0, fmt.Errorf("fee plan %s has negative amount %v", record.FeeID, amount)
		}
		return amount, nil
	}
	return 0, fmt.Errorf("fee plan %s has no amount", record.FeeID)
}
