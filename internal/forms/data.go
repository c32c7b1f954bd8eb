package forms

import (
	"encoding/json"
	"errors"
)

var ErrUnknownKind = errors.New("unknown form kind")

// toData flattens a form struct into the generic applicationData shape the
// store persists. Forms are flat string fields, so the round trip is lossless.
func toData(form any) map[string]any {
	raw, err := json.Marshal(form)
	if err != nil {
		return map[string]any{}
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return map[string]any{}
	}
	return data
}
