package backend

import (
	"encoding/json"

	"marketchat/pkg/errors"
)

// Each endpoint has exactly one documented success shape. The normalizers
// below decode that shape and nothing else; an unexpected body is an
// INVALID_RESPONSE, never a silent guess between candidate fields.

// dataEnvelope unwraps the `{data: ...}` envelope used by the write
// endpoints. A body that is itself the payload (no "data" key) is accepted
// as the raw form those endpoints also document.
func dataEnvelope(body []byte) (json.RawMessage, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, errors.InvalidResponse("response body is not a JSON object", err)
	}
	if data, ok := probe["data"]; ok {
		return data, nil
	}
	return body, nil
}

// chatListEnvelope decodes the strict `{success, data: []Chat}` shape of the
// chat-list endpoint. success=false or a missing data array is malformed.
func chatListEnvelope(body []byte, out interface{}) error {
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.InvalidResponse("chat list response is not valid JSON", err)
	}
	if !envelope.Success || envelope.Data == nil {
		return errors.InvalidResponse("chat list response missing success/data envelope", nil)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errors.InvalidResponse("chat list data has unexpected shape", err)
	}
	return nil
}
