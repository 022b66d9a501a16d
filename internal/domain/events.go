package domain

import (
	"encoding/json"
	"fmt"
)

// Realtime event names.
const (
	EventSubmitDoodle = "submit_doodle"
	EventNewDoodle    = "new_doodle"
	EventDoodleError  = "doodle_error"
)

// Envelope is the JSON frame exchanged over the realtime channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SubmitDoodlePayload is the inbound submit_doodle body. Image is "header,base64data".
type SubmitDoodlePayload struct {
	Image string `json:"image"`
}

// NewDoodlePayload is broadcast to every session after a doodle is stored.
type NewDoodlePayload struct {
	Image string `json:"image"`
}

// DoodleErrorPayload is sent only to the session whose submission failed.
type DoodleErrorPayload struct {
	Message string `json:"message"`
}

// EncodeEvent marshals payload into an envelope frame.
func EncodeEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s envelope: %w", event, err)
	}
	return frame, nil
}
