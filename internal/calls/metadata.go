package calls

import (
	"encoding/json"
	"fmt"
)

// Metadata is the call context attached to both the room and the agent
// dispatch so the agent can recover the number it is calling and the
// prompt configuring its behavior. Opaque to everything else.
type Metadata struct {
	PhoneNumber   string `json:"phone_number"`
	PromptContent string `json:"prompt_content"`
}

// Encode serializes the metadata to its canonical JSON form.
func (m Metadata) Encode() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode call metadata: %w", err)
	}
	return string(b), nil
}

// DecodeMetadata parses a metadata blob produced by Encode.
func DecodeMetadata(s string) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return Metadata{}, fmt.Errorf("decode call metadata: %w", err)
	}
	return m, nil
}
