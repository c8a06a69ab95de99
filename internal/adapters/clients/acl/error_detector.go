package acl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// errorMember is the top-level member a provider uses to report a failure
// inside an HTTP 200 response.
const errorMember = "Error"

// ErrInvalidJSON is returned when a payload cannot be parsed at all.
var ErrInvalidJSON = errors.New("invalid JSON payload")

// JSONErrorDetector implements ports.ErrorDetector.
type JSONErrorDetector struct{}

// NewJSONErrorDetector creates an error detector.
func NewJSONErrorDetector() *JSONErrorDetector {
	return &JSONErrorDetector{}
}

// DetectError reports whether raw has a top-level "Error" member.
//
// The message is the member's string value when non-empty, or the JSON text of a
// number or boolean. An empty string, null, object or array yields defaultMessage.
// A payload whose top level is not an object carries no error.
func (d *JSONErrorDetector) DetectError(raw, defaultMessage string) (string, bool, error) {
	data := []byte(raw)
	if !json.Valid(data) {
		return "", false, ErrInvalidJSON
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		// Valid JSON that is not an object.
		return "", false, nil
	}

	value, ok := members[errorMember]
	if !ok {
		return "", false, nil
	}

	message, err := errorText(value, defaultMessage)
	if err != nil {
		return "", false, err
	}

	return message, true, nil
}

// errorText renders an error member value as text.
func errorText(value json.RawMessage, defaultMessage string) (string, error) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return defaultMessage, nil
	}

	switch value[0] {
	case '"':
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}

		if text == "" {
			return defaultMessage, nil
		}

		return text, nil
	case '{', '[', 'n':
		return defaultMessage, nil
	default:
		// Numbers and booleans keep their JSON text.
		return string(value), nil
	}
}
