// Package validator checks the shape of ingested payloads.
package validator

import "fmt"

// ReasonShape is the ValidationError reason for a payload of the wrong shape.
const ReasonShape = "must be string or structured record"

// ValidationError reports a payload that cannot enter the pipeline.
type ValidationError struct {
	Reason string
	Type   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload (%s): %s", e.Type, e.Reason)
}

// Validate reports whether payload is a string or a JSON object decoded as map[string]interface{}.
// Any other shape, including arrays, numbers, and null, returns false with a *ValidationError.
func Validate(payload interface{}) (bool, error) {
	switch payload.(type) {
	case string, map[string]interface{}:
		return true, nil
	}
	return false, &ValidationError{Reason: ReasonShape, Type: typeName(payload)}
}

func typeName(payload interface{}) string {
	switch payload.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", payload)
}
