// Package criteria handles the evaluation criteria a batch is scored against:
// normalizing the accepted input shapes into a plain ordered list, and
// extracting a fresh list from a job description via the LLM.
package criteria

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fmuoria/resume-ranker/internal/models"
)

var (
	// ErrInvalidJSON indicates criteria supplied as text that is not valid JSON.
	ErrInvalidJSON = errors.New("criteria is not valid JSON")
	// ErrMissingCriteriaKey indicates parsed criteria without a 'criteria' array of strings.
	ErrMissingCriteriaKey = errors.New("criteria must contain a 'criteria' key with an array of strings")
	// ErrUnsupportedFormat indicates a criteria input shape this service does not accept.
	ErrUnsupportedFormat = errors.New("unsupported criteria format")
)

// Normalize resolves the accepted criteria input shapes into an ordered list
// of criterion strings. Accepted shapes: a JSON-encoded string, a decoded
// map[string]any, or a models.ExtractCriteriaResponse (by value or pointer).
// Order is preserved. An empty list is not an error here; callers that
// require at least one criterion enforce that themselves.
func Normalize(input any) ([]string, error) {
	switch v := input.(type) {
	case string:
		var parsed map[string]json.RawMessage
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			var syntax *json.SyntaxError
			if errors.As(err, &syntax) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
			}
			// Valid JSON that is not an object (e.g. a bare array).
			return nil, fmt.Errorf("%w: top-level value is not an object", ErrMissingCriteriaKey)
		}
		raw, ok := parsed["criteria"]
		if !ok {
			return nil, ErrMissingCriteriaKey
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingCriteriaKey, err)
		}
		return list, nil

	case map[string]any:
		raw, ok := v["criteria"]
		if !ok {
			return nil, ErrMissingCriteriaKey
		}
		return stringSlice(raw)

	case models.ExtractCriteriaResponse:
		return v.Criteria, nil

	case *models.ExtractCriteriaResponse:
		return v.Criteria, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFormat, input)
	}
}

// stringSlice coerces the decoded 'criteria' value into []string. Decoded
// JSON arrays arrive as []any, but a caller may also hand us []string
// directly.
func stringSlice(raw any) ([]string, error) {
	switch items := raw.(type) {
	case []string:
		return items, nil
	case []any:
		list := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %T is not a string", ErrMissingCriteriaKey, item)
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: value is %T, not an array", ErrMissingCriteriaKey, raw)
	}
}
