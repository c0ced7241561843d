package criteria

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/fmuoria/resume-ranker/internal/models"
)

// TestNormalize_JSONStringRoundTrip tests that encoding a criteria list as
// JSON and normalizing it yields the same list in the same order.
func TestNormalize_JSONStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		list []string
	}{
		{
			name: "Single criterion",
			list: []string{"5+ years of Python experience"},
		},
		{
			name: "Multiple criteria keep order",
			list: []string{"5+ years Python", "AWS certification", "Team leadership"},
		},
		{
			name: "Duplicates are allowed",
			list: []string{"AWS certification", "AWS certification"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := json.Marshal(map[string][]string{"criteria": tt.list})
			if err != nil {
				t.Fatalf("Failed to marshal criteria: %v", err)
			}

			got, err := Normalize(string(encoded))
			if err != nil {
				t.Fatalf("Normalize() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.list) {
				t.Errorf("Normalize() = %v, want %v", got, tt.list)
			}
		})
	}
}

// TestNormalize_InvalidJSON tests that non-JSON text is rejected as malformed.
func TestNormalize_InvalidJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "Plain text",
			input: "not json at all",
		},
		{
			name:  "Truncated object",
			input: `{"criteria": ["Go`,
		},
		{
			name:  "Trailing comma",
			input: `{"criteria": ["Go",]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			if !errors.Is(err, ErrInvalidJSON) {
				t.Errorf("Normalize(%q) error = %v, want ErrInvalidJSON", tt.input, err)
			}
		})
	}
}

// TestNormalize_SchemaViolations tests that valid JSON without the expected
// criteria array is rejected as a schema violation, not a parse error.
func TestNormalize_SchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{
			name:  "Wrong key",
			input: `{"criterion": ["5+ years Python"]}`,
		},
		{
			name:  "Criteria is not an array",
			input: `{"criteria": "5+ years Python"}`,
		},
		{
			name:  "Criteria array of numbers",
			input: `{"criteria": [1, 2, 3]}`,
		},
		{
			name:  "Top-level array",
			input: `["5+ years Python"]`,
		},
		{
			name:  "Map without criteria key",
			input: map[string]any{"criterion": []any{"Go"}},
		},
		{
			name:  "Map with non-string element",
			input: map[string]any{"criteria": []any{"Go", 42}},
		},
		{
			name:  "Map with non-array value",
			input: map[string]any{"criteria": "Go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			if !errors.Is(err, ErrMissingCriteriaKey) {
				t.Errorf("Normalize() error = %v, want ErrMissingCriteriaKey", err)
			}
		})
	}
}

// TestNormalize_MapInput tests the decoded-mapping input shape.
func TestNormalize_MapInput(t *testing.T) {
	want := []string{"AWS certification", "5+ years Python"}

	got, err := Normalize(map[string]any{"criteria": []any{"AWS certification", "5+ years Python"}})
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}

	// Callers may also hand over []string directly.
	got, err = Normalize(map[string]any{"criteria": want})
	if err != nil {
		t.Fatalf("Normalize() failed for []string value: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

// TestNormalize_TypedInput tests the typed-object input shape, by value and
// by pointer.
func TestNormalize_TypedInput(t *testing.T) {
	want := []string{"Kubernetes experience"}
	resp := models.ExtractCriteriaResponse{Criteria: want}

	got, err := Normalize(resp)
	if err != nil {
		t.Fatalf("Normalize(value) failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize(value) = %v, want %v", got, want)
	}

	got, err = Normalize(&resp)
	if err != nil {
		t.Fatalf("Normalize(pointer) failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize(pointer) = %v, want %v", got, want)
	}
}

// TestNormalize_UnsupportedShape tests that unknown input types are rejected.
func TestNormalize_UnsupportedShape(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "Integer", input: 42},
		{name: "String slice", input: []string{"Go"}},
		{name: "Nil", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Normalize(%T) error = %v, want ErrUnsupportedFormat", tt.input, err)
			}
		})
	}
}
