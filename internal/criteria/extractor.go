package criteria

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Oracle is the LLM boundary the extractor talks to: one blocking request
// carrying a system instruction and user content, answered with JSON text.
type Oracle interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// extractionInstruction tells the model what counts as a usable criterion.
// The wording is tunable; the output shape ({"criteria": [string]}) is not.
const extractionInstruction = `Analyze the job description and extract only the essential criteria that directly help evaluate candidate qualifications. Focus on:

1. Required and preferred qualifications:
- Educational requirements
- Years of experience
- Technical skills and proficiencies
- Certifications and licenses
- Domain expertise
- Required languages (programming or spoken)

2. Measurable competencies:
- Specific tools or technologies
- Performance metrics
- Leadership experience (number of direct reports, budget size)
- Project scale indicators

Ignore:
- Generic soft skills (unless specifically quantified)
- Company culture statements
- Basic job responsibilities
- Benefits and perks
- Location requirements (unless specialized)

Format each criterion as a clear, actionable statement.

Return a JSON object with a 'criteria' array containing the extracted criteria as strings.`

// Extractor derives an evaluation criteria list from a job description.
type Extractor struct {
	oracle Oracle
}

// NewExtractor creates an extractor backed by the given oracle.
func NewExtractor(oracle Oracle) *Extractor {
	return &Extractor{oracle: oracle}
}

// Extract asks the oracle for the criteria found in the job description text.
// A malformed or incomplete oracle response yields an empty list, never an
// error; only a failed oracle call itself is surfaced.
func (e *Extractor) Extract(ctx context.Context, jobDescription string) ([]string, error) {
	response, err := e.oracle.Generate(ctx, extractionInstruction, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("criteria extraction failed: %w", err)
	}
	return parseCriteriaResponse(response), nil
}

// parseCriteriaResponse pulls the 'criteria' array out of the oracle's
// answer. The oracle is untrusted: anything that does not decode to the
// expected shape becomes an empty list.
func parseCriteriaResponse(response string) []string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return []string{}
	}

	var parsed struct {
		Criteria []string `json:"criteria"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return []string{}
	}
	if parsed.Criteria == nil {
		return []string{}
	}
	return parsed.Criteria
}
