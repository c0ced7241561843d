// Package scoring evaluates one resume against a criteria list using the LLM.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fmuoria/resume-ranker/internal/models"
)

// Oracle is the LLM boundary the scorer talks to: one blocking request
// carrying a system instruction and user content, answered with JSON text.
type Oracle interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

const scoringInstruction = "You are an expert resume evaluator."

// Scorer evaluates resumes using the LLM.
type Scorer struct {
	oracle Oracle
}

// NewScorer creates a new scorer backed by the given oracle.
func NewScorer(oracle Oracle) *Scorer {
	return &Scorer{oracle: oracle}
}

// ScoreResume evaluates the resume text against each criterion, returning the
// oracle's per-criterion scores and explanations plus the candidate name it
// extracted. The result is untrusted as-is: keys may be missing or extra, and
// scores unbounded. The batch aggregator normalizes it. Any transport failure
// or non-JSON response is returned as an error; the caller treats that as a
// per-document failure, not a batch failure.
func (s *Scorer) ScoreResume(ctx context.Context, text string, criteria []string) (models.EvaluationResult, error) {
	prompt, err := buildScoringPrompt(text, criteria)
	if err != nil {
		return models.EvaluationResult{}, err
	}

	response, err := s.oracle.Generate(ctx, scoringInstruction, prompt)
	if err != nil {
		return models.EvaluationResult{}, fmt.Errorf("error evaluating resume: %w", err)
	}

	result, err := parseEvaluation(response)
	if err != nil {
		return models.EvaluationResult{}, fmt.Errorf("error evaluating resume: %w", err)
	}

	return result, nil
}

// buildScoringPrompt assembles the rubric, the resume text, and the criteria
// list (order preserved) into a single user prompt.
func buildScoringPrompt(text string, criteria []string) (string, error) {
	criteriaJSON, err := json.MarshalIndent(criteria, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode criteria: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Evaluate the following resume against the given criteria. For each criterion:\n")
	sb.WriteString("- Assign a score from 0-5 where:\n")
	sb.WriteString("  0: No relevant experience/qualification\n")
	sb.WriteString("  1: Minimal match\n")
	sb.WriteString("  3: Meets expectations\n")
	sb.WriteString("  5: Exceeds expectations\n")
	sb.WriteString("- Consider both explicit mentions and implied experience\n")
	sb.WriteString("- Extract the candidate's name from the resume\n\n")

	sb.WriteString("Resume:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")

	sb.WriteString("Criteria to evaluate:\n")
	sb.Write(criteriaJSON)
	sb.WriteString("\n\n")

	sb.WriteString("Return a JSON object with:\n")
	sb.WriteString(`1. "name": Candidate's full name (or "Unknown" if not found)` + "\n")
	sb.WriteString(`2. "scores": Dictionary mapping each criterion to its score (0-5)` + "\n")
	sb.WriteString(`3. "explanations": Brief explanation for each score` + "\n")

	return sb.String(), nil
}

// parseEvaluation extracts the evaluation object from the LLM response,
// tolerating extra text around the JSON body.
func parseEvaluation(response string) (models.EvaluationResult, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return models.EvaluationResult{}, fmt.Errorf("no JSON found in response")
	}

	var result models.EvaluationResult
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return models.EvaluationResult{}, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return result, nil
}
