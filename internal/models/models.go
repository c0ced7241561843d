package models

import "math"

// Defaults used when the oracle omits a field from its response.
const (
	// UnknownCandidate is the candidate name recorded when none could be extracted.
	UnknownCandidate = "Unknown"
	// NoExplanation is the explanation recorded for criteria the oracle left unexplained.
	NoExplanation = "No explanation provided"
)

// ExtractCriteriaResponse is the payload returned by the criteria-extraction
// endpoint. It is also one of the accepted criteria input shapes for scoring.
type ExtractCriteriaResponse struct {
	Criteria []string `json:"criteria"`
}

// Document is one uploaded resume: the original filename plus its raw bytes.
type Document struct {
	Filename string
	Content  []byte
}

// EvaluationResult is the oracle's verdict for a single resume. The maps are
// keyed by criterion text and are untrusted: entries may be missing, and extra
// ones may appear. The batch aggregator normalizes them against the requested
// criteria list before anything downstream sees them.
type EvaluationResult struct {
	Name         string            `json:"name"`
	Scores       map[string]int    `json:"scores"`
	Explanations map[string]string `json:"explanations"`
}

// BatchRow is one candidate's fully normalized scoring record, ready for
// tabular rendering. After NewBatchRow the Scores and Explanations key sets
// equal the requested criteria set exactly.
type BatchRow struct {
	Filename      string
	CandidateName string
	Scores        map[string]int
	Explanations  map[string]string
	TotalScore    int
	AverageScore  float64
}

// BatchReport holds one row per successfully processed document, in input
// order, plus the error messages for documents that were skipped.
type BatchReport struct {
	Criteria []string
	Rows     []BatchRow
	Errors   []string
}

// NewBatchRow projects an evaluation result onto the requested criteria list.
// Missing scores default to 0, missing explanations to NoExplanation, and a
// missing candidate name to UnknownCandidate. Keys the oracle returned that
// are not in criteria are dropped. TotalScore sums the per-criterion scores
// after default fill; AverageScore divides by the requested criterion count
// (never the oracle's returned count) and is rounded to two decimals.
func NewBatchRow(filename string, result EvaluationResult, criteria []string) BatchRow {
	row := BatchRow{
		Filename:      filename,
		CandidateName: result.Name,
		Scores:        make(map[string]int, len(criteria)),
		Explanations:  make(map[string]string, len(criteria)),
	}
	if row.CandidateName == "" {
		row.CandidateName = UnknownCandidate
	}

	for _, criterion := range criteria {
		score, ok := result.Scores[criterion]
		if !ok {
			score = 0
		}
		explanation, ok := result.Explanations[criterion]
		if !ok {
			explanation = NoExplanation
		}
		row.Scores[criterion] = score
		row.Explanations[criterion] = explanation
		row.TotalScore += score
	}

	row.AverageScore = roundTwoDecimals(float64(row.TotalScore) / float64(len(criteria)))
	return row
}

func roundTwoDecimals(v float64) float64 {
	return math.Round(v*100) / 100
}
