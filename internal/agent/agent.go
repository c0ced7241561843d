// Package agent runs the batch scoring pipeline: text extraction and LLM
// evaluation for every document, with per-document fault isolation.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fmuoria/resume-ranker/internal/ingestion"
	"github.com/fmuoria/resume-ranker/internal/models"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoCriteria indicates a batch request whose criteria resolved to an empty list.
	ErrNoCriteria = errors.New("at least one criterion is required")
	// ErrNoDocuments indicates a batch request with no resume files.
	ErrNoDocuments = errors.New("at least one resume file is required")
)

// UnsupportedFileError rejects a whole batch up front because one of its
// filenames carries an extension the extractor cannot handle. Rejecting early
// with the offending name beats silently skipping the file.
type UnsupportedFileError struct {
	Filename string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("unsupported file format for %s, only PDF and DOCX files are accepted", e.Filename)
}

// AllFailedError is returned when every document in a batch failed; it
// carries the individual failure messages.
type AllFailedError struct {
	Errors []string
}

func (e *AllFailedError) Error() string {
	return "No resumes could be processed successfully. Errors: " + strings.Join(e.Errors, "; ")
}

// Evaluator scores one document's text against the criteria list.
type Evaluator interface {
	ScoreResume(ctx context.Context, text string, criteria []string) (models.EvaluationResult, error)
}

// ExtractFunc converts a document's raw bytes into plain text.
type ExtractFunc func(filename string, content []byte) (string, error)

// DefaultConcurrency bounds the batch fan-out so a large upload does not
// hammer the model's rate limits.
const DefaultConcurrency = 4

// Aggregator runs a criteria list over a batch of documents and reduces the
// per-document results into a report.
type Aggregator struct {
	evaluator   Evaluator
	extract     ExtractFunc
	concurrency int
}

// NewAggregator creates an aggregator that extracts text with the ingestion
// package and scores with the given evaluator. concurrency <= 0 falls back to
// DefaultConcurrency.
func NewAggregator(evaluator Evaluator, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{
		evaluator:   evaluator,
		extract:     ingestion.ExtractText,
		concurrency: concurrency,
	}
}

// RunBatch scores every document against the criteria list. Criteria and
// documents must be non-empty, and every filename must carry a supported
// extension; those checks reject the whole batch before any processing
// starts. After that, failures are strictly per-document: a document that
// fails extraction or evaluation contributes an error message instead of a
// row, and only a batch where every document failed is an error. Report rows
// preserve the input document order.
func (a *Aggregator) RunBatch(ctx context.Context, criteria []string, docs []models.Document) (models.BatchReport, error) {
	if len(criteria) == 0 {
		return models.BatchReport{}, ErrNoCriteria
	}
	if len(docs) == 0 {
		return models.BatchReport{}, ErrNoDocuments
	}
	for _, doc := range docs {
		if !ingestion.Supported(doc.Filename) {
			return models.BatchReport{}, &UnsupportedFileError{Filename: doc.Filename}
		}
	}

	// Fan out with collect-then-merge: each goroutine writes only its own
	// slot, and a failure never cancels the other documents.
	rows := make([]*models.BatchRow, len(docs))
	failures := make([]string, len(docs))

	limit := a.concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, doc := range docs {
		g.Go(func() error {
			row, err := a.processDocument(ctx, criteria, doc)
			if err != nil {
				log.Printf("Failed to process %s: %v", doc.Filename, err)
				failures[i] = fmt.Sprintf("Error processing %s: %v", doc.Filename, err)
				return nil
			}
			rows[i] = row
			return nil
		})
	}
	// Errors are recorded per slot, never returned from the group.
	_ = g.Wait()

	report := models.BatchReport{Criteria: criteria}
	for i := range docs {
		if rows[i] != nil {
			report.Rows = append(report.Rows, *rows[i])
		} else {
			report.Errors = append(report.Errors, failures[i])
		}
	}

	if len(report.Rows) == 0 {
		return models.BatchReport{}, &AllFailedError{Errors: report.Errors}
	}

	return report, nil
}

// processDocument handles a single document end to end: extract, score,
// normalize into a row.
func (a *Aggregator) processDocument(ctx context.Context, criteria []string, doc models.Document) (*models.BatchRow, error) {
	text, err := a.extract(doc.Filename, doc.Content)
	if err != nil {
		return nil, err
	}

	result, err := a.evaluator.ScoreResume(ctx, text, criteria)
	if err != nil {
		return nil, err
	}

	row := models.NewBatchRow(doc.Filename, result, criteria)
	return &row, nil
}
