// Package api is the HTTP front door: it validates requests, resolves the
// criteria input union, and hands everything to the batch pipeline.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fmuoria/resume-ranker/internal/agent"
	"github.com/fmuoria/resume-ranker/internal/criteria"
	"github.com/fmuoria/resume-ranker/internal/export"
	"github.com/fmuoria/resume-ranker/internal/ingestion"
	"github.com/fmuoria/resume-ranker/internal/models"
)

const maxUploadBytes = 32 << 20 // 32 MB

// BatchRunner runs the scoring pipeline over a batch of documents.
type BatchRunner interface {
	RunBatch(ctx context.Context, criteria []string, docs []models.Document) (models.BatchReport, error)
}

// CriteriaExtractor derives a criteria list from job description text.
type CriteriaExtractor interface {
	Extract(ctx context.Context, jobDescription string) ([]string, error)
}

// DocumentFetcher provides batch documents from a mailbox instead of an
// upload.
type DocumentFetcher interface {
	FetchDocuments(ctx context.Context, subject string) ([]models.Document, error)
}

// Server handles HTTP requests.
type Server struct {
	batch     BatchRunner
	extractor CriteriaExtractor
	gmail     DocumentFetcher
}

// NewServer creates a new API server. gmail may be nil, in which case the
// gmail ingestion method is reported as unavailable.
func NewServer(batch BatchRunner, extractor CriteriaExtractor, gmail DocumentFetcher) *Server {
	return &Server{
		batch:     batch,
		extractor: extractor,
		gmail:     gmail,
	}
}

// Router returns the HTTP router.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /extract-criteria", s.handleExtractCriteria)
	mux.HandleFunc("POST /score-resumes", s.handleScoreResumes)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "Resume Ranker",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /extract-criteria": "Extract ranking criteria from a job description",
			"POST /score-resumes":    "Score resume files against criteria, returns an Excel report",
			"GET /health":            "Health check",
		},
	})
}

// handleHealth provides a health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleExtractCriteria extracts evaluation criteria from an uploaded job
// description (PDF or DOCX).
func (s *Server) handleExtractCriteria(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read file: %v", err))
		return
	}

	text, err := ingestion.ExtractText(header.Filename, content)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ingestion.ErrUnsupportedFileType) {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	list, err := s.extractor.Extract(r.Context(), text)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []string{}
	}

	s.respondJSON(w, http.StatusOK, models.ExtractCriteriaResponse{Criteria: list})
}

// handleScoreResumes scores a batch of resumes against the supplied criteria
// and responds with an Excel workbook.
func (s *Server) handleScoreResumes(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	rawCriteria := r.FormValue("criteria")
	if rawCriteria == "" {
		s.respondError(w, http.StatusBadRequest, "criteria is required")
		return
	}

	list, err := criteria.Normalize(rawCriteria)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, err := s.collectDocuments(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.batch.RunBatch(r.Context(), list, docs)
	if err != nil {
		s.respondError(w, batchErrorStatus(err), err.Error())
		return
	}
	if len(report.Errors) > 0 {
		log.Printf("Batch finished with %d of %d documents failed", len(report.Errors), len(report.Errors)+len(report.Rows))
	}

	artifact, err := export.WriteReport(report)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate report: %v", err))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.SuggestedFilename(time.Now())))
	if _, err := w.Write(artifact); err != nil {
		log.Printf("Failed to write report response: %v", err)
	}
}

// collectDocuments gathers the batch documents from the request: either the
// uploaded files, or a Gmail subject search when method=gmail.
func (s *Server) collectDocuments(r *http.Request) ([]models.Document, error) {
	if r.FormValue("method") == "gmail" {
		if s.gmail == nil {
			return nil, errors.New("gmail ingestion is not configured")
		}
		subject := r.FormValue("gmail_subject")
		if subject == "" {
			return nil, errors.New("gmail_subject is required for gmail method")
		}
		return s.gmail.FetchDocuments(r.Context(), subject)
	}

	var docs []models.Document
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read uploaded file %s: %w", header.Filename, err)
			}
			docs = append(docs, models.Document{Filename: header.Filename, Content: content})
		}
	}
	return docs, nil
}

// batchErrorStatus maps pipeline errors onto HTTP statuses: everything the
// client caused, including a batch where every document failed, is a 400.
func batchErrorStatus(err error) int {
	var unsupported *agent.UnsupportedFileError
	var allFailed *agent.AllFailedError
	switch {
	case errors.Is(err, agent.ErrNoCriteria),
		errors.Is(err, agent.ErrNoDocuments),
		errors.As(err, &unsupported),
		errors.As(err, &allFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
