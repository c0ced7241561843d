package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/fmuoria/resume-ranker/internal/agent"
	"github.com/fmuoria/resume-ranker/internal/api"
	"github.com/fmuoria/resume-ranker/internal/config"
	"github.com/fmuoria/resume-ranker/internal/criteria"
	"github.com/fmuoria/resume-ranker/internal/ingestion"
	"github.com/fmuoria/resume-ranker/internal/llm"
	"github.com/fmuoria/resume-ranker/internal/scoring"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	oracle, err := llm.NewVertexAIClient(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, cfg.Model, cfg.OracleTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	defer oracle.Close()

	aggregator := agent.NewAggregator(scoring.NewScorer(oracle), cfg.BatchConcurrency)
	extractor := criteria.NewExtractor(oracle)

	// Gmail ingestion is optional; without a provisioned token the upload
	// path still works.
	var gmail api.DocumentFetcher
	if handler, err := ingestion.NewGmailHandler(ctx, cfg.GmailCredentialsPath, cfg.GmailTokenPath); err != nil {
		log.Printf("Gmail ingestion disabled: %v", err)
	} else {
		gmail = handler
	}

	server := api.NewServer(aggregator, extractor, gmail)

	fmt.Printf("Starting Resume Ranker on port %s...\n", cfg.Port)
	fmt.Printf("Endpoints:\n")
	fmt.Printf("  POST /extract-criteria - Extract ranking criteria from a job description\n")
	fmt.Printf("  POST /score-resumes - Score resumes against criteria, download Excel report\n")

	if err := http.ListenAndServe(":"+cfg.Port, server.Router()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
