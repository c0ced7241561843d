package ingestion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/fmuoria/resume-ranker/internal/models"
)

// GmailHandler fetches resume attachments from a Gmail inbox so a batch can
// be scored straight from an applications mailbox instead of an upload.
type GmailHandler struct {
	service *gmail.Service
}

// NewGmailHandler creates a Gmail handler from an OAuth client credentials
// file and a previously provisioned token file. There is no interactive
// consent flow here; a missing token is an operator error.
func NewGmailHandler(ctx context.Context, credentialsPath, tokenPath string) (*GmailHandler, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client, err := tokenClient(ctx, config, tokenPath)
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{service: srv}, nil
}

// tokenClient builds an HTTP client from a token cached on disk.
func tokenClient(ctx context.Context, config *oauth2.Config, tokenPath string) (*http.Client, error) {
	f, err := os.Open(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read Gmail token (provision it with the OAuth consent flow first): %w", err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("unable to decode Gmail token: %w", err)
	}

	return config.Client(ctx, tok), nil
}

// FetchDocuments returns the PDF and DOCX attachments of every message whose
// subject matches the filter, as in-memory documents in mailbox order.
// Attachments with other extensions are skipped, so the returned set always
// passes the batch filename precheck.
func (gh *GmailHandler) FetchDocuments(ctx context.Context, subject string) ([]models.Document, error) {
	user := "me"
	query := fmt.Sprintf("subject:%s has:attachment", subject)

	r, err := gh.service.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}
	if len(r.Messages) == 0 {
		return nil, fmt.Errorf("no messages found with subject: %s", subject)
	}

	var documents []models.Document
	for _, msg := range r.Messages {
		message, err := gh.service.Users.Messages.Get(user, msg.Id).Context(ctx).Do()
		if err != nil {
			log.Printf("Unable to retrieve message %s: %v", msg.Id, err)
			continue
		}

		for _, part := range message.Payload.Parts {
			if part.Filename == "" || part.Body == nil || part.Body.AttachmentId == "" {
				continue
			}
			if !Supported(part.Filename) {
				log.Printf("Skipping unsupported attachment: %s", part.Filename)
				continue
			}

			attachment, err := gh.service.Users.Messages.Attachments.Get(user, msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				log.Printf("Unable to retrieve attachment %s: %v", part.Filename, err)
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				log.Printf("Unable to decode attachment %s: %v", part.Filename, err)
				continue
			}

			documents = append(documents, models.Document{
				Filename: part.Filename,
				Content:  data,
			})
		}
	}

	if len(documents) == 0 {
		return nil, fmt.Errorf("no PDF or DOCX attachments found with subject: %s", subject)
	}

	return documents, nil
}
