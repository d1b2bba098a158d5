// Package sheets mirrors ebook submissions to an external spreadsheet-style
// form backend. The backend receives one row per submission over a bearer-
// authenticated HTTP POST; it is a side channel for the editorial team, not
// a system of record, so failures are logged and never block publication.
package sheets

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

const requestTimeout = 10 * time.Second

// Client posts submission rows to the form backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a form-backend client.
// An empty baseURL disables the mirror; Submit becomes a no-op.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

// Enabled reports whether a backend is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// submissionRow is the fixed field mapping the spreadsheet expects.
// Field names are part of the backend contract; don't rename them.
type submissionRow struct {
	Title       string `json:"title"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	PriceCents  int    `json:"price_cents"`
	CoverURL    string `json:"cover_url,omitempty"`
	FileURL     string `json:"file_url,omitempty"`
	SubmittedAt string `json:"submitted_at"`
}

// SubmitEbook mirrors an ebook submission to the backend.
// Only public URLs are sent, never raw files.
func (c *Client) SubmitEbook(ctx context.Context, ebook *domain.Ebook, author *domain.User, coverURL, fileURL string) error {
	if !c.Enabled() {
		return nil
	}

	row := submissionRow{
		Title:       ebook.Title,
		AuthorName:  author.DisplayName,
		AuthorEmail: author.Email,
		PriceCents:  ebook.PriceCents,
		CoverURL:    coverURL,
		FileURL:     fileURL,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("mirroring ebook submission",
		"ebook_id", ebook.ID,
		"title", ebook.Title,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("submit failed: status %d", resp.StatusCode)
	}

	return nil
}
