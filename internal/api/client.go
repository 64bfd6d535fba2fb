// Package api is the pipeline's client for the remote submission,
// review and health endpoints. Idempotency of retried submissions is
// the server's contract (keyed on the external id); the client only
// guarantees bounded, fixed-delay retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/publicart/massimport/internal/entities"
)

const (
	defaultTimeout = 30 * time.Second
	healthTimeout  = 5 * time.Second

	pendingPageSize = 100
)

// Client talks to the remote public-art API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	adminToken string
	maxRetries int
	retryDelay time.Duration

	// OnRetry, if set, is called before each retry attempt.
	OnRetry func(attempt int, err error)
}

// NewClient creates a client for the given endpoint. maxRetries is the
// total number of attempts per call; retryDelay is the fixed pause
// between them (fixed, not exponential, so operators can predict run
// duration).
func NewClient(endpoint, token, adminToken string, maxRetries int, retryDelay time.Duration) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    endpoint,
		token:      token,
		adminToken: adminToken,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// SubmissionOutcome is the server's answer to a record submission.
type SubmissionOutcome struct {
	ID              string `json:"id"`
	PhotosSucceeded int    `json:"photos_imported"`
}

type submissionRequest struct {
	ExternalID string            `json:"external_id"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Title      string            `json:"title,omitempty"`
	Artists    []string          `json:"artists,omitempty"`
	CreatorIDs []string          `json:"creator_ids,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
	PhotoURLs  []string          `json:"photo_urls,omitempty"`
	Source     string            `json:"source"`
}

type submissionResponse struct {
	Success        bool     `json:"success"`
	ID             string   `json:"id"`
	PhotosImported int      `json:"photos_imported"`
	Errors         []string `json:"errors,omitempty"`
}

// SubmitRecord creates one artwork submission, retrying transient
// failures with the configured fixed delay.
func (c *Client) SubmitRecord(ctx context.Context, rec entities.CanonicalRecord, creatorIDs []string) (*SubmissionOutcome, error) {
	body := submissionRequest{
		ExternalID: rec.ExternalID,
		Lat:        rec.Lat,
		Lon:        rec.Lon,
		Title:      rec.Title,
		Artists:    rec.ArtistNames,
		CreatorIDs: creatorIDs,
		Tags:       rec.Tags,
		PhotoURLs:  rec.PhotoURLs,
		Source:     rec.Source,
	}

	var resp submissionResponse
	err := c.withRetry(ctx, func() error {
		return c.doJSON(ctx, http.MethodPost, "/api/submissions", nil, body, &resp, c.token)
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &SubmissionError{Messages: resp.Errors}
	}
	return &SubmissionOutcome{ID: resp.ID, PhotosSucceeded: resp.PhotosImported}, nil
}

// NearbyRecords queries existing artworks within radiusMeters of the
// given coordinates.
func (c *Client) NearbyRecords(ctx context.Context, lat, lon, radiusMeters float64) ([]entities.ExistingRecord, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radiusMeters, 'f', -1, 64))

	var resp struct {
		Artworks []entities.ExistingRecord `json:"artworks"`
	}
	err := c.withRetry(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, "/api/artworks/nearby", q, nil, &resp, c.token)
	})
	if err != nil {
		return nil, err
	}
	return resp.Artworks, nil
}

// SearchCreators runs a free-text creator search.
func (c *Client) SearchCreators(ctx context.Context, query string) ([]entities.Creator, error) {
	q := url.Values{}
	q.Set("q", query)

	var resp struct {
		Creators []entities.Creator `json:"creators"`
	}
	err := c.withRetry(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, "/api/creators/search", q, nil, &resp, c.token)
	})
	if err != nil {
		return nil, err
	}
	return resp.Creators, nil
}

// CreateCreator creates a new creator record and returns its id.
func (c *Client) CreateCreator(ctx context.Context, name string, tags map[string]string) (string, error) {
	body := map[string]any{"name": name, "tags": tags}
	var resp struct {
		ID string `json:"id"`
	}
	err := c.withRetry(ctx, func() error {
		return c.doJSON(ctx, http.MethodPost, "/api/creators", nil, body, &resp, c.token)
	})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// PendingSubmissions pages through the review queue until limit
// submissions are fetched or the queue is exhausted. limit <= 0 means
// no cap.
func (c *Client) PendingSubmissions(ctx context.Context, limit int) ([]entities.PendingSubmission, error) {
	var all []entities.PendingSubmission

	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("status", "pending")
		q.Set("per_page", strconv.Itoa(pendingPageSize))
		q.Set("page", strconv.Itoa(page))

		var resp struct {
			Submissions []entities.PendingSubmission `json:"submissions"`
		}
		err := c.withRetry(ctx, func() error {
			return c.doJSON(ctx, http.MethodGet, "/api/review/submissions", q, nil, &resp, c.adminTokenOrFallback())
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Submissions) == 0 {
			break
		}

		all = append(all, resp.Submissions...)
		if limit > 0 && len(all) >= limit {
			all = all[:limit]
			break
		}
		if len(resp.Submissions) < pendingPageSize {
			break
		}
	}
	return all, nil
}

// ApprovalOutcome is one item's result from a batched approval.
type ApprovalOutcome struct {
	ID     int64  `json:"id"`
	Status string `json:"status"` // "approved" or "rejected"
	Error  string `json:"error,omitempty"`
}

// ApproveBatch approves one chunk of pending submissions with the
// administrative credential.
func (c *Client) ApproveBatch(ctx context.Context, ids []int64) ([]ApprovalOutcome, error) {
	body := map[string]any{"submission_ids": ids, "action": "approve"}
	var resp struct {
		Results []ApprovalOutcome `json:"results"`
	}
	err := c.withRetry(ctx, func() error {
		return c.doJSON(ctx, http.MethodPut, "/api/review/batch", nil, body, &resp, c.adminToken)
	})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Health pings the remote health endpoint with a short timeout. Used
// by the status command only, never on the hot path.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// withRetry runs fn up to maxRetries times, sleeping retryDelay
// between attempts. Only retryable errors are reattempted, and a
// cancelled context aborts the wait immediately.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if c.OnRetry != nil {
				c.OnRetry(attempt, lastErr)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, token string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		payload, _ := io.ReadAll(resp.Body)
		return &SubmissionError{StatusCode: resp.StatusCode, Messages: []string{string(payload)}}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// adminTokenOrFallback lets dry-run previews of the review queue use
// the lower-privilege import token when no admin token is configured.
func (c *Client) adminTokenOrFallback() string {
	if c.adminToken != "" {
		return c.adminToken
	}
	return c.token
}
