// Package api implements the HTTP client for the work-tracking backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/model"
	"github.com/kovalyshyn/workvol/internal/service"
)

// Client talks to the backend's /works endpoints. Every call except SignIn
// carries the bearer token from the token store; a missing token fails fast
// before any network I/O.
type Client struct {
	tokens     service.TokenStore
	httpClient *http.Client
	baseURL    string
}

var (
	_ service.WorkClient    = (*Client)(nil)
	_ service.Authenticator = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a backend client.
func NewClient(baseURL string, tokens service.TokenStore, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: api.base_url", common.ErrMissingConfig)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Backend wire types. Work items arrive with arbitrary extra fields; only
// the tagged schema below is trusted, and each record is validated before it
// reaches the rest of the client.
type workRecord struct {
	ID       string          `json:"_id"`
	City     string          `json:"city"`
	Object   string          `json:"object"`
	Subname  string          `json:"subname"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	History  []historyRecord `json:"history"`
	Volume   float64         `json:"volume"`
	Done     float64         `json:"done"`
}

type historyRecord struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// FetchWorks retrieves the authoritative work-item snapshot for the
// signed-in user. Records that fail shape validation are skipped with a
// warning rather than poisoning the whole snapshot.
func (c *Client) FetchWorks(ctx context.Context) ([]model.WorkItem, error) {
	resp, err := c.do(ctx, http.MethodGet, "/works/full-datas", nil, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var records []workRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode work list: %v", common.ErrRemoteFailure, err)
	}

	items := make([]model.WorkItem, 0, len(records))
	for _, r := range records {
		item := r.toModel()
		if err := item.Validate(); err != nil {
			slog.Warn("Skipping malformed work record", "error", err)
			continue
		}
		items = append(items, item)
	}

	slog.Debug("Fetched work list", "count", len(items), "skipped", len(records)-len(items))

	return items, nil
}

// AddEntry submits a new history entry. The caller applies the local
// increment only after this returns success.
func (c *Client) AddEntry(ctx context.Context, workID string, amount float64) error {
	body := map[string]any{"workId": workID, "amount": amount}
	resp, err := c.do(ctx, http.MethodPost, "/works/add", body, true)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return checkStatus(resp)
}

// EditLast amends the most recent entry and returns the authoritative
// recomputed ledger state from the response.
func (c *Client) EditLast(ctx context.Context, workID string, amount float64) (model.LedgerState, error) {
	body := map[string]any{"workId": workID, "amount": amount}
	resp, err := c.do(ctx, http.MethodPut, "/works/edit-last", body, true)
	if err != nil {
		return model.LedgerState{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return model.LedgerState{}, err
	}

	var payload struct {
		Work struct {
			History []historyRecord `json:"history"`
			Done    float64         `json:"done"`
		} `json:"work"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.LedgerState{}, fmt.Errorf("%w: failed to decode amended work: %v", common.ErrRemoteFailure, err)
	}

	state := model.LedgerState{
		Done:    payload.Work.Done,
		History: make([]model.HistoryEntry, 0, len(payload.Work.History)),
	}
	for _, h := range payload.Work.History {
		state.History = append(state.History, model.HistoryEntry{Amount: h.Amount, Date: h.Date})
	}
	return state, nil
}

// GenerateReport asks the backend to render a spreadsheet for the request
// and returns the binary payload.
func (c *Client) GenerateReport(ctx context.Context, req model.ReportRequest) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodPost, "/works/report", req, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read report payload: %v", common.ErrRemoteFailure, err)
	}

	slog.Debug("Report downloaded", "object", req.Object, "bytes", len(data))

	return data, nil
}

// SignIn exchanges credentials for a bearer token.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	body := map[string]any{"email": email, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/works/sign-in", body, false)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: failed to decode sign-in response: %v", common.ErrRemoteFailure, err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("%w: server did not return a token", common.ErrRemoteFailure)
	}

	return payload.Token, nil
}

// ChangePassword replaces the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, newPassword string) error {
	body := map[string]any{"newPassword": newPassword}
	resp, err := c.do(ctx, http.MethodPut, "/works/change-password", body, true)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return checkStatus(resp)
}

func (c *Client) do(ctx context.Context, method, path string, body any, authenticated bool) (*http.Response, error) {
	var token string
	if authenticated {
		var err error
		token, err = c.tokens.Token()
		if err != nil {
			// Fail before any network call is attempted.
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteFailure, err)
	}
	return resp, nil
}

// checkStatus surfaces the server's message for non-2xx responses, keeping
// the opaque cause for display.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	data, _ := io.ReadAll(resp.Body)

	var errResp errorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf("%w: %s (status %d)", common.ErrRemoteFailure, errResp.Message, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d", common.ErrRemoteFailure, resp.StatusCode)
}

func (r workRecord) toModel() model.WorkItem {
	item := model.WorkItem{
		ID:       r.ID,
		City:     r.City,
		Object:   r.Object,
		Subname:  r.Subname,
		Category: r.Category,
		Name:     r.Name,
		Unit:     r.Unit,
		Volume:   r.Volume,
		Done:     r.Done,
		History:  make([]model.HistoryEntry, 0, len(r.History)),
	}
	for _, h := range r.History {
		item.History = append(item.History, model.HistoryEntry{Amount: h.Amount, Date: h.Date})
	}
	return item
}
