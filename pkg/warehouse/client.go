// Package warehouse is a thin client for the external project-management
// warehouse that holds the delivery-side record of each client account.
// Values come back stringly typed; normalization happens downstream.
package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client defines the warehouse API operations the dashboard consumes.
type Client interface {
	// GetListRecord fetches the external record stored under a folder/list pair.
	GetListRecord(ctx context.Context, folderID, listID string) (*Record, error)
}

// GoalRecord is one client goal as stored in the warehouse.
type GoalRecord struct {
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
}

// Record is the raw warehouse view of an account. Numeric fields arrive as
// display strings ("1,250", "$1,000") and dates as RFC 3339 strings; absent
// fields are empty. Goals is nil when the warehouse returned no goals field
// at all, as opposed to an explicitly empty list.
type Record struct {
	Name               string       `json:"name"`
	BusinessUnit       string       `json:"businessUnit"`
	AccountManager     string       `json:"accountManager"`
	TeamManager        string       `json:"teamManager"`
	PointsPurchased    string       `json:"pointsPurchased"`
	PointsDelivered    string       `json:"pointsDelivered"`
	RecurringPoints    string       `json:"recurringPointsAllotment"`
	MRR                string       `json:"mrr"`
	ContractStartDate  string       `json:"contractStartDate"`
	ContractRenewalEnd string       `json:"contractRenewalEnd"`
	Goals              []GoalRecord `json:"goals"`
}

// APIError is returned when the warehouse responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("warehouse: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second. The batch sync fans out
// over many accounts; this keeps the warehouse from throttling us.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new warehouse client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) GetListRecord(ctx context.Context, folderID, listID string) (*Record, error) {
	var resp Record
	path := fmt.Sprintf("/folders/%s/lists/%s", folderID, listID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("warehouse: get list record %s/%s: %w", folderID, listID, err)
	}
	return &resp, nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
