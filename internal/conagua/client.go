package conagua

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// CONAGUA's SINA service publishes one JSON report per day with the storage
// of every monitored dam in Mexico.
const defaultBaseURL = "https://sinav30.conagua.gob.mx:8080/PresasPG/presas/reporte"

// ErrNoReport means CONAGUA has no report for the requested date.
var ErrNoReport = errors.New("no report for date")

// Client is an HTTP client for the CONAGUA daily dam report
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new CONAGUA client
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a new CONAGUA client with a custom base URL (for testing)
func NewClientWithBaseURL(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchReport downloads the raw report for date. It returns ErrNoReport when
// the service answers 404 or with an empty list.
func (c *Client) FetchReport(ctx context.Context, date time.Time) ([]byte, error) {
	day := date.Format("2006-01-02")
	log.Debugf("FetchReport %s begins (from CONAGUA)", day)

	body, err := c.doRequest(ctx, day)
	if err != nil {
		return nil, err
	}

	items, err := ParseReport(body)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", day, err)
	}
	if len(items) == 0 {
		return nil, ErrNoReport
	}

	log.Debugf("FetchReport %s ends: %d dams", day, len(items))
	return body, nil
}

// ParseReport decodes a raw report body. A JSON null decodes to an empty report.
func ParseReport(body []byte) ([]ReportItem, error) {
	var items []ReportItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return items, nil
}

func (c *Client) doRequest(ctx context.Context, day string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+day, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return nil, ErrNoReport
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("CONAGUA returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNoReport
	}
	return body, nil
}
