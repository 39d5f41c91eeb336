// Package catalog is the HTTP client for the GeoFlow ops API: the one-shot
// scope-data fetch and the single scope-save submit. Memoization lives in
// the session, not here; the client is a dumb pipe.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"geoflow-cli/internal/model"
)

const (
	// The server returns data fragments instead of full pages when this
	// marker is present; every request carries it.
	ajaxHeader = "X-Requested-With"
	ajaxValue  = "XMLHttpRequest"

	csrfHeader = "X-CSRFToken"

	sessionCookieName = "sessionid"
	csrfCookieName    = "csrftoken"
)

type Client struct {
	BaseURL   string
	SessionID string
	CSRFToken string

	HTTPClient *http.Client
}

func New(baseURL, sessionID, csrfToken string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SessionID:  sessionID,
		CSRFToken:  csrfToken,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is a non-success HTTP response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Code)
}

func (c *Client) endpoint(projectID, suffix string) string {
	return fmt.Sprintf("%s/projects/%s/%s/", c.BaseURL, url.PathEscape(projectID), suffix)
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(ajaxHeader, ajaxValue)
	if c.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.SessionID})
	}
	if c.CSRFToken != "" {
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: c.CSRFToken})
	}
	return req, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// FetchScopeData loads the full catalog hierarchy and the project's saved
// baseline in one request.
func (c *Client) FetchScopeData(ctx context.Context, projectID string) (*model.ScopeData, error) {
	u := c.endpoint(projectID, "scope-data")
	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch scope data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, URL: u}
	}

	var data model.ScopeData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode scope data: %w", err)
	}
	return &data, nil
}

// SaveScope submits the touched rows as one request. An application-level
// rejection comes back as a decoded response with OK=false and a nil error;
// transport failures and undecodable non-success responses are errors.
func (c *Client) SaveScope(ctx context.Context, projectID string, reqBody model.SaveRequest) (model.SaveResponse, error) {
	u := c.endpoint(projectID, "scope-save")

	b, err := json.Marshal(reqBody)
	if err != nil {
		return model.SaveResponse{}, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return model.SaveResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(csrfHeader, c.CSRFToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return model.SaveResponse{}, fmt.Errorf("save scope: %w", err)
	}
	defer resp.Body.Close()

	var out model.SaveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return model.SaveResponse{}, &StatusError{Code: resp.StatusCode, URL: u}
		}
		return model.SaveResponse{}, fmt.Errorf("decode save response: %w", err)
	}
	return out, nil
}
