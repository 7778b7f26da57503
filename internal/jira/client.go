package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	baseURL  string
	username string
	apiToken string
	http     *http.Client
}

func NewClient(baseURL, username, apiToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		apiToken: apiToken,
		http:     httpClient,
	}
}

// AddWorklog posts one worklog to issueKey. A non-2xx answer is returned as *APIError.
func (c *Client) AddWorklog(ctx context.Context, issueKey, timeSpent, comment, started string) error {
	body, err := json.Marshal(worklogPayload{
		TimeSpent: timeSpent,
		Comment:   comment,
		Started:   started,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := c.baseURL + "/rest/api/2/issue/" + url.PathEscape(issueKey) + "/worklog"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jira request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return nil
}

// Myself returns the authenticated user, which checks the URL and credentials.
func (c *Client) Myself(ctx context.Context) (*Myself, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/api/2/myself", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var me Myself
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &me, nil
}
