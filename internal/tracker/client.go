// Package tracker fetches tickets, pull requests, and projects from the
// configured work-tracking API.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the tracker REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client. Returns nil if baseURL is empty (tracker disabled).
func New(baseURL, token string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchTickets returns the open tickets assigned to the configured user.
func (c *Client) FetchTickets(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket
	if err := c.get(ctx, "/api/tickets", url.Values{"state": {"open"}}, &tickets); err != nil {
		return nil, fmt.Errorf("tracker.FetchTickets: %w", err)
	}
	return tickets, nil
}

// FetchPullRequests returns active pull requests the user authored or reviews.
func (c *Client) FetchPullRequests(ctx context.Context) ([]PullRequest, error) {
	var prs []PullRequest
	if err := c.get(ctx, "/api/pullrequests", url.Values{"status": {"active"}}, &prs); err != nil {
		return nil, fmt.Errorf("tracker.FetchPullRequests: %w", err)
	}
	return prs, nil
}

// FetchProjects returns the user's tracked projects.
func (c *Client) FetchProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/api/projects", nil, &projects); err != nil {
		return nil, fmt.Errorf("tracker.FetchProjects: %w", err)
	}
	return projects, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}
