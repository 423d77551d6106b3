// Package availability talks to the external service that picks a meeting
// time for a group of users.
package availability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"teamwork/internal/models"
	"teamwork/internal/services"

	"github.com/google/uuid"
)

// Client posts the member list to BaseURL and returns the schedule it answers
// with. 204 and 404 mean no common slot exists.
type Client struct {
	BaseURL string

	client *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type member struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type request struct {
	Members []member `json:"members"`
}

type response struct {
	Schedule json.RawMessage `json:"schedule"`
}

// Find matches services.AvailabilityFunc.
func (c *Client) Find(ctx context.Context, members []models.User) (json.RawMessage, error) {
	req := request{Members: make([]member, 0, len(members))}
	for _, u := range members {
		req.Members = append(req.Members, member{ID: u.ID, Username: u.Username})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build availability request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("availability service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, services.ErrNoAvailabilityFound
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("availability service returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode availability response: %w", err)
	}
	return out.Schedule, nil
}

var _ services.AvailabilityFunc = (*Client)(nil).Find
