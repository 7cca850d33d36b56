package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/model"
	"go.uber.org/zap"
)

// Client pushes tickets to an external search service for indexing.
// All calls are best-effort and never affect the API response.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a client. With an empty baseURL every call is a no-op.
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		log:     log,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// IndexTicketPayload is the body of POST /search/index/ticket.
type IndexTicketPayload struct {
	TicketID    int64  `json:"ticket_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Status      string `json:"status"`
}

// IndexTicket pushes one ticket to the search service.
func (c *Client) IndexTicket(ctx context.Context, t *model.Ticket) {
	if c.baseURL == "" {
		return
	}
	payload := IndexTicketPayload{
		TicketID:    int64(t.ID),
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      string(t.Status),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		c.log.Warn("searchindex: marshal", zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search/index/ticket", bytes.NewReader(body))
	if err != nil {
		c.log.Warn("searchindex: new request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("searchindex: request", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("searchindex: unexpected status",
			zap.Int("status", resp.StatusCode), zap.Uint64("ticket_id", t.ID))
	}
}

// RemoveTicket drops a deleted ticket from the index.
func (c *Client) RemoveTicket(ctx context.Context, id uint64) {
	if c.baseURL == "" {
		return
	}
	url := fmt.Sprintf("%s/search/index/ticket/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		c.log.Warn("searchindex: new request", zap.Error(err))
		return
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("searchindex: request", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("searchindex: unexpected status",
			zap.Int("status", resp.StatusCode), zap.Uint64("ticket_id", id))
	}
}

// IndexTicketAsync runs IndexTicket in its own goroutine so API responses
// never wait on the search service.
func (c *Client) IndexTicketAsync(t *model.Ticket) {
	if c.baseURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.IndexTicket(ctx, t)
	}()
}

// RemoveTicketAsync runs RemoveTicket in its own goroutine.
func (c *Client) RemoveTicketAsync(id uint64) {
	if c.baseURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.RemoveTicket(ctx, id)
	}()
}
