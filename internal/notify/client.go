package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/angelmondragon/affilidash-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// Client manages notification state on the upstream aggregator API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logg       *logger.Logger
}

func NewClient(cfg config.UpstreamConfig, logg *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.APIBaseURL,
		token:      cfg.Token,
		logg:       logg,
	}
}

type idsPayload struct {
	NotificationIDs []string `json:"notification_ids"`
}

// MarkRead flags the ids as read upstream.
func (c *Client) MarkRead(ctx context.Context, ids []string) error {
	return c.post(ctx, "/api/affiliate/notifications/mark-read", ids)
}

// MarkUnread flags the ids as unread upstream.
func (c *Client) MarkUnread(ctx context.Context, ids []string) error {
	return c.post(ctx, "/api/affiliate/notifications/mark-unread", ids)
}

// Delete removes the ids upstream.
func (c *Client) Delete(ctx context.Context, ids []string) error {
	return c.post(ctx, "/api/affiliate/notifications/delete", ids)
}

func (c *Client) post(ctx context.Context, path string, ids []string) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification ids are required")
	}

	body, err := json.Marshal(idsPayload{NotificationIDs: ids})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding notification ids")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building notification request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notification request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The upstream token is no longer valid; the session must re-auth.
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "notification credentials rejected")
	case resp.StatusCode >= 300:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("notification request returned %d", resp.StatusCode)).
			WithDetails(map[string]any{"path": path, "status": resp.StatusCode})
	}
	return nil
}
