package reward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/logger"
)

// Item is a single item to deliver to a user's inventory
type Item struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Rarity   string `json:"rarity"`
}

// Client is the external inventory service that delivers drawn items.
// Grant returns a grant ID usable with Revoke to reverse the delivery.
type Client interface {
	Grant(ctx context.Context, userID string, items []Item) (string, error)
	Revoke(ctx context.Context, grantID string) error
}

type httpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a reward client against the given inventory service base URL
func NewClient(baseURL, apiKey string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type grantRequest struct {
	UserID string `json:"user_id"`
	Items  []Item `json:"items"`
}

type grantResponse struct {
	GrantID string `json:"grant_id"`
}

// Grant delivers items to the user's inventory
func (c *httpClient) Grant(ctx context.Context, userID string, items []Item) (string, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgGrantRequested, "user_id", userID, "item_count", len(items))

	body, err := json.Marshal(grantRequest{UserID: userID, Items: items})
	if err != nil {
		return "", fmt.Errorf("failed to marshal grant request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EndpointGrant, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create grant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRewardGrantFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: service returned status %d: %s", domain.ErrRewardGrantFailed, resp.StatusCode, respBody)
	}

	var gr grantResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("%w: failed to decode grant response: %v", domain.ErrRewardGrantFailed, err)
	}
	if gr.GrantID == "" {
		return "", fmt.Errorf("%w: service returned empty grant id", domain.ErrRewardGrantFailed)
	}

	log.Info(LogMsgGrantSucceeded, "user_id", userID, "grant_id", gr.GrantID)
	return gr.GrantID, nil
}

// Revoke reverses a previous grant
func (c *httpClient) Revoke(ctx context.Context, grantID string) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRevokeRequested, "grant_id", grantID)

	url := c.baseURL + fmt.Sprintf(EndpointRevoke, grantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to revoke grant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("failed to revoke grant: service returned status %d: %s", resp.StatusCode, respBody)
	}

	log.Info(LogMsgRevokeSucceeded, "grant_id", grantID)
	return nil
}
