package payment

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

// Client is the external payment provider used to charge and refund users.
// Refund must be safe to call more than once for the same charge: the
// provider treats repeated refunds of a captured charge as a no-op.
type Client interface {
	Charge(ctx context.Context, userID string, amount int64, idempotencyKey string) (*domain.ChargeReceipt, error)
	Refund(ctx context.Context, chargeID string) error
}

type httpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a payment client against the given provider base URL
func NewClient(baseURL, apiKey string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chargeRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

type chargeResponse struct {
	ChargeID string `json:"charge_id"`
	Status   string `json:"status"`
}

// Charge captures amount from the user's account. The idempotency key is
// forwarded to the provider so a retried request cannot double-charge.
func (c *httpClient) Charge(ctx context.Context, userID string, amount int64, idempotencyKey string) (*domain.ChargeReceipt, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgChargeRequested, "user_id", userID, "amount", amount)

	body, err := json.Marshal(chargeRequest{UserID: userID, Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EndpointCharge, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.apiKey)
	if idempotencyKey != "" {
		req.Header.Set(HeaderIdempotencyKey, idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: provider returned status %d: %s", domain.ErrPaymentFailed, resp.StatusCode, respBody)
	}

	var cr chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("%w: failed to decode charge response: %v", domain.ErrPaymentFailed, err)
	}
	if cr.ChargeID == "" {
		return nil, fmt.Errorf("%w: provider returned empty charge id", domain.ErrPaymentFailed)
	}

	log.Info(LogMsgChargeSucceeded, "user_id", userID, "charge_id", cr.ChargeID)

	return &domain.ChargeReceipt{
		ChargeID: cr.ChargeID,
		Status:   cr.Status,
	}, nil
}

// Refund reverses a captured charge
func (c *httpClient) Refund(ctx context.Context, chargeID string) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRefundRequested, "charge_id", chargeID)

	url := c.baseURL + fmt.Sprintf(EndpointRefund, chargeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create refund request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRefundFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: provider returned status %d: %s", domain.ErrRefundFailed, resp.StatusCode, respBody)
	}

	log.Info(LogMsgRefundSucceeded, "charge_id", chargeID)
	return nil
}
