package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"optihub/internal/metrics"
)

// GatewayOrderRequest is the order-creation payload. Amount is in
// minor units (paise).
type GatewayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// GatewayHTTPClient talks to the payment gateway's order API. One
// attempt per request; retries belong to the caller.
type GatewayHTTPClient struct {
	BaseURL    string
	KeyID      string
	KeySecret  string
	HTTPClient *http.Client
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewGatewayHTTPClient(baseURL, keyID, keySecret string, timeout time.Duration, logger *zap.Logger) *GatewayHTTPClient {
	client := &GatewayHTTPClient{
		BaseURL:   baseURL,
		KeyID:     keyID,
		KeySecret: keySecret,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}

	client.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return client
}

func (c *GatewayHTTPClient) CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error) {
	start := time.Now()

	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.createOrder(ctx, req)
	})

	metrics.GatewayRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.GatewayRequestsTotal.WithLabelValues("ok").Inc()

	return result.(*GatewayOrder), nil
}

func (c *GatewayHTTPClient) createOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("gateway rejected order",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload))
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}

	return &order, nil
}
