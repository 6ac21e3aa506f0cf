package walletapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/domain/port"
	"walletprobe.com/internal/infrastructure/logger"
)

const (
	defaultMaxIdleConns = 100
	maxBalanceBodyBytes = 1 << 20
)

// Client implements the WalletAPI port over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

var _ port.WalletAPI = (*Client)(nil)

type clientOptions struct {
	maxIdleConns int
	transport    http.RoundTripper
}

// Option configures a Client
type Option func(*clientOptions)

// WithMaxIdleConns sizes the keep-alive pool, normally to the peak number
// of virtual users
func WithMaxIdleConns(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.maxIdleConns = n
		}
	}
}

// WithTransport replaces the underlying transport
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// NewClient creates a wallet service client for baseURL, e.g.
// http://localhost:8080/api/v1. No client timeout is set.
func NewClient(baseURL string, logger logger.Logger, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(baseURL, "/")
	u, err := url.Parse(trimmed)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidBaseURL, baseURL)
	}

	o := clientOptions{maxIdleConns: defaultMaxIdleConns}
	for _, opt := range opts {
		opt(&o)
	}

	next := o.transport
	if next == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConns = o.maxIdleConns
		transport.MaxIdleConnsPerHost = o.maxIdleConns
		next = transport
	}

	return &Client{
		baseURL: trimmed,
		httpClient: &http.Client{
			Transport: &instrumentedTransport{next: next, logger: logger},
		},
		logger: logger,
	}, nil
}

// ApplyOperation handles POST {baseURL}/wallet
func (c *Client) ApplyOperation(ctx context.Context, req entity.WalletOperationRequest) (*entity.OperationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode operation: %w", err)
	}

	ctx = withOperation(ctx, strings.ToLower(string(req.OperationType)))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/wallet", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build operation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	return &entity.OperationResult{Status: resp.StatusCode}, nil
}

// GetBalance handles GET {baseURL}/balance/{walletId}. A body that is not a
// balance document is reported through DecodeErr, not as an error.
func (c *Client) GetBalance(ctx context.Context, walletID uuid.UUID) (*entity.BalanceQueryResult, error) {
	endpoint := c.baseURL + "/balance/" + url.PathEscape(walletID.String())

	ctx = withOperation(ctx, "balance")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build balance request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	result := &entity.BalanceQueryResult{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBalanceBodyBytes))
	if err != nil {
		result.DecodeErr = fmt.Errorf("failed to read balance body: %w", err)
		return result, nil
	}

	var payload entity.BalanceResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		result.DecodeErr = fmt.Errorf("invalid balance body: %w", err)
		return result, nil
	}
	result.Balance = payload.Balance

	return result, nil
}

// drainAndClose lets the transport reuse the connection
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
