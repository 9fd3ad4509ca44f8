// Package api is the thin HTTP layer between wallet flows and the
// remote wallet service. Every endpoint answers with the same
// {ok, data, error} envelope; callers get parsed data or an error
// carrying the backend-supplied message when one was present.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/utils"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  utils.ComponentLogger("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token used on authenticated endpoints.
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set(utils.TraceIDHeader, utils.GenerateTraceID())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%s %s: unexpected response (status %d)", method, path, resp.StatusCode)
	}

	if !env.OK {
		message := env.Error
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Str("error", message).Msg("backend rejected request")
		return nil, fmt.Errorf("%s", message)
	}

	return env.Data, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	body := map[string]string{"email": email, "password": password}

	data, err := c.do(ctx, http.MethodPost, "/auth/login", nil, body)
	if err != nil {
		return nil, "", err
	}

	var parsed struct {
		User  *models.UserResponse `json:"user"`
		Token string               `json:"token"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, "", fmt.Errorf("parse login response: %w", err)
	}
	if parsed.User == nil || parsed.Token == "" {
		return nil, "", fmt.Errorf("login response missing user or token")
	}

	return models.UserFromResponse(parsed.User), parsed.Token, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	data, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		User *models.UserResponse `json:"user"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse user response: %w", err)
	}
	if parsed.User == nil {
		return nil, fmt.Errorf("user response missing user")
	}

	return models.UserFromResponse(parsed.User), nil
}

func (c *Client) DepositUSD(ctx context.Context, usdGross money.Money) (*DepositUSDResult, error) {
	if usdGross.Currency != money.USD {
		return nil, fmt.Errorf("deposit-usd amount must be USD, got %s", usdGross.Currency)
	}

	query := url.Values{}
	query.Set("amount", usdGross.Decimal().String())

	data, err := c.do(ctx, http.MethodPost, "/users/deposit-usd", query, nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		NewTrx         *models.TransactionResponse `json:"newTrx"`
		AccountBalance float64                     `json:"accountBalance"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse deposit-usd response: %w", err)
	}
	if parsed.NewTrx == nil {
		return nil, fmt.Errorf("deposit-usd response missing transaction")
	}

	currency, err := money.ParseCurrency(parsed.NewTrx.Currency)
	if err != nil {
		return nil, fmt.Errorf("deposit-usd response: %w", err)
	}

	return &DepositUSDResult{
		NewTrx: &models.Transaction{
			ID:        parsed.NewTrx.ID,
			Reference: parsed.NewTrx.Reference,
			Type:      models.TransactionType(parsed.NewTrx.Type),
			Amount:    money.FromMajorUnits(parsed.NewTrx.Amount, currency).Amount,
			Currency:  parsed.NewTrx.Currency,
			Status:    models.TransactionStatus(parsed.NewTrx.Status),
			CreatedAt: parsed.NewTrx.CreatedAt,
		},
		AccountBalance: money.FromMajorUnits(parsed.AccountBalance, money.NGN),
	}, nil
}

func (c *Client) GetUSDStatus(ctx context.Context, reference string) (*USDStatus, error) {
	query := url.Values{}
	query.Set("reference", reference)

	data, err := c.do(ctx, http.MethodGet, "/users/user/usdt-status", query, nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Status  string  `json:"status"`
		Balance float64 `json:"balance"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse usdt-status response: %w", err)
	}

	return &USDStatus{
		Status:  models.TransactionStatus(parsed.Status),
		Balance: money.FromMajorUnits(parsed.Balance, money.USD),
	}, nil
}

// GetExchangeRate fetches the current NGN per USD rate. The backend
// sends the rate as a string; negative values are treated as sign
// noise and absoluted, zero is rejected.
func (c *Client) GetExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	data, err := c.do(ctx, http.MethodGet, "/virtual-card/exchange-rate", nil, nil)
	if err != nil {
		return decimal.Zero, err
	}

	var parsed struct {
		Rate string `json:"rate"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("parse exchange-rate response: %w", err)
	}

	rateVal, err := strconv.ParseFloat(parsed.Rate, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid exchange rate %q: %w", parsed.Rate, err)
	}

	rate := decimal.NewFromFloat(math.Abs(rateVal))
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("exchange rate unavailable")
	}

	return rate, nil
}

func (c *Client) VerifyBVN(ctx context.Context, params IdentityParams) (*KYCResult, error) {
	return c.verifyIdentity(ctx, "/kyc/verify-bvn", params)
}

func (c *Client) VerifyNIN(ctx context.Context, params IdentityParams) (*KYCResult, error) {
	return c.verifyIdentity(ctx, "/kyc/verify-nin", params)
}

func (c *Client) VerifyCAC(ctx context.Context, params IdentityParams) (*KYCResult, error) {
	return c.verifyIdentity(ctx, "/kyc/verify-cac", params)
}

func (c *Client) VerifyCorporate(ctx context.Context, params IdentityParams) (*KYCResult, error) {
	return c.verifyIdentity(ctx, "/kyc/verify-corporate", params)
}

func (c *Client) verifyIdentity(ctx context.Context, path string, params IdentityParams) (*KYCResult, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}

	data, err := c.do(ctx, http.MethodPost, path, query, nil)
	if err != nil {
		return nil, err
	}

	var result KYCResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse verification response: %w", err)
	}

	return &result, nil
}
