// Package stripe implements gateway.Client against the Stripe REST API.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmarchuk/storefront/internal/gateway"
)

const defaultBaseURL = "https://api.stripe.com/v1"

type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
	}
}

type customerResp struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	DefaultSource string `json:"default_source"`
}

type cardResp struct {
	ID       string `json:"id"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

type chargeResp struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type errorResp struct {
	Error struct {
		Code    string `json:"code"`
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) FindCustomer(ctx context.Context, customerID string) (*gateway.Customer, error) {
	var out customerResp
	if err := c.do(ctx, http.MethodGet, "/customers/"+customerID, nil, "", &out); err != nil {
		if ge, ok := err.(*gateway.Error); ok && ge.Code == "resource_missing" {
			return nil, gateway.ErrCustomerNotFound
		}
		return nil, err
	}
	return &gateway.Customer{
		ID:            out.ID,
		Name:          out.Name,
		Email:         out.Email,
		DefaultCardID: out.DefaultSource,
	}, nil
}

func (c *Client) CreateCustomer(ctx context.Context, name, email, cardToken string) (*gateway.Customer, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)
	form.Set("source", cardToken)

	var out customerResp
	if err := c.do(ctx, http.MethodPost, "/customers", form, "", &out); err != nil {
		return nil, err
	}
	return &gateway.Customer{
		ID:            out.ID,
		Name:          out.Name,
		Email:         out.Email,
		DefaultCardID: out.DefaultSource,
	}, nil
}

func (c *Client) ListCards(ctx context.Context, customerID string) ([]gateway.Card, error) {
	var out struct {
		Data []cardResp `json:"data"`
	}
	path := "/customers/" + customerID + "/sources?object=card&limit=10"
	if err := c.do(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}

	cards := make([]gateway.Card, len(out.Data))
	for i, d := range out.Data {
		cards[i] = gateway.Card{ID: d.ID, Last4: d.Last4, ExpMonth: d.ExpMonth, ExpYear: d.ExpYear}
	}
	return cards, nil
}

func (c *Client) RegisterCard(ctx context.Context, customerID, cardToken string) (*gateway.Card, error) {
	form := url.Values{}
	form.Set("source", cardToken)

	var out cardResp
	if err := c.do(ctx, http.MethodPost, "/customers/"+customerID+"/sources", form, "", &out); err != nil {
		return nil, err
	}
	return &gateway.Card{ID: out.ID, Last4: out.Last4, ExpMonth: out.ExpMonth, ExpYear: out.ExpYear}, nil
}

func (c *Client) SetDefaultCard(ctx context.Context, customerID, cardID string) error {
	form := url.Values{}
	form.Set("default_source", cardID)

	var out customerResp
	return c.do(ctx, http.MethodPost, "/customers/"+customerID, form, "", &out)
}

func (c *Client) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", req.Currency)
	form.Set("customer", req.CustomerID)
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	if req.ReceiptEmail != "" {
		form.Set("receipt_email", req.ReceiptEmail)
	}

	var out chargeResp
	if err := c.do(ctx, http.MethodPost, "/charges", form, req.IdempotencyKey, &out); err != nil {
		return nil, err
	}
	return &gateway.Charge{ID: out.ID, Status: out.Status, Amount: out.Amount, Currency: out.Currency}, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, idempotencyKey string, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("stripe: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("stripe: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stripe: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eresp errorResp
		if err := json.Unmarshal(data, &eresp); err != nil || eresp.Error.Message == "" {
			return &gateway.Error{
				Code:    strconv.Itoa(resp.StatusCode),
				Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
			}
		}
		code := eresp.Error.Code
		if code == "" {
			code = eresp.Error.Type
		}
		return &gateway.Error{Code: code, Message: eresp.Error.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("stripe: decode response: %w", err)
		}
	}
	return nil
}
