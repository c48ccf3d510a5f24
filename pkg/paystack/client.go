package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Paystack API base URL.
	BaseURL = "https://api.paystack.co"
)

// Client is a minimal HTTP client for interacting with the Paystack API.
type Client struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
	debug      bool
}

// NewClient constructs a new Paystack client with sane defaults.
func NewClient(secretKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		secretKey:  secretKey,
		baseURL:    BaseURL,
		debug:      os.Getenv("ENV") == "development",
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// CreateCustomer registers a customer with the gateway and returns its
// customer code. All contact fields are required by Paystack.
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	if req.Email == "" || req.FirstName == "" || req.LastName == "" || req.Phone == "" {
		return nil, fmt.Errorf("customer requires email, first name, last name, and phone")
	}
	var resp customerResponse
	if err := c.doRequest(ctx, http.MethodPost, "/customer", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("customer creation failed: %s", resp.Message)
	}
	return &resp.Data, nil
}

// CreateSubscription subscribes a customer to a plan.
func (c *Client) CreateSubscription(ctx context.Context, customerCode, planCode string) (*Subscription, error) {
	req := subscriptionRequest{Customer: customerCode, Plan: planCode}
	var resp subscriptionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/subscription", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("subscription creation failed: %s", resp.Message)
	}
	return &resp.Data, nil
}

// InitializeTransaction starts a checkout transaction and returns the
// authorization URL the buyer is redirected to. Amount is in major currency
// units and converted to the gateway's minor-unit convention here.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount float64, currency, reference string) (*Authorization, error) {
	req := initializeRequest{
		Email:     email,
		Amount:    int64(amount * 100), // Paystack expects minor units (kobo)
		Currency:  currency,
		Reference: reference,
	}
	var resp initializeResponse
	if err := c.doRequest(ctx, http.MethodPost, "/transaction/initialize", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("transaction initialization failed: %s", resp.Message)
	}
	return &resp.Data, nil
}

// VerifyTransaction queries the gateway for a transaction's status. Only a
// "success" status yields a positive result; anything else is a negative
// verification, not an error.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Verification, error) {
	var resp verifyResponse
	if err := c.doRequest(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("transaction verification failed: %s", resp.Message)
	}
	return &Verification{
		Success: resp.Data.Status == "success",
		// Settled amount comes back in minor units.
		Amount:   float64(resp.Data.Amount) / 100,
		Currency: resp.Data.Currency,
	}, nil
}

// ListSubscriptions returns the subscriptions of a customer.
func (c *Client) ListSubscriptions(ctx context.Context, customerCode string) ([]Subscription, error) {
	var resp subscriptionListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/subscription?customer="+customerCode, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("subscription listing failed: %s", resp.Message)
	}
	return resp.Data, nil
}

// doRequest performs the HTTP call with JSON payloads and decodes the JSON
// response into result.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)

		if c.debug {
			log.Debug().
				Str("endpoint", c.baseURL+endpoint).
				RawJSON("request", payload).
				Msg("[PAYSTACK] Outgoing request")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[PAYSTACK] Incoming response")
	}

	// Paystack encapsulates status in the JSON body; decode regardless of the
	// HTTP status code to surface the provider's error message.
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
