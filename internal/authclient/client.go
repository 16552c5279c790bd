// Package authclient talks to the external authentication API. Credentials
// are never stored locally; the client validates registration fields, forwards
// them, and hands back the issued access token.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(authServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(authServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// Registration is the outcome of a successful register call. Subject and
// ExpiresAt come from decoding the token's claims client-side, without
// signature verification; they are zero when the token is opaque.
type Registration struct {
	AccessToken string
	Subject     string
	ExpiresAt   time.Time
}

// Register validates the request fields and forwards them to the auth API.
// Field violations come back as FieldErrors before any network call is made.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Registration, error) {
	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("registration failed: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("registration failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Access == "" {
		return nil, fmt.Errorf("registration response missing access token")
	}

	reg := &Registration{AccessToken: result.Access}
	reg.Subject, reg.ExpiresAt = tokenClaims(result.Access)
	return reg, nil
}

// tokenClaims decodes subject and expiry from the token without verifying
// the signature. The server already authenticated us; this is introspection
// only.
func tokenClaims(token string) (string, time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", time.Time{}
	}

	sub, _ := claims.GetSubject()
	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	return sub, expiresAt
}
