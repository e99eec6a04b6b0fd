// Package morpho is the client for the Morpho GraphQL API. It is the only
// place the upstream API is spoken to; everything it returns is treated as
// untrusted input and re-validated by the analytics core.
package morpho

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/rdelorme/vaultlens/pkg/httputil"
	"github.com/rdelorme/vaultlens/pkg/logger"
)

// Sentinel errors surfaced to the service layer.
var (
	ErrVaultNotFound = errors.New("vault not found for given address / chain id")
	ErrNoHistory     = errors.New("no historical data available for this vault")
)

// Client handles communication with the Morpho GraphQL API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiURL     string

	// Process-local limiter; a shared Redis limiter can additionally be
	// attached to the underlying HTTP client.
	limiter *rate.Limiter
}

// NewClient creates a new Morpho API client.
func NewClient(apiURL string, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		apiURL:     apiURL,
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// runQuery executes a GraphQL query and decodes the data field into dest.
// GraphQL-level errors are returned as Go errors.
func (c *Client) runQuery(ctx context.Context, query string, variables map[string]interface{}, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	resp, err := c.httpClient.PostJSON(ctx, c.apiURL, graphqlRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return fmt.Errorf("morpho request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("morpho returned status %d", resp.StatusCode)
	}

	var payload graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode morpho response failed: %w", err)
	}

	if len(payload.Errors) > 0 {
		msgs := make([]string, len(payload.Errors))
		for i, e := range payload.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
	}

	if dest != nil && payload.Data != nil {
		if err := json.Unmarshal(payload.Data, dest); err != nil {
			return fmt.Errorf("decode graphql data failed: %w", err)
		}
	}

	return nil
}
