// Package linear fetches issues from the Linear GraphQL API.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andywolf/issuecast/internal/logging"
	"github.com/andywolf/issuecast/internal/version"
	"go.uber.org/zap"
)

const (
	// APIURL is the Linear GraphQL API endpoint
	APIURL = "https://api.linear.app/graphql"

	maxErrorBody = 512
)

// Client is a Linear GraphQL API client
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout. The HTTP client is copied first so a
// client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new Linear API client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    APIURL,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// graphQLResponse represents a GraphQL response
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// graphQLError represents a GraphQL error
type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
		Type string `json:"type"`
	} `json:"extensions"`
}

func (e graphQLError) isAuth() bool {
	switch strings.ToUpper(e.Extensions.Code) {
	case "AUTHENTICATION_ERROR", "FORBIDDEN", "UNAUTHENTICATED":
		return true
	}
	return strings.EqualFold(e.Extensions.Type, "authentication error")
}

// authorization returns the header value. Personal API keys are sent as-is;
// a value that already carries a scheme is passed through.
func (c *Client) authorization() string {
	return strings.TrimSpace(c.token)
}

// FetchIssue fetches one issue by readable key ("ENG-123") or raw ID.
// On error the returned Issue is always nil.
func (c *Client) FetchIssue(ctx context.Context, identifier string) (*Issue, error) {
	kind := Classify(identifier)
	req := BuildQuery(kind, identifier)

	c.logger.Debug("Fetching issue",
		zap.String("identifier", identifier),
		zap.Stringer("kind", kind),
		zap.String("operation", req.OperationName))

	var data struct {
		Issue *issueNode `json:"issue"`
	}
	if err := c.do(ctx, req, identifier, &data); err != nil {
		return nil, err
	}

	if data.Issue == nil {
		return nil, &NotFoundError{Identifier: identifier}
	}

	issue := data.Issue.toIssue()
	c.logger.Info("Fetched issue",
		zap.String("identifier", issue.Identifier),
		zap.Int("children", len(issue.Children)),
		zap.Int("comments", len(issue.Comments)))
	return issue, nil
}

// do executes a GraphQL request and unmarshals the data member into result.
func (c *Client) do(ctx context.Context, req Request, identifier string, result interface{}) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.authorization())
	httpReq.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Message: firstErrorMessage(respBody)}
	case resp.StatusCode == http.StatusBadRequest:
		// Linear reports GraphQL errors (including bad identifiers) with 400.
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &NetworkError{Status: resp.StatusCode, Err: errors.New(firstErrorMessage(respBody))}
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return &NetworkError{Status: resp.StatusCode, Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	if len(gqlResp.Errors) > 0 {
		for _, e := range gqlResp.Errors {
			if e.isAuth() {
				return &AuthError{Message: e.Message}
			}
		}
		return &NotFoundError{Identifier: identifier, Reason: gqlResp.Errors[0].Message}
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return &NotFoundError{Identifier: identifier}
	}

	if err := json.Unmarshal(gqlResp.Data, result); err != nil {
		return &NetworkError{Status: resp.StatusCode, Err: fmt.Errorf("unmarshal data: %w", err)}
	}
	return nil
}

// firstErrorMessage extracts a readable message from an error body.
func firstErrorMessage(body []byte) string {
	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err == nil && len(gqlResp.Errors) > 0 {
		return gqlResp.Errors[0].Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}
