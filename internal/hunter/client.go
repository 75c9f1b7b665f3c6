// Package hunter implements the email-finder API client.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/davidshroff27/leadscout/internal/metrics"
)

// Outcome tags the result of a domain search.
type Outcome int

// Domain-search outcomes. Transport and parse failures collapse to
// OutcomeNone so the caller only ever pattern-matches over these three.
const (
	OutcomeEmails Outcome = iota
	OutcomeRestricted
	OutcomeNone
)

// Result is the tagged outcome of FindEmails. Emails is populated only
// when Outcome is OutcomeEmails, and may be empty.
type Result struct {
	Outcome Outcome
	Emails  []string
}

// Client talks to the email-finder HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a Client against the given API base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("hunter"),
	}
}

type accountResponse struct {
	Data json.RawMessage `json:"data"`
}

type domainSearchResponse struct {
	Errors []struct {
		ID string `json:"id"`
	} `json:"errors"`
	Data struct {
		Emails []struct {
			Value string `json:"value"`
		} `json:"emails"`
	} `json:"data"`
}

// ValidateKey checks an API key against the account endpoint. A key is
// valid when the response body carries a "data" field; any transport or
// decode failure counts as invalid.
func (c *Client) ValidateKey(ctx context.Context, apiKey string) bool {
	endpoint := fmt.Sprintf("%s/v2/account?api_key=%s", c.baseURL, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("account request failed", zap.Error(err))
		metrics.ObserveUpstreamCall("hunter", "error")
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	var account accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		c.logger.Debug("account decode failed", zap.Error(err))
		metrics.ObserveUpstreamCall("hunter", "error")
		return false
	}

	valid := account.Data != nil
	if valid {
		metrics.ObserveUpstreamCall("hunter", "ok")
	} else {
		metrics.ObserveUpstreamCall("hunter", "invalid_key")
	}
	return valid
}

// FindEmails resolves a domain to the email addresses the API knows about.
// Failures never surface as errors: a transport or decode problem returns
// OutcomeNone, a restricted key returns OutcomeRestricted, and everything
// else returns OutcomeEmails with whatever values were found.
func (c *Client) FindEmails(ctx context.Context, apiKey, domain string) Result {
	endpoint := fmt.Sprintf("%s/v2/domain-search?domain=%s&api_key=%s",
		c.baseURL, url.QueryEscape(domain), url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Outcome: OutcomeNone}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("domain search request failed", zap.String("domain", domain), zap.Error(err))
		metrics.ObserveUpstreamCall("hunter", "error")
		return Result{Outcome: OutcomeNone}
	}
	defer resp.Body.Close() //nolint:errcheck

	var search domainSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		c.logger.Warn("domain search decode failed", zap.String("domain", domain), zap.Error(err))
		metrics.ObserveUpstreamCall("hunter", "error")
		return Result{Outcome: OutcomeNone}
	}

	if len(search.Errors) > 0 && search.Errors[0].ID == "restricted_account" {
		metrics.ObserveUpstreamCall("hunter", "restricted")
		return Result{Outcome: OutcomeRestricted}
	}

	emails := make([]string, 0, len(search.Data.Emails))
	for _, e := range search.Data.Emails {
		emails = append(emails, e.Value)
	}
	metrics.ObserveUpstreamCall("hunter", "ok")
	return Result{Outcome: OutcomeEmails, Emails: emails}
}
