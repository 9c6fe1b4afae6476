// pkg/checker/snyk.go
package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// Endpoint chosen not to return sensitive data.
const snykOrgsURL = "https://api.snyk.io/rest/orgs?version=2023-11-06"

// SnykTokenChecker validates Snyk API tokens against the orgs endpoint.
// It reports invalid only on an explicit 401/403; anything else
// unexpected is inconclusive.
type SnykTokenChecker struct {
	endpoint string
	client   *http.Client
}

// NewSnykTokenChecker creates a new Snyk API token checker.
func NewSnykTokenChecker() *SnykTokenChecker {
	return &SnykTokenChecker{endpoint: snykOrgsURL, client: http.DefaultClient}
}

// NewSnykTokenCheckerWithEndpoint creates a checker probing a custom
// endpoint with a custom client (for testing).
func NewSnykTokenCheckerWithEndpoint(endpoint string, client *http.Client) *SnykTokenChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &SnykTokenChecker{endpoint: endpoint, client: client}
}

// Name returns the checker name.
func (c *SnykTokenChecker) Name() string {
	return "snyk_api_token"
}

// Description returns the checker description.
func (c *SnykTokenChecker) Description() string {
	return "Validates Snyk API tokens"
}

// Kind returns the secret kind this checker handles.
func (c *SnykTokenChecker) Kind() string {
	return "snyk_api_token"
}

// Check probes the Snyk REST API with the token.
func (c *SnykTokenChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	token := strings.TrimSpace(secret)

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint, nil)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Authorization", "token "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return types.Valid("token accepted by the Snyk API"), nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.Invalid(fmt.Sprintf("token rejected: HTTP %d", resp.StatusCode)), nil
	default:
		return types.Errorf("unexpected status code: HTTP %d", resp.StatusCode), nil
	}
}
