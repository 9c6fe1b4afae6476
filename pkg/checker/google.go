// pkg/checker/google.go
package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/praetorian-inc/vouch/pkg/types"
)

var googleAPIKeyRe = regexp.MustCompile(`^AIza[A-Za-z0-9_-]{35}$`)

// Probe endpoint chosen because a denied response still identifies
// whether the key itself is live.
const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json?address=1600+Amphitheatre+Parkway,+Mountain+View,+CA&key="

const (
	googleDeniedStatus         = "REQUEST_DENIED"
	googleInvalidKeyMessage    = "The provided API key is invalid. "
	googleNotAuthorizedMessage = "This API project is not authorized to use this API."
)

// GoogleAPIKeyChecker validates Google API keys against the Maps
// Geocoding API. A key rejected with "project not authorized" is live,
// just scoped to a different Google API.
type GoogleAPIKeyChecker struct {
	endpoint string
	client   *http.Client
}

// NewGoogleAPIKeyChecker creates a new Google API key checker.
func NewGoogleAPIKeyChecker() *GoogleAPIKeyChecker {
	return &GoogleAPIKeyChecker{endpoint: googleGeocodeURL, client: http.DefaultClient}
}

// NewGoogleAPIKeyCheckerWithEndpoint creates a checker probing a custom
// endpoint with a custom client (for testing).
func NewGoogleAPIKeyCheckerWithEndpoint(endpoint string, client *http.Client) *GoogleAPIKeyChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleAPIKeyChecker{endpoint: endpoint, client: client}
}

// Name returns the checker name, matching GitHub's secret type.
func (c *GoogleAPIKeyChecker) Name() string {
	return "google_api_key"
}

// Description returns the checker description.
func (c *GoogleAPIKeyChecker) Description() string {
	return "Validates Google API keys"
}

// Kind returns the secret kind this checker handles.
func (c *GoogleAPIKeyChecker) Kind() string {
	return "google_api_key"
}

// googleGeocodeResponse is the subset of the geocode response we inspect.
type googleGeocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Check probes the Geocoding API with the key.
func (c *GoogleAPIKeyChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	key := strings.TrimSpace(secret)

	if !googleAPIKeyRe.MatchString(key) {
		return types.Invalid("not a Google API key (expected AIza prefix)"), nil
	}

	// The key is URL-safe by construction once the regex matched.
	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+key, nil)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return types.Errorf("unexpected status code: HTTP %d", resp.StatusCode), nil
	}

	var body googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.Outcome{}, fmt.Errorf("parsing response: %w", err)
	}

	if body.Status == googleDeniedStatus {
		switch body.ErrorMessage {
		case googleInvalidKeyMessage:
			return types.Invalid("Google rejected the API key"), nil
		case googleNotAuthorizedMessage:
			// Live key, but scoped to some other Google API.
			return types.Valid("key is live but not authorized for the Maps API"), nil
		default:
			return types.Errorf("unexpected error message: %s", body.ErrorMessage), nil
		}
	}

	return types.Valid("key accepted by the Maps API"), nil
}
