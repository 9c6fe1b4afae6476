// pkg/checker/teams.go
package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// An empty MessageCard payload triggers a distinctive 400 from live
// webhooks without posting anything visible to the channel.
const teamsMissingSummaryBody = "Summary or Text is required."

const teamsNotifyText = "This webhook has been detected as a secret leaked in GitHub.\n\n" +
	"Please delete the Incoming Webhook connector with the name shown at the top of this message and create a new one.\n\n" +
	"You should store the new webhook URL in a secure location.\n\n" +
	"Secrets such as webhooks should not be stored in code or related locations in the repository such as an issue."

// TeamsWebhookChecker validates Microsoft Teams / Office 365 incoming
// webhook URLs. It also implements Notifier: a notification posts a
// warning MessageCard into the channel behind the leaked webhook.
type TeamsWebhookChecker struct {
	client *http.Client

	// hostSuffix and pathPrefix identify an Office webhook URL.
	hostSuffix string
	pathPrefix string
}

// NewTeamsWebhookChecker creates a new Teams webhook checker.
func NewTeamsWebhookChecker() *TeamsWebhookChecker {
	return NewTeamsWebhookCheckerWithClient(nil)
}

// NewTeamsWebhookCheckerWithClient creates a checker with a custom HTTP
// client (for testing).
func NewTeamsWebhookCheckerWithClient(client *http.Client) *TeamsWebhookChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &TeamsWebhookChecker{
		client:     client,
		hostSuffix: ".webhook.office.com",
		pathPrefix: "/webhookb2/",
	}
}

// Name returns the checker name, matching GitHub's secret type.
func (c *TeamsWebhookChecker) Name() string {
	return "microsoft_teams_webhook"
}

// Description returns the checker description.
func (c *TeamsWebhookChecker) Description() string {
	return "Validates Microsoft Teams/Office 365 incoming webhook URLs"
}

// Kind returns the secret kind this checker handles.
func (c *TeamsWebhookChecker) Kind() string {
	return "microsoft_teams_webhook"
}

// Check posts an empty payload to the webhook. A live webhook answers
// 400 with a "Summary or Text is required." body; a revoked one answers
// 410.
func (c *TeamsWebhookChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	webhookURL, outcome, ok := c.parseWebhookURL(secret)
	if !ok {
		return outcome, nil
	}

	status, body, err := c.post(ctx, webhookURL, map[string]any{})
	if err != nil {
		return types.Outcome{}, err
	}

	switch {
	case status == http.StatusBadRequest && body == teamsMissingSummaryBody:
		return types.Valid("webhook accepted the probe"), nil
	case status == http.StatusGone:
		return types.Invalid("webhook has been removed"), nil
	default:
		return types.Errorf("unexpected response: HTTP %d %s", status, body), nil
	}
}

// Notify posts a leaked-secret warning card to the webhook's channel.
func (c *TeamsWebhookChecker) Notify(ctx context.Context, secret string) error {
	webhookURL, _, ok := c.parseWebhookURL(secret)
	if !ok {
		return fmt.Errorf("not an Office webhook URL")
	}

	card := map[string]any{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"summary":    "Webhook detected as leaked secret",
		"themeColor": "FF0000",
		"title":      "Webhook detected as leaked secret",
		"text":       teamsNotifyText,
	}

	status, body, err := c.post(ctx, webhookURL, card)
	if err != nil {
		return err
	}
	if status != http.StatusOK || body != "1" {
		return fmt.Errorf("notification rejected: HTTP %d %s", status, body)
	}
	return nil
}

// parseWebhookURL confirms the secret is an Office webhook URL. A shape
// mismatch is a definitive invalid outcome, not an error.
func (c *TeamsWebhookChecker) parseWebhookURL(secret string) (string, types.Outcome, bool) {
	raw := strings.TrimSpace(secret)

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", types.Invalid("not a valid URL"), false
	}
	if !strings.HasSuffix(parsed.Host, c.hostSuffix) {
		return "", types.Invalid("not a webhook.office.com link"), false
	}
	if !strings.HasPrefix(parsed.Path, c.pathPrefix) {
		return "", types.Invalid("not an incoming webhook path"), false
	}

	return parsed.String(), types.Outcome{}, true
}

func (c *TeamsWebhookChecker) post(ctx context.Context, webhookURL string, payload map[string]any) (int, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", webhookURL, bytes.NewReader(data))
	if err != nil {
		return 0, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return 0, "", fmt.Errorf("reading response: %w", err)
	}

	return resp.StatusCode, strings.TrimSpace(string(body)), nil
}
