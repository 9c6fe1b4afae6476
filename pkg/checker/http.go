// pkg/checker/http.go
package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// HTTPChecker validates secrets via HTTP probes defined in YAML.
type HTTPChecker struct {
	def     CheckerDef
	pattern *regexp.Regexp // optional shape check, nil when unset
	client  *http.Client
}

// NewHTTPChecker creates a checker from a YAML definition.
func NewHTTPChecker(def CheckerDef, client *http.Client) (*HTTPChecker, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var pattern *regexp.Regexp
	if def.Pattern != "" {
		var err error
		pattern, err = regexp.Compile(def.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern: %w", err)
		}
	}

	return &HTTPChecker{def: def, pattern: pattern, client: client}, nil
}

// Name returns the checker name.
func (c *HTTPChecker) Name() string {
	return c.def.Name
}

// Description returns the checker description.
func (c *HTTPChecker) Description() string {
	return c.def.Description
}

// Kind returns the secret kind this checker handles.
func (c *HTTPChecker) Kind() string {
	if c.def.Kind != "" {
		return c.def.Kind
	}
	return c.def.Name
}

// Check performs the configured HTTP probe. Status codes outside the
// declared success/failure sets are inconclusive.
func (c *HTTPChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	secret = strings.TrimSpace(secret)

	if c.pattern != nil && !c.pattern.MatchString(secret) {
		return types.Invalid("secret does not match expected format"), nil
	}

	var body io.Reader
	if c.def.HTTP.Body != "" {
		body = strings.NewReader(c.def.HTTP.Body)
	}

	url := c.def.HTTP.URL
	if c.def.HTTP.Auth.Type == "query" {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + c.def.HTTP.Auth.QueryParam + "=" + secret
	}

	req, err := http.NewRequestWithContext(ctx, c.def.HTTP.Method, url, body)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("creating request: %w", err)
	}

	if err := c.applyAuth(req, secret); err != nil {
		return types.Outcome{}, err
	}

	for _, h := range c.def.HTTP.Headers {
		req.Header.Set(h.Name, h.Value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	return c.evaluateResponse(resp.StatusCode)
}

func (c *HTTPChecker) applyAuth(req *http.Request, secret string) error {
	switch c.def.HTTP.Auth.Type {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+secret)
	case "token":
		req.Header.Set("Authorization", "token "+secret)
	case "basic":
		req.SetBasicAuth(c.def.HTTP.Auth.Username, secret)
	case "header":
		req.Header.Set(c.def.HTTP.Auth.HeaderName, secret)
	case "query":
		// Already applied to the URL.
	default:
		return fmt.Errorf("unsupported auth type: %s", c.def.HTTP.Auth.Type)
	}
	return nil
}

func (c *HTTPChecker) evaluateResponse(statusCode int) (types.Outcome, error) {
	for _, code := range c.def.HTTP.SuccessCodes {
		if statusCode == code {
			return types.Valid(fmt.Sprintf("HTTP %d - credentials accepted", statusCode)), nil
		}
	}

	for _, code := range c.def.HTTP.FailureCodes {
		if statusCode == code {
			return types.Invalid(fmt.Sprintf("HTTP %d - credentials rejected", statusCode)), nil
		}
	}

	return types.Errorf("HTTP %d - unexpected status code", statusCode), nil
}
