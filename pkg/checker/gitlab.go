// pkg/checker/gitlab.go
package checker

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// glpat- prefix for modern tokens; older 20-char tokens have no prefix.
var gitlabTokenRe = regexp.MustCompile(`^(glpat-[0-9a-zA-Z_-]{20,}|[0-9a-zA-Z_-]{20,})$`)

// GitLabTokenChecker validates GitLab personal access tokens by fetching
// the token's own user.
type GitLabTokenChecker struct {
	baseURL string // optional, for self-hosted GitLab and tests
}

// NewGitLabTokenChecker creates a new GitLab PAT checker against
// gitlab.com.
func NewGitLabTokenChecker() *GitLabTokenChecker {
	return &GitLabTokenChecker{}
}

// NewGitLabTokenCheckerWithBaseURL creates a checker against a custom
// GitLab instance (self-hosted, or a test server).
func NewGitLabTokenCheckerWithBaseURL(baseURL string) *GitLabTokenChecker {
	return &GitLabTokenChecker{baseURL: baseURL}
}

// Name returns the checker name.
func (c *GitLabTokenChecker) Name() string {
	return "gitlab_personal_access_token"
}

// Description returns the checker description.
func (c *GitLabTokenChecker) Description() string {
	return "Validates GitLab personal access tokens"
}

// Kind returns the secret kind this checker handles.
func (c *GitLabTokenChecker) Kind() string {
	return "gitlab_personal_access_token"
}

// Check fetches the current user with the token. The client is built per
// call since the token is the credential under test.
func (c *GitLabTokenChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	token := strings.TrimSpace(secret)

	if !gitlabTokenRe.MatchString(token) {
		return types.Invalid("not a GitLab token (shape mismatch)"), nil
	}

	var client *gitlab.Client
	var err error
	if c.baseURL != "" {
		client, err = gitlab.NewClient(token, gitlab.WithBaseURL(c.baseURL))
	} else {
		client, err = gitlab.NewClient(token)
	}
	if err != nil {
		return types.Outcome{}, fmt.Errorf("creating GitLab client: %w", err)
	}

	user, resp, err := client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return types.Invalid(fmt.Sprintf("token rejected: HTTP %d", resp.StatusCode)), nil
		}
		return types.Outcome{}, fmt.Errorf("request failed: %w", err)
	}

	return types.Valid(fmt.Sprintf("live token for user %s", user.Username)), nil
}
