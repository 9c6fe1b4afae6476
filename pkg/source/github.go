// pkg/source/github.go
package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/go-github/v57/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// GitHubConfig configures secret-scanning alert enumeration.
type GitHubConfig struct {
	Token      string // GitHub API token (required; alerts need auth)
	Org        string // Organization name (org-level alerts)
	Owner      string // Repository owner (repo-level alerts)
	Repo       string // Repository name (repo-level alerts)
	BaseURL    string // API base URL for GitHub Enterprise (optional)
	State      string // Alert state filter: open, resolved (default open)
	SecretType string // Filter by a specific secret type (optional)
}

// GitHubSource yields secrets from GitHub secret scanning alerts. The
// alert's secret_type becomes the Secret kind, which resolves directly to
// a checker of the same name.
type GitHubSource struct {
	client *github.Client
	config GitHubConfig
}

// NewGitHubSource creates an authenticated GitHub alert source.
func NewGitHubSource(cfg GitHubConfig) (*GitHubSource, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)

	if cfg.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring API base URL: %w", err)
		}
	}

	return NewGitHubSourceWithClient(client, cfg)
}

// NewGitHubSourceWithClient creates a source with a custom client
// (for testing).
func NewGitHubSourceWithClient(client *github.Client, cfg GitHubConfig) (*GitHubSource, error) {
	if cfg.Org == "" && cfg.Repo == "" {
		return nil, fmt.Errorf("either organization or repository must be specified")
	}
	if cfg.Org != "" && cfg.Repo != "" {
		return nil, fmt.Errorf("cannot specify both organization and repository")
	}
	if cfg.Repo != "" && cfg.Owner == "" {
		return nil, fmt.Errorf("owner required when repo specified")
	}
	if cfg.State == "" {
		cfg.State = "open"
	}

	return &GitHubSource{client: client, config: cfg}, nil
}

// Name returns the name of this source.
func (s *GitHubSource) Name() string {
	if s.config.Org != "" {
		return "GitHub Org: " + s.config.Org
	}
	return "GitHub Repo: " + s.config.Owner + "/" + s.config.Repo
}

// Each yields one Secret per alert that exposes its secret value,
// paginating until exhausted.
func (s *GitHubSource) Each(ctx context.Context, callback func(Secret) error) error {
	opts := &github.SecretScanningAlertListOptions{
		State:       s.config.State,
		SecretType:  s.config.SecretType,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		alerts, resp, err := s.listAlerts(ctx, opts)
		if err != nil {
			return fmt.Errorf("listing secret scanning alerts: %w", err)
		}

		for _, alert := range alerts {
			if err := ctx.Err(); err != nil {
				return err
			}

			// Alerts without an exposed secret value can't be validated.
			if alert.GetSecret() == "" {
				log.Debug().Int("alert", alert.GetNumber()).Msg("alert has no secret value, skipping")
				continue
			}

			metadata := map[string]string{
				"source":       "GitHub Secret Scanning",
				"alert_number": strconv.Itoa(alert.GetNumber()),
				"state":        alert.GetState(),
				"url":          alert.GetHTMLURL(),
			}
			if repo := alert.GetRepository(); repo != nil {
				metadata["repository"] = repo.GetFullName()
			}

			err := callback(Secret{
				Value:    alert.GetSecret(),
				Kind:     alert.GetSecretType(),
				Metadata: metadata,
			})
			if err != nil {
				return err
			}
		}

		if resp.NextPage == 0 {
			return nil
		}
		opts.ListOptions.Page = resp.NextPage
	}
}

func (s *GitHubSource) listAlerts(ctx context.Context, opts *github.SecretScanningAlertListOptions) ([]*github.SecretScanningAlert, *github.Response, error) {
	if s.config.Org != "" {
		return s.client.SecretScanning.ListAlertsForOrg(ctx, s.config.Org, opts)
	}
	return s.client.SecretScanning.ListAlertsForRepo(ctx, s.config.Owner, s.config.Repo, opts)
}
