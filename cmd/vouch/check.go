package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/vouch/pkg/checker"
	"github.com/praetorian-inc/vouch/pkg/config"
	"github.com/praetorian-inc/vouch/pkg/report"
	"github.com/praetorian-inc/vouch/pkg/source"
	"github.com/praetorian-inc/vouch/pkg/store"
	"github.com/praetorian-inc/vouch/pkg/types"
)

var (
	checkTimeout     int
	checkConcurrency int
	checkRate        float64
	checkNotify      bool
	checkFormat      string
	checkOutput      string
	checkColor       string
	checkStorePath   string
	checkFileFormat  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate leaked secrets",
	Long:  "Validate secrets from a file or from GitHub secret scanning alerts.",
}

var checkFileCmd = &cobra.Command{
	Use:   "file <path> [checker]",
	Short: "Validate secrets from a file",
	Long: `Validate secrets read from a text, CSV, or JSON file.
Text files need an explicit checker name; CSV/JSON files may declare a
per-record "type" column/property instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheckFile,
}

var checkGitHubCmd = &cobra.Command{
	Use:   "github",
	Short: "Validate secrets from GitHub secret scanning alerts",
	Long: `Fetch secret scanning alerts for a repository or an organization and
validate each exposed secret with the checker matching its secret type.
Requires a token with secret-scanning read access (--token or GITHUB_TOKEN).`,
	RunE: runCheckGitHub,
}

var (
	githubToken      string
	githubOrg        string
	githubRepo       string
	githubAPIURL     string
	githubState      string
	githubSecretType string
)

func init() {
	for _, cmd := range []*cobra.Command{checkFileCmd, checkGitHubCmd} {
		cmd.Flags().IntVar(&checkTimeout, "timeout", 0, "Per-checker timeout in seconds (default 30, or VOUCH_TIMEOUT)")
		cmd.Flags().IntVar(&checkConcurrency, "concurrency", 0, "Concurrent checker calls (default 4, or VOUCH_CONCURRENCY)")
		cmd.Flags().Float64Var(&checkRate, "rate", 0, "Max validation calls per second, 0 = unlimited")
		cmd.Flags().BoolVarP(&checkNotify, "notify", "n", false, "Notify owners of secrets confirmed valid")
		cmd.Flags().StringVarP(&checkFormat, "format", "f", "csv", "Output format: csv, json, table")
		cmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Output file (default: stdout)")
		cmd.Flags().StringVar(&checkColor, "color", "auto", "Color output: auto, always, never")
		cmd.Flags().StringVar(&checkStorePath, "store", "", "Persist results to a SQLite database at this path")
	}

	checkFileCmd.Flags().StringVar(&checkFileFormat, "file-format", "text", "Input file format: text, csv, json")

	checkGitHubCmd.Flags().StringVar(&githubToken, "token", "", "GitHub API token (or GITHUB_TOKEN env)")
	checkGitHubCmd.Flags().StringVar(&githubOrg, "org", "", "Organization name (or GITHUB_ORG env)")
	checkGitHubCmd.Flags().StringVar(&githubRepo, "repo", "", "Repository as owner/repo (or GITHUB_REPO env)")
	checkGitHubCmd.Flags().StringVar(&githubAPIURL, "api-url", "", "API base URL for GitHub Enterprise (or GITHUB_API_URL env)")
	checkGitHubCmd.Flags().StringVar(&githubState, "state", "open", "Alert state filter: open, resolved")
	checkGitHubCmd.Flags().StringVar(&githubSecretType, "secret-type", "", "Filter alerts by secret type")

	checkCmd.AddCommand(checkFileCmd)
	checkCmd.AddCommand(checkGitHubCmd)
}

func runCheckFile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	var kind string
	if len(args) > 1 {
		kind = args[1]
	}
	if checkFileFormat == source.FormatText && kind == "" {
		return fmt.Errorf("a checker name is required for text input: vouch check file <path> <checker>")
	}

	src, err := source.NewFileSource(args[0], checkFileFormat, kind)
	if err != nil {
		return err
	}

	return runBatch(cmd, cfg, src)
}

func runCheckGitHub(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	token := githubToken
	if token == "" {
		token = cfg.GitHubToken
	}
	if token == "" {
		return fmt.Errorf("a GitHub token is required: use --token or GITHUB_TOKEN")
	}

	org := githubOrg
	if org == "" {
		org = cfg.GitHubOrg
	}
	repo := githubRepo
	if repo == "" {
		repo = cfg.GitHubRepo
	}
	apiURL := githubAPIURL
	if apiURL == "" {
		apiURL = cfg.GitHubAPIURL
	}

	owner, name := splitOwnerRepo(repo)
	if repo != "" && name == "" {
		return fmt.Errorf("invalid repository format, expected owner/repo")
	}

	src, err := source.NewGitHubSource(source.GitHubConfig{
		Token:      token,
		Org:        org,
		Owner:      owner,
		Repo:       name,
		BaseURL:    apiURL,
		State:      githubState,
		SecretType: githubSecretType,
	})
	if err != nil {
		return err
	}

	return runBatch(cmd, cfg, src)
}

// runBatch wires registry, engine, and dispatcher, then renders and
// optionally persists the results.
func runBatch(cmd *cobra.Command, cfg *config.Config, src source.Source) error {
	registry, regErrs := checker.NewDefaultRegistry()
	for _, err := range regErrs {
		log.Warn().Err(err).Msg("checker registration")
	}
	if registry.Len() == 0 {
		return fmt.Errorf("no checkers registered")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Reading secrets from %s...\n", src.Name())
	inputs, err := source.Collect(ctx, src)
	if err != nil {
		return fmt.Errorf("reading secrets: %w", err)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No secrets found")
		return nil
	}

	engine := checker.NewEngine(cfg.Timeout)
	dispatcher := checker.NewDispatcher(registry, engine, checker.DispatcherOptions{
		Workers:       cfg.Concurrency,
		Notify:        cfg.Notify,
		RatePerSecond: cfg.RatePerSecond,
	})

	fmt.Fprintf(cmd.ErrOrStderr(), "Validating %d secrets...\n", len(inputs))
	records := dispatcher.Run(ctx, inputs)

	if checkStorePath != "" {
		if err := persistRecords(checkStorePath, src.Name(), records); err != nil {
			return fmt.Errorf("persisting results: %w", err)
		}
	}

	return outputRecords(cmd, records)
}

// applyFlagOverrides lets CLI flags win over environment configuration.
func applyFlagOverrides(cfg *config.Config) {
	if checkTimeout > 0 {
		cfg.Timeout = time.Duration(checkTimeout) * time.Second
	}
	if checkConcurrency > 0 {
		cfg.Concurrency = checkConcurrency
	}
	if checkRate > 0 {
		cfg.RatePerSecond = checkRate
	}
	if checkNotify {
		cfg.Notify = true
	}
}

// persistRecords writes the batch into a run store.
func persistRecords(path, sourceName string, records []*types.Record) error {
	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.BeginRun(sourceName)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := s.AddRecord(runID, record); err != nil {
			return err
		}
	}
	return nil
}

// outputRecords renders records to stdout or the --output file.
func outputRecords(cmd *cobra.Command, records []*types.Record) error {
	w := cmd.OutOrStdout()
	if checkOutput != "" {
		f, err := os.Create(checkOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return report.Write(w, records, checkFormat, checkColor)
}

// splitOwnerRepo splits "owner/repo" into its two parts.
func splitOwnerRepo(s string) (owner, repo string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}
