// pkg/checker/postgres.go
package checker

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// PostgresChecker validates PostgreSQL connection URLs by attempting a
// connection with pgx's low-level pgconn (no pooling). Auth failures are
// definitive; network failures are inconclusive.
type PostgresChecker struct {
	connect func(ctx context.Context, connString string) error
}

// NewPostgresChecker creates a new PostgreSQL credential checker.
func NewPostgresChecker() *PostgresChecker {
	return &PostgresChecker{
		connect: func(ctx context.Context, connString string) error {
			conn, err := pgconn.Connect(ctx, connString)
			if err != nil {
				return err
			}
			return conn.Close(ctx)
		},
	}
}

// NewPostgresCheckerWithDialer creates a checker with a custom connect
// function (for testing).
func NewPostgresCheckerWithDialer(connect func(ctx context.Context, connString string) error) *PostgresChecker {
	return &PostgresChecker{connect: connect}
}

// Name returns the checker name.
func (c *PostgresChecker) Name() string {
	return "postgres"
}

// Description returns the checker description.
func (c *PostgresChecker) Description() string {
	return "Validates PostgreSQL connection URLs by attempting a connection"
}

// Kind returns the secret kind this checker handles.
func (c *PostgresChecker) Kind() string {
	return "postgres"
}

// Check attempts a connection with the URL's embedded credentials.
func (c *PostgresChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	connString := strings.TrimSpace(secret)

	parsed, err := url.Parse(connString)
	if err != nil || (parsed.Scheme != "postgres" && parsed.Scheme != "postgresql") {
		return types.Invalid("not a postgres:// connection URL"), nil
	}
	if parsed.User == nil || parsed.User.Username() == "" {
		return types.Invalid("connection URL carries no credentials"), nil
	}

	host := parsed.Hostname()
	if isLocalhost(host) {
		// Local-only credentials can't be verified from here.
		return types.Errorf("skipping localhost address - cannot validate"), nil
	}

	if err := c.connect(ctx, connString); err != nil {
		return c.analyzeConnectionError(err), nil
	}

	return types.Valid(fmt.Sprintf("live credentials for %s@%s", parsed.User.Username(), host)), nil
}

// isLocalhost returns true if the host is a localhost address.
func isLocalhost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// analyzeConnectionError determines the outcome from a connection error.
// pgx reports auth failures with "password authentication failed" or
// "authentication failed"; anything else doesn't prove the credentials
// are dead.
func (c *PostgresChecker) analyzeConnectionError(err error) types.Outcome {
	msg := err.Error()
	if strings.Contains(msg, "authentication failed") {
		return types.Invalid(fmt.Sprintf("credentials rejected: %v", err))
	}
	return types.Errorf("connection failed (unable to verify credentials): %v", err)
}
