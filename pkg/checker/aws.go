// pkg/checker/aws.go
package checker

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/praetorian-inc/vouch/pkg/types"
)

var (
	awsAccessKeyIDRe = regexp.MustCompile(`^(AKIA|ASIA)[0-9A-Z]{16}$`)
	awsSecretKeyRe   = regexp.MustCompile(`^[A-Za-z0-9/+=]{40}$`)
)

// STSClient interface for STS operations (allows mocking in tests).
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// AWSAccessKeyChecker validates AWS access key pairs using STS
// GetCallerIdentity. The input secret is the pair
// "ACCESS_KEY_ID:SECRET_ACCESS_KEY".
type AWSAccessKeyChecker struct {
	stsClient STSClient // nil means create a client per check with the supplied credentials
}

// NewAWSAccessKeyChecker creates a new AWS credential checker.
func NewAWSAccessKeyChecker() *AWSAccessKeyChecker {
	return &AWSAccessKeyChecker{}
}

// NewAWSAccessKeyCheckerWithClient creates a checker with a custom STS
// client (for testing).
func NewAWSAccessKeyCheckerWithClient(client STSClient) *AWSAccessKeyChecker {
	return &AWSAccessKeyChecker{stsClient: client}
}

// Name returns the checker name.
func (c *AWSAccessKeyChecker) Name() string {
	return "aws_access_key"
}

// Description returns the checker description.
func (c *AWSAccessKeyChecker) Description() string {
	return "Validates AWS access key pairs (ACCESS_KEY_ID:SECRET_ACCESS_KEY) via STS"
}

// Kind returns the secret kind this checker handles.
func (c *AWSAccessKeyChecker) Kind() string {
	return "aws_access_key"
}

// Check calls STS GetCallerIdentity with the key pair. STS rejects dead
// keys with an explicit error; any identity response means the pair is
// live.
func (c *AWSAccessKeyChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	keyID, secretKey, ok := splitKeyPair(secret)
	if !ok {
		return types.Invalid("expected ACCESS_KEY_ID:SECRET_ACCESS_KEY pair"), nil
	}

	client := c.stsClient
	if client == nil {
		cfg, err := config.LoadDefaultConfig(ctx,
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(keyID, secretKey, ""),
			),
			config.WithRegion("us-east-1"),
		)
		if err != nil {
			return types.Outcome{}, fmt.Errorf("creating AWS config: %w", err)
		}
		client = sts.NewFromConfig(cfg)
	}

	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "InvalidClientTokenId") || strings.Contains(msg, "SignatureDoesNotMatch") {
			return types.Invalid("STS rejected the key pair"), nil
		}
		return types.Outcome{}, fmt.Errorf("STS call failed: %w", err)
	}

	return types.Valid(fmt.Sprintf("live credentials for %s", aws.ToString(out.Arn))), nil
}

// splitKeyPair parses and shape-checks an "ID:SECRET" pair.
func splitKeyPair(secret string) (keyID, secretKey string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(secret), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	keyID, secretKey = parts[0], parts[1]
	if !awsAccessKeyIDRe.MatchString(keyID) || !awsSecretKeyRe.MatchString(secretKey) {
		return "", "", false
	}
	return keyID, secretKey, true
}
