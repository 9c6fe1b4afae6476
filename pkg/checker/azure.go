// pkg/checker/azure.go
package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// AzureStorageChecker validates Azure Storage connection strings by
// listing containers, a lightweight call that exercises the account key.
type AzureStorageChecker struct{}

// NewAzureStorageChecker creates a new Azure Storage checker.
func NewAzureStorageChecker() *AzureStorageChecker {
	return &AzureStorageChecker{}
}

// Name returns the checker name.
func (c *AzureStorageChecker) Name() string {
	return "azure_storage_account_key"
}

// Description returns the checker description.
func (c *AzureStorageChecker) Description() string {
	return "Validates Azure Storage connection strings"
}

// Kind returns the secret kind this checker handles.
func (c *AzureStorageChecker) Kind() string {
	return "azure_storage_account_key"
}

// Check lists containers with the connection string's account key.
func (c *AzureStorageChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	connStr := strings.TrimSpace(secret)

	accountName, ok := parseConnectionString(connStr)
	if !ok {
		return types.Invalid("not an Azure Storage connection string"), nil
	}

	client, err := azblob.NewClientFromConnectionString(connStr, nil)
	if err != nil {
		return types.Invalid(fmt.Sprintf("malformed connection string: %v", err)), nil
	}

	pager := client.NewListContainersPager(nil)
	if _, err := pager.NextPage(ctx); err != nil {
		if isAzureAuthError(err) {
			return types.Invalid("account key rejected"), nil
		}
		return types.Outcome{}, fmt.Errorf("listing containers: %w", err)
	}

	return types.Valid(fmt.Sprintf("live credentials for account %s", accountName)), nil
}

// parseConnectionString confirms the AccountName and AccountKey segments
// are present and returns the account name.
func parseConnectionString(connStr string) (string, bool) {
	var accountName string
	var hasKey bool
	for _, segment := range strings.Split(connStr, ";") {
		key, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}
		switch key {
		case "AccountName":
			accountName = value
		case "AccountKey":
			hasKey = value != ""
		}
	}
	if accountName == "" || !hasKey {
		return "", false
	}
	return accountName, true
}

func isAzureAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "AuthenticationFailed") ||
		strings.Contains(msg, "AuthorizationFailure") ||
		strings.Contains(msg, "InvalidAuthenticationInfo")
}
