// Package secrets resolves the build system credential. A token set directly in
// the environment wins; otherwise it is read from AWS Secrets Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

const (
	resourceNotFoundException = "ResourceNotFoundException"
	accessDeniedException     = "AccessDeniedException"
)

var (
	ErrNoSource       = errors.New("no token source configured")
	ErrSecretNotFound = errors.New("secret not found")
	ErrAccessDenied   = errors.New("access denied to secret")
	ErrSecretEmpty    = errors.New("secret has no value")
)

// ManagerAPI is the subset of the Secrets Manager client used here.
type ManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// NewManagerAPI builds a Secrets Manager client from the default AWS credential chain.
func NewManagerAPI(ctx context.Context, region string) (ManagerAPI, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// ResolveToken returns envToken when set, otherwise the value of secretID.
// api is only consulted in the second case and may be nil otherwise.
func ResolveToken(ctx context.Context, envToken, secretID string, api ManagerAPI) (string, error) {
	if token := strings.TrimSpace(envToken); token != "" {
		return token, nil
	}
	if secretID == "" {
		return "", ErrNoSource
	}
	if api == nil {
		return "", fmt.Errorf("secret %q: no Secrets Manager client", secretID)
	}

	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(secretID)})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case resourceNotFoundException:
				return "", fmt.Errorf("secret %q: %w", secretID, ErrSecretNotFound)
			case accessDeniedException:
				return "", fmt.Errorf("secret %q: %w", secretID, ErrAccessDenied)
			}
		}
		return "", fmt.Errorf("get secret %q: %w", secretID, err)
	}

	var value string
	switch {
	case out.SecretString != nil:
		value = *out.SecretString
	case out.SecretBinary != nil:
		value = string(out.SecretBinary)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("secret %q: %w", secretID, ErrSecretEmpty)
	}
	return value, nil
}
