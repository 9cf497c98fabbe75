// internal/config/ses.go
package config

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

// SESConfig holds the SES client used by the ses mail transport.
type SESConfig struct {
	Client *sesv2.Client
	From   string
}

// NewSESConfig creates an SES client. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies.
func NewSESConfig(ctx context.Context, cfg *Config) (*SESConfig, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &SESConfig{
		Client: sesv2.NewFromConfig(awsCfg),
		From:   cfg.MailFrom,
	}, nil
}
