package sqs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/iyhunko/product-reviews/internal/config"
)

const clientMaxAttempts = 3

// NewClient builds the SQS client shared by the review publisher and the
// notification consumer. Credentials come from the default AWS chain; a
// configured endpoint (LocalStack) replaces the regional one.
func NewClient(ctx context.Context, conf config.AWSConfig) (*sqs.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithRetryMaxAttempts(clientMaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if conf.Endpoint != "" {
			slog.Info("using custom SQS endpoint", slog.String("endpoint", conf.Endpoint))
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	}), nil
}
