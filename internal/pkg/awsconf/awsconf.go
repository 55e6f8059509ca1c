// Package awsconf builds aws-sdk-go-v2 configuration and clients from the
// application's AWS settings.
package awsconf

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/ignite/influencer-roi/internal/config"
)

// Load resolves an aws.Config. Static keys take precedence over a shared
// profile; with neither the default credential chain applies.
func Load(ctx context.Context, c appconfig.AWSConfig) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
	}
	switch {
	case c.AccessKey != "" && c.SecretKey != "":
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	case c.GetAWSProfile() != "":
		opts = append(opts, config.WithSharedConfigProfile(c.GetAWSProfile()))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	return cfg, nil
}

// S3 returns an S3 client. A custom endpoint switches to path-style
// addressing for S3-compatible stores.
func S3(cfg aws.Config, c appconfig.AWSConfig) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})
}

// DynamoDB returns a DynamoDB client.
func DynamoDB(cfg aws.Config, c appconfig.AWSConfig) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	})
}
