// Package common holds shared infrastructure clients.
package common

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"electionwatch/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config contains minimal configuration for creating an S3 client.
// Values are optional and fall back to the standard AWS config chain.
type S3Config struct {
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
}

// S3 wraps the AWS SDK for Go v2 S3 client with the narrow surface the scan
// archive needs.
type S3 struct {
	client *s3.Client
}

// NewS3 creates an S3 wrapper using the default AWS configuration chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return &S3{client: s3.NewFromConfig(awsCfg)}, nil
}

// Put uploads an object to the given bucket/key.
func (s *S3) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	_, err := s.client.PutObject(ctx, in)
	return err
}

// ArchiveRun writes the run result as pretty-printed JSON under
// <prefix>scans/<runID>.json for later auditing.
func (s *S3) ArchiveRun(ctx context.Context, bucket, prefix string, result types.RunResult) error {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	key := prefix + "scans/" + result.RunID + ".json"
	return s.Put(ctx, bucket, key, bytes.NewReader(b), "application/json")
}
