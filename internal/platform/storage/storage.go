// Package storage writes rendered receipts to a local directory or an S3
// bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrInvalidKey = errors.New("invalid object key")

// cleanKey rejects absolute keys and keys that escape the root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean(strings.TrimSpace(key))
	if cleaned == "." || cleaned == "" || strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

type Local struct {
	Root string
}

func NewLocal(root string) *Local {
	return &Local{Root: root}
}

// Put writes data under Root and returns the file path.
func (l *Local) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	target := filepath.Join(l.Root, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}

// PutObjectAPI is the part of the S3 client used here.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 struct {
	Bucket string
	client PutObjectAPI
}

func NewS3(client PutObjectAPI, bucket string) *S3 {
	return &S3{Bucket: bucket, client: client}
}

// NewS3FromEnv builds the client from the default AWS credential chain.
func NewS3FromEnv(ctx context.Context, bucket string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return NewS3(s3.NewFromConfig(cfg), bucket), nil
}

// Put uploads data and returns its s3:// location.
func (b *S3) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.Bucket),
		Key:           aws.String(cleaned),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := b.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", b.Bucket, cleaned, err)
	}
	return "s3://" + b.Bucket + "/" + cleaned, nil
}
