package publish

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3Publisher struct {
	uploader *manager.Uploader
	dest     Destination
	runID    string
}

// newS3 builds a client from the standard AWS_* environment credentials.
func newS3(d Destination, opts Options) (Publisher, error) {
	if opts.Region == "" {
		return nil, errors.New("s3 publish needs a region (--publish-region or AWS_REGION)")
	}
	creds := credentials.NewStaticCredentialsProvider(
		os.Getenv("AWS_ACCESS_KEY_ID"),
		os.Getenv("AWS_SECRET_ACCESS_KEY"),
		os.Getenv("AWS_SESSION_TOKEN"),
	)
	client := s3.New(s3.Options{
		Region:      opts.Region,
		Credentials: creds,
	})
	return &s3Publisher{uploader: manager.NewUploader(client), dest: d, runID: opts.RunID}, nil
}

func (p *s3Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := ObjectKey(p.dest.Prefix, localPath)
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.dest.Host),
		Key:    aws.String(key),
		Body:   f,
	}
	if p.runID != "" {
		input.Metadata = map[string]string{MetadataRunKey: p.runID}
	}
	if _, err := p.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, p.dest.Host, err)
	}
	return "s3://" + p.dest.Host + "/" + key, nil
}

func (p *s3Publisher) Close() error { return nil }
