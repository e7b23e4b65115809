package publish

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type gcsPublisher struct {
	client *storage.Client
	dest   Destination
	runID  string
}

func newGCS(ctx context.Context, d Destination, opts Options) (Publisher, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &gcsPublisher{client: client, dest: d, runID: opts.RunID}, nil
}

func (p *gcsPublisher) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := ObjectKey(p.dest.Prefix, localPath)
	w := p.client.Bucket(p.dest.Host).Object(key).NewWriter(ctx)
	if p.runID != "" {
		w.Metadata = map[string]string{MetadataRunKey: p.runID}
	}
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return "", fmt.Errorf("upload gs://%s/%s: %w", p.dest.Host, key, err)
	}
	// The object is only committed on Close.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload gs://%s/%s: %w", p.dest.Host, key, err)
	}
	return "gs://" + p.dest.Host + "/" + key, nil
}

func (p *gcsPublisher) Close() error {
	return p.client.Close()
}
