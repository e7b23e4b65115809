package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// dirPublisher copies outputs into a local directory, for example a
// mounted share or a web server's document root.
type dirPublisher struct {
	root string
}

func newDir(d Destination, _ Options) (Publisher, error) {
	if err := os.MkdirAll(d.Prefix, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}
	return &dirPublisher{root: d.Prefix}, nil
}

func (p *dirPublisher) Publish(ctx context.Context, localPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	target := filepath.Join(p.root, filepath.Base(localPath))
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to write to file %s: %w", target, err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(target), nil
}

func (p *dirPublisher) Close() error { return nil }
