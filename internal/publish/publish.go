// Package publish uploads converted rasters to a remote destination after
// they are written. A destination is a URL: gs://bucket/prefix,
// s3://bucket/prefix, sftp://user@host/dir or file:///dir. Each output is
// stored under <prefix>/<basename>.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ErrUnsupportedScheme is returned for destinations with no backend.
var ErrUnsupportedScheme = errors.New("unsupported publish scheme")

// MetadataRunKey is the object metadata key that carries the run ID.
const MetadataRunKey = "rasterconv-run"

// Publisher uploads one local file and returns the destination URL it was
// written to.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
	Close() error
}

// Options carries backend credentials and run metadata.
type Options struct {
	Region          string // S3 region.
	CredentialsFile string // GCS service account JSON; empty uses ambient credentials.
	SSHKeyFile      string // SFTP private key; empty tries the URL password.
	KnownHostsFile  string // SFTP known_hosts; empty uses ~/.ssh/known_hosts.
	RunID           string // Attached as object metadata where supported.
}

// Destination is a parsed publish URL.
type Destination struct {
	Scheme string
	Host   string // Bucket name, or host[:port] for sftp.
	User   *url.Userinfo
	Prefix string // Key prefix or remote directory, without leading slash for buckets.
}

// String renders the destination back as a URL.
func (d Destination) String() string {
	u := url.URL{Scheme: d.Scheme, Host: d.Host, User: d.User, Path: "/" + strings.TrimPrefix(d.Prefix, "/")}
	if d.User != nil {
		u.User = url.User(d.User.Username())
	}
	return strings.TrimSuffix(u.String(), "/")
}

// ParseURL splits a publish URL into its backend parts.
func ParseURL(raw string) (Destination, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Destination{}, fmt.Errorf("publish URL %q: %w", raw, err)
	}
	d := Destination{Scheme: u.Scheme, Host: u.Host, User: u.User}
	switch u.Scheme {
	case "gs", "s3":
		if u.Host == "" {
			return Destination{}, fmt.Errorf("publish URL %q has no bucket", raw)
		}
		d.Prefix = strings.Trim(u.Path, "/")
	case "sftp":
		if u.Host == "" {
			return Destination{}, fmt.Errorf("publish URL %q has no host", raw)
		}
		d.Prefix = u.Path
		if d.Prefix == "" {
			d.Prefix = "."
		}
	case "file":
		if u.Path == "" {
			return Destination{}, fmt.Errorf("publish URL %q has no directory", raw)
		}
		d.Prefix = filepath.FromSlash(u.Path)
	default:
		return Destination{}, fmt.Errorf("%q: %w", raw, ErrUnsupportedScheme)
	}
	return d, nil
}

// ObjectKey returns the remote key for localPath under prefix.
func ObjectKey(prefix, localPath string) string {
	return strings.TrimPrefix(path.Join(prefix, filepath.Base(localPath)), "/")
}

// New returns a Publisher for the destination URL.
func New(ctx context.Context, rawURL string, opts Options) (Publisher, error) {
	d, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	switch d.Scheme {
	case "gs":
		return newGCS(ctx, d, opts)
	case "s3":
		return newS3(d, opts)
	case "sftp":
		return newSFTP(ctx, d, opts)
	default:
		return newDir(d, opts)
	}
}
