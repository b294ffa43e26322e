// Package dataset opens the character reading dataset from a local file, an
// http(s) URL or a Google Cloud Storage object. Payloads whose name ends in
// ".xz" are decompressed on the fly.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

const xzSuffix = ".xz"

// Options tunes remote sources. The zero value is usable.
type Options struct {
	// Timeout bounds a single HTTP attempt. Zero means no client timeout.
	Timeout time.Duration
	// HTTPClient overrides the default client (for testing).
	HTTPClient *http.Client
	// GCSAnonymous skips credential lookup for public buckets.
	GCSAnonymous bool
	// GCSCredentialsFile is a service account key used for gs:// sources.
	GCSCredentialsFile string
	// RetryDelay is the pause before the single retry of a failed HTTP fetch.
	RetryDelay time.Duration
}

// Source is one dataset location. It satisfies reading.Source.
type Source struct {
	location string
	open     func(ctx context.Context) (io.ReadCloser, error)
}

// New resolves location into a Source. Nothing is fetched until Open.
func New(location string, opts Options, logger *slog.Logger) (*Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("dataset: empty location")
	}

	log := logger.With("adapter", "dataset")

	var open func(ctx context.Context) (io.ReadCloser, error)
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if _, err := url.ParseRequestURI(location); err != nil {
			return nil, fmt.Errorf("dataset: parse url: %w", err)
		}
		open = newHTTPOpener(location, opts, log)
	case strings.HasPrefix(location, "gs://"):
		bucket, object, err := splitGCS(location)
		if err != nil {
			return nil, err
		}
		open = newGCSOpener(bucket, object, opts)
	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("dataset: unsupported scheme in %q", location)
	default:
		path := location
		open = func(context.Context) (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("dataset: open file: %w", err)
			}
			return f, nil
		}
	}

	if strings.HasSuffix(strings.ToLower(location), xzSuffix) {
		open = withXZ(open)
	}

	return &Source{location: location, open: open}, nil
}

// Open starts reading the dataset. The caller closes the returned reader.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.open(ctx)
}

func (s *Source) String() string { return s.location }

// splitGCS parses gs://bucket/path/to/object.
func splitGCS(location string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(location, "gs://")
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("dataset: gcs location %q must be gs://bucket/object", location)
	}
	return bucket, object, nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

func withXZ(open func(ctx context.Context) (io.ReadCloser, error)) func(ctx context.Context) (io.ReadCloser, error) {
	return func(ctx context.Context) (io.ReadCloser, error) {
		raw, err := open(ctx)
		if err != nil {
			return nil, err
		}
		zr, err := xz.NewReader(raw)
		if err != nil {
			raw.Close()
			return nil, fmt.Errorf("dataset: xz header: %w", err)
		}
		return readCloser{Reader: zr, close: raw.Close}, nil
	}
}
