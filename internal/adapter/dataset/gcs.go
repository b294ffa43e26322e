package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

func gcsClientOptions(opts Options) []option.ClientOption {
	switch {
	case opts.GCSAnonymous:
		return []option.ClientOption{option.WithoutAuthentication()}
	case opts.GCSCredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(opts.GCSCredentialsFile)}
	}
	return nil
}

func newGCSOpener(bucket, object string, opts Options) func(ctx context.Context) (io.ReadCloser, error) {
	clientOpts := gcsClientOptions(opts)

	return func(ctx context.Context) (io.ReadCloser, error) {
		client, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("dataset: create gcs client: %w", err)
		}

		r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("dataset: open gs://%s/%s: %w", bucket, object, err)
		}

		return readCloser{Reader: r, close: func() error {
			return errors.Join(r.Close(), client.Close())
		}}, nil
	}
}
