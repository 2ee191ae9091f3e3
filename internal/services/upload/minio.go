package upload

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/media-service/internal/config"
)

// MinIO stores uploads in an S3 compatible bucket. It performs no
// transformation, so results never carry a duration.
type MinIO struct {
	client     *minio.Client
	bucketName string
}

// NewMinIO creates a MinIO backed uploader and makes sure the bucket exists.
func NewMinIO(ctx context.Context, cfg config.MinIO) (*MinIO, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, ErrCredentialsMissing
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	m := &MinIO{
		client:     client,
		bucketName: cfg.BucketName,
	}

	if err := m.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return m, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (m *MinIO) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = m.client.MakeBucket(ctx, m.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ObjectKey builds a unique key inside the requested folder.
func ObjectKey(folder string) string {
	return path.Join(folder, uuid.New().String())
}

func (m *MinIO) UploadStream(ctx context.Context, opts Options, done Callback) io.WriteCloser {
	pr, pw := io.Pipe()
	key := ObjectKey(opts.Folder)

	go func() {
		info, err := m.client.PutObject(ctx, m.bucketName, key, pr, -1, minio.PutObjectOptions{
			ContentType:  "application/octet-stream",
			UserMetadata: map[string]string{"resource-type": opts.ResourceType},
		})
		if err != nil {
			rerr := &RemoteError{Provider: "minio", Message: err.Error(), Err: err}
			pr.CloseWithError(rerr)
			done(nil, rerr)
			return
		}

		pr.Close()
		done(&Result{
			PublicID: info.Key,
			Bytes:    info.Size,
			Fields: map[string]interface{}{
				"bucket": info.Bucket,
				"etag":   info.ETag,
			},
		}, nil)
	}()

	return pw
}

// Destroy removes an object from the bucket.
func (m *MinIO) Destroy(ctx context.Context, publicID, _ string) error {
	err := m.client.RemoveObject(ctx, m.bucketName, publicID, minio.RemoveObjectOptions{})
	if err != nil {
		return &RemoteError{Provider: "minio", Message: err.Error(), Err: err}
	}
	return nil
}
