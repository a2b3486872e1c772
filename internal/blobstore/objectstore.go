package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectKeyPrefix is the fixed top-level prefix spec §6 gives for S3
// storage paths, independent of the actual bucket name in use.
const objectKeyPrefix = "court-registry-raw/"

// ObjectStore is the S3-API backend, generalized from
// unified-rag-service's MinIO wiring (bucket-exists-or-create on
// startup, PutObject for writes, GetObject for reads).
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func NewObjectStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("blobstore: create minio client: %w", err)
	}
	return &ObjectStore{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the bucket if it does not already exist.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("blobstore: check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("blobstore: make bucket: %w", err)
		}
	}
	return nil
}

// Save writes data under the object key spec §6 lays out
// ("court-registry-raw/{doc_id}/{ts}.{ext}") and returns the full
// `s3://{bucket}/court-registry-raw/{doc_id}/{ts}.{ext}` URI spec §6
// documents as the external storage-path format.
func (s *ObjectStore) Save(ctx context.Context, docID string, data []byte, ext Ext) (string, error) {
	key := objectKeyPrefix + timestampedPath(docID, ext, time.Now())

	contentType := "text/html"
	if ext == ExtPDF {
		contentType = "application/pdf"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("blobstore: put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// objectKey recovers the bare object key from a path previously
// returned by Save, tolerating a bare key too (e.g. one read back from
// a row written before this URI format was introduced).
func (s *ObjectStore) objectKey(path string) string {
	prefix := fmt.Sprintf("s3://%s/", s.bucket)
	return strings.TrimPrefix(path, prefix)
}

func (s *ObjectStore) Load(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("blobstore: get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("blobstore: read object: %w", err)
	}
	return data, nil
}

func (s *ObjectStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.objectKey(path), minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
