package minio

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"welbex/internal/config"
	"welbex/internal/core/attachment"
)

// MinioStorage keeps uploaded media as objects in a single bucket.
// References are public object URLs: <publicURL>/<bucket>/<object>.
type MinioStorage struct {
	cli       *minio.Client
	bucket    string
	publicURL string
}

func New(ctx context.Context, conf config.MinIO, logger *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("bucket lookup: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("bucket creation: %w", err)
		}
		logger.Info("Created MinIO bucket", zap.String("bucket", conf.Bucket))
	}

	publicURL := conf.PublicURL
	if publicURL == "" {
		scheme := "http"
		if conf.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + conf.Endpoint
	}

	return &MinioStorage{
		cli:       client,
		bucket:    conf.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (ms *MinioStorage) Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := ms.cli.PutObject(ctx, ms.bucket, name, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return ms.refOf(name), nil
}

func (ms *MinioStorage) Remove(ctx context.Context, ref string) error {
	name, ok := ms.nameOf(ref)
	if !ok {
		return nil
	}
	return ms.cli.RemoveObject(ctx, ms.bucket, name, minio.RemoveObjectOptions{})
}

func (ms *MinioStorage) List(ctx context.Context) ([]attachment.Object, error) {
	// cancelling stops the listing goroutine when the loop exits early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []attachment.Object
	for obj := range ms.cli.ListObjects(ctx, ms.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, attachment.Object{
			Ref:     ms.refOf(obj.Key),
			ModTime: obj.LastModified,
		})
	}
	return objects, nil
}

func (ms *MinioStorage) refOf(name string) string {
	return fmt.Sprintf("%s/%s/%s", ms.publicURL, ms.bucket, name)
}

func (ms *MinioStorage) nameOf(ref string) (string, bool) {
	name, found := strings.CutPrefix(ref, fmt.Sprintf("%s/%s/", ms.publicURL, ms.bucket))
	if !found || name == "" {
		return "", false
	}
	return name, true
}
