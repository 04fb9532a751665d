// Package storage archives generated quote PDFs to MinIO.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	quotesvc "orcamento_backend/internal/quotes/service"
	"orcamento_backend/platform/config"
)

// MinIOArchiver stores quote PDFs in an object bucket. Archiving is optional
// infrastructure; callers treat failures as non-fatal.
type MinIOArchiver struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchiver creates the archiver and ensures the bucket exists.
func NewMinIOArchiver(ctx context.Context, cfg config.StorageConfig) (*MinIOArchiver, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("minio is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	archiver := &MinIOArchiver{client: client, bucket: cfg.GetMinioBucketQuotePDFs()}
	if err := archiver.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return archiver, nil
}

var _ quotesvc.Archiver = (*MinIOArchiver)(nil)

func (a *MinIOArchiver) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", a.bucket, err)
		}
	}
	return nil
}

// StoreQuotePDF writes the PDF under a date-partitioned key and returns it.
// Every render gets its own object so earlier versions stay retrievable.
func (a *MinIOArchiver) StoreQuotePDF(ctx context.Context, quoteID uuid.UUID, pdf []byte) (string, error) {
	key := fmt.Sprintf("quotes/%s/%s-%d.pdf", time.Now().Format("2006/01"), quoteID, time.Now().Unix())

	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}
