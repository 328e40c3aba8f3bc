package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const brandingBucket = "tenant-branding"

// BrandingService stores tenant logo assets in object storage. The resulting
// object URL is what gets persisted on the tenant's LogoURL field.
type BrandingService interface {
	UploadLogo(ctx context.Context, tenantID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	GetLogoURL(ctx context.Context, tenantID uuid.UUID, expiry time.Duration) (string, error)
	DeleteLogo(ctx context.Context, tenantID uuid.UUID) error
	EnsureBucketExists(ctx context.Context) error
	Online(ctx context.Context) bool
}

type brandingService struct {
	client *minio.Client
}

func NewBrandingService(endpoint, accessKey, secretKey string, useSSL bool) (BrandingService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &brandingService{client: client}, nil
}

func logoObjectName(tenantID uuid.UUID) string {
	return fmt.Sprintf("logos/%s", tenantID.String())
}

func (b *brandingService) UploadLogo(ctx context.Context, tenantID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/png"
	}

	objectName := logoObjectName(tenantID)
	_, err := b.client.PutObject(ctx, brandingBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", b.client.EndpointURL().String(), brandingBucket, objectName), nil
}

func (b *brandingService) GetLogoURL(ctx context.Context, tenantID uuid.UUID, expiry time.Duration) (string, error) {
	url, err := b.client.PresignedGetObject(ctx, brandingBucket, logoObjectName(tenantID), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (b *brandingService) DeleteLogo(ctx context.Context, tenantID uuid.UUID) error {
	return b.client.RemoveObject(ctx, brandingBucket, logoObjectName(tenantID), minio.RemoveObjectOptions{})
}

func (b *brandingService) EnsureBucketExists(ctx context.Context) error {
	found, err := b.client.BucketExists(ctx, brandingBucket)
	if err != nil {
		return err
	}
	if !found {
		return b.client.MakeBucket(ctx, brandingBucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (b *brandingService) Online(ctx context.Context) bool {
	_, err := b.client.BucketExists(ctx, brandingBucket)
	return err == nil
}
