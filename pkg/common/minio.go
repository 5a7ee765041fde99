package common

import (
	"context"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// MinioAPI is the part of *minio.Client used to empty and remove buckets.
type MinioAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucketName string, objectName string, opts minio.RemoveObjectOptions) error
	RemoveBucket(ctx context.Context, bucketName string) error
}

var _ MinioAPI = (*minio.Client)(nil)

// MinioBuckets manages buckets of an S3 compatible endpoint.
type MinioBuckets struct {
	client  MinioAPI
	limiter ratelimit.Limiter
}

func NewMinioBuckets(client MinioAPI, limiter ratelimit.Limiter) *MinioBuckets {
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	return &MinioBuckets{client: client, limiter: limiter}
}

func CreateMinIOSession(endpoint string, region string, accessKey string, secretKey string, secure bool) (*minio.Client, error) {
	creds := credentials.NewStaticV4(accessKey, secretKey, "")
	if accessKey == "" || secretKey == "" {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.FileAWSCredentials{},
			&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport}},
		})
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Region: region,
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("can't connect to %s: %w", endpoint, err)
	}

	return minioClient, nil
}

// classifyMinioError maps S3 error codes returned by the endpoint like ClassifyAWSError does.
func classifyMinioError(err error) error {
	code := minio.ToErrorResponse(err).Code
	switch {
	case code == "":
		return err
	case authErrorCodes[code]:
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case code == "NoSuchBucket":
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
}

func (m *MinioBuckets) ListBuckets(ctx context.Context) ([]string, error) {
	buckets, err := m.client.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't list buckets: %w", classifyMinioError(err))
	}

	names := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		names = append(names, bucket.Name)
	}

	return names, nil
}

// ListBucketObjects returns every object version and delete marker of the bucket.
func (m *MinioBuckets) ListBucketObjects(ctx context.Context, bucketName string) ([]minio.ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := m.client.ListObjects(ctx, bucketName, minio.ListObjectsOptions{Recursive: true, WithVersions: true})
	objectsInfos := []minio.ObjectInfo{}
	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("can't list objects of bucket %s: %w", bucketName, classifyMinioError(object.Err))
		}
		objectsInfos = append(objectsInfos, object)
	}

	return objectsInfos, nil
}

func (m *MinioBuckets) EmptyBucket(ctx context.Context, bucketName string, objects []minio.ObjectInfo) error {
	for _, object := range objects {
		m.limiter.Take()
		err := m.client.RemoveObject(ctx, bucketName, object.Key, minio.RemoveObjectOptions{VersionID: object.VersionID})
		if err != nil {
			return fmt.Errorf("can't delete object %s (version %s) of bucket %s: %w", object.Key, object.VersionID, bucketName, classifyMinioError(err))
		}
		log.Debugf("Deleted object %s (version %s) of bucket %s", object.Key, object.VersionID, bucketName)
	}

	return nil
}

func (m *MinioBuckets) DeleteBucket(ctx context.Context, bucketName string) error {
	log.Infof("Deleting bucket %s", bucketName)

	objects, err := m.ListBucketObjects(ctx, bucketName)
	if err != nil {
		return err
	}

	if err := m.EmptyBucket(ctx, bucketName, objects); err != nil {
		return err
	}

	if err := m.client.RemoveBucket(ctx, bucketName); err != nil {
		return fmt.Errorf("can't delete bucket %s: %w", bucketName, classifyMinioError(err))
	}

	return nil
}
