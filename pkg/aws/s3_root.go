package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/Qovery/sweeper/pkg/common"
)

// ObjectVersion identifies one object version or delete marker.
type ObjectVersion struct {
	Key       string
	VersionId string
}

type S3Buckets struct {
	svc     s3iface.S3API
	limiter ratelimit.Limiter

	// Region is the region svc signs for.
	Region string
	// NewRegionalClient builds a client for buckets located outside Region.
	// When nil every bucket is handled by svc.
	NewRegionalClient func(region string) s3iface.S3API
	regionalClients   map[string]s3iface.S3API
}

func NewS3Buckets(svc s3iface.S3API, limiter ratelimit.Limiter) *S3Buckets {
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	return &S3Buckets{svc: svc, limiter: limiter, regionalClients: map[string]s3iface.S3API{}}
}

// clientFor returns a client signing for the region the bucket lives in.
func (b *S3Buckets) clientFor(ctx context.Context, bucket string) (s3iface.S3API, error) {
	if b.NewRegionalClient == nil {
		return b.svc, nil
	}

	location, err := b.svc.GetBucketLocationWithContext(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("can't get location of bucket %s: %w", bucket, common.ClassifyAWSError(err))
	}

	region := s3.NormalizeBucketLocation(aws.StringValue(location.LocationConstraint))
	if region == b.Region {
		return b.svc, nil
	}

	client, ok := b.regionalClients[region]
	if !ok {
		log.Debugf("Using a %s S3 client for bucket %s", region, bucket)
		client = b.NewRegionalClient(region)
		b.regionalClients[region] = client
	}

	return client, nil
}

func (b *S3Buckets) ListBuckets(ctx context.Context) ([]string, error) {
	result, err := b.svc.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("can't list S3 buckets: %w", common.ClassifyAWSError(err))
	}

	names := make([]string, 0, len(result.Buckets))
	for _, bucket := range result.Buckets {
		names = append(names, aws.StringValue(bucket.Name))
	}

	return names, nil
}

// listObjectsVersions walks every page of versions and delete markers.
func (b *S3Buckets) listObjectsVersions(ctx context.Context, svc s3iface.S3API, bucket string) ([]ObjectVersion, error) {
	var versions []ObjectVersion

	err := svc.ListObjectVersionsPagesWithContext(ctx,
		&s3.ListObjectVersionsInput{
			Bucket: aws.String(bucket),
		},
		func(page *s3.ListObjectVersionsOutput, lastPage bool) bool {
			for _, version := range page.Versions {
				versions = append(versions, ObjectVersion{
					Key:       aws.StringValue(version.Key),
					VersionId: aws.StringValue(version.VersionId),
				})
			}
			for _, marker := range page.DeleteMarkers {
				versions = append(versions, ObjectVersion{
					Key:       aws.StringValue(marker.Key),
					VersionId: aws.StringValue(marker.VersionId),
				})
			}
			return true
		})
	if err != nil {
		return nil, fmt.Errorf("can't list object versions of bucket %s: %w", bucket, common.ClassifyAWSError(err))
	}

	return versions, nil
}

func (b *S3Buckets) deleteS3ObjectsVersions(ctx context.Context, svc s3iface.S3API, bucket string) error {
	versions, err := b.listObjectsVersions(ctx, svc, bucket)
	if err != nil {
		return err
	}

	for _, version := range versions {
		b.limiter.Take()
		_, err := svc.DeleteObjectWithContext(ctx,
			&s3.DeleteObjectInput{
				Bucket:    aws.String(bucket),
				Key:       aws.String(version.Key),
				VersionId: aws.String(version.VersionId),
			})
		if err != nil {
			return fmt.Errorf("can't delete object %s (version %s) of bucket %s: %w",
				version.Key, version.VersionId, bucket, common.ClassifyAWSError(err))
		}
		log.Debugf("Deleted object %s (version %s) of bucket %s", version.Key, version.VersionId, bucket)
	}

	return nil
}

func (b *S3Buckets) DeleteBucket(ctx context.Context, bucket string) error {
	log.Infof("Deleting bucket %s", bucket)

	svc, err := b.clientFor(ctx, bucket)
	if err != nil {
		return err
	}

	err = b.deleteS3ObjectsVersions(ctx, svc, bucket)
	if err != nil {
		log.Errorf("Error while deleting object versions of bucket %s: %v", bucket, err)
		return err
	}

	_, err = svc.DeleteBucketWithContext(ctx,
		&s3.DeleteBucketInput{
			Bucket: aws.String(bucket),
		})
	if err != nil {
		return fmt.Errorf("can't delete bucket %s: %w", bucket, common.ClassifyAWSError(err))
	}

	return nil
}
