package aws

import (
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	log "github.com/sirupsen/logrus"

	"github.com/Qovery/sweeper/pkg/common"
)

type AwsOptions struct {
	Session         SessionOptions
	PollInterval    time.Duration
	MaxPollAttempts int
	DeleteRate      int
	S3Endpoint      string
	S3Insecure      bool
}

// Managers bundles the bucket and stack operations the driver works with.
type Managers struct {
	Region  string
	Buckets common.BucketManager
	Stacks  common.StackManager
}

// NewManagers builds the AWS clients once. Bucket operations go through minio
// when an S3 compatible endpoint is configured.
func NewManagers(options AwsOptions, out io.Writer) (*Managers, error) {
	sessions, err := CreateSessions(options.Session)
	if err != nil {
		return nil, err
	}

	region := aws.StringValue(sessions.Session.Config.Region)
	limiter := common.NewDeletionLimiter(options.DeleteRate)

	s3Buckets := NewS3Buckets(sessions.S3, limiter)
	s3Buckets.Region = region
	s3Buckets.NewRegionalClient = sessions.S3ForRegion

	var buckets common.BucketManager = s3Buckets
	if options.S3Endpoint != "" {
		log.Infof("Using S3 compatible endpoint %s for buckets", options.S3Endpoint)
		minioClient, err := common.CreateMinIOSession(options.S3Endpoint, region,
			options.Session.AccessKey, options.Session.SecretKey, !options.S3Insecure)
		if err != nil {
			return nil, err
		}
		buckets = common.NewMinioBuckets(minioClient, limiter)
	}

	stacks := NewCloudformationStacks(sessions.CloudFormation, out)
	if options.PollInterval > 0 {
		stacks.PollInterval = options.PollInterval
	}
	stacks.MaxPollAttempts = options.MaxPollAttempts

	return &Managers{
		Region:  region,
		Buckets: buckets,
		Stacks:  stacks,
	}, nil
}
