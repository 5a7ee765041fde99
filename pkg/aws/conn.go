package aws

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
)

// SessionOptions holds what is needed to authenticate against AWS.
// Static credentials are only used when both keys are set.
type SessionOptions struct {
	AccessKey string
	SecretKey string
	Region    string
}

func (o SessionOptions) HasStaticCredentials() bool {
	return strings.TrimSpace(o.AccessKey) != "" && strings.TrimSpace(o.SecretKey) != ""
}

// AWSSessions is built once per run and shared read-only by every operation.
type AWSSessions struct {
	Session        *session.Session
	S3             *s3.S3
	CloudFormation *cloudformation.CloudFormation
}

func CreateSession(options SessionOptions) (*session.Session, error) {
	config := aws.Config{
		Region: aws.String(options.Region),
	}

	if options.HasStaticCredentials() {
		config.Credentials = credentials.NewStaticCredentials(options.AccessKey, options.SecretKey, "")
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            config,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		log.Errorf("Can't connect to AWS: %s", err)
		return nil, fmt.Errorf("can't connect to AWS: %w", err)
	}

	return sess, nil
}

func CreateSessions(options SessionOptions) (*AWSSessions, error) {
	sess, err := CreateSession(options)
	if err != nil {
		return nil, err
	}

	log.Debugf("AWS session created for region %s", options.Region)

	return &AWSSessions{
		Session:        sess,
		S3:             s3.New(sess),
		CloudFormation: cloudformation.New(sess),
	}, nil
}

// S3ForRegion returns an S3 client sharing the session credentials but signing for region.
func (s *AWSSessions) S3ForRegion(region string) s3iface.S3API {
	return s3.New(s.Session, aws.NewConfig().WithRegion(region))
}
