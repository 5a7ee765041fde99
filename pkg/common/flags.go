package common

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	DefaultRegion       = "us-west-2"
	DefaultPollInterval = 10 * time.Second
)

func InitFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	initAWSFlags(rootCmd)

	flags.Duration("poll-interval", DefaultPollInterval, "Delay between two stack status checks while waiting for a deletion")
	flags.Int("max-poll-attempts", 0, "Give up waiting for a stack deletion after this many status checks (0 waits forever)")
	flags.Bool("continue-on-error", false, "Keep deleting the remaining resources of a batch when one deletion fails")
	flags.Int("delete-rate", 0, "Maximum object deletions per second while emptying a bucket (0 is unlimited)")
}

func initAWSFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP("aws_access_key", "a", "", "Your AWS access key. If not provided, local computer credentials will be used")
	flags.StringP("aws_secret_key", "k", "", "Your AWS secret key. If not provided, local computer credentials will be used")
	flags.StringP("aws_region", "r", DefaultRegion, "The AWS region where the resources are located")
	flags.String("s3-endpoint", "", "S3 compatible endpoint (host:port) to use for bucket operations instead of AWS S3")
	flags.Bool("s3-insecure", false, "Use plain HTTP to reach the S3 compatible endpoint")
}
