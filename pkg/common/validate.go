package common

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// CheckCredentials rejects a half-provided static key pair. When neither key is
// given the ambient AWS credential chain is used, so it only logs what it finds.
func CheckCredentials(accessKey string, secretKey string) error {
	accessKey = strings.TrimSpace(accessKey)
	secretKey = strings.TrimSpace(secretKey)

	if accessKey != "" && secretKey == "" {
		return fmt.Errorf("%w: aws_secret_key is required when aws_access_key is set", ErrAuthentication)
	}
	if accessKey == "" && secretKey != "" {
		return fmt.Errorf("%w: aws_access_key is required when aws_secret_key is set", ErrAuthentication)
	}

	if accessKey != "" {
		log.Debug("Using static AWS credentials")
		return nil
	}

	for _, envVar := range []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"} {
		if _, ok := os.LookupEnv(envVar); !ok {
			log.Debugf("%s environment variable not found, relying on shared config or instance role", envVar)
		}
	}

	return nil
}
