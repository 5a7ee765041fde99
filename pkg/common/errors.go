package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
)

var (
	ErrAuthentication = errors.New("authentication error")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrTransient      = errors.New("provider error")
	ErrUserInput      = errors.New("invalid input")
	ErrPollTimeout    = errors.New("gave up waiting")
)

// UserInputError reports operator input that can't be used, such as a menu
// index out of range or a malformed wildcard.
type UserInputError struct {
	Input  string
	Reason string
}

func NewUserInputError(input string, reason string) *UserInputError {
	return &UserInputError{Input: input, Reason: reason}
}

func (e *UserInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

func (e *UserInputError) Unwrap() error {
	return ErrUserInput
}

var authErrorCodes = map[string]bool{
	"InvalidAccessKeyId":          true,
	"InvalidClientTokenId":        true,
	"SignatureDoesNotMatch":       true,
	"UnrecognizedClientException": true,
	"ExpiredToken":                true,
	"AccessDenied":                true,
	"NoCredentialProviders":       true,
}

// ClassifyAWSError wraps err with the sentinel matching its AWS error code.
// The original error stays reachable through errors.As.
func ClassifyAWSError(err error) error {
	if err == nil {
		return nil
	}

	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return err
	}

	switch {
	case authErrorCodes[aerr.Code()]:
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case aerr.Code() == "NoSuchBucket":
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case IsStackNotFound(err):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case aerr.Code() == "ValidationError":
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
}

// IsStackNotFound tells whether CloudFormation answered that the stack does not exist.
func IsStackNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}

	return aerr.Code() == "ValidationError" &&
		(strings.Contains(aerr.Message(), "does not exist") || strings.Contains(aerr.Error(), "does not exist"))
}
