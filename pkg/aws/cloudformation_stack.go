package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/aws/aws-sdk-go/service/cloudformation/cloudformationiface"
	log "github.com/sirupsen/logrus"

	"github.com/Qovery/sweeper/pkg/common"
)

// ListableStackStatuses are the stack states offered for listing and deletion.
var ListableStackStatuses = []string{
	cloudformation.StackStatusCreateComplete,
	cloudformation.StackStatusRollbackComplete,
	cloudformation.StackStatusUpdateComplete,
	cloudformation.StackStatusUpdateRollbackComplete,
}

type SleepFunc func(ctx context.Context, d time.Duration) error

type CloudformationStacks struct {
	svc cloudformationiface.CloudFormationAPI
	out io.Writer

	PollInterval time.Duration
	// MaxPollAttempts bounds the number of status checks, 0 means no bound.
	MaxPollAttempts int
	Sleep           SleepFunc
}

func NewCloudformationStacks(svc cloudformationiface.CloudFormationAPI, out io.Writer) *CloudformationStacks {
	if out == nil {
		out = io.Discard
	}
	return &CloudformationStacks{
		svc:          svc,
		out:          out,
		PollInterval: common.DefaultPollInterval,
		Sleep:        sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *CloudformationStacks) ListStacks(ctx context.Context) ([]string, error) {
	var names []string

	err := c.svc.ListStacksPagesWithContext(ctx,
		&cloudformation.ListStacksInput{
			StackStatusFilter: aws.StringSlice(ListableStackStatuses),
		},
		func(page *cloudformation.ListStacksOutput, lastPage bool) bool {
			for _, stack := range page.StackSummaries {
				names = append(names, aws.StringValue(stack.StackName))
			}
			return true
		})
	if err != nil {
		return nil, fmt.Errorf("can't list CloudFormation stacks: %w", common.ClassifyAWSError(err))
	}

	return names, nil
}

func (c *CloudformationStacks) DeleteStack(ctx context.Context, stackName string) (common.StackOutcome, error) {
	log.Infof("Deleting CloudFormation Stack %s", stackName)

	_, err := c.svc.DeleteStackWithContext(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return common.StackDeleteInProgress, fmt.Errorf("can't delete stack %s: %w", stackName, common.ClassifyAWSError(err))
	}

	return c.WaitForDeletion(ctx, stackName)
}

func (c *CloudformationStacks) stackStatus(ctx context.Context, stackName string) (string, error) {
	result, err := c.svc.DescribeStacksWithContext(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return "", err
	}

	if len(result.Stacks) == 0 {
		return "", fmt.Errorf("stack %s: %w", stackName, common.ErrNotFound)
	}

	return aws.StringValue(result.Stacks[0].StackStatus), nil
}

// WaitForDeletion polls the stack status until DELETE_COMPLETE, DELETE_FAILED or
// until CloudFormation no longer knows the stack.
func (c *CloudformationStacks) WaitForDeletion(ctx context.Context, stackName string) (common.StackOutcome, error) {
	fmt.Fprintf(c.out, "Waiting for stack '%s' to be deleted...\n", stackName)

	for attempt := 1; ; attempt++ {
		status, err := c.stackStatus(ctx, stackName)
		if err != nil {
			if common.IsStackNotFound(err) || errors.Is(err, common.ErrNotFound) {
				log.Warnf("CloudFormation Stack %s not found while waiting for its deletion", stackName)
				fmt.Fprintf(c.out, "Warning: Stack '%s' not found.\n", stackName)
				return common.StackNotFound, nil
			}
			return common.StackDeleteInProgress, fmt.Errorf("can't get status of stack %s: %w", stackName, common.ClassifyAWSError(err))
		}

		switch status {
		case cloudformation.StackStatusDeleteFailed:
			log.Errorf("CloudFormation Stack %s deletion failed", stackName)
			fmt.Fprintf(c.out, "Stack deletion failed for '%s'. Please delete manually.\n", stackName)
			return common.StackDeleteFailed, nil
		case cloudformation.StackStatusDeleteComplete:
			log.Debugf("CloudFormation Stack %s deleted.", stackName)
			fmt.Fprintf(c.out, "Stack '%s' has been successfully deleted.\n", stackName)
			return common.StackDeleted, nil
		}

		if c.MaxPollAttempts > 0 && attempt >= c.MaxPollAttempts {
			return common.StackDeleteInProgress, fmt.Errorf("stack %s still %s after %d checks: %w",
				stackName, status, attempt, common.ErrPollTimeout)
		}

		log.Debugf("CloudFormation Stack %s is %s, checking again in %s", stackName, status, c.PollInterval)
		if err := c.Sleep(ctx, c.PollInterval); err != nil {
			return common.StackDeleteInProgress, err
		}
	}
}
