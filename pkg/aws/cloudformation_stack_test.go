package aws

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/aws/aws-sdk-go/service/cloudformation/cloudformationiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Qovery/sweeper/pkg/common"
)

type mockCloudFormation struct {
	cloudformationiface.CloudFormationAPI
	mock.Mock
	stackPages []*cloudformation.ListStacksOutput
	statuses   []string
}

func (m *mockCloudFormation) ListStacksPagesWithContext(ctx aws.Context, input *cloudformation.ListStacksInput, fn func(*cloudformation.ListStacksOutput, bool) bool, opts ...request.Option) error {
	args := m.Called(aws.StringValueSlice(input.StackStatusFilter))
	if args.Error(0) != nil {
		return args.Error(0)
	}
	for i, page := range m.stackPages {
		if !fn(page, i == len(m.stackPages)-1) {
			break
		}
	}
	return nil
}

func (m *mockCloudFormation) DeleteStackWithContext(ctx aws.Context, input *cloudformation.DeleteStackInput, opts ...request.Option) (*cloudformation.DeleteStackOutput, error) {
	args := m.Called(aws.StringValue(input.StackName))
	return &cloudformation.DeleteStackOutput{}, args.Error(0)
}

// DescribeStacksWithContext replays statuses in order, the last one sticks.
func (m *mockCloudFormation) DescribeStacksWithContext(ctx aws.Context, input *cloudformation.DescribeStacksInput, opts ...request.Option) (*cloudformation.DescribeStacksOutput, error) {
	args := m.Called(aws.StringValue(input.StackName))
	if args.Error(0) != nil {
		return nil, args.Error(0)
	}

	status := m.statuses[0]
	if len(m.statuses) > 1 {
		m.statuses = m.statuses[1:]
	}

	return &cloudformation.DescribeStacksOutput{
		Stacks: []*cloudformation.Stack{{
			StackName:   input.StackName,
			StackStatus: aws.String(status),
		}},
	}, nil
}

type recordedSleeps struct {
	durations []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.durations = append(r.durations, d)
	return ctx.Err()
}

func newTestStacks(svc *mockCloudFormation, out *bytes.Buffer) (*CloudformationStacks, *recordedSleeps) {
	sleeps := &recordedSleeps{}
	stacks := NewCloudformationStacks(svc, out)
	stacks.Sleep = sleeps.sleep
	return stacks, sleeps
}

func TestListStacksWalksPagesWithStatusFilter(t *testing.T) {
	svc := &mockCloudFormation{stackPages: []*cloudformation.ListStacksOutput{
		{StackSummaries: []*cloudformation.StackSummary{{StackName: aws.String("web")}, {StackName: aws.String("db")}}},
		{StackSummaries: []*cloudformation.StackSummary{{StackName: aws.String("demo")}}},
	}}
	svc.On("ListStacksPagesWithContext", ListableStackStatuses).Return(nil)

	stacks, _ := newTestStacks(svc, &bytes.Buffer{})
	names, err := stacks.ListStacks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "db", "demo"}, names)
	svc.AssertExpectations(t)
}

func TestDeleteStackPollsUntilComplete(t *testing.T) {
	svc := &mockCloudFormation{statuses: []string{
		cloudformation.StackStatusDeleteInProgress,
		cloudformation.StackStatusDeleteInProgress,
		cloudformation.StackStatusDeleteComplete,
	}}
	svc.On("DeleteStackWithContext", "demo").Return(nil)
	svc.On("DescribeStacksWithContext", "demo").Return(nil)

	out := &bytes.Buffer{}
	stacks, sleeps := newTestStacks(svc, out)
	outcome, err := stacks.DeleteStack(context.Background(), "demo")
	require.NoError(t, err)

	assert.Equal(t, common.StackDeleted, outcome)
	svc.AssertNumberOfCalls(t, "DeleteStackWithContext", 1)
	svc.AssertNumberOfCalls(t, "DescribeStacksWithContext", 3)
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second}, sleeps.durations)
	assert.Contains(t, out.String(), "Waiting for stack 'demo' to be deleted...")
	assert.Contains(t, out.String(), "Stack 'demo' has been successfully deleted.")
}

func TestDeleteStackNotFoundWhilePolling(t *testing.T) {
	svc := &mockCloudFormation{}
	svc.On("DeleteStackWithContext", "ghost").Return(nil)
	svc.On("DescribeStacksWithContext", "ghost").
		Return(awserr.New("ValidationError", "Stack with id ghost does not exist", nil))

	out := &bytes.Buffer{}
	stacks, sleeps := newTestStacks(svc, out)
	outcome, err := stacks.DeleteStack(context.Background(), "ghost")
	require.NoError(t, err)

	assert.Equal(t, common.StackNotFound, outcome)
	svc.AssertNumberOfCalls(t, "DescribeStacksWithContext", 1)
	assert.Empty(t, sleeps.durations)
	assert.Contains(t, out.String(), "Warning: Stack 'ghost' not found.")
}

func TestDeleteStackFailed(t *testing.T) {
	svc := &mockCloudFormation{statuses: []string{cloudformation.StackStatusDeleteFailed}}
	svc.On("DeleteStackWithContext", "stuck").Return(nil)
	svc.On("DescribeStacksWithContext", "stuck").Return(nil)

	out := &bytes.Buffer{}
	stacks, _ := newTestStacks(svc, out)
	outcome, err := stacks.DeleteStack(context.Background(), "stuck")
	require.NoError(t, err)

	assert.Equal(t, common.StackDeleteFailed, outcome)
	assert.Contains(t, out.String(), "Stack deletion failed for 'stuck'. Please delete manually.")
}

func TestDeleteStackOtherValidationErrorIsReturned(t *testing.T) {
	svc := &mockCloudFormation{}
	svc.On("DeleteStackWithContext", "demo").Return(nil)
	svc.On("DescribeStacksWithContext", "demo").
		Return(awserr.New("ValidationError", "1 validation error detected", nil))

	stacks, _ := newTestStacks(svc, &bytes.Buffer{})
	outcome, err := stacks.DeleteStack(context.Background(), "demo")
	require.Error(t, err)

	assert.Equal(t, common.StackDeleteInProgress, outcome)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestDeleteStackRequestRejected(t *testing.T) {
	svc := &mockCloudFormation{}
	svc.On("DeleteStackWithContext", "demo").
		Return(awserr.New("AccessDenied", "not allowed", nil))

	stacks, _ := newTestStacks(svc, &bytes.Buffer{})
	_, err := stacks.DeleteStack(context.Background(), "demo")
	require.Error(t, err)

	assert.ErrorIs(t, err, common.ErrAuthentication)
	svc.AssertNotCalled(t, "DescribeStacksWithContext", mock.Anything)
}

func TestWaitForDeletionBoundedAttempts(t *testing.T) {
	svc := &mockCloudFormation{statuses: []string{cloudformation.StackStatusDeleteInProgress}}
	svc.On("DescribeStacksWithContext", "slow").Return(nil)

	stacks, sleeps := newTestStacks(svc, &bytes.Buffer{})
	stacks.MaxPollAttempts = 3
	outcome, err := stacks.WaitForDeletion(context.Background(), "slow")

	assert.ErrorIs(t, err, common.ErrPollTimeout)
	assert.Equal(t, common.StackDeleteInProgress, outcome)
	svc.AssertNumberOfCalls(t, "DescribeStacksWithContext", 3)
	assert.Len(t, sleeps.durations, 2)
}

func TestWaitForDeletionUnknownStatusKeepsPolling(t *testing.T) {
	svc := &mockCloudFormation{statuses: []string{
		cloudformation.StackStatusUpdateInProgress,
		cloudformation.StackStatusDeleteComplete,
	}}
	svc.On("DescribeStacksWithContext", "odd").Return(nil)

	stacks, sleeps := newTestStacks(svc, &bytes.Buffer{})
	stacks.PollInterval = time.Second
	outcome, err := stacks.WaitForDeletion(context.Background(), "odd")
	require.NoError(t, err)

	assert.Equal(t, common.StackDeleted, outcome)
	assert.Equal(t, []time.Duration{time.Second}, sleeps.durations)
}

func TestWaitForDeletionCancelled(t *testing.T) {
	svc := &mockCloudFormation{statuses: []string{cloudformation.StackStatusDeleteInProgress}}
	svc.On("DescribeStacksWithContext", "demo").Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stacks := NewCloudformationStacks(svc, nil)
	_, err := stacks.WaitForDeletion(ctx, "demo")
	assert.True(t, errors.Is(err, context.Canceled))
}
