package common

import "context"

type BucketManager interface {
	ListBuckets(ctx context.Context) ([]string, error)
	// DeleteBucket removes every object version and delete marker, then the bucket itself.
	DeleteBucket(ctx context.Context, name string) error
}

type StackManager interface {
	ListStacks(ctx context.Context) ([]string, error)
	// DeleteStack requests the deletion and blocks until the stack reaches a terminal state.
	DeleteStack(ctx context.Context, name string) (StackOutcome, error)
}

// StackOutcome is the terminal state observed after a stack deletion request.
type StackOutcome int

const (
	StackDeleted StackOutcome = iota
	StackDeleteFailed
	StackNotFound
	StackDeleteInProgress
)

func (o StackOutcome) String() string {
	switch o {
	case StackDeleted:
		return "deleted"
	case StackDeleteFailed:
		return "delete failed"
	case StackNotFound:
		return "not found"
	case StackDeleteInProgress:
		return "delete in progress"
	default:
		return "unknown"
	}
}
