package pkg

import (
	"context"
	"fmt"
	"io"

	"github.com/Qovery/sweeper/pkg/aws"
	"github.com/Qovery/sweeper/pkg/common"
)

const (
	KindBuckets = "buckets"
	KindStacks  = "stacks"
)

// StartList prints the names of one resource kind, optionally filtered, without prompting.
func StartList(ctx context.Context, options Options, kind string, pattern string, out io.Writer) error {
	managers, err := aws.NewManagers(options.AWS, out)
	if err != nil {
		return err
	}

	return ListNames(ctx, managers.Buckets, managers.Stacks, kind, pattern, out)
}

func ListNames(ctx context.Context, buckets common.BucketManager, stacks common.StackManager, kind string, pattern string, out io.Writer) error {
	var names []string
	var err error

	switch kind {
	case KindBuckets:
		names, err = buckets.ListBuckets(ctx)
	case KindStacks:
		names, err = stacks.ListStacks(ctx)
	default:
		return common.NewUserInputError(kind, fmt.Sprintf("expected %s or %s", KindBuckets, KindStacks))
	}
	if err != nil {
		return err
	}

	if pattern != "" {
		names, err = common.FilterByWildcard(names, pattern)
		if err != nil {
			return err
		}
	}

	for _, name := range names {
		fmt.Fprintln(out, name)
	}

	return nil
}
