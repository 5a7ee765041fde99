package pkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/Qovery/sweeper/pkg/aws"
	"github.com/Qovery/sweeper/pkg/common"
	"github.com/Qovery/sweeper/pkg/ui"
)

const (
	menuBuckets = "S3 Bucket"
	menuStacks  = "CloudFormation Stack"
	menuExit    = "Exit"
	menuBack    = "Go Back"

	actionListBuckets             = "List S3 Buckets"
	actionDeleteBucketsByWildcard = "Delete S3 Bucket by Wildcard Name"
	actionDeleteAllBuckets        = "Delete All S3 Buckets"
	actionListStacks              = "List CloudFormation Stacks"
	actionDeleteStackByName       = "Delete CloudFormation Stack by Name"
	actionDeleteStacksByWildcard  = "Delete CloudFormation Stacks by Wildcard Name"
	actionDeleteAllStacks         = "Delete All CloudFormation Stacks"
)

var (
	resourceMenu = []string{menuBuckets, menuStacks, menuExit}
	bucketMenu   = []string{actionListBuckets, actionDeleteBucketsByWildcard, actionDeleteAllBuckets, menuBack}
	stackMenu    = []string{actionListStacks, actionDeleteStackByName, actionDeleteStacksByWildcard, actionDeleteAllStacks, menuBack}
)

type Options struct {
	AWS             aws.AwsOptions
	ContinueOnError bool
}

// Actions drives the interactive menus. One action runs at a time.
type Actions struct {
	Buckets common.BucketManager
	Stacks  common.StackManager
	Prompt  *ui.Prompter
	Region  string
	// ContinueOnError makes batches best-effort instead of stopping at the first failure.
	ContinueOnError bool
}

func StartInteractive(ctx context.Context, options Options, in io.Reader, out io.Writer) error {
	log.Infof("AWS region: %s", options.AWS.Session.Region)
	if options.ContinueOnError {
		log.Warn("Batch deletions continue past failures")
	}

	managers, err := aws.NewManagers(options.AWS, out)
	if err != nil {
		return err
	}

	actions := &Actions{
		Buckets:         managers.Buckets,
		Stacks:          managers.Stacks,
		Prompt:          ui.NewPrompter(in, out),
		Region:          managers.Region,
		ContinueOnError: options.ContinueOnError,
	}

	return actions.Run(ctx)
}

func (a *Actions) out() io.Writer {
	return a.Prompt.Out()
}

// Run loops over the resource menu until Exit, end of input or cancellation.
// Errors of a single action are reported and the loop goes on.
func (a *Actions) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		resourceType, err := a.choose(ctx, resourceMenu)
		if err != nil {
			return endOfInput(err)
		}

		switch resourceType {
		case menuBuckets:
			err = a.bucketActions(ctx)
		case menuStacks:
			err = a.stackActions(ctx)
		case menuExit:
			fmt.Fprintln(a.out(), "Exiting...")
			return nil
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			a.report(err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// choose prompts again until a valid entry is picked.
func (a *Actions) choose(ctx context.Context, options []string) (string, error) {
	for {
		index, err := a.Prompt.Choose(ctx, options)
		if errors.Is(err, common.ErrUserInput) {
			fmt.Fprintln(a.out(), a.Prompt.Warning(err.Error()))
			continue
		}
		if err != nil {
			return "", err
		}
		return options[index], nil
	}
}

func (a *Actions) report(err error) {
	log.Error(err)
	fmt.Fprintf(a.out(), "Error: %s\n", err)
	if errors.Is(err, common.ErrAuthentication) {
		fmt.Fprintln(a.out(), "Check the AWS credentials and region you are using.")
	}
}

func (a *Actions) bucketActions(ctx context.Context) error {
	action, err := a.choose(ctx, bucketMenu)
	if err != nil {
		return err
	}

	switch action {
	case actionListBuckets:
		return a.ListBuckets(ctx)
	case actionDeleteBucketsByWildcard:
		pattern, err := a.Prompt.Ask(ctx, "Enter the wildcard for matching S3 bucket names:")
		if err != nil {
			return err
		}
		return a.DeleteBucketsByWildcard(ctx, pattern)
	case actionDeleteAllBuckets:
		return a.DeleteAllBuckets(ctx)
	}

	return nil
}

func (a *Actions) stackActions(ctx context.Context) error {
	action, err := a.choose(ctx, stackMenu)
	if err != nil {
		return err
	}

	switch action {
	case actionListStacks:
		return a.ListStacks(ctx)
	case actionDeleteStackByName:
		name, err := a.Prompt.Ask(ctx, "Enter the name of the CloudFormation stack to be deleted:")
		if err != nil {
			return err
		}
		return a.DeleteStackByName(ctx, name)
	case actionDeleteStacksByWildcard:
		pattern, err := a.Prompt.Ask(ctx, "Enter the wildcard for matching CloudFormation stack names:")
		if err != nil {
			return err
		}
		return a.DeleteStacksByWildcard(ctx, pattern)
	case actionDeleteAllStacks:
		return a.DeleteAllStacks(ctx)
	}

	return nil
}

func (a *Actions) printNames(title string, names []string) {
	fmt.Fprintf(a.out(), "\n%s\n", a.Prompt.Title(title))
	for _, name := range names {
		fmt.Fprintln(a.out(), name)
	}
}

func (a *Actions) ListBuckets(ctx context.Context) error {
	buckets, err := a.Buckets.ListBuckets(ctx)
	if err != nil {
		return err
	}

	a.printNames("S3 Buckets:", buckets)
	return nil
}

func (a *Actions) DeleteBucketsByWildcard(ctx context.Context, pattern string) error {
	buckets, err := a.Buckets.ListBuckets(ctx)
	if err != nil {
		return err
	}

	matching, err := common.FilterByWildcard(buckets, pattern)
	if err != nil {
		return err
	}

	if len(matching) == 0 {
		fmt.Fprintf(a.out(), "No buckets matching the wildcard '%s' found.\n", pattern)
		return nil
	}

	a.printNames("Matching S3 Buckets:", matching)
	confirmed, err := a.Prompt.Confirm(ctx, "Are you sure you want to delete these buckets?")
	if err != nil || !confirmed {
		return err
	}

	return a.deleteBuckets(ctx, matching)
}

func (a *Actions) DeleteAllBuckets(ctx context.Context) error {
	buckets, err := a.Buckets.ListBuckets(ctx)
	if err != nil {
		return err
	}

	if len(buckets) == 0 {
		fmt.Fprintln(a.out(), "No S3 buckets found.")
		return nil
	}

	a.printNames("All S3 Buckets:", buckets)
	confirmed, err := a.Prompt.Confirm(ctx, "Are you sure you want to delete all S3 buckets?")
	if err != nil || !confirmed {
		return err
	}

	return a.deleteBuckets(ctx, buckets)
}

func (a *Actions) ListStacks(ctx context.Context) error {
	stacks, err := a.Stacks.ListStacks(ctx)
	if err != nil {
		return err
	}

	a.printNames("CloudFormation Stacks:", stacks)
	return nil
}

func (a *Actions) DeleteStackByName(ctx context.Context, name string) error {
	stacks, err := a.Stacks.ListStacks(ctx)
	if err != nil {
		return err
	}

	if !slices.Contains(stacks, name) {
		fmt.Fprintf(a.out(), "Warning: Stack '%s' not found.\n", name)
		return nil
	}

	confirmed, err := a.Prompt.Confirm(ctx, "Are you sure you want to delete this stack?")
	if err != nil || !confirmed {
		return err
	}

	return a.deleteStacks(ctx, []string{name})
}

func (a *Actions) DeleteStacksByWildcard(ctx context.Context, pattern string) error {
	stacks, err := a.Stacks.ListStacks(ctx)
	if err != nil {
		return err
	}

	matching, err := common.FilterByWildcard(stacks, pattern)
	if err != nil {
		return err
	}

	if len(matching) == 0 {
		fmt.Fprintf(a.out(), "No stacks matching the wildcard '%s' found.\n", pattern)
		return nil
	}

	a.printNames("Matching CloudFormation Stacks:", matching)
	confirmed, err := a.Prompt.Confirm(ctx, "Are you sure you want to delete these stacks?")
	if err != nil || !confirmed {
		return err
	}

	return a.deleteStacks(ctx, matching)
}

func (a *Actions) DeleteAllStacks(ctx context.Context) error {
	stacks, err := a.Stacks.ListStacks(ctx)
	if err != nil {
		return err
	}

	if len(stacks) == 0 {
		fmt.Fprintln(a.out(), "No CloudFormation stacks found.")
		return nil
	}

	a.printNames("All CloudFormation Stacks:", stacks)
	confirmed, err := a.Prompt.Confirm(ctx, "Are you sure you want to delete all CloudFormation stacks?")
	if err != nil || !confirmed {
		return err
	}

	return a.deleteStacks(ctx, stacks)
}

func (a *Actions) deleteBuckets(ctx context.Context, buckets []string) error {
	return a.deleteBatch(ctx, "S3 bucket", buckets, func(ctx context.Context, bucket string) error {
		fmt.Fprintf(a.out(), "Deleting bucket: %s\n", bucket)
		return a.Buckets.DeleteBucket(ctx, bucket)
	})
}

func (a *Actions) deleteStacks(ctx context.Context, stacks []string) error {
	return a.deleteBatch(ctx, "CloudFormation Stack", stacks, func(ctx context.Context, stack string) error {
		fmt.Fprintf(a.out(), "Deleting CloudFormation stack '%s'...\n", stack)
		outcome, err := a.Stacks.DeleteStack(ctx, stack)
		if err != nil {
			return err
		}
		log.Debugf("CloudFormation Stack %s: %s", stack, outcome)
		return nil
	})
}

// deleteBatch deletes names in order. By default the first failure stops the
// batch; with ContinueOnError every name is attempted and failures are joined.
func (a *Actions) deleteBatch(ctx context.Context, elemName string, names []string, deleteOne func(context.Context, string) error) error {
	count, start := common.ElemToDeleteFormattedInfos(elemName, len(names), a.Region)
	log.Info(count)
	log.Info(start)

	var errs []error
	for _, name := range names {
		err := deleteOne(ctx, name)
		if err == nil {
			continue
		}

		// the SDK reports cancellation as RequestCanceled, which doesn't wrap context.Canceled
		if !a.ContinueOnError || ctx.Err() != nil {
			return err
		}

		log.Errorf("Deletion %s %s error: %s", elemName, name, err)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
