package common

import (
	"fmt"
	"time"

	"go.uber.org/ratelimit"
)

// ElemToDeleteFormattedInfos returns the count line shown before a batch and the
// line logged when the batch starts.
func ElemToDeleteFormattedInfos(elemName string, arraySize int, region string) (string, string) {
	regionString := fmt.Sprintf(" in region %s", region)
	if region == "" {
		regionString = ""
	}

	count := fmt.Sprintf("There is no %s to delete%s.", elemName, regionString)
	if arraySize == 1 {
		count = fmt.Sprintf("There is 1 %s to delete%s.", elemName, regionString)
	}
	if arraySize > 1 {
		count = fmt.Sprintf("There are %d %ss to delete%s.", arraySize, elemName, regionString)
	}

	start := fmt.Sprintf("Starting %s deletion%s.", elemName, regionString)

	return count, start
}

// NewDeletionLimiter throttles object deletions to perSecond calls, or not at all when perSecond <= 0.
func NewDeletionLimiter(perSecond int) ratelimit.Limiter {
	if perSecond <= 0 {
		return ratelimit.NewUnlimited()
	}

	return ratelimit.New(perSecond, ratelimit.Per(time.Second))
}
