package dynamodb

import (
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockRecordExpiryIsNumeric(t *testing.T) {
	// A whole-second timestamp formatted as RFC3339Nano ("...05Z") sorts
	// after any fractional timestamp in the same second, so the expiry
	// takeover condition must compare numbers, not strings.
	expiresAt := time.Date(2026, 8, 26, 10, 0, 5, 0, time.UTC)
	record := lockRecord{
		PK:         "LOCK#transfer",
		SK:         "LOCK",
		LockID:     "owner_1",
		Owner:      "owner",
		AcquiredAt: expiresAt.Add(-30 * time.Second).Format(time.RFC3339Nano),
		ExpiresAt:  expiresAt.UnixNano(),
		TTL:        expiresAt.Unix(),
	}

	item, err := marshalItem(record)
	require.NoError(t, err)

	attr, ok := item["ExpiresAt"].(*types.AttributeValueMemberN)
	require.True(t, ok, "ExpiresAt must marshal as a Number")
	assert.Equal(t, strconv.FormatInt(expiresAt.UnixNano(), 10), attr.Value)

	// A fractional "now" later in the same second must exceed the expiry.
	now := expiresAt.Add(250 * time.Millisecond)
	assert.Greater(t, now.UnixNano(), record.ExpiresAt)
}
