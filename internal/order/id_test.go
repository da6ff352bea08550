package order

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderIDPattern = regexp.MustCompile(`^SH[0-9A-Z]+$`)

func TestGenerateID_Shape(t *testing.T) {
	id := GenerateID(time.Now())

	assert.Regexp(t, orderIDPattern, id)
	assert.True(t, strings.HasPrefix(id, "SH"))
	// base-36 millisecond timestamp (8+ chars for current dates) + 4 random.
	assert.GreaterOrEqual(t, len(id), 2+8+4)
}

func TestGenerateID_UniqueAcrossConsecutiveGenerations(t *testing.T) {
	base := time.Now()
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := GenerateID(base.Add(time.Duration(i) * time.Millisecond))
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s at iteration %d", id, i)
		seen[id] = struct{}{}
	}
}

func TestEstimatedDelivery_ThreeToFiveDayWindow(t *testing.T) {
	// 2026-01-01 is a Thursday.
	now := time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sun, Jan 4 - Tue, Jan 6", EstimatedDelivery(now))
}

func TestEstimatedDelivery_CrossesMonthBoundary(t *testing.T) {
	now := time.Date(2026, time.January, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mon, Feb 2 - Wed, Feb 4", EstimatedDelivery(now))
}
