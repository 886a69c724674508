package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIsPure(t *testing.T) {
	first, err := Resolve("monthly")
	require.NoError(t, err)

	second, err := Resolve("monthly")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(349), first.Price)
	assert.Equal(t, 100, first.OptimizationQuota)
	assert.Equal(t, 30*24*time.Hour, first.Validity)
}

func TestResolveUnknownPlan(t *testing.T) {
	_, err := Resolve("yearly")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestAllReturnsFixedCatalog(t *testing.T) {
	plans := All()
	require.Len(t, plans, 4)

	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
		assert.Positive(t, p.Price)
		assert.Positive(t, p.OptimizationQuota)
		assert.Positive(t, p.Validity)
	}
	assert.Equal(t, []string{"hourly", "daily", "weekly", "monthly"}, ids)
}
