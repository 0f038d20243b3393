package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niltonmoco5-source/The-super-bible/internal/subscription"
)

func TestPlanFor(t *testing.T) {
	pro, ok := PlanFor(subscription.TierPro)
	require.True(t, ok)
	assert.Equal(t, "4.99", pro.Amount)
	assert.Equal(t, "EUR", pro.Currency)
	assert.Equal(t, "mês", pro.Period)

	blessed, ok := PlanFor(subscription.TierBlessed)
	require.True(t, ok)
	assert.Equal(t, "49.90", blessed.Amount)
	assert.Equal(t, "ano", blessed.Period)

	_, ok = PlanFor(subscription.TierTrial)
	assert.False(t, ok, "the trial is not purchasable")

	_, ok = PlanFor(subscription.Tier("gold"))
	assert.False(t, ok)
}
