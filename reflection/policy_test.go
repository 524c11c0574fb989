package reflection

import (
	"testing"

	"github.com/hupe1980/reflectloop/core"
	"github.com/hupe1980/reflectloop/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMaxMessages(t *testing.T) {
	policy := MaxMessages(DefaultMaxMessages)

	five := testutil.NewStateBuilder().Human("1").AI("g", "2").Human("3").AI("g", "4").Human("5").Build()
	assert.False(t, policy.ShouldStop(five, 99), "5 messages do not exceed the bound")

	five.Append(five.At(1))
	assert.True(t, policy.ShouldStop(five, 0), "6 messages exceed the bound")
}

func TestMaxRounds(t *testing.T) {
	policy := MaxRounds(2)
	empty := testutil.NewStateBuilder().Build()

	assert.False(t, policy.ShouldStop(empty, 1))
	assert.True(t, policy.ShouldStop(empty, 2))
	assert.True(t, policy.ShouldStop(empty, 3))
}

func TestStopPolicyFunc(t *testing.T) {
	called := false
	policy := StopPolicyFunc(func(_ core.History, rounds int) bool {
		called = true
		return rounds > 1
	})

	assert.True(t, policy.ShouldStop(testutil.NewStateBuilder().Build(), 2))
	assert.True(t, called)
}
