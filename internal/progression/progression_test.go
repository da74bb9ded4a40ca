package progression

import (
	"testing"
	"time"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(99))
	assert.Equal(t, 10, LevelFor(100))
	assert.Equal(t, 10, LevelFor(249))
	assert.Equal(t, 20, LevelFor(250))
	assert.Equal(t, 100, LevelFor(22_000))
	assert.Equal(t, 100, LevelFor(1_000_000))
}

func TestLevelFor_Monotonic(t *testing.T) {
	prev := LevelFor(0)
	for xp := int64(1); xp <= 25_000; xp += 37 {
		level := LevelFor(xp)
		assert.GreaterOrEqual(t, level, prev, "xp=%d", xp)
		prev = level
	}
}

func TestLevelFor_CheckpointValuesOnly(t *testing.T) {
	seen := map[int]bool{}
	for xp := int64(0); xp <= 25_000; xp += 13 {
		seen[LevelFor(xp)] = true
	}
	for level := range seen {
		assert.True(t, level == 1 || level%10 == 0, "unexpected level %d", level)
	}
}

func TestRemainingXP(t *testing.T) {
	assert.Equal(t, int64(100), RemainingXP(0))
	assert.Equal(t, int64(5), RemainingXP(95))
	assert.Equal(t, int64(150), RemainingXP(100))
	assert.Equal(t, int64(0), RemainingXP(22_000))
	assert.Equal(t, int64(0), RemainingXP(30_000))
}

func TestCheckpointsCrossed(t *testing.T) {
	assert.Nil(t, CheckpointsCrossed(1, 1))
	assert.Equal(t, []int{10}, CheckpointsCrossed(1, 10))
	assert.Equal(t, []int{20, 30}, CheckpointsCrossed(10, 30))
	assert.Nil(t, CheckpointsCrossed(30, 30))
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestEligible(t *testing.T) {
	now := day("2026-09-01")

	t.Run("never claimed", func(t *testing.T) {
		assert.True(t, Eligible(domain.Streak{}, now))
	})

	t.Run("claimed yesterday", func(t *testing.T) {
		last := day("2026-08-31")
		assert.True(t, Eligible(domain.Streak{Count: 3, LastClaimDate: &last}, now))
	})

	t.Run("claimed today", func(t *testing.T) {
		last := day("2026-09-01")
		assert.False(t, Eligible(domain.Streak{Count: 4, LastClaimDate: &last}, now))
	})

	t.Run("claimed later today in another zone", func(t *testing.T) {
		last := time.Date(2026, 9, 1, 23, 30, 0, 0, time.FixedZone("X", 3600))
		assert.False(t, Eligible(domain.Streak{Count: 1, LastClaimDate: &last}, now.Add(10*time.Hour)))
	})
}

func TestApplyReset(t *testing.T) {
	now := day("2026-09-01")

	t.Run("consecutive day keeps count", func(t *testing.T) {
		last := day("2026-08-31")
		s := ApplyReset(domain.Streak{Count: 6, LastClaimDate: &last}, now)
		assert.Equal(t, 6, s.Count)
	})

	t.Run("missed one day resets", func(t *testing.T) {
		last := day("2026-08-30")
		s := ApplyReset(domain.Streak{Count: 6, LastClaimDate: &last}, now)
		assert.Equal(t, 0, s.Count)
	})

	t.Run("never claimed unchanged", func(t *testing.T) {
		s := ApplyReset(domain.Streak{Count: 0}, now)
		assert.Equal(t, 0, s.Count)
	})
}

func TestAmountFor(t *testing.T) {
	assert.Equal(t, int64(10), AmountFor(0))
	assert.Equal(t, int64(50), AmountFor(6))
	// weekly cycle wraps
	assert.Equal(t, int64(10), AmountFor(7))
	assert.Equal(t, int64(15), AmountFor(8))
	assert.Equal(t, int64(10), AmountFor(-1))
}
