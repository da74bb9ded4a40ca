// Package progression holds the pure level and streak arithmetic. No I/O;
// persistence and locking live in the ledger and services that call it.
package progression

import "github.com/phantomapp/rewards/internal/domain"

// LevelFor returns the level for the given XP: the highest checkpoint in the
// sparse table whose threshold is met. Levels between checkpoints are not
// reachable; the checkpoint value is the level. Callers never pass negative
// XP — ledger arithmetic keeps XP non-negative.
func LevelFor(xp int64) int {
	level := domain.LevelCheckpoints[0].Level
	for _, cp := range domain.LevelCheckpoints {
		if xp < cp.Threshold {
			break
		}
		level = cp.Level
	}
	return level
}

// RemainingXP returns the XP still needed to reach the next checkpoint
// threshold above the current XP, or 0 at or above the top checkpoint.
func RemainingXP(xp int64) int64 {
	for _, cp := range domain.LevelCheckpoints {
		if xp < cp.Threshold {
			return cp.Threshold - xp
		}
	}
	return 0
}

// CheckpointsCrossed returns one entry per checkpoint crossed when moving
// from oldLevel to newLevel. A single large grant can cross several
// checkpoints; the ledger grants one level-up badge per entry.
func CheckpointsCrossed(oldLevel, newLevel int) []int {
	var crossed []int
	for _, cp := range domain.LevelCheckpoints {
		if cp.Level > oldLevel && cp.Level <= newLevel {
			crossed = append(crossed, cp.Level)
		}
	}
	return crossed
}
