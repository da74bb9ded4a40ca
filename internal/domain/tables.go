package domain

// Constant configuration tables for the progression engine. Loaded once at
// process start and never mutated at runtime; any tuning goes through a new
// build or an explicit config surface, not module-level mutation.

// LevelCheckpoint pairs a checkpoint level with its cumulative XP threshold.
type LevelCheckpoint struct {
	Level     int
	Threshold int64
}

// LevelCheckpoints is the sparse level table, ascending. Levels between
// checkpoints are not separately thresholded: a user's level is the highest
// checkpoint whose threshold their XP meets.
var LevelCheckpoints = []LevelCheckpoint{
	{Level: 1, Threshold: 0},
	{Level: 10, Threshold: 100},
	{Level: 20, Threshold: 250},
	{Level: 30, Threshold: 500},
	{Level: 40, Threshold: 1_000},
	{Level: 50, Threshold: 2_000},
	{Level: 60, Threshold: 4_000},
	{Level: 70, Threshold: 7_000},
	{Level: 80, Threshold: 11_000},
	{Level: 90, Threshold: 16_000},
	{Level: 100, Threshold: 22_000},
}

// DailyCoinSchedule is the coin amount per streak day, cycling weekly:
// streak day N pays DailyCoinSchedule[N % 7].
var DailyCoinSchedule = []int64{10, 15, 20, 25, 30, 40, 50}

// ActionXP maps each XP-bearing action to its grant amount.
var ActionXP = map[RefType]int64{
	RefReview:   10,
	RefCheckIn:  5,
	RefComment:  2,
	RefReaction: 1,
	RefHomemade: 8,
}

// Achievement rule parameters.
const (
	CriticReviewThreshold    = 5  // reviews for the one-shot critic badge
	CrowdPleaserThreshold    = 25 // reactions received per crowd-pleaser badge
	ExplorerWindowDays       = 7  // rolling window length
	ExplorerCheckInThreshold = 5  // check-ins required within the window
	NightOwlStartHour        = 0  // local-time window [start, end)
	NightOwlEndHour          = 5
	NightOwlCooldownHours    = 12
)
