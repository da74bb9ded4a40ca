package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/repository"
)

// --- in-memory fakes ---

type fakeUsers struct {
	user *domain.User
}

func (f *fakeUsers) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.User, error) {
	if f.user != nil && f.user.ID == id {
		u := *f.user
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUsers) LockForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*domain.User, error) {
	if f.user != nil && f.user.ID == id {
		u := *f.user
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUsers) Create(_ context.Context, _ repository.DBTX, u *domain.User) error {
	f.user = u
	return nil
}

func (f *fakeUsers) ApplyProgression(_ context.Context, _ pgx.Tx, id uuid.UUID, upd domain.ProgressionUpdate) (*domain.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, nil
	}
	if upd.GuardBalance && upd.CoinDelta < 0 && f.user.CoinBalance < -upd.CoinDelta {
		return nil, nil
	}
	f.user.XP += upd.XPDelta
	f.user.CoinBalance += upd.CoinDelta
	if upd.Level != nil {
		f.user.Level = *upd.Level
	}
	if upd.StreakCount != nil {
		f.user.Streak.Count = *upd.StreakCount
	}
	if upd.StreakDate != nil {
		f.user.Streak.LastClaimDate = upd.StreakDate
	}
	u := *f.user
	return &u, nil
}

type reasonKey string

func keyOf(userID uuid.UUID, r domain.RewardReason) reasonKey {
	act := ""
	if r.UserActivityID != nil {
		act = r.UserActivityID.String()
	}
	return reasonKey(fmt.Sprintf("%s|%s|%s|%s", userID, r.RefType, r.RefID, act))
}

type fakeRewards struct {
	rows map[reasonKey]*domain.Reward
}

func newFakeRewards() *fakeRewards {
	return &fakeRewards{rows: make(map[reasonKey]*domain.Reward)}
}

func (f *fakeRewards) Insert(_ context.Context, _ repository.DBTX, rw *domain.Reward) error {
	k := keyOf(rw.UserID, rw.Reason)
	if _, exists := f.rows[k]; exists {
		return repository.ErrDuplicate
	}
	f.rows[k] = rw
	return nil
}

func (f *fakeRewards) FindByReason(_ context.Context, _ repository.DBTX, userID uuid.UUID, reason domain.RewardReason) (*domain.Reward, error) {
	if rw, ok := f.rows[keyOf(userID, reason)]; ok {
		cp := *rw
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRewards) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) error {
	for k, rw := range f.rows {
		if rw.ID == id {
			delete(f.rows, k)
			return nil
		}
	}
	return fmt.Errorf("no row %s", id)
}

func (f *fakeRewards) ListByUser(_ context.Context, _ repository.DBTX, _ uuid.UUID, _ *string, _ int) ([]domain.Reward, error) {
	return nil, nil
}

type fakeAchievements struct {
	rows []domain.Achievement
}

func (f *fakeAchievements) Insert(_ context.Context, _ repository.DBTX, a *domain.Achievement) error {
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAchievements) ListByUser(_ context.Context, _ repository.DBTX, _ uuid.UUID) ([]domain.Achievement, error) {
	return f.rows, nil
}

func (f *fakeAchievements) CountOfType(_ context.Context, _ repository.DBTX, _ uuid.UUID, typ domain.AchievementType) (int, error) {
	n := 0
	for _, a := range f.rows {
		if a.Type == typ {
			n++
		}
	}
	return n, nil
}

func (f *fakeAchievements) LastOfType(_ context.Context, _ repository.DBTX, _ uuid.UUID, typ domain.AchievementType) (*time.Time, error) {
	var last *time.Time
	for _, a := range f.rows {
		if a.Type == typ {
			t := a.CreatedAt
			last = &t
		}
	}
	return last, nil
}

type fakeOutbox struct {
	drafts []domain.OutboxDraft
}

func (f *fakeOutbox) Insert(_ context.Context, _ repository.DBTX, d domain.OutboxDraft) error {
	f.drafts = append(f.drafts, d)
	return nil
}

func (f *fakeOutbox) FetchUnpublished(_ context.Context, _ repository.DBTX, _ int) ([]repository.OutboxRow, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, _ repository.DBTX, _ []int64) error {
	return nil
}

func (f *fakeOutbox) typesSeen() []domain.EventType {
	var out []domain.EventType
	for _, d := range f.drafts {
		out = append(out, d.EventType)
	}
	return out
}

// --- harness ---

type harness struct {
	engine       *Engine
	users        *fakeUsers
	rewards      *fakeRewards
	achievements *fakeAchievements
	outbox       *fakeOutbox
	userID       uuid.UUID
}

func newHarness(xp int64, level int) *harness {
	userID := uuid.New()
	users := &fakeUsers{user: &domain.User{ID: userID, XP: xp, Level: level}}
	rewards := newFakeRewards()
	achievements := &fakeAchievements{}
	outbox := &fakeOutbox{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &harness{
		engine:       NewEngine(users, rewards, achievements, outbox, logger),
		users:        users,
		rewards:      rewards,
		achievements: achievements,
		outbox:       outbox,
		userID:       userID,
	}
}

func reviewReason() domain.RewardReason {
	return domain.RewardReason{RefType: domain.RefReview, RefID: uuid.New()}
}

// --- Grant ---

func TestGrant_CreditsXP(t *testing.T) {
	h := newHarness(0, 1)

	result, err := h.engine.Grant(context.Background(), nil, domain.GrantParams{
		UserID: h.userID,
		Amount: 10,
		Reason: reviewReason(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), result.User.XP)
	assert.Equal(t, int64(10), result.Reward.XPAfter)
	assert.Equal(t, 1, result.NewLevel)
	assert.Empty(t, result.Achievements)
	assert.Equal(t, []domain.EventType{domain.EventRewardGranted}, h.outbox.typesSeen())
}

func TestGrant_CrossesCheckpoint(t *testing.T) {
	// xp 95 + 10 crosses the level-10 threshold at 100
	h := newHarness(95, 1)

	result, err := h.engine.Grant(context.Background(), nil, domain.GrantParams{
		UserID: h.userID,
		Amount: 10,
		Reason: reviewReason(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(105), result.User.XP)
	assert.Equal(t, 10, result.User.Level)
	assert.Equal(t, 1, result.OldLevel)
	assert.Equal(t, 10, result.NewLevel)
	require.Len(t, result.Achievements, 1)
	assert.Equal(t, domain.AchievementLevelUp, result.Achievements[0].Type)
	assert.Contains(t, h.outbox.typesSeen(), domain.EventLevelUp)
}

func TestGrant_MultiCheckpointJump(t *testing.T) {
	// 0 → 300 crosses both the level-10 (100) and level-20 (250) thresholds
	h := newHarness(0, 1)

	result, err := h.engine.Grant(context.Background(), nil, domain.GrantParams{
		UserID: h.userID,
		Amount: 300,
		Reason: reviewReason(),
	})
	require.NoError(t, err)

	assert.Equal(t, 20, result.NewLevel)
	assert.Len(t, result.Achievements, 2)
}

func TestGrant_DuplicateReasonConflicts(t *testing.T) {
	h := newHarness(0, 1)
	reason := reviewReason()
	params := domain.GrantParams{UserID: h.userID, Amount: 10, Reason: reason}

	_, err := h.engine.Grant(context.Background(), nil, params)
	require.NoError(t, err)

	_, err = h.engine.Grant(context.Background(), nil, params)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestGrant_RejectsNonPositiveAmount(t *testing.T) {
	h := newHarness(0, 1)
	_, err := h.engine.Grant(context.Background(), nil, domain.GrantParams{
		UserID: h.userID,
		Amount: 0,
		Reason: reviewReason(),
	})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestGrant_UnknownUser(t *testing.T) {
	h := newHarness(0, 1)
	_, err := h.engine.Grant(context.Background(), nil, domain.GrantParams{
		UserID: uuid.New(),
		Amount: 10,
		Reason: reviewReason(),
	})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

// --- Reverse ---

func TestReverse_RestoresXPAndLevel(t *testing.T) {
	h := newHarness(95, 1)
	reason := reviewReason()

	granted, err := h.engine.Grant(context.Background(), nil, domain.GrantParams{
		UserID: h.userID,
		Amount: 10,
		Reason: reason,
	})
	require.NoError(t, err)
	require.Equal(t, 10, granted.NewLevel)

	reversed, err := h.engine.Reverse(context.Background(), nil, h.userID, reason, domain.ReverseRequired)
	require.NoError(t, err)

	assert.Equal(t, int64(95), reversed.User.XP)
	assert.Equal(t, 1, reversed.User.Level)
	assert.Empty(t, h.rewards.rows)

	// badge from the original grant survives the reversal
	n, _ := h.achievements.CountOfType(context.Background(), nil, h.userID, domain.AchievementLevelUp)
	assert.Equal(t, 1, n)
}

func TestReverse_MissingEntryRequired(t *testing.T) {
	h := newHarness(50, 1)

	_, err := h.engine.Reverse(context.Background(), nil, h.userID, reviewReason(), domain.ReverseRequired)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestReverse_MissingEntryBestEffort(t *testing.T) {
	h := newHarness(50, 1)

	result, err := h.engine.Reverse(context.Background(), nil, h.userID, reviewReason(), domain.ReverseBestEffort)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, int64(50), h.users.user.XP)
}

func TestGrantReverse_RoundTrip(t *testing.T) {
	h := newHarness(240, 1)
	before := h.users.user.XP

	for i := 0; i < 5; i++ {
		reason := reviewReason()
		_, err := h.engine.Grant(context.Background(), nil, domain.GrantParams{
			UserID: h.userID,
			Amount: int64(10 + i),
			Reason: reason,
		})
		require.NoError(t, err)

		_, err = h.engine.Reverse(context.Background(), nil, h.userID, reason, domain.ReverseRequired)
		require.NoError(t, err)

		assert.Equal(t, before, h.users.user.XP)
	}
}
