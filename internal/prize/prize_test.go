package prize

import (
	"context"
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

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakePrizes struct {
	rows map[uuid.UUID]*domain.Prize
}

func (f *fakePrizes) Create(_ context.Context, _ repository.DBTX, p *domain.Prize) error {
	f.rows[p.ID] = p
	return nil
}

func (f *fakePrizes) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Prize, error) {
	if p, ok := f.rows[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePrizes) LockForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Prize, error) {
	return f.FindByID(context.Background(), nil, id)
}

func (f *fakePrizes) List(_ context.Context, _ repository.DBTX) ([]domain.Prize, error) {
	var out []domain.Prize
	for _, p := range f.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePrizes) AdjustStock(_ context.Context, _ pgx.Tx, id uuid.UUID, delta int) (*domain.Prize, error) {
	p, ok := f.rows[id]
	if !ok || p.Count+delta < 0 {
		return nil, nil
	}
	p.Count += delta
	cp := *p
	return &cp, nil
}

type fakeRedemptions struct {
	rows map[uuid.UUID]*domain.PrizeRedemption
}

func (f *fakeRedemptions) Insert(_ context.Context, _ repository.DBTX, r *domain.PrizeRedemption) error {
	f.rows[r.ID] = r
	return nil
}

func (f *fakeRedemptions) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.PrizeRedemption, error) {
	if r, ok := f.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRedemptions) LockForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*domain.PrizeRedemption, error) {
	return f.FindByID(context.Background(), nil, id)
}

func (f *fakeRedemptions) Resolve(_ context.Context, _ pgx.Tx, id uuid.UUID, status domain.RedemptionStatus, note *string, at time.Time) error {
	if r, ok := f.rows[id]; ok && r.Status == domain.RedemptionPending {
		r.Status = status
		r.Note = note
		r.ResolvedAt = &at
	}
	return nil
}

func (f *fakeRedemptions) ListByUser(_ context.Context, _ repository.DBTX, userID uuid.UUID) ([]domain.PrizeRedemption, error) {
	var out []domain.PrizeRedemption
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRedemptions) ListByStatus(_ context.Context, _ repository.DBTX, status domain.RedemptionStatus, _ int) ([]domain.PrizeRedemption, error) {
	var out []domain.PrizeRedemption
	for _, r := range f.rows {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

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
	return f.FindByID(context.Background(), nil, id)
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
	u := *f.user
	return &u, nil
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

type harness struct {
	svc         *Service
	prizes      *fakePrizes
	redemptions *fakeRedemptions
	users       *fakeUsers
	outbox      *fakeOutbox
	userID      uuid.UUID
	prizeID     uuid.UUID
}

func newHarness(balance, cost int64, stock int) *harness {
	userID := uuid.New()
	prizeID := uuid.New()
	prizes := &fakePrizes{rows: map[uuid.UUID]*domain.Prize{
		prizeID: {ID: prizeID, Title: "Dinner for two", Amount: cost, Count: stock, CreatedAt: testNow},
	}}
	redemptions := &fakeRedemptions{rows: make(map[uuid.UUID]*domain.PrizeRedemption)}
	users := &fakeUsers{user: &domain.User{ID: userID, CoinBalance: balance}}
	outbox := &fakeOutbox{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &harness{
		svc:         NewService(prizes, redemptions, users, outbox, logger),
		prizes:      prizes,
		redemptions: redemptions,
		users:       users,
		outbox:      outbox,
		userID:      userID,
		prizeID:     prizeID,
	}
}

func TestRedeem_OpensPendingRedemption(t *testing.T) {
	h := newHarness(700, 500, 3)

	r, err := h.svc.Redeem(context.Background(), nil, h.userID, h.prizeID, testNow)
	require.NoError(t, err)

	assert.Equal(t, domain.RedemptionPending, r.Status)
	assert.Equal(t, int64(200), h.users.user.CoinBalance)
	assert.Equal(t, 2, h.prizes.rows[h.prizeID].Count)
	require.Len(t, h.outbox.drafts, 1)
	assert.Equal(t, domain.EventRedemptionRequested, h.outbox.drafts[0].EventType)
}

func TestRedeem_InsufficientBalance(t *testing.T) {
	h := newHarness(499, 500, 3)

	_, err := h.svc.Redeem(context.Background(), nil, h.userID, h.prizeID, testNow)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_BALANCE", appErr.Code)
	assert.Equal(t, int64(499), h.users.user.CoinBalance)
	assert.Equal(t, 3, h.prizes.rows[h.prizeID].Count)
}

func TestRedeem_OutOfStock(t *testing.T) {
	h := newHarness(700, 500, 0)

	_, err := h.svc.Redeem(context.Background(), nil, h.userID, h.prizeID, testNow)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "finished")
	assert.Equal(t, int64(700), h.users.user.CoinBalance)
}

func TestRedeem_UnknownPrize(t *testing.T) {
	h := newHarness(700, 500, 3)

	_, err := h.svc.Redeem(context.Background(), nil, h.userID, uuid.New(), testNow)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestReview_ApproveIsFinal(t *testing.T) {
	h := newHarness(700, 500, 3)

	r, err := h.svc.Redeem(context.Background(), nil, h.userID, h.prizeID, testNow)
	require.NoError(t, err)

	resolved, err := h.svc.Review(context.Background(), nil, r.ID, true, nil, testNow.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, domain.RedemptionSuccessful, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	// approval keeps the debit and the stock decrement
	assert.Equal(t, int64(200), h.users.user.CoinBalance)
	assert.Equal(t, 2, h.prizes.rows[h.prizeID].Count)
}

func TestReview_DeclineRollsBack(t *testing.T) {
	// balance 700 → 200 on redeem → 700 again on decline
	h := newHarness(700, 500, 3)

	r, err := h.svc.Redeem(context.Background(), nil, h.userID, h.prizeID, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(200), h.users.user.CoinBalance)

	note := "address could not be verified"
	resolved, err := h.svc.Review(context.Background(), nil, r.ID, false, &note, testNow.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, domain.RedemptionDeclined, resolved.Status)
	require.NotNil(t, resolved.Note)
	assert.Equal(t, note, *resolved.Note)
	assert.Equal(t, int64(700), h.users.user.CoinBalance)
	assert.Equal(t, 3, h.prizes.rows[h.prizeID].Count)
}

func TestReview_ResolvesOnce(t *testing.T) {
	h := newHarness(700, 500, 3)

	r, err := h.svc.Redeem(context.Background(), nil, h.userID, h.prizeID, testNow)
	require.NoError(t, err)

	_, err = h.svc.Review(context.Background(), nil, r.ID, false, nil, testNow.Add(time.Hour))
	require.NoError(t, err)

	// a second decline must not refund twice
	_, err = h.svc.Review(context.Background(), nil, r.ID, false, nil, testNow.Add(2*time.Hour))
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "already verified as declined")

	assert.Equal(t, int64(700), h.users.user.CoinBalance)
	assert.Equal(t, 3, h.prizes.rows[h.prizeID].Count)
}

func TestReview_UnknownRedemption(t *testing.T) {
	h := newHarness(700, 500, 3)

	_, err := h.svc.Review(context.Background(), nil, uuid.New(), true, nil, testNow)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
