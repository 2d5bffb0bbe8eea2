package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-client/internal/booking"
	"github.com/iliyamo/cinema-booking-client/internal/model"
)

func sampleRecord() *SessionRecord {
	st := booking.NewState("sess-1", "u1", model.ShowContext{MovieID: "m1", HallID: "h1", ShowtimeID: "s1"})
	st.Selection.Add("A1")
	price := int64(85000)
	st.PricePerSeat = &price
	return &SessionRecord{State: st}
}

func TestRedisSessionRepoPutGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisSessionRepo(db, 30*time.Minute)
	ctx := context.Background()

	rec := sampleRecord()
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	mock.ExpectSet("session:sess-1", raw, 30*time.Minute).SetVal("OK")
	require.NoError(t, repo.Put(ctx, rec))

	mock.ExpectGet("session:sess-1").SetVal(string(raw))
	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.State.UserID)
	assert.Equal(t, []string{"A1"}, got.State.Selection.IDs())
	require.NotNil(t, got.State.PricePerSeat)
	assert.Equal(t, int64(85000), *got.State.PricePerSeat)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepoMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisSessionRepo(db, time.Minute)

	mock.ExpectGet("session:nope").RedisNil()
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	mock.ExpectGet("session:down").SetErr(errors.New("connection refused"))
	_, err = repo.Get(context.Background(), "down")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepoLock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisSessionRepo(db, time.Minute)
	repo.newToken = func() string { return "tok-1" }
	ctx := context.Background()

	mock.ExpectSetNX("session:sess-1:lock", "submit:tok-1", 10*time.Second).SetVal(true)
	unlock, err := repo.Lock(ctx, "sess-1", "submit", 10*time.Second)
	require.NoError(t, err)

	mock.ExpectSetNX("session:sess-1:lock", "tap:tok-1", 10*time.Second).SetVal(false)
	mock.ExpectGet("session:sess-1:lock").SetVal("submit:tok-1")
	_, err = repo.Lock(ctx, "sess-1", "tap", 10*time.Second)
	assert.ErrorIs(t, err, ErrLocked)
	var le *LockedError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "submit", le.Holder)

	mock.ExpectEval(releaseScript, []string{"session:sess-1:lock"}, "submit:tok-1").SetVal(int64(1))
	require.NoError(t, unlock(ctx))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepoDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisSessionRepo(db, time.Minute)
	mock.ExpectDel("session:sess-1").SetVal(1)
	require.NoError(t, repo.Delete(context.Background(), "sess-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemorySessionRepoExpiresAndCopies(t *testing.T) {
	repo := NewMemorySessionRepo(time.Minute)
	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, repo.Put(ctx, rec))
	rec.State.Selection.Add("A2")

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, got.State.Selection.IDs())

	now = now.Add(2 * time.Minute)
	_, err = repo.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepoLock(t *testing.T) {
	repo := NewMemorySessionRepo(time.Minute)
	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	unlock, err := repo.Lock(ctx, "sess-1", "submit", 5*time.Second)
	require.NoError(t, err)
	_, err = repo.Lock(ctx, "sess-1", "close", 5*time.Second)
	assert.ErrorIs(t, err, ErrLocked)
	var le *LockedError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "submit", le.Holder)

	require.NoError(t, unlock(ctx))
	unlock2, err := repo.Lock(ctx, "sess-1", "tap", 5*time.Second)
	require.NoError(t, err)

	// an expired lock can be taken over and the stale unlock is a no-op
	now = now.Add(10 * time.Second)
	_, err = repo.Lock(ctx, "sess-1", "tap", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
	_, err = repo.Lock(ctx, "sess-1", "tap", 5*time.Second)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestSessionRecordBookkeeping(t *testing.T) {
	rec := sampleRecord()
	rec.AddSubmission(&booking.Submission{BookingIDs: []string{"b1"}, SeatTotal: 85000})
	rec.AddSubmission(&booking.Submission{BookingIDs: []string{"b2", "b3"}, SeatTotal: 170000})
	assert.Equal(t, []string{"b1", "b2", "b3"}, rec.BookingIDs)
	assert.Equal(t, int64(255000), rec.SeatTotal)

	rec.TakeBookings("t1")
	assert.Empty(t, rec.BookingIDs)
	assert.Zero(t, rec.SeatTotal)
	assert.Equal(t, []string{"t1"}, rec.TicketIDs)
}
