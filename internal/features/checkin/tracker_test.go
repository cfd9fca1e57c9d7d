package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vorozheya.ru/telegram-bot/internal/common"
)

// at собирает момент времени в UTC: буквальные часы без часовых поясов,
// чтобы правила читались прямо из теста.
func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestApply_FirstCheckin(t *testing.T) {
	rec, err := Apply(Record{}, at(2024, time.March, 10, 9, 30))
	require.NoError(t, err)

	assert.Equal(t, 1, rec.TotalDays)
	assert.Equal(t, 1, rec.ContinuousDays)
	assert.Equal(t, "2024-03-10", rec.FirstDate)
	assert.Equal(t, "2024-03-10", rec.LastDate)
	require.Len(t, rec.History, 1)
	assert.Equal(t, "2024-03-10", rec.History[0].Date)
	assert.Equal(t, "09:30:00", rec.History[0].Time)
	assert.Equal(t, "morning", rec.History[0].Period)
}

func TestApply_SameDayIsRejectedAndUnchanged(t *testing.T) {
	first, err := Apply(Record{}, at(2024, time.March, 10, 9, 0))
	require.NoError(t, err)

	second, err := Apply(first, at(2024, time.March, 10, 15, 0))
	require.ErrorIs(t, err, common.ErrAlreadyCheckedIn)
	assert.Equal(t, first, second, "запись не должна меняться при повторе")
}

func TestApply_StreakContinuesFromYesterday(t *testing.T) {
	rec := Record{
		FirstDate:      "2024-03-01",
		LastDate:       "2024-03-09",
		TotalDays:      5,
		ContinuousDays: 3,
		History:        make([]HistoryEntry, 5),
	}

	next, err := Apply(rec, at(2024, time.March, 10, 13, 0))
	require.NoError(t, err)
	assert.Equal(t, 4, next.ContinuousDays)
	assert.Equal(t, 6, next.TotalDays)
}

func TestApply_StreakResetsAfterGap(t *testing.T) {
	rec := Record{
		FirstDate:      "2024-03-01",
		LastDate:       "2024-03-07", // разрыв в 3 дня
		TotalDays:      7,
		ContinuousDays: 7,
		History:        make([]HistoryEntry, 7),
	}

	next, err := Apply(rec, at(2024, time.March, 10, 13, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, next.ContinuousDays)
	assert.Equal(t, 8, next.TotalDays)
}

func TestApply_NightBlackoutNeverMutates(t *testing.T) {
	rec := Record{
		FirstDate:      "2024-03-01",
		LastDate:       "2024-03-09",
		TotalDays:      5,
		ContinuousDays: 3,
	}

	nights := []time.Time{
		at(2024, time.March, 10, 20, 0),  // ровно 20:00
		at(2024, time.March, 10, 23, 59), // до полуночи
		at(2024, time.March, 10, 0, 30),  // после полуночи
		at(2024, time.March, 10, 4, 59),  // перед открытием
	}
	for _, now := range nights {
		got, err := Apply(rec, now)
		require.ErrorIs(t, err, common.ErrBlackout, "в %s", now)
		assert.Equal(t, rec, got)
	}
}

func TestApply_HistoryLengthEqualsTotalDays(t *testing.T) {
	rec := Record{}
	days := []time.Time{
		at(2024, time.March, 10, 9, 0),
		at(2024, time.March, 11, 14, 0),
		at(2024, time.March, 12, 6, 0),
	}
	for _, now := range days {
		var err error
		rec, err = Apply(rec, now)
		require.NoError(t, err)
		assert.Len(t, rec.History, rec.TotalDays)
	}
	assert.Equal(t, 3, rec.ContinuousDays)
}

func TestService_PersistsAndRoundTrips(t *testing.T) {
	repo := NewRepository(t.TempDir())
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	want, _, err := svc.RecordCheckin(ctx, 100, -200, at(2024, time.March, 10, 9, 30))
	require.NoError(t, err)

	// Повторная загрузка из файла даёт ту же запись во всех полях
	got, ok := repo.Get(SubjectKey(100, -200))
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestService_SecondAttemptSameDayKeepsFileUntouched(t *testing.T) {
	repo := NewRepository(t.TempDir())
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	_, _, err := svc.RecordCheckin(ctx, 100, -200, at(2024, time.March, 10, 9, 30))
	require.NoError(t, err)
	before, _ := repo.Get(SubjectKey(100, -200))

	_, _, err = svc.RecordCheckin(ctx, 100, -200, at(2024, time.March, 10, 16, 0))
	require.ErrorIs(t, err, common.ErrAlreadyCheckedIn)

	after, _ := repo.Get(SubjectKey(100, -200))
	assert.Equal(t, before, after)
}

func TestService_StatusOnUnknownSubject(t *testing.T) {
	repo := NewRepository(t.TempDir())
	svc := NewService(repo, time.UTC)

	_, ok := svc.Status(context.Background(), 1, 2)
	assert.False(t, ok)
}
