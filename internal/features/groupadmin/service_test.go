package groupadmin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vorozheya.ru/telegram-bot/internal/common"
	"vorozheya.ru/telegram-bot/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{OwnerID: 100}
	return NewService(NewRepository(t.TempDir()), cfg, time.UTC)
}

func TestService_Delegates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	assert.True(t, s.IsAdmin(100), "хозяйка всегда админ")
	assert.False(t, s.IsAdmin(200))

	require.NoError(t, s.AddDelegate(ctx, 200))
	require.NoError(t, s.AddDelegate(ctx, 300))
	assert.True(t, s.IsAdmin(200))
	assert.True(t, s.IsAdmin(300))

	// Третьему места нет.
	err := s.AddDelegate(ctx, 400)
	require.ErrorIs(t, err, common.ErrDelegatesFull)

	// Повторное назначение не занимает место.
	require.NoError(t, s.AddDelegate(ctx, 200))

	require.NoError(t, s.RemoveDelegate(ctx, 200))
	assert.False(t, s.IsAdmin(200))
	require.NoError(t, s.AddDelegate(ctx, 400))

	err = s.RemoveDelegate(ctx, 999)
	require.ErrorIs(t, err, common.ErrNotDelegate)
}

func TestService_ModesPersist(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{OwnerID: 100}
	dir := t.TempDir()

	s := NewService(NewRepository(dir), cfg, time.UTC)
	assert.False(t, s.PermissionMode())
	assert.False(t, s.ApproveMode())

	require.NoError(t, s.SetPermissionMode(ctx, true))
	require.NoError(t, s.SetApproveMode(ctx, true))

	// Состояние переживает перезапуск.
	s2 := NewService(NewRepository(dir), cfg, time.UTC)
	assert.True(t, s2.PermissionMode())
	assert.True(t, s2.ApproveMode())
}

func TestService_Lists(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	require.NoError(t, s.BlacklistAdd(ctx, 500))
	assert.True(t, s.IsBlacklisted(500))
	require.NoError(t, s.BlacklistRemove(ctx, 500))
	assert.False(t, s.IsBlacklisted(500))

	require.NoError(t, s.WhitelistAdd(ctx, 600))
	assert.True(t, s.IsWhitelisted(600))
	require.NoError(t, s.WhitelistRemove(ctx, 600))
	assert.False(t, s.IsWhitelisted(600))
}

func TestService_BlockedWords(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	require.NoError(t, s.WordAdd(ctx, "Казино"))

	word, found := s.FindBlockedWord("пошли в КАЗИНО вечером")
	require.True(t, found)
	assert.Equal(t, "казино", word)

	_, found = s.FindBlockedWord("чаю выпьем?")
	assert.False(t, found)

	require.NoError(t, s.WordRemove(ctx, "казино"))
	_, found = s.FindBlockedWord("пошли в казино")
	assert.False(t, found)

	err := s.WordAdd(ctx, "   ")
	require.ErrorIs(t, err, common.ErrBadArgument)
}

func TestService_EvaluateJoinRequest(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	require.NoError(t, s.BlacklistAdd(ctx, 1))
	require.NoError(t, s.WhitelistAdd(ctx, 2))
	require.NoError(t, s.RuleAdd(ctx, "гадание"))

	assert.Equal(t, VerdictDecline, s.EvaluateJoinRequest(JoinTicket{UserID: 1}))
	assert.Equal(t, VerdictApprove, s.EvaluateJoinRequest(JoinTicket{UserID: 2}))
	assert.Equal(t, VerdictApprove,
		s.EvaluateJoinRequest(JoinTicket{UserID: 3, Comment: "Пришёл за Гаданием"}))
	assert.Equal(t, VerdictForward,
		s.EvaluateJoinRequest(JoinTicket{UserID: 3, Comment: "просто так"}))

	// Чёрный список сильнее белого.
	require.NoError(t, s.BlacklistAdd(ctx, 2))
	assert.Equal(t, VerdictDecline, s.EvaluateJoinRequest(JoinTicket{UserID: 2}))
}

func TestService_EvaluateJoinRequest_Levels(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	require.NoError(t, s.repo.UpdateRules(func(r *ApproveRules) error {
		r.LevelDeny = []int{0}
		r.LevelAllow = []int{3, 4}
		return nil
	}))
	require.NoError(t, s.RuleAdd(ctx, "гадание"))

	levels := map[int64]int{1: 0, 2: 3, 3: 1}
	s.SetLevelProvider(func(userID int64) (int, bool) {
		level, ok := levels[userID]
		return level, ok
	})

	assert.Equal(t, VerdictDecline, s.EvaluateJoinRequest(JoinTicket{UserID: 1}))
	assert.Equal(t, VerdictApprove, s.EvaluateJoinRequest(JoinTicket{UserID: 2}))
	// Уровень вне правил решения не даёт, дальше смотрим ключевые слова.
	assert.Equal(t, VerdictForward, s.EvaluateJoinRequest(JoinTicket{UserID: 3}))
	assert.Equal(t, VerdictApprove,
		s.EvaluateJoinRequest(JoinTicket{UserID: 3, Comment: "пришла за гаданием"}))
	// Неизвестный гость без уровня — тоже к хозяйке.
	assert.Equal(t, VerdictForward, s.EvaluateJoinRequest(JoinTicket{UserID: 9}))

	// Белый список гостей сильнее запрещённого уровня.
	require.NoError(t, s.WhitelistAdd(ctx, 1))
	assert.Equal(t, VerdictApprove, s.EvaluateJoinRequest(JoinTicket{UserID: 1}))
}

func TestService_Tickets(t *testing.T) {
	s := newTestService(t)

	ticket := JoinTicket{UserID: 7, ChatID: -1, Name: "Гость"}
	id := s.IssueTicket(ticket)
	require.Len(t, id, 8)

	got, err := s.TakeTicket(id)
	require.NoError(t, err)
	assert.Equal(t, ticket, got)

	// Билет одноразовый.
	_, err = s.TakeTicket(id)
	require.Error(t, err)
}

func TestService_ViolationLog(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	s.LogViolation(ctx, 10, -1, "казино", "пошли в казино")
	s.LogViolation(ctx, 11, -1, "казино", "казино!")

	violations := s.repo.Violations()
	require.Len(t, violations, 2)
	assert.Equal(t, int64(10), violations[0].UserID)
	assert.Equal(t, "казино", violations[0].Word)
	assert.NotEmpty(t, violations[0].Date)
}
