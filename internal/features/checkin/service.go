// Package checkin — service.go содержит бизнес-логику отметок:
// применяет правила и синхронно сохраняет результат.
package checkin

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/common"
)

// Service управляет отметками.
type Service struct {
	repo *Repository
	loc  *time.Location
}

// NewService создаёт сервис отметок.
func NewService(repo *Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc}
}

// RecordCheckin обрабатывает попытку отметки гостя.
// Возвращает обновлённую запись и период суток. Ошибки-отказы
// (common.ErrBlackout, common.ErrAlreadyCheckedIn) — это НЕ сбои:
// запись при них не меняется, обработчик подбирает шаблонный ответ.
func (s *Service) RecordCheckin(ctx context.Context, userID, chatID int64, now time.Time) (Record, common.DayPeriod, error) {
	now = now.In(s.loc)
	key := SubjectKey(userID, chatID)

	rec, err := s.repo.Mutate(key, func(rec Record) (Record, error) {
		rec.UserID = userID
		rec.ChatID = chatID
		return Apply(rec, now)
	})
	if err != nil {
		return rec, common.ClassifyPeriod(now), err
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"chat_id":    chatID,
		"total":      rec.TotalDays,
		"continuous": rec.ContinuousDays,
	}).Debug("Отметка записана")

	return rec, common.ClassifyPeriod(now), nil
}

// Status возвращает запись гостя без изменений.
func (s *Service) Status(ctx context.Context, userID, chatID int64) (Record, bool) {
	return s.repo.Get(SubjectKey(userID, chatID))
}

// DailySummary собирает сводку по отметкам за дату date.
// Вызывается кроном для ежедневного отчёта хозяину.
func (s *Service) DailySummary(ctx context.Context, date time.Time) string {
	d := common.DateString(date.In(s.loc))
	n := s.repo.CountByDate(d)
	return fmt.Sprintf("Сводка лавки за %s: отметились %d %s.", d, n, common.PluralizeTimes(n))
}
