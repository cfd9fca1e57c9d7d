// Package checkin — handlers.go обрабатывает команды !отметка и !история.
// Текст ответа зависит от времени суток; утром в ответ вплетается
// строка календаря дня.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/common"
	"vorozheya.ru/telegram-bot/internal/features/almanac"
)

// Тексты отказов. Ворожея не скрывает характер.
const (
	msgNight = "А-ах… (зевает) Не спится, гость дорогой? Ночью лавка закрыта.\n" +
		"Приходи после пяти утра, тогда и отметимся…"
	msgAlready = "Гость дорогой, сегодня ты уже отмечался. Приходи завтра~"
)

// Случайные концовки успешной отметки.
var suffixes = []string{
	"Пусть звёзды укажут тебе путь~",
	"Карты сегодня легли на удивление удачно.",
	"Выпьешь чаю на дорожку?",
	"В лавку как раз завезли свежие травы.",
}

// Handler обрабатывает команды отметок.
type Handler struct {
	service *Service
	almanac *almanac.Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд отметки.
func NewHandler(service *Service, almanacService *almanac.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, almanac: almanacService, bot: bot}
}

// HandleCheckin обрабатывает команду !отметка.
func (h *Handler) HandleCheckin(ctx context.Context, chatID, userID int64) {
	rec, period, err := h.service.RecordCheckin(ctx, userID, chatID, time.Now())
	switch {
	case errors.Is(err, common.ErrBlackout):
		h.sendMessage(chatID, msgNight)
		return
	case errors.Is(err, common.ErrAlreadyCheckedIn):
		h.sendMessage(chatID, msgAlready)
		return
	case err != nil:
		// Внутренний сбой: молчим в чат, пишем в лог
		log.WithError(err).WithField("user_id", userID).Error("Ошибка отметки")
		return
	}

	var text string
	switch period {
	case common.PeriodMorning:
		text = fmt.Sprintf(
			"Хм-м, ранний гость! Отметка принята.\n%s\n"+
				"Ты заглядывал к нам %d %s (серия — %s). Не желаешь ли погадать?",
			h.almanac.DailyLine(ctx),
			rec.TotalDays, common.PluralizeTimes(rec.TotalDays),
			common.FormatDays(rec.ContinuousDays),
		)
	case common.PeriodAfternoon:
		text = fmt.Sprintf(
			"Добрый день, гость дорогой! Заждалась уже. Отметка принята~\n"+
				"Ты в лавке %d-й раз, серия — %s.",
			rec.TotalDays, common.FormatDays(rec.ContinuousDays),
		)
	}

	text += "\n" + suffixes[rand.Intn(len(suffixes))]
	h.sendMessage(chatID, text)
}

// HandleHistory обрабатывает команду !история — показывает счёт отметок.
func (h *Handler) HandleHistory(ctx context.Context, chatID, userID int64) {
	rec, ok := h.service.Status(ctx, userID, chatID)
	if !ok {
		h.sendMessage(chatID, "Ты ещё ни разу не отмечался в лавке. Начни с !отметка~")
		return
	}

	text := fmt.Sprintf(
		"📜 Книга посещений\n\n"+
			"Первая отметка: %s\n"+
			"Последняя: %s\n"+
			"Всего: %d %s\n"+
			"Текущая серия: %s",
		rec.FirstDate, rec.LastDate,
		rec.TotalDays, common.PluralizeTimes(rec.TotalDays),
		common.FormatDays(rec.ContinuousDays),
	)
	h.sendMessage(chatID, text)
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
