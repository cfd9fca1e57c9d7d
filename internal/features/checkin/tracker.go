// Package checkin — tracker.go содержит правила отметки.
// Чистая функция над записью: ни диска, ни часов — всё приходит снаружи,
// поэтому правила полностью тестируются.
package checkin

import (
	"time"

	"vorozheya.ru/telegram-bot/internal/common"
)

// Apply применяет одну попытку отметки к записи rec в момент now.
//
// Правила, по порядку:
//  1. Ночное окно (night-период, 20:00–05:00) — отметка запрещена,
//     возвращается common.ErrBlackout, запись не меняется.
//  2. Повтор за день — если LastDate == сегодня, возвращается
//     common.ErrAlreadyCheckedIn, запись не меняется.
//  3. Серия — если LastDate == вчера, ContinuousDays += 1;
//     иначе (первая отметка или пропуск) серия начинается заново с 1.
//
// При успехе TotalDays увеличивается на 1, LastDate становится сегодняшней
// датой, в History дописывается запись с датой, временем и периодом.
// Исходная запись не мутируется — возвращается обновлённая копия.
func Apply(rec Record, now time.Time) (Record, error) {
	period := common.ClassifyPeriod(now)
	if period == common.PeriodNight {
		return rec, common.ErrBlackout
	}

	today := common.DateString(now)
	if rec.LastDate == today {
		return rec, common.ErrAlreadyCheckedIn
	}

	next := rec
	if next.FirstDate == "" {
		next.FirstDate = today
	}

	if rec.LastDate == common.YesterdayString(now) {
		next.ContinuousDays = rec.ContinuousDays + 1
	} else {
		// Первая отметка или разрыв серии в 2+ дня
		next.ContinuousDays = 1
	}

	next.TotalDays = rec.TotalDays + 1
	next.LastDate = today

	// Копируем историю, чтобы не делить срез с исходной записью
	next.History = make([]HistoryEntry, len(rec.History), len(rec.History)+1)
	copy(next.History, rec.History)
	next.History = append(next.History, HistoryEntry{
		Date:   today,
		Time:   common.TimeString(now),
		Period: string(period),
	})

	return next, nil
}
