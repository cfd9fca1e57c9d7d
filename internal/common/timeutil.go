// Package common содержит общие утилиты: время суток, форматирование дат,
// русская плюрализация.
package common

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// DayPeriod — фиксированное время суток. Границы — контракт:
// от них зависят и запрет ночной отметки, и выбор текста ответа.
// Менять нельзя.
type DayPeriod string

const (
	// PeriodMorning — утро, [05:00, 12:00)
	PeriodMorning DayPeriod = "morning"
	// PeriodAfternoon — день, [12:00, 20:00)
	PeriodAfternoon DayPeriod = "afternoon"
	// PeriodNight — ночь, [20:00, 05:00), через полночь
	PeriodNight DayPeriod = "night"
)

// ClassifyPeriod определяет время суток по часу.
//
// Примеры:
//
//	05:00 → morning
//	11:59 → morning
//	12:00 → afternoon
//	19:59 → afternoon
//	20:00 → night
//	04:59 → night
func ClassifyPeriod(t time.Time) DayPeriod {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 20:
		return PeriodAfternoon
	default:
		return PeriodNight
	}
}

// LoadTimezone загружает часовой пояс по имени.
// Если не удалось — возвращает UTC+3 вручную (как у ботов на проде,
// где в контейнере нет tzdata).
func LoadTimezone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).WithField("tz", name).Warn("Не удалось загрузить часовой пояс, используем UTC+3")
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// DateString форматирует дату записи отметки. Формат: 2006-01-02.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// TimeString форматирует время записи отметки. Формат: 15:04:05.
func TimeString(t time.Time) string {
	return t.Format("15:04:05")
}

// YesterdayString возвращает дату «вчера» относительно t.
func YesterdayString(t time.Time) string {
	return DateString(t.AddDate(0, 0, -1))
}
