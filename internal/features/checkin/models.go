// Package checkin управляет ежедневными отметками гостей лавки.
// models.go описывает запись отметки, как она лежит в checkin_records.json.
package checkin

import "fmt"

// Record — запись отметок одного гостя в одном чате.
// Ключ в документе — SubjectKey(userID, chatID).
type Record struct {
	UserID int64 `json:"user_id"`
	ChatID int64 `json:"chat_id"`

	FirstDate string `json:"first_date"` // Дата первой отметки (2006-01-02)
	LastDate  string `json:"last_date"`  // Дата последней отметки

	TotalDays      int `json:"total_days"`      // Всего отметок (по одной в день)
	ContinuousDays int `json:"continuous_days"` // Текущая непрерывная серия

	// История отметок, только дописывается. len(History) == TotalDays.
	History []HistoryEntry `json:"history"`
}

// HistoryEntry — одна отметка в истории.
type HistoryEntry struct {
	Date   string `json:"date"`   // 2006-01-02
	Time   string `json:"time"`   // 15:04:05
	Period string `json:"period"` // morning / afternoon
}

// SubjectKey собирает ключ записи: "{userID}_{chatID}".
// Формат файла фиксирован, менять нельзя.
func SubjectKey(userID, chatID int64) string {
	return fmt.Sprintf("%d_%d", userID, chatID)
}
