// Package checkin — repository.go выполняет операции с документом
// checkin_records.json. Все записи всех гостей живут в одном документе,
// ключ — SubjectKey.
package checkin

import (
	"vorozheya.ru/telegram-bot/internal/storage"
)

// Repository предоставляет методы для работы с документом отметок.
type Repository struct {
	doc *storage.Document[map[string]Record]
}

// NewRepository создаёт репозиторий отметок поверх каталога данных.
func NewRepository(dataDir string) *Repository {
	return &Repository{
		doc: storage.NewDocument(dataDir, "checkin_records.json", func() map[string]Record {
			return map[string]Record{}
		}),
	}
}

// Get возвращает запись по ключу. Второе значение — нашлась ли запись.
func (r *Repository) Get(key string) (Record, bool) {
	records := r.doc.Load()
	rec, ok := records[key]
	return rec, ok
}

// Mutate применяет fn к записи key под мьютексом документа и синхронно
// сохраняет результат. Если fn вернула ошибку — документ не трогаем.
func (r *Repository) Mutate(key string, fn func(Record) (Record, error)) (Record, error) {
	var out Record
	err := r.doc.Update(func(records *map[string]Record) error {
		next, err := fn((*records)[key])
		if err != nil {
			return err
		}
		(*records)[key] = next
		out = next
		return nil
	})
	return out, err
}

// CountByDate возвращает, сколько гостей отметились в дату date (2006-01-02).
// Используется для ежедневной сводки хозяину.
func (r *Repository) CountByDate(date string) int {
	n := 0
	for _, rec := range r.doc.Load() {
		if rec.LastDate == date {
			n++
			continue
		}
		for _, h := range rec.History {
			if h.Date == date {
				n++
				break
			}
		}
	}
	return n
}
