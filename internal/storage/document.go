// Package storage реализует хранилище бота: один JSON-документ на логическую
// коллекцию (отметки, чёрный список, настройки групп и т.д.) в каталоге данных.
//
// Контракт простой и намеренно грубый:
//   - Load никогда не роняет бизнес-операцию: нет файла или файл битый —
//     возвращаем значение по умолчанию и едем дальше;
//   - Save целиком перезаписывает файл, без merge и без блокировок между
//     процессами. Потерянная запись при падении между «посчитали» и
//     «записали» — принятый режим отказа;
//   - Update выполняет load-mutate-save под мьютексом документа, чтобы
//     параллельные обработчики не затирали друг друга.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Document — один JSON-документ на диске с типизированным содержимым.
// T — тип всей коллекции (map, срез или структура), не отдельной записи.
type Document[T any] struct {
	path string
	def  func() T // фабрика значения по умолчанию

	mu sync.Mutex
}

// NewDocument создаёт документ name в каталоге dir.
// def возвращает значение по умолчанию — его отдаём при отсутствии
// или порче файла.
func NewDocument[T any](dir, name string, def func() T) *Document[T] {
	return &Document[T]{
		path: filepath.Join(dir, name),
		def:  def,
	}
}

// Path возвращает путь к файлу документа.
func (d *Document[T]) Path() string {
	return d.path
}

// Load читает документ с диска.
// Отсутствующий или битый файл — это НЕ ошибка: возвращается значение
// по умолчанию. Бизнес-операция не должна падать из-за кеш-файла.
func (d *Document[T]) Load() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

// load — чтение без захвата мьютекса (для Update).
func (d *Document[T]) load() T {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).WithField("path", d.path).Warn("Не удалось прочитать документ, используем пустой")
		}
		return d.def()
	}

	v := d.def()
	if err := json.Unmarshal(raw, &v); err != nil {
		log.WithError(err).WithField("path", d.path).Warn("Документ повреждён, используем пустой")
		return d.def()
	}
	return v
}

// Save целиком перезаписывает документ на диске.
func (d *Document[T]) Save(v T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(v)
}

// save — запись без захвата мьютекса (для Update).
func (d *Document[T]) save(v T) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("каталог данных: %w", err)
	}

	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("сериализация %s: %w", d.path, err)
	}

	if err := os.WriteFile(d.path, raw, 0o644); err != nil {
		return fmt.Errorf("запись %s: %w", d.path, err)
	}
	return nil
}

// Update выполняет цикл load-mutate-save атомарно относительно других
// вызовов Update/Load/Save этого же документа.
// Единственная защита от потерянных обновлений при параллельной
// обработке апдейтов — поэтому все мутации идут ТОЛЬКО через Update.
func (d *Document[T]) Update(fn func(*T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.load()
	if err := fn(&v); err != nil {
		return err
	}
	return d.save(v)
}
