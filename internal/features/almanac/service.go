// Package almanac отдаёт «календарь дня» — строку про благоприятные
// и неблагоприятные дела, которая вплетается в утренний ответ на отметку.
//
// Живой источник строго best-effort: ограниченный таймаут, любой сбой
// (сеть, не-2xx, не нашлись маркеры) — тихо падаем на локальную генерацию.
// Пользователь НИКОГДА не видит ошибку календаря.
package almanac

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/common"
)

// Время жизни кеша. Источник обновляется редко, дёргать его на каждую
// отметку незачем.
const cacheTTL = 6 * time.Hour

// Локальные заготовки для генерации, когда живой источник недоступен.
var (
	luckyActions   = []string{"дальняя дорога", "новые знакомства", "договоры", "переезд", "уборка"}
	unluckyActions = []string{"ссоры", "займы", "крупные траты", "стрижка", "азартные споры"}
)

// Config — настройки живого источника.
type Config struct {
	URL        string        // Пусто — живём только на локальной генерации
	MarkerFrom string        // Начало интересного фрагмента страницы
	MarkerTo   string        // Конец фрагмента
	Timeout    time.Duration // Таймаут запроса
}

// Service кеширует календарь дня.
type Service struct {
	cfg    Config
	client *http.Client
	loc    *time.Location

	mu        sync.Mutex
	cached    string
	fetchedAt time.Time
}

// NewService создаёт сервис календаря.
func NewService(cfg Config, loc *time.Location) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		loc:    loc,
	}
}

// DailyLine возвращает строку календаря на сегодня.
// Сначала кеш, потом живой источник, в самом конце — локальная генерация.
func (s *Service) DailyLine(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" && time.Since(s.fetchedAt) < cacheTTL {
		return s.cached
	}

	line, err := s.fetch(ctx)
	if err != nil {
		log.WithError(err).Warn("Календарь дня недоступен, генерируем локально")
		line = s.generate()
	}

	s.cached = line
	s.fetchedAt = time.Now()
	return line
}

// Refresh принудительно обновляет кеш. Вызывается кроном раз в 6 часов.
func (s *Service) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.cached = ""
	s.mu.Unlock()
	s.DailyLine(ctx)
}

// fetch забирает фрагмент страницы между маркерами.
// Разбор нарочно примитивный: две подстроки; изменится вёрстка —
// сработает fallback, и ладно.
func (s *Service) fetch(ctx context.Context) (string, error) {
	if s.cfg.URL == "" {
		return "", fmt.Errorf("живой источник не настроен")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("источник ответил %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	content := string(body)
	from := strings.Index(content, s.cfg.MarkerFrom)
	if from < 0 {
		return "", fmt.Errorf("маркер начала не найден")
	}
	rest := content[from:]
	to := strings.Index(rest, s.cfg.MarkerTo)
	if to < 0 {
		return "", fmt.Errorf("маркер конца не найден")
	}

	line := strings.TrimSpace(rest[:to+len(s.cfg.MarkerTo)])
	if line == "" {
		return "", fmt.Errorf("пустой фрагмент между маркерами")
	}
	return line, nil
}

// generate собирает локальный календарь: по два случайных дела из каждой
// заготовки.
func (s *Service) generate() string {
	date := common.DateString(time.Now().In(s.loc))
	return fmt.Sprintf("%s. Благоприятно: %s. Неблагоприятно: %s.",
		date, pickTwo(luckyActions), pickTwo(unluckyActions))
}

// pickTwo выбирает два разных элемента из списка.
func pickTwo(items []string) string {
	i := rand.Intn(len(items))
	j := rand.Intn(len(items) - 1)
	if j >= i {
		j++
	}
	return items[i] + ", " + items[j]
}
