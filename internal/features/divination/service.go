package divination

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/common"
)

// Сколько читаем из ответа внешнего API максимум.
const maxHoroscopeBody = 1 << 20

// horoscopeResponse — формат ответа внешнего гороскопного API.
type horoscopeResponse struct {
	LuckyLevel  int    `json:"lucky_level"`
	Description string `json:"description"`
}

// Reading — готовый результат гадания для одного знака.
type Reading struct {
	Sign   string
	Tier   Tier
	Detail string
	Advice string
	Live   bool
}

// Service выдаёт предсказания: сначала пробует внешний API,
// при любой ошибке откатывается на локальный генератор.
type Service struct {
	gen    *Generator
	apiURL string
	client *http.Client
	loc    *time.Location

	mu    sync.Mutex
	cache map[string]Reading // "дата_знак" -> результат API
}

func NewService(gen *Generator, apiURL string, timeout time.Duration, loc *time.Location) *Service {
	return &Service{
		gen:    gen,
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
		loc:    loc,
		cache:  make(map[string]Reading),
	}
}

// Divine возвращает предсказание для знака. Результаты внешнего API
// кэшируются до конца дня, локальные розыгрыши всегда свежие.
func (s *Service) Divine(ctx context.Context, sign string) Reading {
	name, err := NormalizeSign(sign)
	if err != nil {
		// Вызывающий обязан проверить знак заранее; подстрахуемся.
		name = sign
	}

	if s.apiURL != "" {
		if reading, ok := s.fromAPI(ctx, name); ok {
			return reading
		}
	}

	tier, detail := s.gen.Draw(name)
	return Reading{
		Sign:   name,
		Tier:   tier,
		Detail: detail,
		Advice: s.gen.Advice(tier),
	}
}

// Chances возвращает нормированные вероятности уровней для знака.
func (s *Service) Chances(sign string) Weights {
	return s.gen.Probabilities(sign)
}

func (s *Service) fromAPI(ctx context.Context, sign string) (Reading, bool) {
	key := common.DateString(time.Now().In(s.loc)) + "_" + sign

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return cached, true
	}

	reading, err := s.fetch(ctx, sign)
	if err != nil {
		log.WithError(err).WithField("sign", sign).Warn("внешний гороскоп недоступен, гадаем сами")
		return Reading{}, false
	}
	reading.Sign = sign

	s.mu.Lock()
	// Кэш маленький (дата × 12 знаков), но вчерашние записи выбрасываем.
	for k := range s.cache {
		if len(k) >= 10 && k[:10] != key[:10] {
			delete(s.cache, k)
		}
	}
	s.cache[key] = reading
	s.mu.Unlock()

	return reading, true
}

func (s *Service) fetch(ctx context.Context, sign string) (Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?sign="+url.QueryEscape(sign), nil)
	if err != nil {
		return Reading{}, fmt.Errorf("собрать запрос: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("запросить гороскоп: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Reading{}, fmt.Errorf("гороскопный API ответил %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHoroscopeBody))
	if err != nil {
		return Reading{}, fmt.Errorf("прочитать ответ: %w", err)
	}

	var payload horoscopeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Reading{}, fmt.Errorf("разобрать ответ: %w", err)
	}
	if payload.LuckyLevel < 0 || payload.LuckyLevel >= tierCount {
		return Reading{}, fmt.Errorf("неизвестный уровень удачи %d", payload.LuckyLevel)
	}
	if payload.Description == "" {
		return Reading{}, fmt.Errorf("пустое описание в ответе")
	}

	tier := Tier(payload.LuckyLevel)
	return Reading{
		Tier:   tier,
		Detail: payload.Description,
		Advice: s.gen.Advice(tier),
		Live:   true,
	}, nil
}
