// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Хозяин бота — единственный, кому приходит код закрытия
	OwnerID int64 `envconfig:"OWNER_ID" required:"true"`
	// ID группового чата, в котором работает лавка
	GroupChatID int64 `envconfig:"GROUP_CHAT_ID" required:"true"`
	// VIP-гости: им положено особое приветствие
	VIPIDsRaw string  `envconfig:"VIP_IDS"`
	VIPIDs    []int64 `envconfig:"-"` // заполним вручную

	// --- Данные ---
	// Каталог с JSON-документами (отметки, списки, настройки групп)
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Логи в файл (опционально, ротация через lumberjack) ---
	LogFilePath    string `envconfig:"LOG_FILE_PATH"`
	LogFileMaxSize int    `envconfig:"LOG_FILE_MAX_SIZE_MB" default:"50"`
	LogFileBackups int    `envconfig:"LOG_FILE_BACKUPS" default:"3"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Режимы (начальные значения; админ меняет их на лету,
	// актуальное состояние живёт в runtime_state.json) ---
	PermissionMode bool `envconfig:"PERMISSION_MODE" default:"false"`
	ApproveMode    bool `envconfig:"APPROVE_MODE" default:"false"`

	// --- Закрытие бота ---
	// Фиксированный код подтверждения (8 hex-символов). Если пуст —
	// код генерируется на каждый запрос закрытия.
	ShutdownCode string `envconfig:"SHUTDOWN_CODE"`

	// --- Внешние источники (строго best-effort) ---
	// Страница с «календарём дня». Пусто — живём на локальной генерации.
	AlmanacURL        string        `envconfig:"ALMANAC_URL"`
	AlmanacMarkerFrom string        `envconfig:"ALMANAC_MARKER_FROM" default:"Сегодня благоприятно"`
	AlmanacMarkerTo   string        `envconfig:"ALMANAC_MARKER_TO" default:"неблагоприятно"`
	HoroscopeAPIURL   string        `envconfig:"HOROSCOPE_API_URL"`
	FetchTimeout      time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

func (c *Config) Validate() error {
	if c.OwnerID == 0 {
		return fmt.Errorf("OWNER_ID не задан или равен 0")
	}
	if c.GroupChatID == 0 {
		return fmt.Errorf("GROUP_CHAT_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.ShutdownCode != "" && len(c.ShutdownCode) != 8 {
		return fmt.Errorf("SHUTDOWN_CODE должен быть из 8 символов")
	}
	return nil
}

// IsVIP проверяет, входит ли пользователь в список VIP-гостей.
func (c *Config) IsVIP(userID int64) bool {
	for _, id := range c.VIPIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.VIPIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("VIP_IDS parse: %w", err)
	}
	cfg.VIPIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
