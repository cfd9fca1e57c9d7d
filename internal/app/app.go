// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт хранилище, сервисы, обработчики,
// фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/bot"
	"vorozheya.ru/telegram-bot/internal/bot/filters"
	"vorozheya.ru/telegram-bot/internal/common"
	"vorozheya.ru/telegram-bot/internal/config"
	"vorozheya.ru/telegram-bot/internal/features/almanac"
	"vorozheya.ru/telegram-bot/internal/features/chat"
	"vorozheya.ru/telegram-bot/internal/features/checkin"
	"vorozheya.ru/telegram-bot/internal/features/divination"
	"vorozheya.ru/telegram-bot/internal/features/groupadmin"
	"vorozheya.ru/telegram-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// requestShutdown вызывается после подтверждения кода затвора.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config, requestShutdown func()) (*App, error) {
	loc := common.LoadTimezone(cfg.AppTimezone)

	// === 1. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 2. Хранилище и словарь ===
	checkinRepo := checkin.NewRepository(cfg.DataDir)
	adminRepo := groupadmin.NewRepository(cfg.DataDir)
	vocab, err := groupadmin.LoadVocabulary(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки словаря: %w", err)
	}

	// === 3. Сервисы ===
	checkinService := checkin.NewService(checkinRepo, loc)
	almanacService := almanac.NewService(almanac.Config{
		URL:        cfg.AlmanacURL,
		MarkerFrom: cfg.AlmanacMarkerFrom,
		MarkerTo:   cfg.AlmanacMarkerTo,
		Timeout:    cfg.FetchTimeout,
	}, loc)

	generator, err := divination.NewGenerator(
		divination.DefaultTable, divination.DefaultAdjustments, divination.NewRand())
	if err != nil {
		return nil, fmt.Errorf("ошибка таблицы раскладов: %w", err)
	}
	divinationService := divination.NewService(generator, cfg.HoroscopeAPIURL, cfg.FetchTimeout, loc)

	adminService := groupadmin.NewService(adminRepo, cfg, loc)
	guard := groupadmin.NewShutdownGuard(cfg.ShutdownCode)

	// === 4. Обработчики ===
	checkinHandler := checkin.NewHandler(checkinService, almanacService, botAPI)
	divinationHandler := divination.NewHandler(divinationService, cfg, botAPI)
	chatHandler := chat.NewHandler(cfg, botAPI)
	adminHandler := groupadmin.NewHandler(adminService, guard, vocab, botAPI, requestShutdown)

	// === 5. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.GroupChatID)

	// === 6. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		checkinHandler,
		divinationHandler,
		chatHandler,
		adminHandler,
		chatFilter,
	)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(almanacService, checkinService, cfg.OwnerID, b.SendMessageToUser, loc)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		BotAPI:    botAPI,
	}, nil
}
