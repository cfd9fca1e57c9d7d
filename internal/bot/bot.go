// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go подключает обработчики и запускает polling.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/bot/filters"
	"vorozheya.ru/telegram-bot/internal/bot/middleware"
	"vorozheya.ru/telegram-bot/internal/config"
	"vorozheya.ru/telegram-bot/internal/features/chat"
	"vorozheya.ru/telegram-bot/internal/features/checkin"
	"vorozheya.ru/telegram-bot/internal/features/divination"
	"vorozheya.ru/telegram-bot/internal/features/groupadmin"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	checkinHandler    *checkin.Handler
	divinationHandler *divination.Handler
	chatHandler       *chat.Handler
	adminHandler      *groupadmin.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	checkinHandler *checkin.Handler,
	divinationHandler *divination.Handler,
	chatHandler *chat.Handler,
	adminHandler *groupadmin.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:               api,
		cfg:               cfg,
		chatFilter:        chatFilter,
		rateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		checkinHandler:    checkinHandler,
		divinationHandler: divinationHandler,
		chatHandler:       chatHandler,
		adminHandler:      adminHandler,
		parser:            NewCommandParser(),
		inflight:          make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds
	u.AllowedUpdates = []string{"message", "chat_join_request"}

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Лавка открыта, ждём гостей...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.rateLimiter.Close()
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	event := FromUpdate(update)
	if event == nil {
		return
	}

	switch ev := event.(type) {
	case JoinRequestEvent:
		if ev.Request.Chat.ID != b.cfg.GroupChatID {
			return
		}
		b.adminHandler.HandleJoinRequest(ctx, ev.Request)

	case MemberJoinEvent:
		if ev.ChatID != b.cfg.GroupChatID {
			return
		}
		for i := range ev.Members {
			b.adminHandler.HandleMemberJoin(ctx, ev.ChatID, &ev.Members[i])
		}

	case MemberLeaveEvent:
		if ev.ChatID != b.cfg.GroupChatID {
			return
		}
		b.adminHandler.HandleMemberLeave(ctx, ev.ChatID, ev.User)

	case MessageEvent:
		b.handleMessage(ctx, ev.Message)
	}
}

// handleMessage обрабатывает текстовое сообщение.
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	// Логируем входящее
	middleware.LogMessage(message)

	// Проверяем доступ (группа лавки или личка)
	if !b.chatFilter.CheckAccess(ctx, message) {
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	// Изгнанных не слушаем ни в группе, ни в личке
	if b.adminHandler.Service().IsBlacklisted(userID) {
		return
	}

	// В группе сперва запретные слова
	if !message.Chat.IsPrivate() {
		if b.adminHandler.CheckBlockedWords(ctx, message) {
			return
		}
	}

	// В личке — словарь хозяйки
	if message.Chat.IsPrivate() {
		if b.adminHandler.HandleAdminMessage(ctx, userID, message.Text) {
			return
		}
	}

	// Парсим команду
	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	// Rate limiting — только для команд
	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	// Застава: в группе командуют только свои
	if !message.Chat.IsPrivate() && b.adminHandler.Service().PermissionMode() {
		allowed := b.adminHandler.Service().IsAdmin(userID) || b.cfg.IsVIP(userID)
		if !allowed {
			b.adminHandler.ReportUnauthorized(userID, chatID, message.Text)
			return
		}
	}

	b.routeCommand(ctx, chatID, userID, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	settings := b.adminHandler.Service().GroupSettings(b.cfg.GroupChatID)

	switch cmd {
	case "start", "help", "подсказка":
		b.chatHandler.HandleHelp(chatID)

	case "отметка":
		if settings.CheckinEnabled {
			b.checkinHandler.HandleCheckin(ctx, chatID, userID)
		}

	case "история":
		if settings.CheckinEnabled {
			b.checkinHandler.HandleHistory(ctx, chatID, userID)
		}

	case "гадание":
		if settings.DivinationEnabled {
			b.divinationHandler.HandleDivination(ctx, chatID, userID, strings.Join(args, " "))
		} else {
			b.sendMessage(chatID, "🔮 Карты сегодня отдыхают, гадание закрыто.")
		}

	case "салон":
		b.chatHandler.HandleAbout(chatID)

	case "ворожея":
		b.chatHandler.HandleCall(chatID)

	case "зов":
		b.chatHandler.HandleKnock(chatID)

	case "обнять":
		b.chatHandler.HandleHug(chatID, userID)
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessageToUser отправляет личное сообщение (для сводок и уведомлений).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить сообщение")
	}
}

// CommandParser парсит русские команды с префиксами !, . и /
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	text = strings.TrimSpace(text)
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
