package filters

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает сообщения из разрешённой группы и из лички.
// Чужие группы бот игнорирует молча.
type ChatFilter struct {
	groupChatID int64
}

func NewChatFilter(groupChatID int64) *ChatFilter {
	return &ChatFilter{groupChatID: groupChatID}
}

func (f *ChatFilter) CheckAccess(ctx context.Context, message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		log.WithField("component", "ChatFilter").Warn("nil message/chat")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Warn("nil message.From (сервисное сообщение?)")
		return false
	}
	if f.groupChatID == 0 {
		log.WithField("component", "ChatFilter").Error("groupChatID is 0 (config bug)")
		return false
	}

	chatID := message.Chat.ID

	// 1) Разрешённая группа
	if chatID == f.groupChatID {
		return true
	}

	// 2) Личка: словарь хозяйки и личные ответы
	if message.Chat.IsPrivate() {
		return true
	}

	// 3) Остальные чаты игнорируем
	log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   chatID,
		"chat_type": message.Chat.Type,
	}).Debug("deny: чужой чат")
	return false
}
