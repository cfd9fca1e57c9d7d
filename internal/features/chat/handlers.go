package chat

import (
	"math/rand"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/config"
)

// Handler обрабатывает разговорные команды.
type Handler struct {
	cfg *config.Config
	bot *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик разговорных команд.
func NewHandler(cfg *config.Config, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{cfg: cfg, bot: bot}
}

// HandleAbout обрабатывает команду !салон.
func (h *Handler) HandleAbout(chatID int64) {
	h.sendMessage(chatID, aboutText)
}

// HandleHelp обрабатывает команду !подсказка.
func (h *Handler) HandleHelp(chatID int64) {
	h.sendMessage(chatID, helpText)
}

// HandleCall обрабатывает команду !ворожея.
func (h *Handler) HandleCall(chatID int64) {
	h.sendMessage(chatID, callReplies[rand.Intn(len(callReplies))])
}

// HandleKnock обрабатывает команду !зов.
func (h *Handler) HandleKnock(chatID int64) {
	h.sendMessage(chatID, knockReplies[rand.Intn(len(knockReplies))])
}

// HandleHug обрабатывает команду !обнять. Объятия — привилегия.
func (h *Handler) HandleHug(chatID, userID int64) {
	if h.cfg.IsVIP(userID) || userID == h.cfg.OwnerID {
		h.sendMessage(chatID, hugReply)
		return
	}
	h.sendMessage(chatID, hugDeclineReply)
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
